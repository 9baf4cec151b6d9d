package apu

import "testing"

func TestLengthWriteCounterRequiresEnable(t *testing.T) {
	var l length
	l.writeCounter(0x08) // index 1 -> lengthTable[1] = 254
	if l.counter != 0 {
		t.Fatalf("writeCounter while disabled should not load counter, got %d", l.counter)
	}

	l.setEnable(true)
	l.writeCounter(0x08)
	if l.counter != lengthTable[1] {
		t.Fatalf("counter = %d, want %d", l.counter, lengthTable[1])
	}
}

func TestLengthDisableClearsCounter(t *testing.T) {
	var l length
	l.setEnable(true)
	l.writeCounter(0x08)
	l.setEnable(false)
	if l.counter != 0 {
		t.Errorf("disabling should clear counter, got %d", l.counter)
	}
	if l.active() {
		t.Errorf("disabled channel should not be active")
	}
}

func TestLengthHaltFreezesCounter(t *testing.T) {
	var l length
	l.setEnable(true)
	l.writeHalt(0x20)
	l.writeCounter(0x08)
	before := l.counter
	l.tick()
	if l.counter != before {
		t.Errorf("halted length should not decrement: got %d, want %d", l.counter, before)
	}
}

func TestLengthTicksToZero(t *testing.T) {
	var l length
	l.setEnable(true)
	l.writeCounter(0x08) // index from bits 7..3: 0x08>>3 = 1 -> lengthTable[1] = 254
	for l.counter > 0 {
		l.tick()
	}
	if l.active() {
		t.Errorf("counter reaching 0 should make the channel inactive")
	}
}
