package apu

import "testing"

func TestTriangleLinearCounterReload(t *testing.T) {
	tr := newTriangle()
	tr.write(0, 0x50) // control=0, reload value=0x50
	tr.write(3, 0x00) // sets reloadFlag

	tr.linearTick()
	if tr.counter != 0x50 {
		t.Fatalf("counter after reload tick = %#x, want 0x50", tr.counter)
	}

	tr.linearTick()
	if tr.counter != 0x4F {
		t.Errorf("counter after second tick = %#x, want 0x4f", tr.counter)
	}
}

func TestTriangleControlFlagHaltsLengthAndHoldsReload(t *testing.T) {
	tr := newTriangle()
	tr.write(0, 0x80|0x10) // control=1 (halt), reload=0x10
	tr.write(3, 0x00)

	tr.linearTick()
	tr.linearTick()
	if tr.counter != 0x10 {
		t.Errorf("counter with control flag held = %#x, want reload held at 0x10", tr.counter)
	}
}

func TestNoiseWriteRouting(t *testing.T) {
	n := newNoise()
	n.write(0, 0x2F) // halt + envelope bits
	n.write(2, 0x84) // mode + period index
	if !n.mode {
		t.Errorf("mode bit not decoded")
	}
	if n.period != 0x04 {
		t.Errorf("period = %#x, want 0x04", n.period)
	}
}

func TestDMCAcceptsWritesSilently(t *testing.T) {
	d := newDMC()
	d.write(0, 0x11)
	d.write(1, 0x22)
	d.write(2, 0x33)
	d.write(3, 0x44)
	if d.freq != 0x11 || d.direct != 0x22 || d.sampleAddr != 0x33 || d.sampleLength != 0x44 {
		t.Errorf("DMC register fields not stored: %+v", d)
	}
	d.play(0, 100) // must not panic
}
