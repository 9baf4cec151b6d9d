package apu

import "testing"

func TestTimerWriteLowHigh(t *testing.T) {
	var tm timer
	tm.writeLow(0xAB)
	tm.writeHigh(0x07) // only low 3 bits used
	if tm.period != 0x7AB {
		t.Errorf("period = %#x, want 0x7ab", tm.period)
	}
}

func TestTimerAddPeriodShiftClampsAtZero(t *testing.T) {
	tm := newTimer(2)
	tm.period = 5
	tm.addPeriodShift(-10)
	if tm.period != 0 {
		t.Errorf("period = %d, want 0 (clamped)", tm.period)
	}
}

func TestTimerForEachYieldsExpectedEventCount(t *testing.T) {
	tm := newTimer(2)
	tm.period = 0x0F // intervalCycles = (15+1)*2 = 32

	var events []uint32
	tm.forEach(0, 100, func(cyc uint32) {
		events = append(events, cyc)
	})

	want := 100 / 32
	if len(events) != want {
		t.Fatalf("got %d events, want %d", len(events), want)
	}
	for i, cyc := range events {
		expected := uint32(i+1) * 32
		if cyc != expected {
			t.Errorf("event[%d] = %d, want %d", i, cyc, expected)
		}
	}
}

func TestTimerForEachPersistsPhaseAcrossCalls(t *testing.T) {
	tm := newTimer(2)
	tm.period = 0x0F // intervalCycles = 32

	var firstBatch, secondBatch []uint32
	tm.forEach(0, 50, func(cyc uint32) { firstBatch = append(firstBatch, cyc) })
	tm.forEach(50, 100, func(cyc uint32) { secondBatch = append(secondBatch, cyc) })

	var combined []uint32
	combined = append(combined, firstBatch...)
	combined = append(combined, secondBatch...)

	tm2 := newTimer(2)
	tm2.period = 0x0F
	var oneShot []uint32
	tm2.forEach(0, 100, func(cyc uint32) { oneShot = append(oneShot, cyc) })

	if len(combined) != len(oneShot) {
		t.Fatalf("split calls produced %d events, one-shot produced %d", len(combined), len(oneShot))
	}
	for i := range combined {
		if combined[i] != oneShot[i] {
			t.Errorf("event[%d]: split=%d one-shot=%d", i, combined[i], oneShot[i])
		}
	}
}
