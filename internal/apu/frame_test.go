package apu

import "testing"

func TestWriteFrameDecodesModeAndSuppress(t *testing.T) {
	f := writeFrame(0x80)
	if f.mode != 1 {
		t.Errorf("mode = %d, want 1", f.mode)
	}
	if f.suppressIrq {
		t.Errorf("suppressIrq should be false")
	}

	f2 := writeFrame(0x40)
	if f2.mode != 0 {
		t.Errorf("mode = %d, want 0", f2.mode)
	}
	if !f2.suppressIrq {
		t.Errorf("suppressIrq should be true")
	}
}

func TestNtscTickLengthTableShape(t *testing.T) {
	want0 := [6]uint64{7459, 7456, 7458, 7458, 7458, 0}
	want1 := [6]uint64{1, 7458, 7456, 7458, 7458, 7452}
	if ntscTickLength[0] != want0 {
		t.Errorf("mode 0 table = %v, want %v", ntscTickLength[0], want0)
	}
	if ntscTickLength[1] != want1 {
		t.Errorf("mode 1 table = %v, want %v", ntscTickLength[1], want1)
	}
}
