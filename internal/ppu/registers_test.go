package ppu

import "testing"

func TestCtrlAccessors(t *testing.T) {
	c := ctrl(0x00)
	if got := c.nametableBase(); got != 0x2000 {
		t.Errorf("nametableBase() = %#x, want 0x2000", got)
	}
	if got := ctrl(0x03).nametableBase(); got != 0x2C00 {
		t.Errorf("nametableBase(3) = %#x, want 0x2c00", got)
	}
	if ctrl(0x00).vramAddrStep() != 1 {
		t.Errorf("vramAddrStep(bit2=0) should be 1")
	}
	if ctrl(0x04).vramAddrStep() != 32 {
		t.Errorf("vramAddrStep(bit2=1) should be 32")
	}
	if ctrl(0x10).backgroundTable() != 0x1000 {
		t.Errorf("backgroundTable(bit4=1) should be 0x1000")
	}
	if !ctrl(0x80).generateVBlankNMI() {
		t.Errorf("generateVBlankNMI(bit7=1) should be true")
	}
	if ctrl(0x00).generateVBlankNMI() {
		t.Errorf("generateVBlankNMI(bit7=0) should be false")
	}
}

func TestMaskAccessors(t *testing.T) {
	m := mask(0x08 | 0x10)
	if !m.showBackground() || !m.showSprites() {
		t.Errorf("showBackground/showSprites should be true for mask %#x", uint8(m))
	}
	if m.showBackgroundLeft() || m.showSpritesLeft() {
		t.Errorf("left-column bits should be false for mask %#x", uint8(m))
	}
}

func TestWriteAddrByteTogglesLatch(t *testing.T) {
	var latch addrLatch
	var target uint16

	writeAddrByte(&latch, &target, 0x21)
	if latch != latchLow {
		t.Fatalf("first write should leave latch low")
	}
	if target != 0x2100 {
		t.Fatalf("first write should set high byte: got %#04x", target)
	}

	writeAddrByte(&latch, &target, 0x05)
	if latch != latchHigh {
		t.Fatalf("second write should flip latch back to high")
	}
	if target != 0x2105 {
		t.Fatalf("second write should set low byte: got %#04x", target)
	}
}

func TestRegScrollXY(t *testing.T) {
	var r reg
	writeAddrByte(&r.addrLatch, &r.ppuScroll, 0x12) // X
	writeAddrByte(&r.addrLatch, &r.ppuScroll, 0x34) // Y
	if r.scrollX() != 0x12 {
		t.Errorf("scrollX() = %#x, want 0x12", r.scrollX())
	}
	if r.scrollY() != 0x34 {
		t.Errorf("scrollY() = %#x, want 0x34", r.scrollY())
	}
}
