package ppu

import (
	"fmt"

	"github.com/golang/glog"

	"nescore/internal/cart"
)

// vramSize is the nametable VRAM backing store size. 4 KiB covers the
// four-screen mirroring case; the 2 KiB topologies only ever address
// the first half, so this is behaviorally identical to a dedicated
// 2 KiB store for them.
const vramSize = 0x1000

// memory is the PPU's memory bus: CHR reads/writes delegate to the
// cartridge, nametable reads/writes go through the mirroring
// translation, and palette writes keep the four background-color
// alias pairs of the 32-entry palette in step (alias-on-write).
type memory struct {
	cart    cart.Cartridge
	vram    [vramSize]uint8
	palette [0x20]Color
}

func newMemory(c cart.Cartridge) *memory {
	return &memory{cart: c}
}

// translate converts a VRAM-space address in [0x2000, 0x3F00) into a
// physical index into vram: idx = a & 0x0FFF,
// nt = idx / 0x400, off = idx % 0x400, physical = table[nt] + off (mod
// vram size).
func (m *memory) translate(addr uint16) int {
	idx := addr & 0x0FFF
	nt := idx / 0x400
	off := idx % 0x400
	table := m.cart.MirrorTable()
	return int(table[nt]+off) % len(m.vram)
}

func (m *memory) read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return m.cart.ChrRead(addr)
	case addr < 0x3F00:
		return m.vram[m.translate(addr)]
	case addr < 0x4000:
		return m.palette[addr&0x1F].Bits()
	default:
		invalidAddress("ppu memory read", addr)
		return 0
	}
}

func (m *memory) write(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.cart.ChrWrite(addr, val)
	case addr < 0x3F00:
		m.vram[m.translate(addr)] = val
	case addr < 0x4000:
		m.writePalette(addr, val)
	default:
		invalidAddress("ppu memory write", addr)
	}
}

// paletteMirror maps each of the four background-color slots to its
// alias slot and back; writing either must update both. Done on write
// since palette is read far more often than written (same rationale
// as original_source/src/ppu/ppu_memory.rs).
var paletteMirror = map[uint8]uint8{
	0x00: 0x10, 0x10: 0x00,
	0x04: 0x14, 0x14: 0x04,
	0x08: 0x18, 0x18: 0x08,
	0x0C: 0x1C, 0x1C: 0x0C,
}

func (m *memory) writePalette(addr uint16, val uint8) {
	idx := uint8(addr & 0x1F)
	c := NewColor(val)
	m.palette[idx] = c
	if mirror, ok := paletteMirror[idx]; ok {
		m.palette[mirror] = c
	}
}

func invalidAddress(op string, addr uint16) {
	msg := fmt.Sprintf("%s: invalid address %#04x", op, addr)
	glog.Errorf(msg)
	panic(msg)
}
