// Package ppu implements the Picture Processing Unit: its memory map,
// its eight CPU-visible MMIO registers, and the per-dot scanline
// renderer that produces a background framebuffer and NMI.
package ppu

import (
	"nescore/internal/cart"
	"nescore/internal/interrupt"
)

const (
	screenWidth  = 256
	screenHeight = 240
)

// FrameBuffer is one completed frame of background pixels.
type FrameBuffer [screenWidth * screenHeight]Color

// Screen is the output sink a completed frame is handed to at vblank
// start. Borrows the buffer for the duration of the call only.
type Screen interface {
	Draw(buf *FrameBuffer)
}

// PPU is the NES Picture Processing Unit (2C02): registers, memory
// bus, OAM, and the scanline/dot clock that drives rendering.
type PPU struct {
	reg reg
	oam oam
	mem *memory

	screen Screen
	fb     FrameBuffer

	globalCyc uint64
	cyc       int
	sl        int
	frame     uint64
}

// New creates a PPU wired to the given cartridge and screen sink.
// sl starts at -1 (pre-render).
func New(c cart.Cartridge, screen Screen) *PPU {
	return &PPU{
		mem:    newMemory(c),
		screen: screen,
		sl:     -1,
	}
}

// incrPPUAddr advances ppuAddr by the CTRL-selected step (1 or 32),
// wrapping mod 0x10000.
func (p *PPU) incrPPUAddr() {
	p.reg.ppuAddr += p.reg.ctrl.vramAddrStep()
}

// ReadRegister services a CPU read of $2000-$2007 (mirrored every 8
// bytes up to $3FFF).
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr % 8 {
	case 0, 1, 3, 5, 6:
		return p.reg.dynLatch
	case 2:
		res := uint8(p.reg.stat&0xE0) | (p.reg.dynLatch & 0x1F)
		p.reg.stat &^= statVBlank
		p.reg.addrLatch = latchHigh
		return res
	case 4:
		res := p.oam.read(p.reg.oamAddr)
		p.reg.oamAddr++
		return res
	default: // 7
		res := p.mem.read(p.reg.ppuAddr)
		p.incrPPUAddr()
		return res
	}
}

// WriteRegister services a CPU write of $2000-$2007 (mirrored every 8
// bytes up to $3FFF). Every write, regardless of
// target, updates dynLatch first.
func (p *PPU) WriteRegister(addr uint16, val uint8) {
	p.reg.dynLatch = val
	switch addr % 8 {
	case 0:
		p.reg.ctrl = ctrl(val)
	case 1:
		p.reg.mask = mask(val)
	case 2:
		// PPUSTATUS is read-only; writes are ignored.
	case 3:
		p.reg.oamAddr = val
	case 4:
		p.oam.write(p.reg.oamAddr, val)
		p.reg.oamAddr++
	case 5:
		writeAddrByte(&p.reg.addrLatch, &p.reg.ppuScroll, val)
	case 6:
		writeAddrByte(&p.reg.addrLatch, &p.reg.ppuAddr, val)
	default: // 7
		p.mem.write(p.reg.ppuAddr, val)
		p.incrPPUAddr()
	}
}

// RunTo advances the PPU clock one dot at a time until its internal
// master-cycle counter reaches 3*cpuCycle, matching the PPU's 3x CPU
// clock rate. Calling with a non-increasing cpuCycle is a no-op.
func (p *PPU) RunTo(cpuCycle uint64) interrupt.Step {
	hitNMI := false
	for p.globalCyc < cpuCycle*3 {
		p.tickCycle()
		if p.runCycle() {
			hitNMI = true
		}
	}
	if hitNMI {
		return interrupt.StepNMI
	}
	return interrupt.StepContinue
}

func (p *PPU) tickCycle() {
	p.globalCyc++
	p.cyc++
	if p.cyc == 341 {
		p.cyc = 0
		p.sl++
		if p.sl == 261 {
			p.sl = -1
			p.frame++
		}
	}
}

// runCycle executes the per-dot action for the current (cyc, sl) and
// reports whether it raised an NMI.
func (p *PPU) runCycle() bool {
	switch {
	case p.sl == -1:
		return false // pre-render: no pixel output (minimum spec)
	case p.sl >= 0 && p.sl <= 239 && p.cyc >= 1 && p.cyc <= 256:
		p.renderPixel(p.cyc-1, p.sl)
		return false
	case p.cyc == 1 && p.sl == 241:
		return p.startVBlank()
	default:
		return false
	}
}

func (p *PPU) renderPixel(x, y int) {
	p.fb[y*screenWidth+x] = p.backgroundPixel(uint16(x), uint16(y))
}

// startVBlank implements the (1, 241) dot: set VBLANK and report NMI
// iff CTRL requests it. The framebuffer push to the screen sink is
// skipped on the very first frame, whose contents are undefined.
func (p *PPU) startVBlank() bool {
	p.reg.stat |= statVBlank
	if p.frame > 0 {
		p.screen.Draw(&p.fb)
	}
	return p.reg.ctrl.generateVBlankNMI()
}

// backgroundPixel computes the background color at screen coordinates
// (x, y) via the seven-step background pixel algorithm.
func (p *PPU) backgroundPixel(screenX, screenY uint16) Color {
	x := screenX + uint16(p.reg.scrollX())
	y := screenY + uint16(p.reg.scrollY())

	nametableAddr := p.nametableAddr(x, y)
	tileID := p.mem.read(nametableAddr)

	tileTable := p.reg.ctrl.backgroundTable()
	fineY := y & 7
	lo, hi := p.readTilePattern(tileID, fineY, tileTable)
	colorID := colorInPattern(lo, hi, x&7)

	attrAddr := p.attributeAddr(x, y)
	attrByte := p.mem.read(attrAddr)
	paletteID := paletteFromAttribute(attrByte, x, y)

	return p.readPalette(paletteID, colorID)
}

func (p *PPU) nametableAddr(x, y uint16) uint16 {
	return p.reg.ctrl.nametableBase() + (y/8)*32 + x/8
}

func (p *PPU) readTilePattern(tileID uint8, fineY, tileTable uint16) (lo, hi uint8) {
	base := tileTable | (uint16(tileID) << 4) | fineY
	return p.mem.read(base), p.mem.read(base | 8)
}

func colorInPattern(lo, hi uint8, fineX uint16) uint8 {
	shift := 7 - fineX
	loBit := (lo >> shift) & 1
	hiBit := (hi >> shift) & 1
	return loBit | hiBit<<1
}

func (p *PPU) attributeAddr(x, y uint16) uint16 {
	return p.reg.ctrl.nametableBase() + 0x3C0 + (y/32)*8 + x/32
}

func paletteFromAttribute(attr uint8, x, y uint16) uint8 {
	shift := uint(0)
	if y&0x10 != 0 {
		shift += 4
	}
	if x&0x10 != 0 {
		shift += 2
	}
	return (attr >> shift) & 0x03
}

func (p *PPU) readPalette(paletteID, colorID uint8) Color {
	offset := (paletteID << 2) | colorID
	return NewColor(p.mem.read(0x3F00 + uint16(offset)))
}
