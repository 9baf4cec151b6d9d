// Package apu implements the Audio Processing Unit: the five channel
// primitives (pulse x2, triangle, noise, DMC), the frame sequencer
// that clocks their envelopes/length counters and raises IRQs, the
// $4015/$4017 register interface, and the sample buffer that turns
// channel output into PCM for an AudioSink.
package apu

import "nescore/internal/interrupt"

// AudioSink is the external collaborator that consumes resampled PCM
// audio. Implementations live outside this module (see
// internal/audio for a PortAudio-backed reference adapter).
type AudioSink interface {
	SampleRate() uint32
	Play(samples []int16)
}

// APU is the top-level Audio Processing Unit.
type APU struct {
	pulse1   *pulse
	pulse2   *pulse
	triangle *triangle
	noise    *noise
	dmc      *dmc
	frame    frame

	buffer *SampleBuffer
	device AudioSink

	globalCyc       uint64
	tick            uint8
	nextTickCyc     uint64
	nextTransferCyc uint64
	lastFrameCyc    uint64

	irqRequested bool

	jitter jitter
}

// New creates an APU that resamples to device's reported sample rate.
func New(device AudioSink) *APU {
	buf := NewSampleBuffer(device.SampleRate())
	clocksNeeded := uint64(buf.ClocksNeeded())

	return &APU{
		pulse1:   newPulse(false, buf),
		pulse2:   newPulse(true, buf),
		triangle: newTriangle(),
		noise:    newNoise(),
		dmc:      newDMC(),

		buffer: buf,
		device: device,

		nextTickCyc:     ntscTickLength[0][0],
		nextTransferCyc: clocksNeeded,
	}
}

// RunTo advances internal state until globalCyc reaches cpuCycle,
// dispatching channel playback, frame-sequencer ticks, $4017 write
// jitter, and audio transfers as each becomes due. Returns the
// accumulated interrupt result for the whole interval.
func (a *APU) RunTo(cpuCycle uint64) interrupt.Irq {
	result := interrupt.IrqNone

	for a.globalCyc < cpuCycle {
		current := a.globalCyc

		next := cpuCycle
		if a.nextTickCyc < next {
			next = a.nextTickCyc
		}
		if a.nextTransferCyc < next {
			next = a.nextTransferCyc
		}
		if a.jitter.pending && a.jitter.cycle < next {
			next = a.jitter.cycle
		}

		a.play(current, next)
		a.globalCyc = next

		if a.jitter.pending && a.globalCyc == a.jitter.cycle {
			a.commit4017(a.jitter.value)
			a.jitter.pending = false
		}
		if a.globalCyc == a.nextTickCyc {
			result = result.Or(a.tickFrameSequencer())
		}
		if a.globalCyc == a.nextTransferCyc {
			a.transfer()
		}
	}

	return result
}

// RequestedRunCycle reports the cycle at which the external CPU core
// must next call RunTo to preserve IRQ timing: the next frame-sequencer
// tick, since the IRQ fires exactly on a tick boundary.
func (a *APU) RequestedRunCycle() uint64 {
	return a.nextTickCyc
}

// tickFrameSequencer represents the 240Hz divider output: it advances
// the tick index, reschedules nextTickCyc, and dispatches the
// envelope/length/IRQ actions for the current (mode, tick) pair.
func (a *APU) tickFrameSequencer() interrupt.Irq {
	a.tick++
	mode := a.frame.mode
	a.nextTickCyc = a.globalCyc + ntscTickLength[mode][a.tick]

	if mode == 0 {
		switch a.tick {
		case 1:
			a.envelopeTick()
		case 2:
			a.envelopeTick()
			a.lengthTick()
		case 3:
			a.envelopeTick()
		case 4:
			a.tick = 0
			a.envelopeTick()
			a.lengthTick()
			return a.raiseIrq()
		default:
			a.tick = 0
		}
	} else {
		switch a.tick {
		case 1:
			a.envelopeTick()
			a.lengthTick()
		case 2:
			a.envelopeTick()
		case 3:
			a.envelopeTick()
			a.lengthTick()
		case 4:
			a.envelopeTick()
		case 5:
			a.tick = 0
		default:
			a.tick = 0
		}
	}
	return interrupt.IrqNone
}

func (a *APU) envelopeTick() {
	a.pulse1.envelopeTick()
	a.pulse2.envelopeTick()
	a.noise.envelopeTick()
	a.triangle.linearTick()
}

func (a *APU) lengthTick() {
	a.pulse1.lengthTick()
	a.pulse2.lengthTick()
	a.triangle.lengthTick()
	a.noise.lengthTick()
}

func (a *APU) raiseIrq() interrupt.Irq {
	if a.frame.suppressIrq {
		return interrupt.IrqNone
	}
	a.irqRequested = true
	return interrupt.IrqRequested
}

// play forwards the interval, expressed as cycles since lastFrameCyc
// and truncated to 32 bits, to every channel.
func (a *APU) play(fromCyc, toCyc uint64) {
	from := uint32(fromCyc - a.lastFrameCyc)
	to := uint32(toCyc - a.lastFrameCyc)
	a.pulse1.play(from, to)
	a.pulse2.play(from, to)
	a.triangle.play(from, to)
	a.noise.play(from, to)
	a.dmc.play(from, to)
}

// transfer flushes the accumulated sample buffer to the audio device
// and schedules the next transfer.
func (a *APU) transfer() {
	cyc := a.globalCyc
	elapsed := uint32(cyc - a.lastFrameCyc)
	a.lastFrameCyc = cyc

	samples := a.buffer.EndFrame(elapsed)
	a.nextTransferCyc = cyc + uint64(a.buffer.ClocksNeeded())
	a.device.Play(samples)
}

// commit4017 applies a $4017 write's effects: replace the Frame
// register, clear a pending IRQ if suppression is newly set, and
// reschedule the next tick from cycle 0 of the new mode's table.
func (a *APU) commit4017(val uint8) {
	a.frame = writeFrame(val)
	if a.frame.suppressIrq {
		a.irqRequested = false
	}
	a.tick = 0
	a.nextTickCyc = a.globalCyc + ntscTickLength[a.frame.mode][0]
}

// ReadStatus implements the $4015 read: it splits RunTo around the
// target cycle so the read observes state just before the cycle
// completes, then reports and clears irqRequested.
func (a *APU) ReadStatus(cycle uint64) (interrupt.Irq, uint8) {
	result := a.RunTo(cycle - 1)

	var status uint8
	if a.pulse1.length.active() {
		status |= 1 << 0
	}
	if a.pulse2.length.active() {
		status |= 1 << 1
	}
	if a.triangle.length.active() {
		status |= 1 << 2
	}
	if a.noise.length.active() {
		status |= 1 << 3
	}
	if a.irqRequested {
		status |= 1 << 6
	}
	a.irqRequested = false

	return result.Or(a.RunTo(cycle)), status
}

// Write dispatches a CPU write to one of the APU's registers
// ($4000-$4013, $4015, $4017). $4014 (OAM DMA) and $4016 (controller
// strobe) are not APU registers and are ignored here.
func (a *APU) Write(absIdx uint16, val uint8) {
	idx := absIdx % 0x20
	switch {
	case idx <= 0x03:
		a.pulse1.write(idx, val)
	case idx <= 0x07:
		a.pulse2.write(idx-4, val)
	case idx <= 0x0B:
		a.triangle.write(idx-8, val)
	case idx <= 0x0F:
		a.noise.write(idx-0x0C, val)
	case idx <= 0x13:
		a.dmc.write(idx-0x10, val)
	case idx == 0x15:
		a.noise.length.setEnable(val&0x08 != 0)
		a.triangle.length.setEnable(val&0x04 != 0)
		a.pulse2.length.setEnable(val&0x02 != 0)
		a.pulse1.length.setEnable(val&0x01 != 0)
	case idx == 0x17:
		if a.globalCyc%2 == 0 {
			a.commit4017(val)
		} else {
			a.jitter = jitter{pending: true, cycle: a.globalCyc + 1, value: val}
		}
	}
}
