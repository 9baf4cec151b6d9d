package apu

// pulseDutyCycles gives, for each of the four duty settings and each
// of the 8 phase steps, the amplitude transition at that step: -1
// (fall to zero), 0 (no change), or 1 (rise to envelope.volume()).
var pulseDutyCycles = [4][8]int8{
	{0, 1, -1, 0, 0, 0, 0, 0},
	{0, 1, 0, -1, 0, 0, 0, 0},
	{0, 1, 0, 0, 0, -1, 0, 0},
	{0, -1, 0, 1, 0, 0, 0, 0},
}

// pulse is one of the two square-wave channels ($4000-$4003,
// $4004-$4007). Grounded on original_source/src/apu/mod.rs's Pulse.
type pulse struct {
	duty      uint8
	dutyIndex uint8

	envelope envelope
	sweep    sweep
	timer    timer
	length   length
	waveform waveform
}

func newPulse(isPulse2 bool, buf *SampleBuffer) *pulse {
	return &pulse{
		sweep:    newSweep(isPulse2),
		timer:    newTimer(2),
		waveform: newWaveform(buf),
	}
}

func (p *pulse) lengthTick() {
	p.length.tick()
	p.sweep.tick(&p.timer)
}

func (p *pulse) envelopeTick() {
	p.envelope.tick()
}

// play emits amplitude deltas for every duty-cycle transition in
// [fromCyc, toCyc), or a single amplitude-0 delta if the channel is
// currently muted by the sweep or length units.
func (p *pulse) play(fromCyc, toCyc uint32) {
	if !p.sweep.audible() || !p.length.active() {
		p.waveform.setAmplitude(0, fromCyc)
		return
	}

	volume := p.envelope.volume()
	p.timer.forEach(fromCyc, toCyc, func(cyc uint32) {
		p.dutyIndex = (p.dutyIndex + 1) % 8
		switch pulseDutyCycles[p.duty][p.dutyIndex] {
		case -1:
			p.waveform.setAmplitude(0, cyc)
		case 1:
			p.waveform.setAmplitude(volume, cyc)
		}
	})
}

// write decodes a $4000-$4003 (or $4004-$4007) register write.
func (p *pulse) write(idx uint16, val uint8) {
	switch idx % 4 {
	case 0:
		p.duty = val >> 6
		p.length.writeHalt(val)
		p.envelope.write(val)
	case 1:
		p.sweep.write(val)
	case 2:
		p.timer.writeLow(val)
	case 3:
		p.length.writeCounter(val)
		p.timer.writeHigh(val)
		p.envelope.restart()
		p.dutyIndex = 0
	}
}
