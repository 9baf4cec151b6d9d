package apu

// sweep is the pulse-only unit that periodically retunes the pulse
// timer. Grounded on original_source/src/apu/mod.rs's Sweep.
type sweep struct {
	enable bool
	period uint8
	negate bool
	shift  uint8

	isPulse2 bool
	divider  uint8
	reload   bool
}

func newSweep(isPulse2 bool) sweep {
	return sweep{isPulse2: isPulse2}
}

// write decodes $4001/$4005: enable, period, negate, shift, and always
// sets the reload flag.
func (s *sweep) write(val uint8) {
	s.enable = val&0x80 != 0
	s.period = (val >> 4) & 0x07
	s.negate = val&0x08 != 0
	s.shift = val & 0x07
	s.reload = true
}

// tick advances the sweep divider one half-frame, adjusting the pulse
// timer's period when it fires.
func (s *sweep) tick(t *timer) {
	if !s.enable {
		return
	}
	if s.divider > 0 {
		s.divider--
	} else {
		s.divider = s.period
		t.addPeriodShift(s.periodShift(t))
	}
	if s.reload {
		s.divider = s.period
		s.reload = false
	}
}

// periodShift computes the signed period delta: the pulse period
// shifted right by `shift`, negated when the negate bit is set, with
// pulse 2's one's-complement-vs-two's-complement quirk (+1 on negate)
// applied only for the second pulse channel.
func (s *sweep) periodShift(t *timer) int16 {
	shift := int16(t.period) >> s.shift
	if s.negate {
		shift = -shift
		if s.isPulse2 {
			shift++
		}
	}
	return shift
}

// audible always returns true: real hardware mutes under specific
// target-period conditions this core does not model, an approximation
// the hardware itself tolerates (the source's own audible() is the
// same always-true stub).
func (s *sweep) audible() bool {
	return true
}
