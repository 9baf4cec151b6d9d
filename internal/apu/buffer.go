package apu

import "math"

// cpuClockHz is the NTSC CPU/APU clock rate in cycles per second.
const cpuClockHz = 1789773.0

// ampScale converts a 0-15 envelope volume into a comfortable int16
// range: two pulse channels summed at full volume (15 each) stay well
// inside int16 (2*15*1024 = 30720).
const ampScale = 1024

// delta records a signed change in the shared channel's summed output
// level at a given cycle (relative to the buffer's current frame).
type delta struct {
	cycle uint32
	value int16
}

// SampleBuffer accumulates per-cycle level deltas from the channels
// that share it — pulse1 and pulse2 — and resamples
// the sparse delta stream into a dense, fixed-rate PCM slice on
// EndFrame. The running level is carried across EndFrame calls so
// phase (and any outstanding channel level) survives frame boundaries.
type SampleBuffer struct {
	sampleRate uint32
	deltas     []delta
	level      int16
}

// NewSampleBuffer creates a buffer that will resample to sampleRate.
func NewSampleBuffer(sampleRate uint32) *SampleBuffer {
	return &SampleBuffer{sampleRate: sampleRate}
}

// addDelta records that the summed level changed by value at cycle.
func (b *SampleBuffer) addDelta(cycle uint32, value int16) {
	if value == 0 {
		return
	}
	b.deltas = append(b.deltas, delta{cycle, value})
}

// deltaCount reports the number of recorded level-change events since
// the last EndFrame; exposed for testing the duty-phase invariant
// (duty-cycle phase transitions).
func (b *SampleBuffer) deltaCount() int {
	return len(b.deltas)
}

// ClocksNeeded reports how many CPU cycles of real time must elapse
// before the next flush, so the APU can schedule next_transfer_cyc.
// Batches a fixed number of output samples per transfer.
const samplesPerTransfer = 1024

func (b *SampleBuffer) ClocksNeeded() uint32 {
	return uint32(math.Ceil(cpuClockHz * samplesPerTransfer / float64(b.sampleRate)))
}

// EndFrame converts the accumulated delta stream, spanning `cycles`
// CPU cycles since the last transfer, into a dense PCM slice at the
// device sample rate, then clears the delta stream for the next frame.
func (b *SampleBuffer) EndFrame(cycles uint32) []int16 {
	if cycles == 0 {
		b.deltas = b.deltas[:0]
		return nil
	}
	numSamples := int(math.Round(float64(cycles) * float64(b.sampleRate) / cpuClockHz))
	samples := make([]int16, numSamples)

	level := b.level
	di := 0
	for i := 0; i < numSamples; i++ {
		sampleCyc := uint32(float64(i) * float64(cycles) / float64(numSamples))
		for di < len(b.deltas) && b.deltas[di].cycle <= sampleCyc {
			level += b.deltas[di].value
			di++
		}
		samples[i] = level * ampScale
	}
	for ; di < len(b.deltas); di++ {
		level += b.deltas[di].value
	}

	b.level = level
	b.deltas = b.deltas[:0]
	return samples
}
