package apu

// waveform writes a channel's output level into a shared SampleBuffer,
// translating each absolute level into the signed delta the buffer
// actually needs to mix multiple channels into one stream.
type waveform struct {
	buf  *SampleBuffer
	last int16
}

func newWaveform(buf *SampleBuffer) waveform {
	return waveform{buf: buf}
}

// setAmplitude records that, at cycle, the channel's output level
// became value.
func (w *waveform) setAmplitude(value uint8, cycle uint32) {
	v := int16(value)
	w.buf.addDelta(cycle, v-w.last)
	w.last = v
}
