// Package audio adapts a PortAudio output stream into an apu.AudioSink,
// so the APU core can be driven end-to-end without pulling an audio
// dependency into the core package itself. Grounded on the reference
// UI's buffered-channel stream callback.
package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

const defaultSampleRate = 44100

// Device is an apu.AudioSink backed by the system's default PortAudio
// output stream. Incoming PCM batches are queued on a channel and
// drained by the stream callback; if the callback runs dry it emits
// silence rather than blocking.
type Device struct {
	sampleRate uint32
	stream     *portaudio.Stream
	samples    chan int16
}

// NewDevice opens the default PortAudio output stream at
// defaultSampleRate.
func NewDevice() (*Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio: initialize portaudio: %w", err)
	}
	d := &Device{
		sampleRate: defaultSampleRate,
		samples:    make(chan int16, defaultSampleRate),
	}
	cb := func(out []float32) {
		for i := range out {
			select {
			case x := <-d.samples:
				out[i] = float32(x) / 32768.0
			default:
				out[i] = 0
			}
		}
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(d.sampleRate), 0, cb)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("audio: open default stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("audio: start stream: %w", err)
	}
	d.stream = stream
	return d, nil
}

// SampleRate implements apu.AudioSink.
func (d *Device) SampleRate() uint32 {
	return d.sampleRate
}

// Play implements apu.AudioSink: it enqueues samples for the stream
// callback, dropping any that would overflow the channel rather than
// blocking the caller (the APU's run_to loop must not stall on audio
// backpressure).
func (d *Device) Play(samples []int16) {
	for _, s := range samples {
		select {
		case d.samples <- s:
		default:
		}
	}
}

// Close stops the stream and terminates PortAudio.
func (d *Device) Close() {
	d.stream.Stop()
	d.stream.Close()
	portaudio.Terminate()
}
