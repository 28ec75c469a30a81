// Package device wraps the audio device's pull callback: it owns the
// portaudio output stream and translates its per-channel callback buffers
// into the interleaved s16 stereo buffer the audio graph mixes into.
// Grounded on the modplayer reference player's portaudio.OpenDefaultStream
// pull loop and doismellburning-samoyed's portaudio device lifecycle.
package device

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"nitro-canvas-dx/internal/telemetry"
)

// Sink is anything that can fill an interleaved s16 stereo buffer on
// demand — satisfied by *audio.AudioGraph's Generate method wrapped in an
// OnDevicePull adapter.
type Sink interface {
	OnDevicePull(out []int16, frames int)
}

// Device owns the portaudio output stream.
type Device struct {
	stream *portaudio.Stream
	sink   Sink
	rate   int
	logger *telemetry.Logger

	scratch []int16
}

// Open initializes portaudio and opens a default stereo output stream at
// rate Hz, pulling from sink. Bootstrap failures here are fatal per §7.
func Open(rate int, sink Sink, logger *telemetry.Logger) (*Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("device: portaudio init: %w", err)
	}
	d := &Device{sink: sink, rate: rate, logger: logger}

	stream, err := portaudio.OpenDefaultStream(0, 2, float64(rate), portaudio.FramesPerBufferUnspecified, d.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("device: open default stream: %w", err)
	}
	d.stream = stream
	return d, nil
}

// callback implements the device callback contract from §6: zero out,
// then call into the graph to accumulate.
func (d *Device) callback(out [][]int16) {
	frames := len(out[0])
	need := frames * 2
	if cap(d.scratch) < need {
		d.scratch = make([]int16, need)
	}
	buf := d.scratch[:need]
	for i := range buf {
		buf[i] = 0
	}

	d.sink.OnDevicePull(buf, frames)

	for i := 0; i < frames; i++ {
		out[0][i] = buf[i*2]
		out[1][i] = buf[i*2+1]
	}
}

// Start begins audio playback.
func (d *Device) Start() error { return d.stream.Start() }

// Stop halts playback without tearing down the stream; safe to call before
// destroying the owning AudioGraph so Generate cannot race.
func (d *Device) Stop() error { return d.stream.Stop() }

// Close stops and releases the stream and terminates portaudio.
func (d *Device) Close() error {
	if err := d.stream.Close(); err != nil {
		return err
	}
	return portaudio.Terminate()
}
