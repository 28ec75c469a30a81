package audio

import (
	"encoding/binary"

	"github.com/drgolem/ringbuffer"
)

// pcmRing is a single-producer/single-consumer ring buffer of interleaved
// s16 stereo frames, backed by github.com/drgolem/ringbuffer (the same
// library the reference streaming player uses for its producer/consumer
// discipline). Overrun (no write space) and underrun (no read data) are
// reported to the caller rather than blocking, since the consumer runs on
// the audio thread and must never stall.
type pcmRing struct {
	buf *ringbuffer.RingBuffer
}

const bytesPerStereoFrame = 4 // 2 channels * 2 bytes

// newPCMRing sizes the buffer in frames, matching STREAMING_FRAMES ≈
// source_rate from §4.5.
func newPCMRing(frames int) *pcmRing {
	return &pcmRing{buf: ringbuffer.New(frames * bytesPerStereoFrame)}
}

// writeFrames pushes interleaved s16 stereo frames; returns the number of
// frames actually written (may be less than requested on overrun).
func (r *pcmRing) writeFrames(frames []int16) int {
	raw := make([]byte, len(frames)*2)
	for i, v := range frames {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(v))
	}
	n, err := r.buf.Write(raw)
	if err != nil {
		return n / 2 / 2
	}
	return n / bytesPerStereoFrame
}

// readFrames pulls up to len(out)/2 interleaved stereo frames; returns the
// number of frames actually read.
func (r *pcmRing) readFrames(out []int16) int {
	raw := make([]byte, len(out)*2)
	n, err := r.buf.Read(raw)
	if err != nil || n == 0 {
		return 0
	}
	frames := n / bytesPerStereoFrame
	samples := frames * 2
	for i := 0; i < samples; i++ {
		out[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return frames
}

func (r *pcmRing) reset() {
	for r.buf.AvailableRead() > 0 {
		tmp := make([]byte, r.buf.AvailableRead())
		if _, err := r.buf.Read(tmp); err != nil {
			break
		}
	}
}
