package audio

import (
	"io"

	"nitro-canvas-dx/internal/transport"
)

// SeekWhence and ByteTransport are aliases of the shared transport
// contract, so sources accept storage-mounted, archive, or plain-file
// streams interchangeably.
type SeekWhence = transport.SeekWhence

const (
	SeekSet = transport.SeekSet
	SeekCur = transport.SeekCur
)

// ByteTransport is the abstracted stream a pull decoder reads compressed
// bytes from: storage mounts, archive entries, or a plain os.File all
// satisfy it.
type ByteTransport = transport.ByteTransport

// PCMDecoder is the pull decoder contract: a stream of interleaved frames
// at a fixed rate/channel/format, consumed chunk by chunk by a streaming
// source or loaded wholesale by a sample source.
type PCMDecoder interface {
	// ReadPCMFrames reads up to len(into)/Channels frames, interleaved,
	// returning the number of frames actually produced.
	ReadPCMFrames(into []int16) (framesProduced int, err error)
	SeekToPCMFrame(n int64) error
	TotalPCMFrameCount() int64
	SampleRate() int
	Channels() int
}

// drainAll reads an entire PCMDecoder into memory, used by Sample source
// construction (which decodes the whole input stream up front).
func drainAll(d PCMDecoder) ([]int16, error) {
	var out []int16
	buf := make([]int16, 4096*d.Channels())
	for {
		n, err := d.ReadPCMFrames(buf)
		if n > 0 {
			out = append(out, buf[:n*d.Channels()]...)
		}
		if err != nil {
			if err == io.EOF {
				return out, nil
			}
			return out, err
		}
		if n == 0 {
			return out, nil
		}
	}
}
