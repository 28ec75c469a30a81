package audio

import (
	"fmt"
	"io"

	"github.com/quasilyte/xm"
	"github.com/quasilyte/xm/xmfile"
)

// xmDecoder adapts github.com/quasilyte/xm's tick-based Stream into the
// engine's PCMDecoder contract. Decoding the XM module format is an
// external collaborator per §1; this type is a thin Read()-to-
// ReadPCMFrames() reshape around an already-loaded xm.Stream, the
// KindModule analogue of fileDecoder.
type xmDecoder struct {
	stream  *xm.Stream
	scratch []byte
}

// NewXMDecoder loads an XM module from r and starts a playback stream at
// the library's only supported rate, 44100Hz, per quasilyte/xm's
// LoadModuleConfig docs.
func NewXMDecoder(r io.Reader) (*xmDecoder, error) {
	mod, err := xmfile.Load(r)
	if err != nil {
		return nil, fmt.Errorf("audio: load xm module: %w", err)
	}
	stream := xm.NewStream()
	if err := stream.LoadModule(mod, xm.LoadModuleConfig{SampleRate: 44100}); err != nil {
		return nil, fmt.Errorf("audio: init xm stream: %w", err)
	}
	return &xmDecoder{stream: stream}, nil
}

// ReadPCMFrames pulls whole playback ticks from the Stream and reshapes its
// little-endian stereo byte output into interleaved s16 frames.
func (d *xmDecoder) ReadPCMFrames(into []int16) (int, error) {
	wantFrames := len(into) / 2
	needBytes := wantFrames * 4 // stereo, 2 bytes/sample
	if cap(d.scratch) < needBytes {
		d.scratch = make([]byte, needBytes)
	}
	buf := d.scratch[:needBytes]
	n, err := d.stream.Read(buf)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	frames := n / 4
	for i := 0; i < frames*2; i++ {
		into[i] = int16(uint16(buf[i*2]) | uint16(buf[i*2+1])<<8)
	}
	return frames, err
}

// SeekToPCMFrame only supports rewinding to the start, matching
// Stream.Rewind's reset-to-row-zero semantics; XM modules have no
// general-purpose random access.
func (d *xmDecoder) SeekToPCMFrame(n int64) error {
	if n != 0 {
		return fmt.Errorf("audio: xm decoder only supports seeking to frame 0")
	}
	d.stream.Rewind()
	return nil
}

func (d *xmDecoder) TotalPCMFrameCount() int64 { return -1 }
func (d *xmDecoder) SampleRate() int           { return 44100 }
func (d *xmDecoder) Channels() int             { return 2 }
