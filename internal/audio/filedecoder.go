package audio

import (
	"fmt"

	"github.com/drgolem/musictools/pkg/decoders/flac"
	"github.com/drgolem/musictools/pkg/decoders/wav"
	"github.com/drgolem/musictools/pkg/types"
)

// fileDecoder adapts one of drgolem/musictools' pkg/decoders/* decoders
// into the engine's PCMDecoder contract. Decoding WAV/FLAC bytes is an
// external collaborator per §1; this type is the narrow reshape from
// musictools' DecodeSamples(n, []byte) convention to ReadPCMFrames, grounded
// on audioplayer.Player's OpenFile format dispatch.
type fileDecoder struct {
	path     string
	decoder  types.AudioDecoder
	rate     int
	channels int
	bps      int
}

// NewFileDecoder opens path through the musictools decoder matching its
// extension, narrowed to the two file formats §4.5 names (wav, flac).
func NewFileDecoder(path string) (*fileDecoder, error) {
	d, err := openMusictoolsDecoder(path)
	if err != nil {
		return nil, err
	}
	rate, channels, bps := d.GetFormat()
	return &fileDecoder{path: path, decoder: d, rate: rate, channels: channels, bps: bps}, nil
}

func openMusictoolsDecoder(path string) (types.AudioDecoder, error) {
	var d types.AudioDecoder
	switch fileExt(path) {
	case ".wav":
		d = wav.NewDecoder()
	case ".flac", ".fla":
		d = flac.NewDecoder()
	default:
		return nil, fmt.Errorf("audio: unsupported music file extension: %s", path)
	}
	if err := d.Open(path); err != nil {
		return nil, fmt.Errorf("audio: open %s: %w", path, err)
	}
	return d, nil
}

func fileExt(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

// ReadPCMFrames decodes up to len(into)/Channels frames into into,
// reinterpreting musictools' little-endian byte buffer as s16 samples.
func (f *fileDecoder) ReadPCMFrames(into []int16) (int, error) {
	bytesPerSample := f.bps / 8
	frameBytes := bytesPerSample * f.channels
	wantFrames := len(into) / f.channels
	buf := make([]byte, wantFrames*frameBytes)
	n, err := f.decoder.DecodeSamples(wantFrames, buf)
	if n <= 0 {
		return 0, err
	}
	for i := 0; i < n*f.channels; i++ {
		into[i] = decodeSampleLE(buf[i*bytesPerSample:], bytesPerSample)
	}
	return n, err
}

// SeekToPCMFrame only supports rewinding to the start: musictools' decoders
// expose no random-access seek, so anything but 0 reopens the same limits
// a forward-only codec would have.
func (f *fileDecoder) SeekToPCMFrame(n int64) error {
	if n != 0 {
		return fmt.Errorf("audio: file decoder only supports seeking to frame 0")
	}
	if err := f.decoder.Close(); err != nil {
		return err
	}
	d, err := openMusictoolsDecoder(f.path)
	if err != nil {
		return err
	}
	f.decoder = d
	return nil
}

func (f *fileDecoder) TotalPCMFrameCount() int64 { return -1 }
func (f *fileDecoder) SampleRate() int           { return f.rate }
func (f *fileDecoder) Channels() int             { return f.channels }

func decodeSampleLE(b []byte, bytesPerSample int) int16 {
	if bytesPerSample < 2 {
		return int16(b[0])
	}
	// 24/32-bit sources are truncated to the top 16 bits the engine mixes in.
	hi := bytesPerSample - 1
	return int16(uint16(b[hi-1]) | uint16(b[hi])<<8)
}
