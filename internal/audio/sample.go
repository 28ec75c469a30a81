package audio

import (
	"fmt"
	"sync"

	"nitro-canvas-dx/internal/telemetry"
)

// Sample is a fully in-memory, non-streaming source: the entire decoder
// output is decoded once at construction and then resampled on every pull.
type Sample struct {
	props properties
	mu    sync.Mutex

	frames    []int16 // interleaved, decoder-native channel count
	channels  int
	nativeHz  int
	cursor    int // frame index into frames
	resampler *Resampler
	graph     groupRateProvider
	logger    *telemetry.Logger
}

// MaxSampleFrames is a convenience ~10-minute bound for callers that want a
// sane default without reading configuration. NewSample's maxFrames
// parameter is unbounded when <= 0; callers normally derive their real limit
// from config.Config.AudioMaxSampleSeconds * output rate, since the spec
// leaves the ~10s duration limit as a configurable parameter (see
// DESIGN.md).
const MaxSampleFrames = 48000 * 60 * 10

// NewSample decodes dec fully, rejecting mono-incompatible, zero-length, or
// over-long input per §4.5 and §8's boundary behaviours. graph supplies the
// output rate and group mix lookups.
func NewSample(dec PCMDecoder, graph groupRateProvider, maxFrames int, logger *telemetry.Logger) (*Sample, error) {
	if dec.Channels() != 1 {
		return nil, fmt.Errorf("audio: sample source requires a mono decoder, got %d channels", dec.Channels())
	}
	total := dec.TotalPCMFrameCount()
	if maxFrames > 0 && total > int64(maxFrames) {
		return nil, fmt.Errorf("audio: sample duration %d frames exceeds limit %d", total, maxFrames)
	}

	pcm, err := drainAll(dec)
	if err != nil {
		return nil, err
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("audio: sample source requires non-zero-length input")
	}

	s := &Sample{
		props:     newProperties(),
		frames:    pcm,
		channels:  1,
		nativeHz:  dec.SampleRate(),
		resampler: NewResampler(&memoryDecoder{frames: pcm, channels: 1, rate: dec.SampleRate()}, graph.outputRate()),
		graph:     graph,
		logger:    logger,
	}
	s.onGroupChanged(AnyGroup)
	return s, nil
}

// Update is a no-op for in-memory sample sources.
func (s *Sample) Update(dt float64) error { return nil }

// Generate advances the frame cursor through the resampled buffer,
// rewinding on loop or reporting end-of-data when exhausted.
func (s *Sample) Generate(out []int16, frames int) PullResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	mix, _, _, looped := s.props.snapshot()

	need := frames * 2
	buf := make([]int16, need)
	produced, eof := s.resampler.Stream(buf)

	for i := 0; i < produced; i++ {
		accumulateFrame(out, i*2, int32(buf[i*2]), int32(buf[i*2+1]), mix)
	}

	if eof {
		if looped {
			s.Reset()
			return PullOK
		}
		return PullEndOfData
	}
	return PullOK
}

// Reset rewinds the source to frame 0.
func (s *Sample) Reset() {
	s.resampler = NewResampler(&memoryDecoder{frames: s.frames, channels: s.channels, rate: s.nativeHz}, s.graph.outputRate())
	s.cursor = 0
}

func (s *Sample) onGroupChanged(groupID int) {
	_, _, myGroup, _ := s.props.snapshot()
	if groupID == AnyGroup || groupID == myGroup {
		s.props.recompute(s.graph)
	}
}

func (s *Sample) SetGroup(groupID int)                 { setGroup(&s.props, s.graph, groupID) }
func (s *Sample) SetLooped(looped bool)                { setLooped(&s.props, looped) }
func (s *Sample) SetGain(gain float64)                 { setGain(&s.props, s.graph, gain) }
func (s *Sample) SetMix(m Mix2x2)                      { setMix(&s.props, s.graph, m) }
func (s *Sample) SetPan(law PanLaw, pan float64)       { setPan(&s.props, s.graph, law, pan) }
func (s *Sample) SetBalance(law BalanceLaw, b float64) { setBalance(&s.props, s.graph, law, b) }
func (s *Sample) SetSpeed(v float64) {
	v = clampSpeed(v)
	s.mu.Lock()
	s.resampler.SetSpeed(v)
	s.mu.Unlock()
}

// memoryDecoder adapts an already-decoded in-memory PCM buffer back into a
// PCMDecoder so Sample can reuse the same Resampler plumbing streaming
// sources use, instead of a bespoke in-memory resample path.
type memoryDecoder struct {
	frames   []int16
	channels int
	rate     int
	pos      int
}

func (m *memoryDecoder) ReadPCMFrames(into []int16) (int, error) {
	remaining := (len(m.frames) - m.pos) / m.channels
	want := len(into) / m.channels
	if want > remaining {
		want = remaining
	}
	if want <= 0 {
		return 0, nil
	}
	n := copy(into, m.frames[m.pos:m.pos+want*m.channels])
	m.pos += n
	return n / m.channels, nil
}

func (m *memoryDecoder) SeekToPCMFrame(n int64) error {
	m.pos = int(n) * m.channels
	return nil
}

func (m *memoryDecoder) TotalPCMFrameCount() int64 { return int64(len(m.frames) / m.channels) }
func (m *memoryDecoder) SampleRate() int            { return m.rate }
func (m *memoryDecoder) Channels() int              { return m.channels }
