package audio

import (
	"io"
	"sync"

	"nitro-canvas-dx/internal/telemetry"
)

// SourceKind distinguishes the two streaming source flavours for logging
// and diagnostics; both share the exact same ring-buffered pull discipline.
type SourceKind int

const (
	KindMusic SourceKind = iota
	KindModule
)

// Streaming is a ring-buffered source: a decoder is pulled a chunk at a time
// on Update (main thread) into a ring buffer that Generate (audio thread)
// drains through a resampler. Grounded on drgolem/musictools's
// producer/consumer player shape, generalized from file-to-device streaming
// to engine-mixer streaming.
type Streaming struct {
	props properties
	mu    sync.Mutex

	kind SourceKind
	dec  PCMDecoder
	ring *pcmRing

	chunkFrames int
	completed   bool

	resampler *Resampler
	graph     groupRateProvider
	logger    *telemetry.Logger
}

// NewStreaming builds a streaming source over dec. The ring is sized
// STREAMING_FRAMES ≈ dec's native sample rate, with a pull chunk of about a
// quarter of that, per §4.5.
func NewStreaming(kind SourceKind, dec PCMDecoder, graph groupRateProvider, logger *telemetry.Logger) *Streaming {
	streamingFrames := dec.SampleRate()
	if streamingFrames <= 0 {
		streamingFrames = 44100
	}
	s := &Streaming{
		props:       newProperties(),
		kind:        kind,
		dec:         dec,
		ring:        newPCMRing(streamingFrames),
		chunkFrames: streamingFrames / 4,
		graph:       graph,
		logger:      logger,
	}
	s.resampler = NewResampler(&ringDecoder{ring: s.ring, rate: dec.SampleRate(), channels: dec.Channels()}, graph.outputRate())
	s.onGroupChanged(AnyGroup)
	return s
}

// Update decodes up to one chunk into the ring buffer. End-of-stream either
// rewinds (looped) or sets completed. Overrun is logged and drops the
// partially-decoded chunk; it is not treated as an error.
func (s *Streaming) Update(dt float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return nil
	}

	channels := s.dec.Channels()
	buf := make([]int16, s.chunkFrames*channels)
	produced, err := s.dec.ReadPCMFrames(buf)

	if produced > 0 {
		frames := toStereoFrames(buf[:produced*channels], channels)
		written := s.ring.writeFrames(frames)
		if written*2 < len(frames) && s.logger != nil {
			s.logger.Warnf(telemetry.ComponentAudio, "streaming source: ring buffer overrun, dropped %d frames", produced-written)
		}
	}

	if err != nil || (produced == 0) {
		if err != nil && err != io.EOF && s.logger != nil {
			s.logger.Warnf(telemetry.ComponentAudio, "streaming source: decode error: %v", err)
		}
		_, _, _, looped := s.props.snapshot()
		if looped {
			if serr := s.dec.SeekToPCMFrame(0); serr != nil && s.logger != nil {
				s.logger.Warnf(telemetry.ComponentAudio, "streaming source: rewind failed: %v", serr)
			}
		} else {
			s.completed = true
		}
	}
	return nil
}

// Generate reads through the resampler. An underrun while not yet completed
// stalls (silence, PullOK); an underrun once completed is end-of-data.
func (s *Streaming) Generate(out []int16, frames int) PullResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	mix, _, _, _ := s.props.snapshot()

	buf := make([]int16, frames*2)
	produced, eof := s.resampler.Stream(buf)
	for i := 0; i < produced; i++ {
		accumulateFrame(out, i*2, int32(buf[i*2]), int32(buf[i*2+1]), mix)
	}

	if produced == 0 && eof {
		if s.completed {
			return PullEndOfData
		}
		return PullOK // stall: ring is just momentarily dry
	}
	return PullOK
}

// Reset resets the ring buffer, rewinds the decoder, and clears completed.
func (s *Streaming) Reset() {
	s.ring.reset()
	if err := s.dec.SeekToPCMFrame(0); err != nil && s.logger != nil {
		s.logger.Warnf(telemetry.ComponentAudio, "streaming source: reset seek failed: %v", err)
	}
	s.completed = false
}

func (s *Streaming) onGroupChanged(groupID int) {
	_, _, myGroup, _ := s.props.snapshot()
	if groupID == AnyGroup || groupID == myGroup {
		s.props.recompute(s.graph)
	}
}

func (s *Streaming) SetGroup(groupID int)                 { setGroup(&s.props, s.graph, groupID) }
func (s *Streaming) SetLooped(looped bool)                { setLooped(&s.props, looped) }
func (s *Streaming) SetGain(gain float64)                 { setGain(&s.props, s.graph, gain) }
func (s *Streaming) SetMix(m Mix2x2)                      { setMix(&s.props, s.graph, m) }
func (s *Streaming) SetPan(law PanLaw, pan float64)       { setPan(&s.props, s.graph, law, pan) }
func (s *Streaming) SetBalance(law BalanceLaw, b float64) { setBalance(&s.props, s.graph, law, b) }
func (s *Streaming) SetSpeed(v float64) {
	v = clampSpeed(v)
	s.mu.Lock()
	s.resampler.SetSpeed(v)
	s.mu.Unlock()
}

func toStereoFrames(buf []int16, channels int) []int16 {
	if channels == 2 {
		return buf
	}
	out := make([]int16, len(buf)*2)
	for i, v := range buf {
		out[i*2] = v
		out[i*2+1] = v
	}
	return out
}

// ringDecoder adapts a pcmRing back into a PCMDecoder so Streaming's
// resampler can be built from the same Resampler plumbing Sample uses.
type ringDecoder struct {
	ring     *pcmRing
	rate     int
	channels int
}

func (r *ringDecoder) ReadPCMFrames(into []int16) (int, error) {
	frames := r.ring.readFrames(into)
	return frames, nil
}

func (r *ringDecoder) SeekToPCMFrame(n int64) error { return nil }
func (r *ringDecoder) TotalPCMFrameCount() int64    { return -1 }
func (r *ringDecoder) SampleRate() int              { return r.rate }
func (r *ringDecoder) Channels() int                { return 2 }
