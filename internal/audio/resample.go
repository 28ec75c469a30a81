package audio

import "github.com/gopxl/beep"

// pcmStreamer adapts a PCMDecoder into a beep.Streamer so the per-source
// resampler can be built from github.com/gopxl/beep's Resample, the same
// library the streaming reference player in the pack uses to bridge a
// decoder's native rate to the mixer's output rate.
type pcmStreamer struct {
	dec     PCMDecoder
	scratch []int16
	eof     bool
}

func newPCMStreamer(dec PCMDecoder) *pcmStreamer {
	return &pcmStreamer{dec: dec, scratch: make([]int16, 4096*2)}
}

func (s *pcmStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.eof {
		return 0, false
	}
	channels := s.dec.Channels()
	need := len(samples)
	if cap(s.scratch) < need*channels {
		s.scratch = make([]int16, need*channels)
	}
	buf := s.scratch[:need*channels]
	produced, err := s.dec.ReadPCMFrames(buf)
	for i := 0; i < produced; i++ {
		if channels == 1 {
			v := float64(buf[i]) / 32768
			samples[i][0], samples[i][1] = v, v
		} else {
			l := float64(buf[i*channels]) / 32768
			r := float64(buf[i*channels+1]) / 32768
			samples[i][0], samples[i][1] = l, r
		}
	}
	if err != nil {
		s.eof = true
	}
	return produced, produced > 0
}

func (s *pcmStreamer) Err() error { return nil }

// Resampler wraps a beep.Resample pipeline with a runtime-adjustable speed
// ratio, so set_speed can retune the input/output rate relationship without
// rebuilding the pipeline.
type Resampler struct {
	src      *pcmStreamer
	pipeline *beep.Resampler

	// baseRatio is dec's native rate over outputRate — the conversion
	// beep.Resample itself establishes. The live ratio is always
	// baseRatio * speed; speed alone must never replace it, or the
	// native->output rate conversion is lost.
	baseRatio float64
}

// NewResampler builds a resampler pulling from dec at its native rate and
// producing samples at outputRate, quality 4 (cubic), matching the
// reference player's beep.Resample(4, ...) call.
func NewResampler(dec PCMDecoder, outputRate int) *Resampler {
	src := newPCMStreamer(dec)
	pipeline := beep.Resample(4, beep.SampleRate(dec.SampleRate()), beep.SampleRate(outputRate), src)
	return &Resampler{src: src, pipeline: pipeline, baseRatio: float64(dec.SampleRate()) / float64(outputRate)}
}

// SetSpeed retunes the resample ratio to baseRatio * v, so a speed of 1.0
// preserves the native->output rate conversion instead of discarding it.
func (r *Resampler) SetSpeed(v float64) {
	r.pipeline.SetRatio(r.baseRatio * v)
}

// Stream pulls up to len(out) stereo frames (interleaved s16) through the
// resample pipeline. Returns frames produced and whether the stream is
// exhausted.
func (r *Resampler) Stream(out []int16) (frames int, eof bool) {
	n := len(out) / 2
	buf := make([][2]float64, n)
	produced, ok := r.pipeline.Stream(buf)
	for i := 0; i < produced; i++ {
		out[i*2] = clampS16(buf[i][0] * 32768)
		out[i*2+1] = clampS16(buf[i][1] * 32768)
	}
	return produced, !ok
}
