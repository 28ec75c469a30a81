package audio

import "sync"

// PullResult is returned by a source's Generate call.
type PullResult int

const (
	// PullOK means the source produced data for the window (a stalled
	// streaming source that produced silence still returns PullOK).
	PullOK PullResult = iota
	// PullEndOfData means the source is exhausted and not looped; the
	// graph must untrack it.
	PullEndOfData
)

// MinSpeed and MaxSpeed bound set_speed, matching the spec's
// min_rate/max_rate guidance (~0.02 lower bound).
const (
	MinSpeed = 0.02
	MaxSpeed = 32.0
)

// groupRateProvider is the slice of AudioGraph a source needs: its output
// sample rate and a group's current mix/gain.
type groupRateProvider interface {
	outputRate() int
	groupMix(groupID int) (Mix2x2, float64)
}

// properties is the single-writer, multiple-reader block the audio thread
// consults every pull. It is guarded by a mutex held only for the brief
// read/write, never across a decode, per the spec's publication discipline.
type properties struct {
	mu sync.Mutex

	groupID int
	looped  bool
	gain    float64
	speed   float64

	// exactly one of these describes the source's own mix contribution.
	sourceMix Mix2x2

	precomputed Mix2x2
}

func newProperties() properties {
	return properties{
		groupID:   0,
		gain:      1,
		speed:     1,
		sourceMix: IdentityMix(),
	}
}

func (p *properties) snapshot() (Mix2x2, float64, int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.precomputed, p.speed, p.groupID, p.looped
}

func (p *properties) recompute(graph groupRateProvider) {
	p.mu.Lock()
	defer p.mu.Unlock()
	groupMix, groupGain := graph.groupMix(p.groupID)
	p.precomputed = p.sourceMix.Compose(groupMix).Scale(p.gain * groupGain)
}

// Source is the common interface the graph drives: tracked sources are
// updated once per engine tick and pulled once per device callback.
type Source interface {
	Update(dt float64) error
	Generate(out []int16, frames int) PullResult
	Reset()

	onGroupChanged(groupID int)
}

// setGroup reassigns the source's group and forces recomputation.
func setGroup(p *properties, graph groupRateProvider, groupID int) {
	p.mu.Lock()
	p.groupID = groupID
	p.mu.Unlock()
	p.recompute(graph)
}

func setLooped(p *properties, looped bool) {
	p.mu.Lock()
	p.looped = looped
	p.mu.Unlock()
}

func setGain(p *properties, graph groupRateProvider, gain float64) {
	if gain < 0 {
		gain = 0
	}
	p.mu.Lock()
	p.gain = gain
	p.mu.Unlock()
	p.recompute(graph)
}

// clampSpeed enforces the spec's set_speed lower/upper bound.
func clampSpeed(v float64) float64 {
	if v < MinSpeed {
		return MinSpeed
	}
	if v > MaxSpeed {
		return MaxSpeed
	}
	return v
}

// setMix, setPan, and setBalance are mutually exclusive
// overwrites of the same source-side 2x2 matrix.
func setMix(p *properties, graph groupRateProvider, m Mix2x2) {
	p.mu.Lock()
	p.sourceMix = m
	p.mu.Unlock()
	p.recompute(graph)
}

func setPan(p *properties, graph groupRateProvider, law PanLaw, pan float64) {
	setMix(p, graph, PanMatrix(law, pan))
}

func setBalance(p *properties, graph groupRateProvider, law BalanceLaw, balance float64) {
	setMix(p, graph, BalanceMatrix(law, balance))
}

// accumulateFrame performs the clamped s16 accumulation described in
// §4.4: out += in * m, saturating at int16 bounds.
func accumulateFrame(out []int16, outIdx int, inL, inR int32, m Mix2x2) {
	l := float64(out[outIdx]) + float64(inL)*m.LL + float64(inR)*m.RL
	r := float64(out[outIdx+1]) + float64(inL)*m.LR + float64(inR)*m.RR
	out[outIdx] = clampS16(l)
	out[outIdx+1] = clampS16(r)
}

func clampS16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
