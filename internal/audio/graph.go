package audio

import (
	"sync"

	"nitro-canvas-dx/internal/telemetry"
)

// AudioGraph owns the fixed group table and the dynamically tracked source
// list, and drives both once per engine tick (Update) and once per device
// pull (Generate). Structural mutation (track/untrack) is main-thread only;
// Generate runs on the audio thread and must not block, per §5.
type AudioGraph struct {
	rate int

	groupsMu sync.RWMutex
	groups   [MaxGroups]Group

	// listMu guards the tracked list itself; held briefly around
	// track/untrack/generate's iteration, never across a source decode.
	listMu  sync.Mutex
	sources []Source

	BalanceLaw BalanceLaw
	PanLaw     PanLaw

	logger *telemetry.Logger
}

// NewAudioGraph creates a graph producing audio at outputRate Hz with every
// group at unity gain/identity mix and the spec's default laws.
func NewAudioGraph(outputRate int, logger *telemetry.Logger) *AudioGraph {
	g := &AudioGraph{
		rate:       outputRate,
		BalanceLaw: DefaultBalanceLaw,
		PanLaw:     DefaultPanLaw,
		logger:     logger,
	}
	for i := range g.groups {
		g.groups[i] = NewGroup()
	}
	return g
}

func (g *AudioGraph) outputRate() int { return g.rate }

func (g *AudioGraph) groupMix(groupID int) (Mix2x2, float64) {
	g.groupsMu.RLock()
	defer g.groupsMu.RUnlock()
	if groupID < 0 || groupID >= MaxGroups {
		return IdentityMix(), 1
	}
	grp := g.groups[groupID]
	return grp.Mix, grp.Gain
}

// SetMix directly overwrites a group's mix matrix.
func (g *AudioGraph) SetMix(groupID int, m Mix2x2) {
	if !g.validGroup(groupID) {
		return
	}
	g.groupsMu.Lock()
	g.groups[groupID].Mix = m
	g.groupsMu.Unlock()
	g.broadcastGroupChanged(groupID)
}

// SetPan synthesises the group's mix from a mono pan law using g.PanLaw.
func (g *AudioGraph) SetPan(groupID int, pan float64) {
	g.SetMix(groupID, PanMatrix(g.PanLaw, pan))
}

// SetBalance synthesises the group's mix from the stereo balance law.
func (g *AudioGraph) SetBalance(groupID int, balance float64) {
	g.SetMix(groupID, BalanceMatrix(g.BalanceLaw, balance))
}

// SetGain updates a group's aggregate gain.
func (g *AudioGraph) SetGain(groupID int, gain float64) {
	if !g.validGroup(groupID) {
		return
	}
	if gain < 0 {
		gain = 0
	}
	g.groupsMu.Lock()
	g.groups[groupID].Gain = gain
	g.groupsMu.Unlock()
	g.broadcastGroupChanged(groupID)
}

func (g *AudioGraph) validGroup(id int) bool {
	if id < 0 || id >= MaxGroups {
		if g.logger != nil {
			g.logger.Warnf(telemetry.ComponentAudio, "invalid group id %d", id)
		}
		return false
	}
	return true
}

func (g *AudioGraph) broadcastGroupChanged(groupID int) {
	g.listMu.Lock()
	sources := append([]Source(nil), g.sources...)
	g.listMu.Unlock()
	for _, src := range sources {
		src.onGroupChanged(groupID)
	}
}

// Track appends source if not already present, forcing initial
// precomputation via the broadcast sentinel.
func (g *AudioGraph) Track(source Source) {
	g.listMu.Lock()
	for _, s := range g.sources {
		if s == source {
			g.listMu.Unlock()
			return
		}
	}
	g.sources = append(g.sources, source)
	g.listMu.Unlock()
	source.onGroupChanged(AnyGroup)
}

// Untrack removes source using swap-and-pop.
func (g *AudioGraph) Untrack(source Source) {
	g.listMu.Lock()
	defer g.listMu.Unlock()
	for i, s := range g.sources {
		if s == source {
			last := len(g.sources) - 1
			g.sources[i] = g.sources[last]
			g.sources = g.sources[:last]
			return
		}
	}
}

// IsTracked reports whether source is currently tracked.
func (g *AudioGraph) IsTracked(source Source) bool {
	g.listMu.Lock()
	defer g.listMu.Unlock()
	for _, s := range g.sources {
		if s == source {
			return true
		}
	}
	return false
}

// CountTracked returns the number of tracked sources.
func (g *AudioGraph) CountTracked() int {
	g.listMu.Lock()
	defer g.listMu.Unlock()
	return len(g.sources)
}

// Halt clears the tracked list. Must be called only after the audio device
// is stopped so Generate cannot race with it, per §5's teardown discipline.
func (g *AudioGraph) Halt() {
	g.listMu.Lock()
	g.sources = nil
	g.listMu.Unlock()
}

// Update calls every tracked source's Update(dt). A source update failure
// is logged and treated as a request to stop the engine.
func (g *AudioGraph) Update(dt float64) error {
	g.listMu.Lock()
	sources := append([]Source(nil), g.sources...)
	g.listMu.Unlock()
	for _, s := range sources {
		if err := s.Update(dt); err != nil {
			if g.logger != nil {
				g.logger.Errorf(telemetry.ComponentAudio, "source update failed: %v", err)
			}
			return err
		}
	}
	return nil
}

// OnDevicePull implements the device callback contract from §6: the caller
// (internal/device) has already zeroed out before invoking this.
func (g *AudioGraph) OnDevicePull(out []int16, frames int) {
	g.Generate(out, frames)
}

// Generate sums every tracked source's output into out, which the caller
// must zero beforehand. Sources are visited in reverse order so a source
// that reports end-of-data can be swap-and-popped in the same pass, per
// §4.4. Output is order-independent up to saturation since addition is
// commutative.
func (g *AudioGraph) Generate(out []int16, frames int) {
	g.listMu.Lock()
	defer g.listMu.Unlock()

	for i := len(g.sources) - 1; i >= 0; i-- {
		result := g.sources[i].Generate(out, frames)
		if result == PullEndOfData {
			last := len(g.sources) - 1
			g.sources[i] = g.sources[last]
			g.sources = g.sources[:last]
		}
	}
}
