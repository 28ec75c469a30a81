package audio

// MaxGroups bounds the number of independently addressable mixer groups.
const MaxGroups = 256

// Group is a single mixer bus: an aggregate gain and a 2x2 stereo mix
// matrix, set directly or synthesised from pan/balance.
type Group struct {
	Gain float64
	Mix  Mix2x2
}

// NewGroup returns a group at unity gain and an identity mix.
func NewGroup() Group {
	return Group{Gain: 1, Mix: IdentityMix()}
}

// groupChangeWatcher is implemented by tracked sources so the graph can
// notify them when a group's mix/gain changes and they must recompute their
// precomputed mix.
type groupChangeWatcher interface {
	onGroupChanged(groupID int)
}

// AnyGroup is the broadcast sentinel passed to onGroupChanged when a source
// should recompute regardless of which group actually changed (used once at
// track time to force initial precomputation).
const AnyGroup = -1
