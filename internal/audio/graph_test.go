package audio

import "testing"

type stubSource struct {
	updated      int
	groupChanges []int
	endAfter     int
	pulls        int
}

func (s *stubSource) Update(dt float64) error { s.updated++; return nil }

func (s *stubSource) Generate(out []int16, frames int) PullResult {
	s.pulls++
	if s.endAfter > 0 && s.pulls >= s.endAfter {
		return PullEndOfData
	}
	return PullOK
}

func (s *stubSource) Reset() {}

func (s *stubSource) onGroupChanged(groupID int) {
	s.groupChanges = append(s.groupChanges, groupID)
}

func TestTrackIsIdempotent(t *testing.T) {
	g := NewAudioGraph(48000, nil)
	src := &stubSource{}
	g.Track(src)
	g.Track(src)
	if g.CountTracked() != 1 {
		t.Errorf("CountTracked() = %d, want 1 after duplicate track", g.CountTracked())
	}
}

func TestTrackForcesInitialPrecomputation(t *testing.T) {
	g := NewAudioGraph(48000, nil)
	src := &stubSource{}
	g.Track(src)
	if len(src.groupChanges) != 1 || src.groupChanges[0] != AnyGroup {
		t.Errorf("Track should call onGroupChanged(AnyGroup) once, got %v", src.groupChanges)
	}
}

func TestUntrackSwapAndPop(t *testing.T) {
	g := NewAudioGraph(48000, nil)
	a, b, c := &stubSource{}, &stubSource{}, &stubSource{}
	g.Track(a)
	g.Track(b)
	g.Track(c)
	g.Untrack(b)
	if g.CountTracked() != 2 {
		t.Errorf("CountTracked() = %d, want 2", g.CountTracked())
	}
	if g.IsTracked(b) {
		t.Errorf("b should no longer be tracked")
	}
	if !g.IsTracked(a) || !g.IsTracked(c) {
		t.Errorf("untrack should not remove unrelated sources")
	}
}

func TestSetGainBroadcastsChangedGroupID(t *testing.T) {
	g := NewAudioGraph(48000, nil)
	src := &stubSource{}
	g.Track(src)
	src.groupChanges = nil

	g.SetGain(5, 0.5)
	if len(src.groupChanges) != 1 || src.groupChanges[0] != 5 {
		t.Errorf("SetGain should broadcast the changed group id, got %v", src.groupChanges)
	}
}

func TestSetGainOutOfRangeIsNoOp(t *testing.T) {
	g := NewAudioGraph(48000, nil)
	src := &stubSource{}
	g.Track(src)
	src.groupChanges = nil

	g.SetGain(MaxGroups, 0.5)
	if len(src.groupChanges) != 0 {
		t.Errorf("out-of-range SetGain should not broadcast, got %v", src.groupChanges)
	}
}

func TestGenerateRemovesSourcesThatReportEndOfData(t *testing.T) {
	g := NewAudioGraph(48000, nil)
	src := &stubSource{endAfter: 1}
	g.Track(src)

	out := make([]int16, 256)
	g.Generate(out, 64)

	if g.IsTracked(src) {
		t.Errorf("source reporting end-of-data should have been untracked")
	}
}

func TestHaltClearsTrackedList(t *testing.T) {
	g := NewAudioGraph(48000, nil)
	g.Track(&stubSource{})
	g.Track(&stubSource{})
	g.Halt()
	if g.CountTracked() != 0 {
		t.Errorf("Halt should clear the tracked list, got count %d", g.CountTracked())
	}
}
