package engine

import (
	"errors"
	"testing"
	"time"

	"nitro-canvas-dx/internal/script"
)

type countingBridge struct {
	script.NopBridge
	updates int
	renders int
	stopAt  int
}

func (b *countingBridge) Update(dt float64) (bool, error) {
	b.updates++
	if b.stopAt > 0 && b.updates >= b.stopAt {
		return false, nil
	}
	return true, nil
}

func (b *countingBridge) Render(alpha float64) error {
	b.renders++
	return nil
}

func newFakeClock(start time.Time, step time.Duration) func() time.Time {
	t := start
	first := true
	return func() time.Time {
		if first {
			first = false
			return t
		}
		t = t.Add(step)
		return t
	}
}

func TestStepAccumulatesLagAndRunsOneFixedUpdate(t *testing.T) {
	bridge := &countingBridge{}
	loop := New(Config{FPS: 60}, bridge, nil, nil, nil, nil, nil, nil, nil)
	loop.now = newFakeClock(time.Now(), 20*time.Millisecond)
	loop.prev = loop.now()

	if err := loop.Step(); err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if bridge.updates != 1 {
		t.Errorf("updates = %d, want 1", bridge.updates)
	}
	if bridge.renders != 1 {
		t.Errorf("renders = %d, want 1", bridge.renders)
	}
}

func TestLagClampsToSkippableTime(t *testing.T) {
	bridge := &countingBridge{}
	loop := New(Config{FPS: 60}, bridge, nil, nil, nil, nil, nil, nil, nil)
	// A huge elapsed time should not cause an unbounded number of fixed
	// updates; skippable_time = dt * (fps/20) = dt*3 at 60fps.
	loop.now = newFakeClock(time.Now(), 10*time.Second)
	loop.prev = loop.now()

	if err := loop.Step(); err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	maxExpected := int(loop.skippableTime/loop.dt) + 1
	if bridge.updates > maxExpected {
		t.Errorf("updates = %d, want at most %d (skippable_time clamp)", bridge.updates, maxExpected)
	}
}

func TestScriptUpdateFalseStopsEngine(t *testing.T) {
	bridge := &countingBridge{stopAt: 1}
	loop := New(Config{FPS: 60}, bridge, nil, nil, nil, nil, nil, nil, nil)
	loop.now = newFakeClock(time.Now(), time.Second)
	loop.prev = loop.now()

	loop.running = true
	_ = loop.Step()
	if loop.running {
		t.Errorf("loop should stop running once script.Update returns false")
	}
}

type erroringSubsystem struct{}

func (erroringSubsystem) Update(dt float64) error { return errors.New("boom") }

func TestSubsystemErrorStopsEngineWithoutPropagatingFromStep(t *testing.T) {
	bridge := &countingBridge{}
	loop := New(Config{FPS: 60}, bridge, erroringSubsystem{}, nil, nil, nil, nil, nil, nil)
	loop.now = newFakeClock(time.Now(), 20*time.Millisecond)
	loop.prev = loop.now()
	loop.running = true

	if err := loop.Step(); err != nil {
		t.Fatalf("Step should not propagate a subsystem error, got %v", err)
	}
	if loop.running {
		t.Errorf("loop should stop running after a subsystem update error")
	}
}

func TestFrameCapSleepsForRemainingTime(t *testing.T) {
	bridge := &countingBridge{}
	loop := New(Config{FPS: 60, FramesLimit: 30}, bridge, nil, nil, nil, nil, nil, nil, nil)
	loop.now = newFakeClock(time.Now(), time.Second/60)
	loop.prev = loop.now()

	var slept time.Duration
	loop.sleep = func(d time.Duration) { slept = d }

	if err := loop.Step(); err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if slept <= 0 {
		t.Errorf("expected a positive sleep duration when under the frame-cap budget, got %v", slept)
	}
}
