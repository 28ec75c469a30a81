// Package engine drives the fixed-timestep main loop: lag accumulation,
// skippable-frame clamping, fixed-dt updates, alpha-interpolated render,
// and an optional frame-rate cap. Grounded on emulator.Emulator.RunFrame's
// cycle-stepping loop, generalized from CPU-cycle stepping to wall-clock
// lag accounting, and on its FrameLimitEnabled/time.Sleep tail for
// reference_time capping.
package engine

import (
	"time"

	"nitro-canvas-dx/internal/events"
	"nitro-canvas-dx/internal/script"
	"nitro-canvas-dx/internal/telemetry"
)

// Updatable is one of the per-tick subsystems driven inside the fixed-step
// loop (environment, input, display, audio, storage). A non-nil error
// requests engine shutdown at the next step boundary.
type Updatable interface {
	Update(dt float64) error
}

// Config configures a Loop's timing and debug behavior.
type Config struct {
	FPS float64 // logical update rate, e.g. 60

	// FramesLimit caps the wall-clock frame rate; 0 disables the cap.
	FramesLimit float64

	// BreakpointThreshold clamps an abnormally large elapsed time (e.g.
	// resuming from a debugger) back down to dt. Zero disables the clamp.
	BreakpointThreshold time.Duration
}

// Loop owns the fixed-step timing state and the ordered list of subsystems
// it drives every tick.
type Loop struct {
	cfg Config

	dt            float64
	skippableTime float64
	referenceTime float64

	lag     float64
	prev    time.Time
	running bool

	bridge script.Bridge

	environment Updatable
	input       Updatable
	display     Updatable
	audio       Updatable
	storage     Updatable

	envBuf  events.Buffer
	envPrev events.Environment
	pollEnv func() events.Environment

	logger *telemetry.Logger

	now func() time.Time
	sleep func(time.Duration)
}

// New builds a Loop. Any of environment/input/display/audio/storage/bridge
// may be nil, in which case that step is skipped — useful for tests that
// only exercise the timing discipline.
func New(cfg Config, bridge script.Bridge, environment, input, display, audio, storage Updatable, pollEnv func() events.Environment, logger *telemetry.Logger) *Loop {
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	dt := 1.0 / cfg.FPS
	skippableFrames := cfg.FPS / 20
	referenceTime := 0.0
	if cfg.FramesLimit > 0 {
		referenceTime = 1.0 / cfg.FramesLimit
	}
	l := &Loop{
		cfg:           cfg,
		dt:            dt,
		skippableTime: dt * skippableFrames,
		referenceTime: referenceTime,
		bridge:        bridge,
		environment:   environment,
		input:         input,
		display:       display,
		audio:         audio,
		storage:       storage,
		pollEnv:       pollEnv,
		logger:        logger,
		now:           time.Now,
		sleep:         time.Sleep,
	}
	return l
}

// Run starts the loop and blocks, calling Boot once, then Step repeatedly
// until the engine stops or shouldContinue returns false.
func (l *Loop) Run(shouldContinue func() bool) error {
	if l.bridge != nil {
		if err := l.bridge.Boot(); err != nil {
			return err
		}
	}
	l.running = true
	l.prev = l.now()
	for l.running && (shouldContinue == nil || shouldContinue()) {
		if err := l.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Stop requests the loop to halt at the next step boundary.
func (l *Loop) Stop() { l.running = false }

// Step runs exactly one main-loop iteration: poll, process, fixed updates,
// render, present, optional frame-cap sleep.
func (l *Loop) Step() error {
	now := l.now()
	elapsed := now.Sub(l.prev).Seconds()
	if l.cfg.BreakpointThreshold > 0 && now.Sub(l.prev) >= l.cfg.BreakpointThreshold {
		elapsed = l.dt
	}
	l.prev = now

	var evs []string
	if l.pollEnv != nil {
		cur := l.pollEnv()
		l.envBuf.Reset()
		events.Diff(&l.envBuf, l.envPrev, cur)
		l.envPrev = cur
		evs = l.envBuf.Terminated()
	}

	if l.bridge != nil {
		ok, err := l.bridge.Process(evs)
		if err != nil || !ok {
			l.running = false
			return err
		}
	}

	l.lag += elapsed
	if l.lag > l.skippableTime {
		l.lag = l.skippableTime
	}

	for l.lag >= l.dt {
		if !l.runFixedSteps() {
			l.running = false
			return nil
		}
		l.lag -= l.dt
	}

	if l.bridge != nil {
		alpha := l.lag / l.dt
		if err := l.bridge.Render(alpha); err != nil {
			return err
		}
	}

	if l.referenceTime > 0 {
		frameTime := l.now().Sub(now).Seconds()
		remaining := l.referenceTime - frameTime
		if remaining > 0 {
			l.sleep(time.Duration(remaining * float64(time.Second)))
		}
	}

	return nil
}

// runFixedSteps calls Update(dt) on environment, input and display, then
// the script bridge's Update(dt), then audio and storage. A false/error
// from any step is a stop request; steps already run this iteration are
// not undone.
func (l *Loop) runFixedSteps() bool {
	for _, u := range []Updatable{l.environment, l.input, l.display} {
		if u == nil {
			continue
		}
		if err := u.Update(l.dt); err != nil {
			l.warn("subsystem update failed: %v", err)
			return false
		}
	}

	if l.bridge != nil {
		ok, err := l.bridge.Update(l.dt)
		if err != nil || !ok {
			if err != nil {
				l.warn("script update failed: %v", err)
			}
			return false
		}
	}

	for _, u := range []Updatable{l.audio, l.storage} {
		if u == nil {
			continue
		}
		if err := u.Update(l.dt); err != nil {
			l.warn("subsystem update failed: %v", err)
			return false
		}
	}
	return true
}

func (l *Loop) warn(format string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Warnf(telemetry.ComponentEngine, format, args...)
	}
}
