// Package script defines the calling convention the engine loop uses to
// drive the embedded scripting layer. The interpreter itself is an external
// collaborator, out of scope here; only the four-entry-point shape is kept,
// grounded on corelx.Service's thin delegation wrapper (small struct, no
// internal state, pure pass-through to the real implementation).
package script

// Bridge is implemented by whatever embeds the scripting interpreter. The
// engine loop calls these in a fixed order every tick: Process once per
// iteration before updates, Update zero or more times inside the fixed-step
// loop, Render once after the lag has been consumed, and Boot once before
// the loop starts.
type Bridge interface {
	// Boot runs once before the main loop starts. A non-nil error is a
	// bootstrap failure and aborts startup.
	Boot() error

	// Process is called once per main-loop iteration with the terse
	// symbolic event identifiers collected since the last call. A false
	// return (or an error) stops the engine at the next step boundary.
	Process(events []string) (bool, error)

	// Update advances simulation state by a fixed dt. A false return (or
	// an error) stops the engine at the next step boundary.
	Update(dt float64) (bool, error)

	// Render draws into the frame's Canvas. alpha is lag/dt, the
	// interpolation factor between the last two fixed steps.
	Render(alpha float64) error
}

// NopBridge is a Bridge that does nothing and never stops the engine; it is
// useful as a placeholder while a real interpreter binding is wired in, and
// in tests that only exercise the loop's timing discipline.
type NopBridge struct{}

func (NopBridge) Boot() error                           { return nil }
func (NopBridge) Process(events []string) (bool, error) { return true, nil }
func (NopBridge) Update(dt float64) (bool, error)       { return true, nil }
func (NopBridge) Render(alpha float64) error            { return nil }
