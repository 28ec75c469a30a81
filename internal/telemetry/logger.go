// Package telemetry provides the engine's centralized, component-tagged
// logger. It keeps the shape of a retro-engine debug logger (per-component
// enable flags, level filtering, formatted convenience methods) but is
// backed by a real structured logging library instead of a hand-rolled
// channel and ring buffer.
package telemetry

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Component identifies which subsystem produced a log entry.
type Component string

const (
	ComponentCanvas  Component = "canvas"
	ComponentRaster  Component = "raster"
	ComponentCopper  Component = "copper"
	ComponentAudio   Component = "audio"
	ComponentEngine  Component = "engine"
	ComponentScript  Component = "script"
	ComponentStorage Component = "storage"
	ComponentArchive Component = "archive"
	ComponentDisplay Component = "display"
	ComponentConfig  Component = "config"
)

// Logger wraps a charmbracelet/log.Logger with per-component opt-in gating,
// mirroring the teacher's debug.Logger component-enable map.
type Logger struct {
	backend *log.Logger

	mu      sync.RWMutex
	enabled map[Component]bool
}

// New creates a Logger writing to stderr. All components start disabled,
// matching the teacher's "logging is opt-in" default.
func New() *Logger {
	backend := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		ReportCaller:    false,
	})
	return &Logger{
		backend: backend,
		enabled: make(map[Component]bool),
	}
}

// SetComponentEnabled toggles logging for one component.
func (l *Logger) SetComponentEnabled(c Component, enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled[c] = enabled
}

// IsComponentEnabled reports whether a component currently logs.
func (l *Logger) IsComponentEnabled(c Component) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled[c]
}

// SetLevel sets the minimum severity level that reaches the backend.
func (l *Logger) SetLevel(level log.Level) {
	l.backend.SetLevel(level)
}

func (l *Logger) log(c Component, level log.Level, msg string) {
	if !l.IsComponentEnabled(c) {
		return
	}
	l.backend.With("component", string(c)).Log(level, msg)
}

// Logf logs a formatted message for one component at the given level.
func (l *Logger) Logf(c Component, level log.Level, format string, args ...interface{}) {
	l.log(c, level, fmt.Sprintf(format, args...))
}

// Debugf, Infof, Warnf, Errorf are per-component convenience wrappers.
func (l *Logger) Debugf(c Component, format string, args ...interface{}) {
	l.Logf(c, log.DebugLevel, format, args...)
}

func (l *Logger) Infof(c Component, format string, args ...interface{}) {
	l.Logf(c, log.InfoLevel, format, args...)
}

func (l *Logger) Warnf(c Component, format string, args ...interface{}) {
	l.Logf(c, log.WarnLevel, format, args...)
}

func (l *Logger) Errorf(c Component, format string, args ...interface{}) {
	l.Logf(c, log.ErrorLevel, format, args...)
}
