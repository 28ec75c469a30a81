// Package config parses the engine's key=value configuration file and
// layers command-line overrides on top. The file grammar (bracketed
// sections, #-comments, key=value pairs) is bespoke to this engine, so it
// is parsed by hand with bufio/strings rather than pulled in via a generic
// INI/YAML/TOML library; the override layer reuses the teacher's
// flag-parsing library, github.com/spf13/pflag.
package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Config holds every recognised parameter, defaulted, then overridden by the
// configuration file, then by command-line flags.
type Config struct {
	SystemIdentity    string
	SystemVersion     string
	SystemDebug       bool
	SystemIcon        string
	SystemMappings    string
	SystemQuitOnClose bool

	DisplayTitle        string
	DisplayResolution   string
	DisplayWidth        uint
	DisplayHeight       uint
	DisplayScale        uint
	DisplayFullscreen   bool
	DisplayVerticalSync bool
	DisplayEffect       string

	AudioDeviceIndex      int
	AudioMasterVolume     float64
	AudioMaxSampleSeconds float64

	KeyboardExitKey bool

	CursorEnabled bool
	CursorHide    bool
	CursorSpeed   float64

	ControllerInnerDeadzone float64
	ControllerOuterDeadzone float64

	EngineFramesPerSeconds uint
	EngineSkippableFrames  uint
	EngineFramesLimit      uint
}

// Default returns the built-in defaults applied before a configuration file
// or any flag override is read.
func Default() *Config {
	return &Config{
		SystemIdentity:    "untitled",
		SystemVersion:     "1.0.0",
		SystemQuitOnClose: true,

		DisplayTitle:        "untitled",
		DisplayWidth:        320,
		DisplayHeight:       240,
		DisplayScale:        2,
		DisplayVerticalSync: true,

		AudioDeviceIndex:      -1,
		AudioMasterVolume:     1.0,
		AudioMaxSampleSeconds: 10.0,

		KeyboardExitKey: true,

		CursorEnabled: true,
		CursorSpeed:   1.0,

		ControllerInnerDeadzone: 0.1,
		ControllerOuterDeadzone: 0.9,

		EngineFramesPerSeconds: 60,
		EngineFramesLimit:      0,
	}
}

// fieldSetters maps each recognised fully-qualified key to a setter closure,
// shared by file parsing and flag overrides so both paths apply identical
// coercion rules.
func fieldSetters(c *Config) map[string]func(raw string) error {
	return map[string]func(raw string) error{
		"system-identity":           stringSetter(&c.SystemIdentity),
		"system-version":            stringSetter(&c.SystemVersion),
		"system-debug":              boolSetter(&c.SystemDebug),
		"system-icon":               stringSetter(&c.SystemIcon),
		"system-mappings":           stringSetter(&c.SystemMappings),
		"system-quit-on-close":      boolSetter(&c.SystemQuitOnClose),
		"display-title":             stringSetter(&c.DisplayTitle),
		"display-resolution":        stringSetter(&c.DisplayResolution),
		"display-width":             uintSetter(&c.DisplayWidth),
		"display-height":            uintSetter(&c.DisplayHeight),
		"display-scale":             uintSetter(&c.DisplayScale),
		"display-fullscreen":        boolSetter(&c.DisplayFullscreen),
		"display-vertical-sync":     boolSetter(&c.DisplayVerticalSync),
		"display-effect":            stringSetter(&c.DisplayEffect),
		"audio-device-index":        intSetter(&c.AudioDeviceIndex),
		"audio-master-volume":       floatSetter(&c.AudioMasterVolume),
		"audio-max-sample-seconds":  floatSetter(&c.AudioMaxSampleSeconds),
		"keyboard-exit-key":         boolSetter(&c.KeyboardExitKey),
		"cursor-enabled":            boolSetter(&c.CursorEnabled),
		"cursor-hide":               boolSetter(&c.CursorHide),
		"cursor-speed":              floatSetter(&c.CursorSpeed),
		"controller-inner-deadzone": floatSetter(&c.ControllerInnerDeadzone),
		"controller-outer-deadzone": floatSetter(&c.ControllerOuterDeadzone),
		"engine-frames-per-seconds": uintSetter(&c.EngineFramesPerSeconds),
		"engine-skippable-frames":   uintSetter(&c.EngineSkippableFrames),
		"engine-frames-limit":       uintSetter(&c.EngineFramesLimit),
	}
}

func stringSetter(dst *string) func(string) error {
	return func(raw string) error { *dst = raw; return nil }
}

func boolSetter(dst *bool) func(string) error {
	return func(raw string) error {
		v, err := parseBool(raw)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func intSetter(dst *int) func(string) error {
	return func(raw string) error {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func uintSetter(dst *uint) func(string) error {
	return func(raw string) error {
		v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
		if err != nil {
			return err
		}
		*dst = uint(v)
		return nil
	}
}

func floatSetter(dst *float64) func(string) error {
	return func(raw string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("config: not a boolean: %q", raw)
	}
}

// Parse reads the section/key=value/comment grammar from r, applying
// recognised keys over a copy of the given base Config. Unrecognised keys
// are ignored rather than rejected, so forward-compatible configuration
// files do not break older binaries.
func Parse(r io.Reader, base *Config) (*Config, error) {
	cfg := *base
	setters := fieldSetters(&cfg)

	section := ""
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
			section = strings.TrimSpace(text[1 : len(text)-1])
			continue
		}

		key, value, ok := strings.Cut(text, "=")
		if !ok {
			return nil, fmt.Errorf("config: line %d: expected key=value, got %q", line, text)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		fqName := key
		if section != "" {
			fqName = section + "-" + key
		}

		if setter, known := setters[fqName]; known {
			if err := setter(value); err != nil {
				return nil, fmt.Errorf("config: line %d: %s: %w", line, fqName, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if cfg.EngineFramesPerSeconds > 0 {
		maxSkippable := uint(cfg.EngineFramesPerSeconds / 20)
		if cfg.EngineSkippableFrames > maxSkippable {
			cfg.EngineSkippableFrames = maxSkippable
		}
	}
	return &cfg, nil
}

// Set applies a single fully-qualified key=value pair directly, used by the
// command-line override layer.
func (c *Config) Set(fqName, value string) error {
	setter, known := fieldSetters(c)[fqName]
	if !known {
		return fmt.Errorf("config: unrecognised key %q", fqName)
	}
	return setter(value)
}
