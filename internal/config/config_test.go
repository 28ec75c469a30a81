package config

import (
	"strings"
	"testing"
)

func TestParseAppliesSectionedKeys(t *testing.T) {
	src := `
# a leading comment
[system]
identity=my-game
debug=true

[display]
title=Hello World
width=640
height=480
fullscreen=yes
`
	cfg, err := Parse(strings.NewReader(src), Default())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.SystemIdentity != "my-game" {
		t.Errorf("SystemIdentity = %q, want my-game", cfg.SystemIdentity)
	}
	if !cfg.SystemDebug {
		t.Errorf("SystemDebug = false, want true")
	}
	if cfg.DisplayTitle != "Hello World" {
		t.Errorf("DisplayTitle = %q, want %q", cfg.DisplayTitle, "Hello World")
	}
	if cfg.DisplayWidth != 640 || cfg.DisplayHeight != 480 {
		t.Errorf("DisplayWidth/Height = %d/%d, want 640/480", cfg.DisplayWidth, cfg.DisplayHeight)
	}
	if !cfg.DisplayFullscreen {
		t.Errorf("DisplayFullscreen = false, want true")
	}
}

func TestParseIgnoresUnrecognisedKeys(t *testing.T) {
	src := "[mystery]\nfuture-option=123\n"
	cfg, err := Parse(strings.NewReader(src), Default())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.SystemIdentity != Default().SystemIdentity {
		t.Errorf("unrecognised key should not perturb defaults")
	}
}

func TestParseRejectsMalformedLine(t *testing.T) {
	src := "[system]\nnot-a-key-value-line\n"
	if _, err := Parse(strings.NewReader(src), Default()); err == nil {
		t.Errorf("expected an error for a line with no '='")
	}
}

func TestParseClampsSkippableFramesToFPSOverTwenty(t *testing.T) {
	src := "[engine]\nframes-per-seconds=60\nskippable-frames=10\n"
	cfg, err := Parse(strings.NewReader(src), Default())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.EngineSkippableFrames != 3 {
		t.Errorf("EngineSkippableFrames = %d, want 3 (clamped to fps/20)", cfg.EngineSkippableFrames)
	}
}

func TestApplyFlagsOverridesParsedValue(t *testing.T) {
	cfg := Default()
	cfg.DisplayTitle = "from file"

	err := ApplyFlags(cfg, []string{"--display-title=from flag"})
	if err != nil {
		t.Fatalf("ApplyFlags: %v", err)
	}
	if cfg.DisplayTitle != "from flag" {
		t.Errorf("DisplayTitle = %q, want %q", cfg.DisplayTitle, "from flag")
	}
}

func TestApplyFlagsLeavesUnsetKeysAlone(t *testing.T) {
	cfg := Default()
	cfg.DisplayTitle = "from file"

	if err := ApplyFlags(cfg, []string{"--system-debug=true"}); err != nil {
		t.Fatalf("ApplyFlags: %v", err)
	}
	if cfg.DisplayTitle != "from file" {
		t.Errorf("DisplayTitle should be untouched, got %q", cfg.DisplayTitle)
	}
	if !cfg.SystemDebug {
		t.Errorf("SystemDebug should have been overridden to true")
	}
}

func TestConfigFilePathDefaultsToFallback(t *testing.T) {
	path := ConfigFilePath([]string{"--system-debug=true"}, "engine.conf")
	if path != "engine.conf" {
		t.Errorf("path = %q, want fallback %q", path, "engine.conf")
	}
}

func TestConfigFilePathReadsOverride(t *testing.T) {
	path := ConfigFilePath([]string{"-c", "custom.conf"}, "engine.conf")
	if path != "custom.conf" {
		t.Errorf("path = %q, want %q", path, "custom.conf")
	}
}
