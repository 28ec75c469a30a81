// Command enginerun boots the engine: loads configuration, mounts game
// storage, opens the display and audio device, and drives the fixed-step
// loop until the script bridge or the window requests shutdown.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"nitro-canvas-dx/internal/audio"
	"nitro-canvas-dx/internal/canvas"
	"nitro-canvas-dx/internal/config"
	"nitro-canvas-dx/internal/copper"
	"nitro-canvas-dx/internal/device"
	"nitro-canvas-dx/internal/display"
	"nitro-canvas-dx/internal/engine"
	"nitro-canvas-dx/internal/events"
	"nitro-canvas-dx/internal/script"
	"nitro-canvas-dx/internal/storage"
	"nitro-canvas-dx/internal/telemetry"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "enginerun:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	gamePath := flagString(args, "game", ".", "path to a game directory or a TOFUPAK archive")

	cfg := config.Default()
	configPath := config.ConfigFilePath(args, "config.txt")
	if f, err := os.Open(configPath); err == nil {
		defer f.Close()
		cfg, err = config.Parse(f, cfg)
		if err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	if err := config.ApplyFlags(cfg, args); err != nil {
		return fmt.Errorf("apply flags: %w", err)
	}

	logger := telemetry.New()
	if cfg.SystemDebug {
		logger.SetLevel(log.DebugLevel)
		for _, c := range []telemetry.Component{
			telemetry.ComponentCanvas, telemetry.ComponentRaster, telemetry.ComponentCopper,
			telemetry.ComponentAudio, telemetry.ComponentEngine, telemetry.ComponentScript,
			telemetry.ComponentStorage, telemetry.ComponentArchive, telemetry.ComponentDisplay,
			telemetry.ComponentConfig,
		} {
			logger.SetComponentEnabled(c, true)
		}
	}

	store := storage.New(logger)
	if info, err := os.Stat(gamePath); err == nil && info.IsDir() {
		store.Mount(storage.NewDirMount(gamePath))
	} else {
		f, err := os.Open(gamePath)
		if err != nil {
			return fmt.Errorf("open game path %q: %w", gamePath, err)
		}
		mount, err := storage.NewArchiveMount(f, false)
		if err != nil {
			f.Close()
			return fmt.Errorf("mount archive %q: %w", gamePath, err)
		}
		store.Mount(mount)
	}
	defer store.Unmount()

	cv := canvas.New(int(cfg.DisplayWidth), int(cfg.DisplayHeight), logger)
	list := &copper.List{}

	disp, err := display.New(cfg, int(cfg.DisplayWidth), int(cfg.DisplayHeight), logger)
	if err != nil {
		return fmt.Errorf("open display: %w", err)
	}
	defer disp.Close()

	const outputRate = 48000
	graph := audio.NewAudioGraph(outputRate, logger)

	dev, err := device.Open(outputRate, graph, logger)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	defer dev.Close()
	if err := dev.Start(); err != nil {
		return fmt.Errorf("start audio device: %w", err)
	}
	defer dev.Stop()

	if music := loadMusicSource(gamePath, store, graph, logger); music != nil {
		graph.Track(music)
	}

	rgbaFrame := make([]byte, int(cfg.DisplayWidth)*int(cfg.DisplayHeight)*4)
	convertBuf := make([]canvas.Color, int(cfg.DisplayWidth)*int(cfg.DisplayHeight))

	displayAdapter := &presentAdapter{
		canvas:  cv,
		list:    list,
		display: disp,
		rgba:    rgbaFrame,
		colors:  convertBuf,
	}

	var environment events.Environment
	pollEnv := func() events.Environment { return environment }

	loop := engine.New(
		engine.Config{
			FPS:         float64(cfg.EngineFramesPerSeconds),
			FramesLimit: float64(cfg.EngineFramesLimit),
		},
		script.NopBridge{},
		nil, // environment polling handled via pollEnv
		nil, // input
		displayAdapter,
		graph,
		store,
		pollEnv,
		logger,
	)

	return loop.Run(nil)
}

// presentAdapter drives one Canvas -> copperlist -> RGBA -> Display.Present
// cycle per fixed update, satisfying engine.Updatable.
type presentAdapter struct {
	canvas  *canvas.Canvas
	list    *copper.List
	display *display.Display
	rgba    []byte
	colors  []canvas.Color
}

func (p *presentAdapter) Update(dt float64) error {
	copper.Convert(p.canvas, p.list, p.colors)
	for i, c := range p.colors {
		p.rgba[i*4+0] = c.R
		p.rgba[i*4+1] = c.G
		p.rgba[i*4+2] = c.B
		p.rgba[i*4+3] = c.A
	}
	if err := p.display.UploadSubimage(p.rgba, p.canvas.Screen.Bounds().W*4); err != nil {
		return err
	}
	if err := p.display.Update(dt); err != nil {
		return err
	}
	return p.display.Present()
}

// loadMusicSource looks for a conventional background-music asset and
// returns a looped streaming source ready to track, or nil if none is
// present. "music.xm" is tried first through the mounted storage (so it
// works for both directory and archive games); "music.wav"/"music.flac"
// fall back to a direct filesystem open since musictools' decoders only
// accept an on-disk path, so they are only available for directory games.
func loadMusicSource(gamePath string, store *storage.Storage, graph *audio.AudioGraph, logger *telemetry.Logger) *audio.Streaming {
	if tr, err := store.Open("music.xm"); err == nil {
		dec, err := audio.NewXMDecoder(tr)
		if err != nil {
			logger.Warnf(telemetry.ComponentAudio, "music.xm: %v", err)
			return nil
		}
		s := audio.NewStreaming(audio.KindModule, dec, graph, logger)
		s.SetLooped(true)
		return s
	}

	info, err := os.Stat(gamePath)
	if err != nil || !info.IsDir() {
		return nil
	}
	for _, name := range []string{"music.wav", "music.flac"} {
		full := filepath.Join(gamePath, name)
		if _, err := os.Stat(full); err != nil {
			continue
		}
		dec, err := audio.NewFileDecoder(full)
		if err != nil {
			logger.Warnf(telemetry.ComponentAudio, "%s: %v", name, err)
			continue
		}
		s := audio.NewStreaming(audio.KindMusic, dec, graph, logger)
		s.SetLooped(true)
		return s
	}
	return nil
}

func flagString(args []string, name, fallback, usage string) string {
	fs := pflag.NewFlagSet("enginerun", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	v := fs.String(name, fallback, usage)
	_ = fs.Parse(args)
	return *v
}
