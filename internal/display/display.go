// Package display hosts the window chrome and the GPU-context abstraction
// the spec's external interface describes: create-texture, upload a
// canvas-sized RGBA8 subimage, draw a scaled quad, and apply one
// post-process fragment shader. Grounded on internal/ui/fyne_ui.go's
// FyneUI: a Fyne window hosts a canvas.Image presentation surface, while an
// SDL2 software renderer owns texture creation/upload and the quad blit —
// the same SDL2 role fyne_ui.go gives its sdlRenderer/sdlTexture pair, kept
// off-screen here rather than windowed since Fyne, not SDL, owns the
// visible window.
package display

import (
	"fmt"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"github.com/veandco/go-sdl2/sdl"

	"nitro-canvas-dx/internal/config"
	"nitro-canvas-dx/internal/telemetry"
)

// Display owns the presentation window, the off-screen SDL2 texture
// pipeline, and the active post-process shader.
type Display struct {
	fyneApp fyne.App
	window  fyne.Window
	image   *fynecanvas.Image

	renderer *sdl.Renderer
	surface  *sdl.Surface
	texture  *sdl.Texture

	sourceW, sourceH int
	scale            int
	fullscreen       bool

	shader ShaderFunc
	time   float32

	logger *telemetry.Logger
}

// New creates a Display sized for a sourceW x sourceH canvas, scaled by
// cfg.DisplayScale, with window chrome titled per cfg.DisplayTitle.
func New(cfg *config.Config, sourceW, sourceH int, logger *telemetry.Logger) (*Display, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("display: sdl init: %w", err)
	}

	scale := int(cfg.DisplayScale)
	if scale < 1 {
		scale = 1
	}
	outW, outH := sourceW*scale, sourceH*scale

	surface, err := sdl.CreateRGBSurfaceWithFormat(0, int32(outW), int32(outH), 32, sdl.PIXELFORMAT_RGBA32)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("display: create surface: %w", err)
	}
	renderer, err := sdl.CreateSoftwareRenderer(surface)
	if err != nil {
		surface.Free()
		sdl.Quit()
		return nil, fmt.Errorf("display: create renderer: %w", err)
	}
	texture, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGBA32), sdl.TEXTUREACCESS_STREAMING, int32(sourceW), int32(sourceH))
	if err != nil {
		renderer.Destroy()
		surface.Free()
		sdl.Quit()
		return nil, fmt.Errorf("display: create texture: %w", err)
	}

	fyneApp := app.NewWithID("com.nitro-canvas-dx.engine")
	title := cfg.DisplayTitle
	if title == "" {
		title = "untitled"
	}
	window := fyneApp.NewWindow(title)

	img := image.NewRGBA(image.Rect(0, 0, outW, outH))
	canvasImage := fynecanvas.NewImageFromImage(img)
	canvasImage.FillMode = fynecanvas.ImageFillContain
	window.SetContent(canvasImage)
	window.Resize(fyne.NewSize(float32(outW), float32(outH)))
	window.SetFixedSize(!cfg.DisplayFullscreen)
	window.SetFullScreen(cfg.DisplayFullscreen)

	d := &Display{
		fyneApp:    fyneApp,
		window:     window,
		image:      canvasImage,
		renderer:   renderer,
		surface:    surface,
		texture:    texture,
		sourceW:    sourceW,
		sourceH:    sourceH,
		scale:      scale,
		fullscreen: cfg.DisplayFullscreen,
		shader:     PassThroughShader,
		logger:     logger,
	}
	return d, nil
}

// SetShader installs the single post-process pass applied every Present. A
// nil fn restores PassThroughShader.
func (d *Display) SetShader(fn ShaderFunc) {
	if fn == nil {
		fn = PassThroughShader
	}
	d.shader = fn
}

// Advance moves the shader's u_time uniform forward by dt seconds.
func (d *Display) Advance(dt float64) {
	d.time += float32(dt)
}

// Update satisfies engine.Updatable, advancing u_time once per fixed step.
func (d *Display) Update(dt float64) error {
	d.Advance(dt)
	return nil
}

// UploadSubimage pushes a canvas-sized RGBA8 buffer into the source
// texture. pitch is the source's stride in bytes (width*4 for a tightly
// packed buffer).
func (d *Display) UploadSubimage(rgba []byte, pitch int) error {
	if err := d.texture.Update(nil, rgba, pitch); err != nil {
		return fmt.Errorf("display: upload subimage: %w", err)
	}
	return nil
}

// Present draws the source texture as a single scaled quad filling the
// output surface, applies the active shader per output pixel, and pushes
// the result into the window's presentation image.
func (d *Display) Present() error {
	if err := d.renderer.Clear(); err != nil {
		return fmt.Errorf("display: clear: %w", err)
	}
	if err := d.renderer.Copy(d.texture, nil, nil); err != nil {
		return fmt.Errorf("display: draw quad: %w", err)
	}
	d.renderer.Present()

	outW, outH := d.sourceW*d.scale, d.sourceH*d.scale
	pixels := make([]byte, outW*outH*4)
	if err := d.renderer.ReadPixels(nil, uint32(sdl.PIXELFORMAT_RGBA32), pixels, outW*4); err != nil {
		return fmt.Errorf("display: read pixels: %w", err)
	}

	u := Uniforms{
		TextureSize: [2]float32{float32(d.sourceW), float32(d.sourceH)},
		ScreenSize:  [2]float32{float32(outW), float32(outH)},
		ScreenScale: [2]float32{float32(d.scale), float32(d.scale)},
		Time:        d.time,
	}

	dst := d.image.Image.(*image.RGBA)
	for y := 0; y < outH; y++ {
		row := y * outW * 4
		for x := 0; x < outW; x++ {
			i := row + x*4
			src := color.RGBA{R: pixels[i], G: pixels[i+1], B: pixels[i+2], A: pixels[i+3]}
			out := d.shader(u, x, y, src)
			di := dst.PixOffset(x, y)
			dst.Pix[di+0] = out.R
			dst.Pix[di+1] = out.G
			dst.Pix[di+2] = out.B
			dst.Pix[di+3] = out.A
		}
	}
	d.image.Refresh()
	return nil
}

// Window exposes the underlying Fyne window for callers that need to show
// it or attach close-intent handling.
func (d *Display) Window() fyne.Window { return d.window }

// Close tears down the SDL texture/renderer/surface and quits the SDL
// video subsystem. The Fyne window is left for the caller to close.
func (d *Display) Close() {
	if d.texture != nil {
		d.texture.Destroy()
	}
	if d.renderer != nil {
		d.renderer.Destroy()
	}
	if d.surface != nil {
		d.surface.Free()
	}
	sdl.Quit()
}
