package display

import (
	_ "embed"
	"image/color"
)

// PassthroughSource is the default single post-process shader: a GLSL
// fragment shader that samples the canvas texture unchanged. Carried as an
// on-disk/embedded artifact (the documented effect format a display-effect
// configuration entry points at) per the uniform set below; ShaderFunc is
// the in-process equivalent actually driving the draw-quad pass, since this
// package's GPU context is SDL2's software renderer rather than a raw GL
// pipeline (see package doc).
//
//go:embed effects/passthrough.frag.glsl
var PassthroughSource string

// Uniforms mirrors the fragment shader's uniform block: the canvas texture
// dimensions, the output window's screen size, the integer scale factor
// applied between them, and a free-running clock for time-based effects.
type Uniforms struct {
	TextureSize [2]float32
	ScreenSize  [2]float32
	ScreenScale [2]float32
	Time        float32
}

// ShaderFunc is the single post-process pass applied per output pixel
// during draw-quad. x, y are output (screen-space) coordinates; src is the
// already scaled-up source color at that position.
type ShaderFunc func(u Uniforms, x, y int, src color.RGBA) color.RGBA

// PassThroughShader returns src unchanged, matching PassthroughSource.
func PassThroughShader(u Uniforms, x, y int, src color.RGBA) color.RGBA {
	return src
}
