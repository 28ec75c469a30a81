package raster

import (
	"math"

	"nitro-canvas-dx/internal/canvas"
)

// clipSrcRect intersects a requested source rectangle with the surface's own
// bounds, mirroring the "clip source first" edge-case policy shared by every
// blit variant.
func clipSrcRect(src *canvas.Surface, rect canvas.Rect) canvas.Rect {
	return rect.Intersect(src.Bounds())
}

// Blit performs a plain copy from src into c's screen at dstPos, clipped to
// both the source surface bounds and the destination clipping rectangle.
// Writes obey shifting and transparency.
func Blit(c *canvas.Canvas, dstPos Point, src *canvas.Surface, srcRect canvas.Rect) {
	r := clipSrcRect(src, srcRect)
	if r.W <= 0 || r.H <= 0 {
		return
	}
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			p := src.At(r.X+x, r.Y+y)
			c.WriteShiftedPixel(dstPos.X+x, dstPos.Y+y, p)
		}
	}
}

// BlitScaled blits src scaled by (sx, sy); negative factors mirror.
// Nearest-neighbour sampling. A zero factor on either axis produces no
// output.
func BlitScaled(c *canvas.Canvas, dstPos Point, src *canvas.Surface, srcRect canvas.Rect, sx, sy float64) {
	if sx == 0 || sy == 0 {
		return
	}
	r := clipSrcRect(src, srcRect)
	if r.W <= 0 || r.H <= 0 {
		return
	}

	outW := int(math.Round(float64(r.W) * math.Abs(sx)))
	outH := int(math.Round(float64(r.H) * math.Abs(sy)))
	if outW <= 0 || outH <= 0 {
		return
	}

	mirrorX := sx < 0
	mirrorY := sy < 0

	for oy := 0; oy < outH; oy++ {
		sampleY := int(float64(oy) / math.Abs(sy))
		if sampleY >= r.H {
			sampleY = r.H - 1
		}
		if mirrorY {
			sampleY = r.H - 1 - sampleY
		}
		for ox := 0; ox < outW; ox++ {
			sampleX := int(float64(ox) / math.Abs(sx))
			if sampleX >= r.W {
				sampleX = r.W - 1
			}
			if mirrorX {
				sampleX = r.W - 1 - sampleX
			}
			p := src.At(r.X+sampleX, r.Y+sampleY)
			c.WriteShiftedPixel(dstPos.X+ox, dstPos.Y+oy, p)
		}
	}
}

// BlitTiled samples src_rect with wrap-around, writing into area at
// dst_pos..dst_pos+area. offset shifts the wrapped read start.
func BlitTiled(c *canvas.Canvas, dstPos Point, src *canvas.Surface, srcRect canvas.Rect, offset Point, area Point) {
	r := clipSrcRect(src, srcRect)
	if r.W <= 0 || r.H <= 0 || area.X <= 0 || area.Y <= 0 {
		return
	}
	for y := 0; y < area.Y; y++ {
		sy := wrap(y+offset.Y, r.H)
		for x := 0; x < area.X; x++ {
			sx := wrap(x+offset.X, r.W)
			p := src.At(r.X+sx, r.Y+sy)
			c.WriteShiftedPixel(dstPos.X+x, dstPos.Y+y, p)
		}
	}
}

func wrap(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

// BlitRotated rotates src_rect by angle radians about the destination
// centre; pixel coverage is computed by inverse mapping. Multiples of 90
// degrees take a fast axis-swap path with no sub-pixel sampling.
func BlitRotated(c *canvas.Canvas, dstPos Point, src *canvas.Surface, srcRect canvas.Rect, sx, sy float64, angle float64) {
	if sx == 0 || sy == 0 {
		return
	}
	r := clipSrcRect(src, srcRect)
	if r.W <= 0 || r.H <= 0 {
		return
	}

	if isAxisAligned(angle) {
		blitRotatedFastPath(c, dstPos, src, r, sx, sy, quarterTurns(angle))
		return
	}

	outW := int(math.Round(float64(r.W) * math.Abs(sx)))
	outH := int(math.Round(float64(r.H) * math.Abs(sy)))
	if outW <= 0 || outH <= 0 {
		return
	}

	cx := float64(outW) / 2
	cy := float64(outH) / 2
	cos, sin := math.Cos(-angle), math.Sin(-angle)

	for oy := 0; oy < outH; oy++ {
		for ox := 0; ox < outW; ox++ {
			dx := float64(ox) - cx
			dy := float64(oy) - cy
			rx := dx*cos - dy*sin
			ry := dx*sin + dy*cos
			sampleX := int(math.Round(rx/sx + float64(r.W)/2))
			sampleY := int(math.Round(ry/sy + float64(r.H)/2))
			if sampleX < 0 || sampleX >= r.W || sampleY < 0 || sampleY >= r.H {
				continue
			}
			p := src.At(r.X+sampleX, r.Y+sampleY)
			c.WriteShiftedPixel(dstPos.X+ox, dstPos.Y+oy, p)
		}
	}
}

func isAxisAligned(angle float64) bool {
	const tau = 2 * math.Pi
	norm := math.Mod(angle, tau)
	if norm < 0 {
		norm += tau
	}
	quarter := math.Pi / 2
	rem := math.Mod(norm, quarter)
	const eps = 1e-9
	return rem < eps || quarter-rem < eps
}

func quarterTurns(angle float64) int {
	const tau = 2 * math.Pi
	norm := math.Mod(angle, tau)
	if norm < 0 {
		norm += tau
	}
	return int(math.Round(norm/(math.Pi/2))) % 4
}

func blitRotatedFastPath(c *canvas.Canvas, dstPos Point, src *canvas.Surface, r canvas.Rect, sx, sy float64, turns int) {
	switch turns {
	case 0:
		BlitScaled(c, dstPos, src, r, sx, sy)
	case 1, 3:
		// 90/270 degree turns swap the output axes.
		outW := int(math.Round(float64(r.H) * math.Abs(sy)))
		outH := int(math.Round(float64(r.W) * math.Abs(sx)))
		for oy := 0; oy < outH; oy++ {
			for ox := 0; ox < outW; ox++ {
				var sampleX, sampleY int
				if turns == 1 {
					sampleX = oy
					sampleY = outW - 1 - ox
				} else {
					sampleX = outH - 1 - oy
					sampleY = ox
				}
				if sampleX < 0 || sampleX >= r.W || sampleY < 0 || sampleY >= r.H {
					continue
				}
				p := src.At(r.X+sampleX, r.Y+sampleY)
				c.WriteShiftedPixel(dstPos.X+ox, dstPos.Y+oy, p)
			}
		}
	case 2:
		outW := int(math.Round(float64(r.W) * math.Abs(sx)))
		outH := int(math.Round(float64(r.H) * math.Abs(sy)))
		for oy := 0; oy < outH; oy++ {
			for ox := 0; ox < outW; ox++ {
				sampleX := outW - 1 - ox
				sampleY := outH - 1 - oy
				if sampleX < 0 || sampleX >= r.W || sampleY < 0 || sampleY >= r.H {
					continue
				}
				p := src.At(r.X+sampleX, r.Y+sampleY)
				c.WriteShiftedPixel(dstPos.X+ox, dstPos.Y+oy, p)
			}
		}
	}
}
