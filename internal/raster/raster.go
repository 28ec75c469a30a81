// Package raster implements the drawing primitives that operate on a
// canvas.Canvas: points, lines, shapes, flood fill, blits, and the
// stencil/blend/copy/scan two-surface operations. Every primitive honours
// the canvas's current clipping rectangle and is mediated by its
// shifting/transparency pipeline, mirroring the teacher's
// renderBackgroundLayer/renderSprites per-pixel write-through shape.
package raster

import "nitro-canvas-dx/internal/canvas"

// Point is an integer screen coordinate.
type Point struct{ X, Y int }

// Point1 writes one pixel if it falls inside the clip rectangle.
func Point1(c *canvas.Canvas, p Point, index canvas.Pixel) {
	c.WriteShiftedPixel(p.X, p.Y, index)
}

// Line draws a Bresenham line from a to b inclusive of both endpoints.
func Line(c *canvas.Canvas, a, b Point, index canvas.Pixel) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for {
		c.WriteShiftedPixel(x, y, index)
		if x == b.X && y == b.Y {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// HLine draws a horizontal run of w pixels starting at p.
func HLine(c *canvas.Canvas, p Point, w int, index canvas.Pixel) {
	for x := p.X; x < p.X+w; x++ {
		c.WriteShiftedPixel(x, p.Y, index)
	}
}

// VLine draws a vertical run of h pixels starting at p.
func VLine(c *canvas.Canvas, p Point, h int, index canvas.Pixel) {
	for y := p.Y; y < p.Y+h; y++ {
		c.WriteShiftedPixel(p.X, y, index)
	}
}

// Rectangle draws an outlined or filled axis-aligned rectangle. The
// outlined variant walks the four edges once so no pixel is written twice.
func Rectangle(c *canvas.Canvas, r canvas.Rect, index canvas.Pixel, filled bool) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	if filled {
		for y := r.Y; y < r.Y+r.H; y++ {
			HLine(c, Point{r.X, y}, r.W, index)
		}
		return
	}
	HLine(c, Point{r.X, r.Y}, r.W, index)
	if r.H > 1 {
		HLine(c, Point{r.X, r.Y + r.H - 1}, r.W, index)
	}
	for y := r.Y + 1; y < r.Y+r.H-1; y++ {
		c.WriteShiftedPixel(r.X, y, index)
		if r.W > 1 {
			c.WriteShiftedPixel(r.X+r.W-1, y, index)
		}
	}
}

// Circle draws a midpoint circle, outlined or filled with symmetric hline
// pairs.
func Circle(c *canvas.Canvas, center Point, radius int, index canvas.Pixel, filled bool) {
	if radius <= 0 {
		c.WriteShiftedPixel(center.X, center.Y, index)
		return
	}
	x, y := radius, 0
	err := 1 - radius
	for x >= y {
		if filled {
			HLine(c, Point{center.X - x, center.Y + y}, 2*x+1, index)
			HLine(c, Point{center.X - x, center.Y - y}, 2*x+1, index)
			HLine(c, Point{center.X - y, center.Y + x}, 2*y+1, index)
			HLine(c, Point{center.X - y, center.Y - x}, 2*y+1, index)
		} else {
			plotCircleOctants(c, center, x, y, index)
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

func plotCircleOctants(c *canvas.Canvas, center Point, x, y int, index canvas.Pixel) {
	pts := [8]Point{
		{center.X + x, center.Y + y}, {center.X - x, center.Y + y},
		{center.X + x, center.Y - y}, {center.X - x, center.Y - y},
		{center.X + y, center.Y + x}, {center.X - y, center.Y + x},
		{center.X + y, center.Y - x}, {center.X - y, center.Y - x},
	}
	for _, p := range pts {
		c.WriteShiftedPixel(p.X, p.Y, index)
	}
}

// Triangle draws an outlined or filled triangle. The filled renderer uses a
// top-left fill convention and counter-clockwise winding (vertices given
// in the other order are swapped first); degenerate (zero-area) triangles
// draw nothing.
func Triangle(c *canvas.Canvas, a, b, tc Point, index canvas.Pixel, filled bool) {
	area2 := (b.X-a.X)*(tc.Y-a.Y) - (tc.X-a.X)*(b.Y-a.Y)
	if area2 == 0 {
		return
	}
	if !filled {
		Line(c, a, b, index)
		Line(c, b, tc, index)
		Line(c, tc, a, index)
		return
	}
	if area2 < 0 {
		b, tc = tc, b
	}

	minY := minInt(a.Y, minInt(b.Y, tc.Y))
	maxY := maxInt(a.Y, maxInt(b.Y, tc.Y))
	minX := minInt(a.X, minInt(b.X, tc.X))
	maxX := maxInt(a.X, maxInt(b.X, tc.X))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edge(b, tc, Point{x, y})
			w1 := edge(tc, a, Point{x, y})
			w2 := edge(a, b, Point{x, y})
			if covers(w0, b, tc) && covers(w1, tc, a) && covers(w2, a, b) {
				c.WriteShiftedPixel(x, y, index)
			}
		}
	}
}

func edge(a, b, p Point) int {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// covers applies the top-left rule to one edge of a positively oriented
// triangle: interior pixels pass, and pixels exactly on the edge pass only
// when it is a top or left edge.
func covers(w int, from, to Point) bool {
	if w != 0 {
		return w > 0
	}
	dy := to.Y - from.Y
	return dy < 0 || (dy == 0 && to.X > from.X)
}

// FloodFill performs a 4-connected fill starting at seed, visiting pixels
// one at a time from an explicit stack rather than in scanline spans. The
// initial color is the shifted pixel at seed; a seed outside the clip
// rectangle is a no-op, as is a fill whose seed pixel already equals index.
func FloodFill(c *canvas.Canvas, seed Point, index canvas.Pixel) {
	clip := c.Clip()
	if !clip.Contains(seed.X, seed.Y) {
		return
	}
	target := c.Screen.At(seed.X, seed.Y)
	if target == index {
		return
	}

	stack := []Point{seed}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !clip.Contains(p.X, p.Y) {
			continue
		}
		if c.Screen.At(p.X, p.Y) != target {
			continue
		}
		c.WriteShiftedPixel(p.X, p.Y, index)
		stack = append(stack,
			Point{p.X + 1, p.Y}, Point{p.X - 1, p.Y},
			Point{p.X, p.Y + 1}, Point{p.X, p.Y - 1})
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
