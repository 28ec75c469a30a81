// Package canvas implements the palette-indexed drawing surface: the
// "screen" buffer plus the mutable drawing state (active palette, shifting,
// transparency, clipping, bias, pixel offset) that every rasterizer
// primitive and the copperlist evaluator read and write.
package canvas

import "nitro-canvas-dx/internal/telemetry"

// MaxPaletteSlots bounds the number of independent palette slots a Canvas
// may hold. The spec requires at least 8; 256 matches the audio graph's
// GROUPS_AMOUNT for a round, memorable ceiling.
const MaxPaletteSlots = 256

// Pixel is an 8-bit index into the active palette slot.
type Pixel = uint8

// Color is a 32-bit RGBA quadruple. Alpha is opaque (0xFF) by convention.
type Color struct {
	R, G, B, A uint8
}

// Opaque constructs a Color with A = 0xFF.
func Opaque(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xFF}
}

// Palette is a dense Pixel -> Color mapping with exactly 256 entries.
type Palette [256]Color

// Rect is an axis-aligned, half-open rectangle: [X, X+W) x [Y, Y+H).
type Rect struct {
	X, Y, W, H int
}

// Intersect returns the rectangle intersection of r and other.
func (r Rect) Intersect(other Rect) Rect {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.X+r.W, other.X+other.W)
	y1 := min(r.Y+r.H, other.Y+other.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains reports whether the point (x, y) lies within r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Surface is an owned 2D buffer of Pixel, row-major with stride W.
type Surface struct {
	W, H int
	Data []Pixel
}

// NewSurface allocates a cleared W x H surface. Panics if W or H is not
// positive — the spec requires W>0, H>0 as a construction invariant, not a
// recoverable runtime condition.
func NewSurface(w, h int) *Surface {
	if w <= 0 || h <= 0 {
		panic("canvas: surface dimensions must be positive")
	}
	return &Surface{W: w, H: h, Data: make([]Pixel, w*h)}
}

// At returns the pixel at (x, y) without bounds checking; callers clip first.
func (s *Surface) At(x, y int) Pixel {
	return s.Data[y*s.W+x]
}

// Set writes the pixel at (x, y) without bounds checking; callers clip first.
func (s *Surface) Set(x, y int, p Pixel) {
	s.Data[y*s.W+x] = p
}

// Bounds returns the full-surface rectangle.
func (s *Surface) Bounds() Rect {
	return Rect{X: 0, Y: 0, W: s.W, H: s.H}
}

// state is the mutable drawing-state block captured by push/pop. Kept as a
// plain value type so Push/Pop is a cheap append/pop of a slice, mirroring
// the teacher's stack-based register-block save discipline.
type state struct {
	activeSlot   int
	shifting     [256]Pixel
	transparency [256]bool
	clip         Rect
	bias         int32
	offset       int32
}

func identityState(bounds Rect) state {
	var st state
	for i := range st.shifting {
		st.shifting[i] = Pixel(i)
	}
	st.transparency[0] = true // sensible default: only index 0 is transparent
	st.clip = bounds
	return st
}

// Canvas owns the screen Surface and its mutable drawing state, plus a
// push/pop stack of saved states.
type Canvas struct {
	Screen  *Surface
	Palette [MaxPaletteSlots]Palette

	cur   state
	stack []state

	logger *telemetry.Logger
}

// New creates a Canvas over a freshly allocated W x H screen surface.
func New(w, h int, logger *telemetry.Logger) *Canvas {
	c := &Canvas{
		Screen: NewSurface(w, h),
		logger: logger,
	}
	c.cur = identityState(c.Screen.Bounds())
	return c
}

func (c *Canvas) warn(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warnf(telemetry.ComponentCanvas, format, args...)
	}
}

// ActiveSlot returns the currently active palette slot id.
func (c *Canvas) ActiveSlot() int { return c.cur.activeSlot }

// Clip returns the current clipping rectangle.
func (c *Canvas) Clip() Rect { return c.cur.clip }

// Bias returns the current bias applied before shifting lookup.
func (c *Canvas) Bias() int32 { return c.cur.bias }

// Offset returns the current pixel write offset.
func (c *Canvas) Offset() int32 { return c.cur.offset }

// Shifting returns the pixel this index currently shifts to.
func (c *Canvas) Shifting(p Pixel) Pixel { return c.cur.shifting[p] }

// Transparent reports whether writes of this (post-shifting) index are
// skipped.
func (c *Canvas) Transparent(p Pixel) bool { return c.cur.transparency[p] }

// SetPalette replaces an entire palette slot. Invalid slot ids are a logged
// no-op per the §4.1 failure model.
func (c *Canvas) SetPalette(slot int, colors Palette) {
	if slot < 0 || slot >= MaxPaletteSlots {
		c.warn("SetPalette: invalid slot %d", slot)
		return
	}
	c.Palette[slot] = colors
}

// SetPaletteEntry pokes a single palette entry.
func (c *Canvas) SetPaletteEntry(slot int, p Pixel, color Color) {
	if slot < 0 || slot >= MaxPaletteSlots {
		c.warn("SetPaletteEntry: invalid slot %d", slot)
		return
	}
	c.Palette[slot][p] = color
}

// GetPalette returns a copy of the given slot.
func (c *Canvas) GetPalette(slot int) Palette {
	if slot < 0 || slot >= MaxPaletteSlots {
		c.warn("GetPalette: invalid slot %d", slot)
		return Palette{}
	}
	return c.Palette[slot]
}

// SetActivePalette switches which slot is consulted at present time.
func (c *Canvas) SetActivePalette(slot int) {
	if slot < 0 || slot >= MaxPaletteSlots {
		c.warn("SetActivePalette: invalid slot %d", slot)
		return
	}
	c.cur.activeSlot = slot
}

// ShiftPair is a single (from, to) shifting-table override.
type ShiftPair struct {
	From, To Pixel
}

// SetShifting applies pairs on top of the identity table; omitted entries
// map to themselves, so an empty list restores the identity permutation.
func (c *Canvas) SetShifting(pairs []ShiftPair) {
	c.ResetShifting()
	for _, pr := range pairs {
		c.cur.shifting[pr.From] = pr.To
	}
}

// ResetShifting restores the identity permutation.
func (c *Canvas) ResetShifting() {
	for i := range c.cur.shifting {
		c.cur.shifting[i] = Pixel(i)
	}
}

// TransparencyPair is a single (index, bool) transparency-table override.
type TransparencyPair struct {
	Index       Pixel
	Transparent bool
}

// SetTransparency applies pairs on top of the current table.
func (c *Canvas) SetTransparency(pairs []TransparencyPair) {
	for _, pr := range pairs {
		c.cur.transparency[pr.Index] = pr.Transparent
	}
}

// SetClipping intersects rect with the surface bounds; a nil rect restores
// the full surface.
func (c *Canvas) SetClipping(rect *Rect) {
	if rect == nil {
		c.cur.clip = c.Screen.Bounds()
		return
	}
	c.cur.clip = rect.Intersect(c.Screen.Bounds())
}

// SetBias sets the offset added to a pixel before shifting lookup.
func (c *Canvas) SetBias(bias int32) { c.cur.bias = bias }

// SetOffset sets the destination write offset applied by the copperlist.
func (c *Canvas) SetOffset(offset int32) { c.cur.offset = offset }

// Push saves the full mutable state block.
func (c *Canvas) Push() {
	c.stack = append(c.stack, c.cur)
}

// Pop restores the most recently pushed state block. A pop on an empty
// stack is a logged no-op per §4.1.
func (c *Canvas) Pop() {
	if len(c.stack) == 0 {
		c.warn("Pop: state stack is empty")
		return
	}
	n := len(c.stack) - 1
	c.cur = c.stack[n]
	c.stack = c.stack[:n]
}

// Clear fills the clipped region with index after shifting; transparency is
// ignored since clear is unconditional per §4.1.
func (c *Canvas) Clear(index Pixel) {
	shifted := c.cur.shifting[index]
	clip := c.cur.clip
	for y := clip.Y; y < clip.Y+clip.H; y++ {
		for x := clip.X; x < clip.X+clip.W; x++ {
			c.Screen.Set(x, y, shifted)
		}
	}
}

// WriteShiftedPixel performs the canonical write: bias is added to the raw
// index, the sum is looked up in the shifting table, and the result is
// checked against transparency before the write lands. This mirrors the
// copperlist fast path's `shifting[pixel + bias]` order (§9 Open Questions:
// bias is applied before shift).
func (c *Canvas) WriteShiftedPixel(x, y int, index Pixel) bool {
	if !c.cur.clip.Contains(x, y) {
		return false
	}
	biased := Pixel(int32(index) + c.cur.bias)
	shifted := c.cur.shifting[biased]
	if c.cur.transparency[shifted] {
		return false
	}
	c.Screen.Set(x, y, shifted)
	return true
}
