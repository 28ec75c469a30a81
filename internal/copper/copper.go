// Package copper implements the copperlist: a flat program of instructions
// consulted only at Canvas-to-RGBA conversion time, rewriting a working copy
// of shifting/palette/bias/stride state scanline-by-scanline (or, in the
// per-pixel variant, pixel-by-pixel) without ever mutating the canonical
// Canvas. Grounded on the teacher's scanline.go dot-stepping/HDMA rewrite
// discipline, generalized from a single fixed ScrollX table rewrite to an
// arbitrary tagged-union instruction stream.
package copper

import "nitro-canvas-dx/internal/canvas"

// Opcode tags a single copperlist instruction.
type Opcode int

const (
	OpWait Opcode = iota
	OpModulo
	OpOffset
	OpPalette
	OpColor
	OpBias
	OpShift
)

// Instruction is a tagged-union copperlist command. Only the fields relevant
// to Op are meaningful.
type Instruction struct {
	Op Opcode

	// OpWait
	WaitX, WaitY int

	// OpModulo, OpOffset, OpBias
	Value int32

	// OpPalette
	Slot int

	// OpColor
	ColorIndex canvas.Pixel
	Color      canvas.Color

	// OpShift
	ShiftFrom, ShiftTo canvas.Pixel
}

// Wait blocks subsequent instructions until the raster position reaches
// (x, y) in row-major order.
func Wait(x, y int) Instruction { return Instruction{Op: OpWait, WaitX: x, WaitY: y} }

// Modulo adds value to the destination stride for subsequent rows.
func Modulo(value int32) Instruction { return Instruction{Op: OpModulo, Value: value} }

// Offset adds value to the destination write offset for subsequent rows.
func Offset(value int32) Instruction { return Instruction{Op: OpOffset, Value: value} }

// PaletteSwitch switches the palette slot consulted for subsequent pixels.
func PaletteSwitch(slot int) Instruction { return Instruction{Op: OpPalette, Slot: slot} }

// SetColor overwrites one entry of the current working palette.
func SetColor(index canvas.Pixel, color canvas.Color) Instruction {
	return Instruction{Op: OpColor, ColorIndex: index, Color: color}
}

// SetBias sets the bias applied to a pixel before shifting lookup.
func SetBias(value int32) Instruction { return Instruction{Op: OpBias, Value: value} }

// SetShift overrides one entry of the working shifting table.
func SetShift(from, to canvas.Pixel) Instruction {
	return Instruction{Op: OpShift, ShiftFrom: from, ShiftTo: to}
}

// Discipline selects how many instructions may fire per pixel.
type Discipline int

const (
	// While fires every ready instruction before each pixel (the default).
	While Discipline = iota
	// If fires at most one instruction per pixel, for predictable
	// per-pixel cost.
	If
)

// List is a copperlist program plus its evaluation discipline.
type List struct {
	Program    []Instruction
	Discipline Discipline
}

// workingState is the evaluator's mutable copy of the state the copperlist
// is allowed to rewrite. It is seeded from, but never written back into,
// the canonical Canvas.
type workingState struct {
	shifting   [256]canvas.Pixel
	palettes   [canvas.MaxPaletteSlots]canvas.Palette
	activeSlot int
	bias       int32
	offset     int32
	rowModulo  int32
}

// Convert renders c's screen surface through the working palette slots
// using list into dst, one Color per pixel (w*h entries), row-major, tightly
// packed. bias/shifting/palette seed from the Canvas's current state; the
// Canvas itself is read-only throughout.
func Convert(c *canvas.Canvas, list *List, dst []canvas.Color) {
	w, h := c.Screen.W, c.Screen.H
	if list == nil || len(list.Program) == 0 {
		convertFastPath(c, dst)
		return
	}

	ws := workingState{
		palettes:   c.Palette,
		activeSlot: c.ActiveSlot(),
		bias:       c.Bias(),
	}
	for i := 0; i < 256; i++ {
		ws.shifting[i] = c.Shifting(canvas.Pixel(i))
	}

	pc := 0
	waitX, waitY := 0, 0

	ready := func(x, y int) bool {
		return y > waitY || (y == waitY && x >= waitX)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if list.Discipline == While {
				for pc < len(list.Program) && ready(x, y) {
					isWait := list.Program[pc].Op == OpWait
					step(list.Program[pc], &ws, &waitX, &waitY)
					pc++
					if isWait {
						break
					}
				}
			} else {
				if pc < len(list.Program) && ready(x, y) {
					step(list.Program[pc], &ws, &waitX, &waitY)
					pc++
				}
			}

			raw := c.Screen.At(x, y)
			biased := canvas.Pixel(int32(raw) + ws.bias)
			shifted := ws.shifting[biased]
			dstIdx := y*w + x + int(ws.offset)
			if dstIdx >= 0 && dstIdx < len(dst) {
				dst[dstIdx] = ws.palettes[ws.activeSlot][shifted]
			}
		}
		ws.offset += ws.rowModulo
	}
}

// step applies one instruction to ws, updating the wait registers in place
// when the instruction is a Wait.
func step(instr Instruction, ws *workingState, waitX, waitY *int) {
	switch instr.Op {
	case OpWait:
		*waitX, *waitY = instr.WaitX, instr.WaitY
	case OpModulo:
		ws.rowModulo += instr.Value
	case OpOffset:
		ws.offset += instr.Value
	case OpPalette:
		ws.activeSlot = instr.Slot
	case OpColor:
		ws.palettes[ws.activeSlot][instr.ColorIndex] = instr.Color
	case OpBias:
		ws.bias = instr.Value
	case OpShift:
		ws.shifting[instr.ShiftFrom] = instr.ShiftTo
	}
}

// convertFastPath is the tight single-pass converter used when no
// copperlist is installed: it skips the per-pixel program check entirely.
func convertFastPath(c *canvas.Canvas, dst []canvas.Color) {
	w, h := c.Screen.W, c.Screen.H
	pal := c.Palette[c.ActiveSlot()]
	bias := c.Bias()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			raw := c.Screen.At(x, y)
			biased := canvas.Pixel(int32(raw) + bias)
			shifted := c.Shifting(biased)
			dst[y*w+x] = pal[shifted]
		}
	}
}
