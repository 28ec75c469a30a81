package canvas

import "testing"

func TestSetPaletteRoundTrip(t *testing.T) {
	c := New(4, 1, nil)
	var pal Palette
	pal[0] = Opaque(0, 0, 0)
	pal[1] = Opaque(255, 0, 0)
	c.SetPalette(0, pal)

	got := c.GetPalette(0)
	if got[1] != pal[1] {
		t.Errorf("GetPalette(0)[1] = %+v, want %+v", got[1], pal[1])
	}
}

func TestSetPaletteInvalidSlotIsNoOp(t *testing.T) {
	c := New(4, 1, nil)
	before := c.GetPalette(0)
	var pal Palette
	pal[0] = Opaque(1, 2, 3)
	c.SetPalette(MaxPaletteSlots, pal)
	after := c.GetPalette(0)
	if before != after {
		t.Errorf("out-of-range SetPalette mutated slot 0")
	}
}

func TestClippingOutsideUnchanged(t *testing.T) {
	c := New(10, 10, nil)
	rect := Rect{X: 2, Y: 2, W: 5, H: 5}
	c.SetClipping(&rect)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c.Screen.Set(x, y, 9)
		}
	}

	c.WriteShiftedPixel(0, 0, 5) // outside clip
	if c.Screen.At(0, 0) != 9 {
		t.Errorf("write outside clip rectangle mutated pixel: got %d, want 9", c.Screen.At(0, 0))
	}

	c.WriteShiftedPixel(3, 3, 5) // inside clip
	if c.Screen.At(3, 3) != 5 {
		t.Errorf("write inside clip rectangle did not land: got %d, want 5", c.Screen.At(3, 3))
	}
}

func TestPushPopRestoresStateBlock(t *testing.T) {
	c := New(4, 4, nil)
	c.SetActivePalette(3)
	c.SetBias(7)
	rect := Rect{X: 1, Y: 1, W: 2, H: 2}
	c.SetClipping(&rect)

	c.Push()

	c.SetActivePalette(1)
	c.SetBias(-2)
	c.SetClipping(nil)

	c.Pop()

	if c.ActiveSlot() != 3 {
		t.Errorf("ActiveSlot() after pop = %d, want 3", c.ActiveSlot())
	}
	if c.Bias() != 7 {
		t.Errorf("Bias() after pop = %d, want 7", c.Bias())
	}
	if c.Clip() != rect {
		t.Errorf("Clip() after pop = %+v, want %+v", c.Clip(), rect)
	}
}

func TestPopOnEmptyStackIsNoOp(t *testing.T) {
	c := New(4, 4, nil)
	c.SetBias(5)
	c.Pop() // must not panic
	if c.Bias() != 5 {
		t.Errorf("Pop on empty stack changed state: Bias() = %d, want 5", c.Bias())
	}
}

func TestTransparentWriteIsSkipped(t *testing.T) {
	c := New(4, 4, nil)
	c.Screen.Set(0, 0, 42)
	// index 0 is transparent by default
	c.WriteShiftedPixel(0, 0, 0)
	if c.Screen.At(0, 0) != 42 {
		t.Errorf("transparent write mutated pixel: got %d, want 42", c.Screen.At(0, 0))
	}
}

func TestShiftingIdentityByDefault(t *testing.T) {
	c := New(4, 4, nil)
	c.WriteShiftedPixel(1, 1, 5)
	if c.Screen.At(1, 1) != 5 {
		t.Errorf("identity shifting changed index: got %d, want 5", c.Screen.At(1, 1))
	}
}

func TestClearIgnoresTransparency(t *testing.T) {
	c := New(4, 4, nil)
	c.Clear(0) // index 0 is transparent, but Clear is unconditional
	if c.Screen.At(0, 0) != 0 {
		t.Errorf("Clear did not write transparent index: got %d", c.Screen.At(0, 0))
	}
}
