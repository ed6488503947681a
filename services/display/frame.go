package display

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"airbuddy-go/x/mathx"
)

// Screen geometry of the SSD1306 panel.
const (
	Width  = 128
	Height = 64
)

// Frame is a 1-bit framebuffer. It implements draw.Image so x/image text
// rendering draws straight into it, and image.Image so display sinks can
// blit it without conversion.
type Frame struct {
	bits [Width * Height / 8]byte
}

func NewFrame() *Frame { return &Frame{} }

func (f *Frame) ColorModel() color.Model { return color.GrayModel }
func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, Width, Height) }

func (f *Frame) At(x, y int) color.Color {
	if f.Get(x, y) {
		return color.Gray{Y: 0xFF}
	}
	return color.Gray{Y: 0x00}
}

func (f *Frame) Set(x, y int, c color.Color) {
	g := color.GrayModel.Convert(c).(color.Gray)
	f.SetPixel(x, y, g.Y >= 0x80)
}

func (f *Frame) SetPixel(x, y int, on bool) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	idx := y*Width + x
	mask := byte(1 << (idx % 8))
	if on {
		f.bits[idx/8] |= mask
	} else {
		f.bits[idx/8] &^= mask
	}
}

func (f *Frame) Get(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	idx := y*Width + x
	return f.bits[idx/8]&(1<<(idx%8)) != 0
}

func (f *Frame) Clear() {
	for i := range f.bits {
		f.bits[i] = 0
	}
}

// ---- drawing primitives (ported from the pixel-level OLED UI) ----

func (f *Frame) HLine(x, y, w int, on bool) {
	for i := 0; i < w; i++ {
		f.SetPixel(x+i, y, on)
	}
}

func (f *Frame) VLine(x, y, h int, on bool) {
	for i := 0; i < h; i++ {
		f.SetPixel(x, y+i, on)
	}
}

func (f *Frame) FillRect(x, y, w, h int, on bool) {
	for yy := y; yy < y+h; yy++ {
		f.HLine(x, yy, w, on)
	}
}

// DitherFill paints a checkerboard pattern, the cheap "50% grey" of 1-bit
// panels.
func (f *Frame) DitherFill(x, y, w, h int) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			if (xx+yy)&1 == 0 {
				f.SetPixel(xx, yy, true)
			}
		}
	}
}

// RoundRectOutline draws a radius-2 look by cutting corner pixels.
func (f *Frame) RoundRectOutline(x, y, w, h int) {
	if w < 6 || h < 6 {
		f.HLine(x, y, w, true)
		f.HLine(x, y+h-1, w, true)
		f.VLine(x, y, h, true)
		f.VLine(x+w-1, y, h, true)
		return
	}
	f.HLine(x+2, y, w-4, true)
	f.HLine(x+2, y+h-1, w-4, true)
	f.VLine(x, y+2, h-4, true)
	f.VLine(x+w-1, y+2, h-4, true)

	f.SetPixel(x+1, y, true)
	f.SetPixel(x, y+1, true)
	f.SetPixel(x+w-2, y, true)
	f.SetPixel(x+w-1, y+1, true)
	f.SetPixel(x, y+h-2, true)
	f.SetPixel(x+1, y+h-1, true)
	f.SetPixel(x+w-1, y+h-2, true)
	f.SetPixel(x+w-2, y+h-1, true)
}

// Line is a simple Bresenham line.
func (f *Frame) Line(x0, y0, x1, y1 int) {
	dx := mathx.Abs(x1 - x0)
	sx := 1
	if x0 >= x1 {
		sx = -1
	}
	dy := -mathx.Abs(y1 - y0)
	sy := 1
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy
	for {
		f.SetPixel(x0, y0, true)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// CircleOutline is a midpoint-ish circle.
func (f *Frame) CircleOutline(cx, cy, r int) {
	x := r
	y := 0
	err := 0
	for x >= y {
		f.SetPixel(cx+x, cy+y, true)
		f.SetPixel(cx+y, cy+x, true)
		f.SetPixel(cx-y, cy+x, true)
		f.SetPixel(cx-x, cy+y, true)
		f.SetPixel(cx-x, cy-y, true)
		f.SetPixel(cx-y, cy-x, true)
		f.SetPixel(cx+y, cy-x, true)
		f.SetPixel(cx+x, cy-y, true)
		y++
		err += 1 + 2*y
		if 2*(err-x)+1 > 0 {
			x--
			err += 1 - 2*x
		}
	}
}

// Text draws s with the 7x13 basic font; y is the baseline.
func (f *Frame) Text(s string, x, y int) {
	d := font.Drawer{
		Dst:  f,
		Src:  image.NewUniform(color.Gray{Y: 0xFF}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// TextWidth returns the advance of s in pixels.
func TextWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// TextCentered draws s horizontally centered at baseline y.
func (f *Frame) TextCentered(s string, y int) {
	f.Text(s, (Width-TextWidth(s))/2, y)
}
