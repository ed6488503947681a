//go:build !rp2040 && !rp2350

package display

import (
	"io"
	"strings"
)

// ConsoleSink draws the frame as text, two rows per character cell. Used by
// the host binary when no panel is attached, and handy when eyeballing
// renders during development.
type ConsoleSink struct {
	W io.Writer
}

func (s *ConsoleSink) Push(f *Frame) error {
	var b strings.Builder
	b.Grow((Width + 1) * (Height/2 + 2))
	b.WriteString("+" + strings.Repeat("-", Width) + "+\n")
	for y := 0; y < Height; y += 2 {
		b.WriteByte('|')
		for x := 0; x < Width; x++ {
			top, bot := f.Get(x, y), f.Get(x, y+1)
			switch {
			case top && bot:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bot:
				b.WriteRune('▄')
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteString("|\n")
	}
	b.WriteString("+" + strings.Repeat("-", Width) + "+\n")
	_, err := io.WriteString(s.W, b.String())
	return err
}
