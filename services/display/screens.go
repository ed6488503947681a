package display

import (
	"airbuddy-go/types"
	"airbuddy-go/x/conv"
)

// Screen renderers. Each draws a complete frame from scratch; the caller owns
// pushing it to the panel.

// RenderIdle shows the ready prompt.
func RenderIdle(f *Frame) {
	f.Clear()
	f.TextCentered("AirBuddy", 24)
	f.TextCentered("press to sample", 44)
}

// Breathing-bar geometry. The bar grows from the centre outwards and shrinks
// back, one full cycle every 16 ticks (4 s at the 250 ms tick rate).
const (
	barCycle = 16
	barMaxW  = 96
	barH     = 8
	barY     = 38
)

// barWidth maps a tick to the bar's current width.
func barWidth(tick int) int {
	phase := tick % barCycle
	if phase > barCycle/2 {
		phase = barCycle - phase
	}
	return 8 + phase*(barMaxW-8)/(barCycle/2)
}

// RenderProgress shows the sampling screen for the given tick.
func RenderProgress(f *Frame, tick int) {
	f.Clear()
	f.TextCentered("sampling...", 20)
	w := barWidth(tick)
	x := (Width - w) / 2
	f.RoundRectOutline((Width-barMaxW)/2-2, barY-2, barMaxW+4, barH+4)
	f.FillRect(x, barY, w, barH, true)
}

// RenderResult shows the reading, its rating and the mood face.
func RenderResult(f *Frame, r types.Rating) {
	f.Clear()

	f.Text(conv.Ftoa1(r.Reading.TempC)+"C "+conv.Ftoa1(r.Reading.HumidityPct)+"%", 2, 12)
	f.Text("CO2 "+conv.ItoaS(int64(r.Reading.ECO2PPM)), 2, 28)
	f.Text("VOC "+conv.ItoaS(int64(r.Reading.TVOCPPB)), 2, 44)

	f.Text(r.Level.Label(), 2, 60)

	drawFace(f, 100, 32, r.Level)
}

// RenderError shows a failure without technical detail; code is the short
// machine name, msg the human line.
func RenderError(f *Frame, code, msg string) {
	f.Clear()
	f.TextCentered("sorry!", 20)
	f.TextCentered(msg, 40)
	if code != "" {
		f.TextCentered(code, 58)
	}
}

// ---- mood face ----

// drawFace draws a 2r=44 face centred at (cx, cy) whose expression tracks the
// rating: smile, flat mouth, frown, frown with crossed-out eyes.
func drawFace(f *Frame, cx, cy int, lvl types.RatingLevel) {
	const r = 22
	f.CircleOutline(cx, cy, r)

	eyeY := cy - 7
	switch lvl {
	case types.RatingSevere:
		crossEye(f, cx-8, eyeY)
		crossEye(f, cx+8, eyeY)
	default:
		dotEye(f, cx-8, eyeY)
		dotEye(f, cx+8, eyeY)
	}

	mouthY := cy + 8
	switch lvl {
	case types.RatingGood:
		f.Line(cx-9, mouthY, cx-5, mouthY+4)
		f.HLine(cx-5, mouthY+4, 10, true)
		f.Line(cx+5, mouthY+4, cx+9, mouthY)
	case types.RatingModerate:
		f.HLine(cx-8, mouthY+2, 16, true)
	default: // Poor, Severe
		f.Line(cx-9, mouthY+4, cx-5, mouthY)
		f.HLine(cx-5, mouthY, 10, true)
		f.Line(cx+5, mouthY, cx+9, mouthY+4)
	}
}

func dotEye(f *Frame, x, y int) {
	f.FillRect(x-1, y-1, 3, 3, true)
}

func crossEye(f *Frame, x, y int) {
	f.Line(x-2, y-2, x+2, y+2)
	f.Line(x-2, y+2, x+2, y-2)
}
