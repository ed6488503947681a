//go:build rp2040 || rp2350

package display

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ssd1306"
)

// DefaultOLEDAddr is the SSD1306's usual 7-bit address.
const DefaultOLEDAddr = 0x3C

// OLEDSink drives the panel over I2C.
type OLEDSink struct {
	dev ssd1306.Device
}

func NewOLEDSink(bus drivers.I2C, addr uint16) (*OLEDSink, error) {
	dev := ssd1306.NewI2C(bus)
	dev.Configure(ssd1306.Config{
		Width:   Width,
		Height:  Height,
		Address: addr,
	})
	dev.ClearDisplay()
	return &OLEDSink{dev: dev}, nil
}

func (s *OLEDSink) Push(f *Frame) error {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			var v uint8
			if f.Get(x, y) {
				v = 0xFF
			}
			s.dev.SetPixel(int16(x), int16(y), color.RGBA{R: v, G: v, B: v, A: 0xFF})
		}
	}
	return s.dev.Display()
}
