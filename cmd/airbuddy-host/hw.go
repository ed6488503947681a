package main

import (
	"image"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"airbuddy-go/services/display"
	"airbuddy-go/services/sensors"
	"airbuddy-go/types"
)

// openHardware returns the sensor reader and display sink for this run.
// With --i2c it opens the kernel bus and talks to the same chips the
// firmware does; otherwise everything is simulated.
func openHardware(cfg types.SensorConfig, clk func() int64) (sensors.Reader, display.Sink, error) {
	if flagI2C == "" {
		return sensors.NewSim(clk), &display.ConsoleSink{W: os.Stdout}, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, nil, errors.Wrap(err, "periph host init")
	}
	busc, err := i2creg.Open(flagI2C)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open i2c bus %q", flagI2C)
	}

	// periph's i2c.Bus has the same Tx shape the drivers expect; the lock
	// keeps sensor and panel transactions from interleaving, so the panel
	// must go through it too.
	lock := sensors.NewI2CLock(busc)
	air := sensors.New(lock, cfg, clk)
	if err := air.Configure(); err != nil {
		return nil, nil, err
	}

	var sink display.Sink
	if panel, err := newPanelSink(lockedBus{Bus: busc, lock: lock}); err != nil {
		logrus.Warnf("ssd1306 not found, using console: %v", err)
		sink = &display.ConsoleSink{W: os.Stdout}
	} else {
		sink = panel
	}
	return air, sink, nil
}

// lockedBus routes every transaction through the sensor I2C lock while
// keeping the rest of the periph bus surface.
type lockedBus struct {
	i2c.Bus
	lock *sensors.I2CLock
}

func (b lockedBus) Tx(addr uint16, w, r []byte) error {
	return b.lock.Tx(addr, w, r)
}

// panelSink blits frames to a periph ssd1306.
type panelSink struct {
	dev *ssd1306.Dev
}

func newPanelSink(b i2c.Bus) (*panelSink, error) {
	dev, err := ssd1306.NewI2C(b, &ssd1306.Opts{W: display.Width, H: display.Height})
	if err != nil {
		return nil, err
	}
	return &panelSink{dev: dev}, nil
}

func (s *panelSink) Push(f *display.Frame) error {
	return s.dev.Draw(s.dev.Bounds(), f, image.Point{})
}
