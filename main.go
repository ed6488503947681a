// AirBuddy device firmware. One bus, one controller, a handful of services;
// the platform files decide what "hardware" means (RP2 silicon or a host
// simulation).
package main

import (
	"context"
	"io"
	"time"

	"airbuddy-go/bus"
	"airbuddy-go/errcode"
	"airbuddy-go/rating"
	"airbuddy-go/services/button"
	"airbuddy-go/services/config"
	"airbuddy-go/services/display"
	"airbuddy-go/services/gps"
	"airbuddy-go/services/heartbeat"
	"airbuddy-go/services/measure"
	"airbuddy-go/services/readinglog"
	"airbuddy-go/services/sensors"
	"airbuddy-go/services/telemetry"
	"airbuddy-go/types"
	"airbuddy-go/x/logx"
)

// board is what the platform layer hands back: concrete peripherals behind
// the service interfaces. openBoard and deviceID live in the platform files.
type board struct {
	reader      sensors.Reader
	sink        display.Sink
	store       readinglog.Store
	gpsPort     gps.Port
	mirrorLink  telemetry.Dial
	attachInput func(ctx context.Context, conn *bus.Connection, svc *button.Service)
}

func main() {
	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID)

	b := bus.NewBus(16)
	config.NewService().Start(ctx, b.NewConnection("config"))
	cfgConn := b.NewConnection("main")

	measureCfg := types.MeasureConfigFromMap(section(cfgConn, "measure"))
	sensorCfg := types.SensorConfigFromMap(section(cfgConn, "sensors"))
	raterCfg := types.RaterConfigFromMap(section(cfgConn, "rater"))
	buttonCfg := types.ButtonConfigFromMap(section(cfgConn, "button"))
	gpsCfg := types.GPSConfigFromMap(section(cfgConn, "gps"))
	logCfg := types.LogConfigFromMap(section(cfgConn, "log"))

	brd, err := openBoard(sensorCfg, gpsCfg, logCfg)
	if err != nil {
		logx.Errorf("main", "board init: %v", err)
		// Keep running: the controller reports per-cycle failures itself.
	}
	brd = brd.withFallbacks()

	btnSvc := button.NewService(buttonCfg)
	btnSvc.Start(ctx, b.NewConnection("button"))
	brd.attachInput(ctx, b.NewConnection("button-input"), btnSvc)

	log := readinglog.New(brd.store, logCfg.RingSize)
	screen := display.NewScreen(brd.sink)
	ctrl := measure.NewController(measureCfg, brd.reader, rating.New(raterCfg), screen, log)
	ctrl.Start(ctx, b.NewConnection("measure"))

	gps.NewService(gpsCfg, brd.gpsPort).Start(ctx, b.NewConnection("gps"))
	heartbeat.NewService().Start(ctx, b.NewConnection("heartbeat"))
	telemetry.NewService(brd.mirrorLink).Start(ctx, b.NewConnection("telemetry"))

	logx.Infof("main", "airbuddy up, device=%s", deviceID)
	select {}
}

// withFallbacks fills every peripheral a failed openBoard left nil, so the
// wiring above never touches a zero board. Peripherals the platform did open
// are kept as-is.
func (b board) withFallbacks() board {
	if b.reader == nil {
		b.reader = downReader{}
	}
	if b.sink == nil {
		b.sink = discardSink{}
	}
	if b.store == nil {
		b.store = readinglog.NewMemStore(256)
	}
	if b.mirrorLink == nil {
		b.mirrorLink = func(context.Context) (io.WriteCloser, error) {
			return discardLink{}, nil
		}
	}
	if b.attachInput == nil {
		b.attachInput = func(context.Context, *bus.Connection, *button.Service) {}
	}
	return b
}

// downReader stands in for sensors that never came up; every cycle fails
// with the code the controller already shows on screen.
type downReader struct{}

func (downReader) Sample(context.Context) (types.Reading, error) {
	return types.Reading{}, &errcode.E{
		C: errcode.SensorUnavailable, Op: "sample", Msg: "sensors not initialised",
	}
}

// discardSink drops frames when no panel exists.
type discardSink struct{}

func (discardSink) Push(*display.Frame) error { return nil }

type discardLink struct{}

func (discardLink) Write(p []byte) (int, error) { return len(p), nil }
func (discardLink) Close() error                { return nil }

// section fetches one retained config/<name> map; nil (so: defaults) when the
// config service has nothing for it.
func section(conn *bus.Connection, name string) map[string]any {
	sub := conn.Subscribe(bus.T("config", name))
	defer sub.Unsubscribe()
	select {
	case m := <-sub.Channel():
		if mm, ok := m.Payload.(map[string]any); ok {
			return mm
		}
	case <-time.After(500 * time.Millisecond):
	}
	return nil
}
