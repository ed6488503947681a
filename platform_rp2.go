//go:build rp2040 || rp2350

package main

import (
	"context"
	"io"
	"machine"

	"airbuddy-go/bus"
	"airbuddy-go/services/button"
	"airbuddy-go/services/display"
	"airbuddy-go/services/gps"
	"airbuddy-go/services/readinglog"
	"airbuddy-go/services/rtc"
	"airbuddy-go/services/sensors"
	"airbuddy-go/types"
	"airbuddy-go/x/logx"
)

const deviceID = "pico"

// openBoard brings up the Pico peripherals: shared I2C0 for both sensors,
// the OLED and the DS3231, the button IRQ, and the GPS UART when enabled.
func openBoard(sensorCfg types.SensorConfig, gpsCfg types.GPSConfig, _ types.LogConfig) (board, error) {
	err := machine.I2C0.Configure(machine.I2CConfig{
		SDA:       machine.GP4,
		SCL:       machine.GP5,
		Frequency: 400_000,
	})
	if err != nil {
		return board{}, err
	}
	i2c := sensors.NewI2CLock(machine.I2C0)

	clk := rtc.NewService()
	if err := clk.Sync(i2c); err != nil {
		logx.Warnf("main", "rtc sync: %v", err)
	}

	air := sensors.New(i2c, sensorCfg, clk.Clock())
	if err := air.Configure(); err != nil {
		// Not fatal: every Sample will report sensor_unavailable and the
		// user sees the error screen instead of a dead device.
		logx.Warnf("main", "sensor configure: %v", err)
	}

	sink, err := display.NewOLEDSink(i2c, display.DefaultOLEDAddr)
	if err != nil {
		logx.Warnf("main", "oled: %v", err)
	}

	var port gps.Port
	if gpsCfg.Enabled {
		if port, err = gps.OpenPort(gpsCfg); err != nil {
			logx.Warnf("main", "gps port: %v", err)
		}
	}

	return board{
		reader: air,
		sink:   sink,
		// No filesystem on the bare Pico: recent records live in RAM and
		// drain over the USB telemetry mirror when enabled.
		store:       readinglog.NewMemStore(256),
		gpsPort:     port,
		mirrorLink:  dialSerial,
		attachInput: func(_ context.Context, _ *bus.Connection, svc *button.Service) {
			if err := svc.Attach(); err != nil {
				logx.Errorf("main", "button irq: %v", err)
			}
		},
	}, nil
}

// serialLink exposes the USB CDC port as the telemetry sink. There is nothing
// to close; the port belongs to the runtime.
type serialLink struct{}

func (serialLink) Write(p []byte) (int, error) { return machine.Serial.Write(p) }
func (serialLink) Close() error                { return nil }

func dialSerial(_ context.Context) (io.WriteCloser, error) {
	return serialLink{}, nil
}
