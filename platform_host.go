//go:build !rp2040 && !rp2350

package main

import (
	"context"
	"io"
	"os"

	"airbuddy-go/bus"
	"airbuddy-go/services/button"
	"airbuddy-go/services/display"
	"airbuddy-go/services/readinglog"
	"airbuddy-go/services/rtc"
	"airbuddy-go/services/sensors"
	"airbuddy-go/types"
	"airbuddy-go/x/logx"
)

const deviceID = "host"

// openBoard on a host wires the simulated sensor, a console "panel" and the
// CSV file in the working directory. Hitting enter is the button. The full
// host tooling (real I2C adapters, sqlite archive) lives in cmd/airbuddy-host;
// this path keeps plain `go run .` useful.
func openBoard(_ types.SensorConfig, _ types.GPSConfig, logCfg types.LogConfig) (board, error) {
	clk := rtc.NewService()
	_ = clk.Sync()

	var store readinglog.Store
	fs, err := readinglog.OpenFileStore(logCfg.Path)
	if err != nil {
		logx.Warnf("main", "log file: %v, keeping records in memory", err)
		store = readinglog.NewMemStore(256)
	} else {
		store = fs
	}

	return board{
		reader: sensors.NewSim(clk.Clock()),
		sink:   &display.ConsoleSink{W: os.Stdout},
		store:  store,
		// JSON lines land next to the CSV rather than on stdout, which the
		// console panel already owns.
		mirrorLink: func(_ context.Context) (io.WriteCloser, error) {
			return os.OpenFile("telemetry.jsonl", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		},
		attachInput: func(ctx context.Context, conn *bus.Connection, svc *button.Service) {
			svc.WatchLines(ctx, conn, os.Stdin)
		},
	}, nil
}
