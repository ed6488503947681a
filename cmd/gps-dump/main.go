//go:build rp2040 || rp2350

// Wiring check for the GPS receiver: pumps the UART through the NMEA parser
// and prints every fix change. If this prints nothing, swap TX/RX.
package main

import (
	"context"
	"time"

	"airbuddy-go/drivers/ublox6"
	"airbuddy-go/services/gps"
	"airbuddy-go/types"
	"airbuddy-go/x/logx"
)

func main() {
	time.Sleep(2 * time.Second)
	cfg := types.DefaultGPSConfig()
	cfg.Enabled = true

	port, err := gps.OpenPort(cfg)
	if err != nil {
		logx.Errorf("gps-dump", "open port: %v", err)
		return
	}
	logx.Infof("gps-dump", "listening on uart%d at %d baud", cfg.UARTID, int(cfg.Baud))

	parser := ublox6.NewParser()
	var buf [256]byte
	var last ublox6.Fix
	sentences := 0

	ctx := context.Background()
	for {
		n, err := port.RecvSomeContext(ctx, buf[:])
		if err != nil {
			logx.Warnf("gps-dump", "read: %v", err)
			continue
		}
		sentences += parser.Feed(buf[:n])
		fix := parser.Fix()
		if fix == last {
			continue
		}
		last = fix
		if fix.Valid {
			logx.Infof("gps-dump", "fix lat=%v lon=%v sats=%d (%d sentences)",
				fix.Lat, fix.Lon, fix.Sats, sentences)
		} else {
			logx.Infof("gps-dump", "no fix yet (%d sentences)", sentences)
		}
	}
}
