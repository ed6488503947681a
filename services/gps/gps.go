// Package gps streams NMEA bytes from the u-blox receiver into the fix
// parser and keeps the bus's retained position up to date. Records pick the
// fix up from the retained topic; a device without the receiver simply never
// publishes one.
package gps

import (
	"context"
	"time"

	"airbuddy-go/bus"
	"airbuddy-go/drivers/ublox6"
	"airbuddy-go/types"
	"airbuddy-go/x/logx"
)

const serviceName = "gps"

// errRetryMs throttles the read loop when the UART keeps failing.
const errRetryMs = 250

// FixTopic carries types.GPSFix payloads, retained.
var FixTopic = bus.T("status", "gps", "fix")

// Port is the byte source, satisfied by uartx on the board.
type Port interface {
	RecvSomeContext(ctx context.Context, buf []byte) (int, error)
}

type Service struct {
	cfg    types.GPSConfig
	parser ublox6.Parser
	port   Port
}

func NewService(cfg types.GPSConfig, port Port) *Service {
	return &Service{cfg: cfg, port: port}
}

// Start pumps the port into the parser and republishes the retained fix
// whenever its validity or position changes.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	if !s.cfg.Enabled || s.port == nil {
		logx.Infof(serviceName, "disabled")
		return
	}
	go s.pump(ctx, conn)
}

func (s *Service) pump(ctx context.Context, conn *bus.Connection) {
	var buf [256]byte
	var last types.GPSFix
	published := false

	for {
		n, err := s.port.RecvSomeContext(ctx, buf[:])
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logx.Warnf(serviceName, "uart read: %v", err)
			// A dead port must not hot-loop the core.
			select {
			case <-ctx.Done():
				return
			case <-time.After(errRetryMs * time.Millisecond):
			}
			continue
		}
		if s.parser.Feed(buf[:n]) == 0 {
			continue
		}
		fix := s.parser.Fix()
		cur := types.GPSFix{Valid: fix.Valid, Lat: fix.Lat, Lon: fix.Lon, Sats: fix.Sats}
		if published && cur == last {
			continue
		}
		conn.Publish(&bus.Message{Topic: FixTopic, Payload: cur, Retained: true})
		last = cur
		published = true
	}
}
