//go:build !rp2040 && !rp2350

package button

import (
	"bufio"
	"context"
	"io"

	"airbuddy-go/bus"
	"airbuddy-go/x/logx"
)

// WatchLines publishes one press per line read from r. The host binary points
// this at stdin so hitting enter stands in for the physical button.
func (s *Service) WatchLines(ctx context.Context, conn *bus.Connection, r io.Reader) {
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case <-ctx.Done():
				return
			default:
			}
			s.Press(conn)
		}
		if err := sc.Err(); err != nil {
			logx.Warnf(serviceName, "input closed: %v", err)
		}
	}()
}
