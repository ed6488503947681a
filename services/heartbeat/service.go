// Package heartbeat emits a periodic liveness line and a retained uptime
// counter. A silent device and a hung device look the same on a serial
// console without it.
package heartbeat

import (
	"context"
	"sync"
	"time"

	"airbuddy-go/bus"
	"airbuddy-go/services/measure"
	"airbuddy-go/types"
	"airbuddy-go/x/logx"
	"airbuddy-go/x/timex"
)

const serviceName = "heartbeat"

var (
	configTopic = bus.T("config", "heartbeat")
	// UptimeTopic carries seconds-since-boot, retained.
	UptimeTopic = bus.T("status", "heartbeat", "uptime")
)

type Service struct {
	mu       sync.Mutex
	interval time.Duration
}

func NewService() *Service {
	return &Service{interval: 30 * time.Second}
}

// Interval returns the current beat interval.
func (s *Service) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func (s *Service) setInterval(d time.Duration) {
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(configTopic)
	defer conn.Unsubscribe(cfgSub)
	stateSub := conn.Subscribe(measure.StatusTopic)
	defer conn.Unsubscribe(stateSub)

	state := types.StateIdle
	bootMs := timex.NowMs()

	tick := time.NewTicker(s.Interval())
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			logx.Infof(serviceName, "stopping")
			return
		case <-tick.C:
			up := (timex.NowMs() - bootMs) / 1000
			logx.Infof(serviceName, "up %ds state=%s", up, string(state))
			conn.Publish(&bus.Message{Topic: UptimeTopic, Payload: up, Retained: true})
		case m := <-stateSub.Channel():
			if st, ok := m.Payload.(types.DeviceStatus); ok {
				state = st.State
			}
		case m := <-cfgSub.Channel():
			cfg, ok := m.Payload.(map[string]any)
			if !ok {
				continue
			}
			if secs := asSeconds(cfg["interval"]); secs >= 1 {
				s.setInterval(time.Duration(secs) * time.Second)
				tick.Reset(s.Interval())
				logx.Infof(serviceName, "interval set to %ds", secs)
			}
		}
	}
}

func asSeconds(v any) int {
	switch x := v.(type) {
	case float64:
		return int(x)
	case int:
		return x
	case int64:
		return int(x)
	default:
		return 0
	}
}

func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go s.serviceLoop(ctx, conn)
}
