// Package button turns raw pin edges into debounced press events on the bus.
// The ISR (or a host input loop) pushes raw samples into the service; a
// single goroutine debounces and publishes input/button/press.
package button

import (
	"context"
	"sync/atomic"

	"airbuddy-go/bus"
	"airbuddy-go/types"
	"airbuddy-go/x/logx"
	"airbuddy-go/x/timex"
)

const serviceName = "button"

// PressTopic carries types.ButtonPress payloads.
var PressTopic = bus.T("input", "button", "press")

type rawSample struct {
	level bool
	tsMs  int64
}

type Service struct {
	cfg types.ButtonConfig
	deb *Debouncer

	// rawQ is written from the ISR; sends must never block it.
	rawQ  chan rawSample
	drops atomic.Uint32
}

func NewService(cfg types.ButtonConfig) *Service {
	return &Service{
		cfg:  cfg,
		deb:  NewDebouncer(cfg.DebounceMs, cfg.Invert),
		rawQ: make(chan rawSample, 16),
	}
}

// Offer enqueues one raw sample without blocking. Safe to call from an ISR;
// a full queue drops the sample and bumps the drop counter.
func (s *Service) Offer(level bool, tsMs int64) {
	select {
	case s.rawQ <- rawSample{level: level, tsMs: tsMs}:
	default:
		s.drops.Add(1)
	}
}

// Press injects a synthetic debounced press. Host input paths use this
// directly instead of simulating pin chatter.
func (s *Service) Press(conn *bus.Connection) {
	conn.Publish(&bus.Message{
		Topic:   PressTopic,
		Payload: types.ButtonPress{TS: timex.NowMs()},
	})
}

// Drops returns how many raw samples the ISR queue rejected.
func (s *Service) Drops() uint32 { return s.drops.Load() }

// Start runs the debounce loop. Release edges are consumed silently; only
// presses go on the bus.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case raw := <-s.rawQ:
				if s.deb.Step(raw.level, raw.tsMs) == EdgePress {
					logx.Debugf(serviceName, "press at %d", raw.tsMs)
					conn.Publish(&bus.Message{
						Topic:   PressTopic,
						Payload: types.ButtonPress{TS: raw.tsMs},
					})
				}
			}
		}
	}()
}
