// Package telemetry mirrors selected bus topics as JSON lines over a local
// serial link. It is a debugging tap, not a cloud uplink: whatever sits on
// the other end of the cable (usually a laptop) sees device status and log
// records as they happen.
package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"airbuddy-go/bus"
	"airbuddy-go/x/logx"
	"airbuddy-go/x/timex"
)

const serviceName = "telemetry"

var (
	configTopic = bus.T("config", "telemetry")
	// StateTopic reports the link state, retained.
	StateTopic = bus.T("status", "telemetry")
)

// Config arrives on config/telemetry.
type Config struct {
	Enabled bool `json:"enabled"`
	// Topics are bus patterns to mirror; wildcards allowed. Empty means
	// status/# only.
	Topics [][]any `json:"-"`
}

// Line is one emitted record.
type Line struct {
	Topic   string `json:"topic"`
	Payload any    `json:"payload"`
	TS      int64  `json:"ts_ms"`
}

// Dial opens the sink the mirror writes to. Injected by platform code: USB
// CDC on the board, a file or stdout on hosts.
type Dial func(ctx context.Context) (io.WriteCloser, error)

type Service struct {
	dial Dial

	mu      sync.Mutex
	curStop context.CancelFunc
}

func NewService(dial Dial) *Service {
	return &Service{dial: dial}
}

// Start supervises the mirror: it waits for config and (re)starts the link
// whenever config changes.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go s.run(ctx, conn)
}

func (s *Service) run(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(configTopic)
	defer conn.Unsubscribe(cfgSub)

	s.publishState(conn, "idle")

	for {
		select {
		case <-ctx.Done():
			s.stopCurrent()
			return
		case m, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			cfg := decodeConfig(m.Payload)
			s.reconfigure(ctx, conn, cfg)
		}
	}
}

func decodeConfig(payload any) Config {
	var cfg Config
	m, ok := payload.(map[string]any)
	if !ok {
		return cfg
	}
	cfg.Enabled, _ = m["enabled"].(bool)
	if raw, ok := m["topics"].([]any); ok {
		for _, t := range raw {
			if s, ok := t.(string); ok {
				cfg.Topics = append(cfg.Topics, splitPattern(s))
			}
		}
	}
	if len(cfg.Topics) == 0 {
		cfg.Topics = [][]any{{"status", "#"}}
	}
	return cfg
}

// splitPattern turns "status/#" into bus tokens.
func splitPattern(s string) []any {
	var out []any
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '/' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

func (s *Service) stopCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.curStop != nil {
		s.curStop()
		s.curStop = nil
	}
}

func (s *Service) reconfigure(parent context.Context, conn *bus.Connection, cfg Config) {
	s.stopCurrent()
	if !cfg.Enabled {
		s.publishState(conn, "disabled")
		return
	}
	ctx, cancel := context.WithCancel(parent)
	s.mu.Lock()
	s.curStop = cancel
	s.mu.Unlock()
	go s.runLink(ctx, conn, cfg)
}

func (s *Service) runLink(ctx context.Context, conn *bus.Connection, cfg Config) {
	backoff := 250 * time.Millisecond
	const maxBackoff = 5 * time.Second

	for {
		if ctx.Err() != nil {
			return
		}
		w, err := s.dial(ctx)
		if err != nil {
			s.publishState(conn, "degraded")
			logx.Warnf(serviceName, "dial: %v, retry in %dms", err, int64(backoff/time.Millisecond))
			if !sleepCtx(ctx, backoff) {
				return
			}
			if backoff *= 2; backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = 250 * time.Millisecond
		s.publishState(conn, "up")
		if err := s.mirror(ctx, conn, cfg, w); err != nil {
			w.Close()
			s.publishState(conn, "degraded")
			logx.Warnf(serviceName, "link lost: %v", err)
			continue
		}
		w.Close()
		return
	}
}

// mirror owns the active link lifetime: every matching bus message becomes
// one JSON line.
func (s *Service) mirror(ctx context.Context, conn *bus.Connection, cfg Config, w io.Writer) error {
	subs := make([]*bus.Subscription, 0, len(cfg.Topics))
	agg := make(chan *bus.Message, 32)
	done := make(chan struct{})
	defer close(done)

	for _, pattern := range cfg.Topics {
		sub := conn.Subscribe(bus.T(pattern...))
		subs = append(subs, sub)
		go func(sub *bus.Subscription) {
			for {
				select {
				case m, ok := <-sub.Channel():
					if !ok {
						return
					}
					select {
					case agg <- m:
					case <-done:
						return
					}
				case <-done:
					return
				}
			}
		}(sub)
	}
	defer func() {
		for _, sub := range subs {
			conn.Unsubscribe(sub)
		}
	}()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-agg:
			line := Line{Topic: m.Topic.String(), Payload: m.Payload, TS: timex.NowMs()}
			if err := enc.Encode(line); err != nil {
				return err
			}
		}
	}
}

func (s *Service) publishState(conn *bus.Connection, state string) {
	conn.Publish(&bus.Message{Topic: StateTopic, Payload: state, Retained: true})
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
