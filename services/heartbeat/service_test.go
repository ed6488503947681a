package heartbeat

import (
	"context"
	"testing"
	"time"

	"airbuddy-go/bus"
)

func TestUptimePublishedRetained(t *testing.T) {
	b := bus.NewBus(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewService()
	s.setInterval(30 * time.Millisecond)
	s.Start(ctx, b.NewConnection("heartbeat"))

	time.Sleep(100 * time.Millisecond)
	sub := b.NewConnection("hb-test").Subscribe(UptimeTopic)
	select {
	case m := <-sub.Channel():
		if up, ok := m.Payload.(int64); !ok || up < 0 {
			t.Errorf("uptime payload = %#v", m.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("no retained uptime")
	}
}

func TestConfigChangesInterval(t *testing.T) {
	b := bus.NewBus(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewService()
	s.Start(ctx, b.NewConnection("heartbeat"))

	b.Publish(&bus.Message{
		Topic:    configTopic,
		Payload:  map[string]any{"interval": float64(5)},
		Retained: true,
	})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s.Interval() == 5*time.Second {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("interval = %v, want 5s", s.Interval())
}
