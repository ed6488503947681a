package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"airbuddy-go/bus"
)

type memSink struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (m *memSink) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf.Write(p)
}

func (m *memSink) Close() error { return nil }

func (m *memSink) lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := strings.TrimRight(m.buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func enable(b *bus.Bus, topics ...string) {
	m := map[string]any{"enabled": true}
	if len(topics) > 0 {
		raw := make([]any, len(topics))
		for i, t := range topics {
			raw[i] = t
		}
		m["topics"] = raw
	}
	b.Publish(&bus.Message{Topic: configTopic, Payload: m, Retained: true})
}

func waitLines(t *testing.T, sink *memSink, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := sink.lines(); len(got) >= n {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("wanted %d lines, got %v", n, sink.lines())
	return nil
}

func TestMirror_EmitsMatchingTopicsAsJSON(t *testing.T) {
	b := bus.NewBus(16)
	sink := &memSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := NewService(func(context.Context) (io.WriteCloser, error) { return sink, nil })
	svc.Start(ctx, b.NewConnection("telemetry"))
	enable(b, "status/#")

	// Wait for the link before publishing.
	stateSub := b.NewConnection("t").Subscribe(StateTopic)
	deadline := time.After(2 * time.Second)
	for up := false; !up; {
		select {
		case m := <-stateSub.Channel():
			up = m.Payload == "up"
		case <-deadline:
			t.Fatal("link never came up")
		}
	}

	b.Publish(&bus.Message{Topic: bus.T("status", "measure"), Payload: map[string]any{"state": "idle"}})
	b.Publish(&bus.Message{Topic: bus.T("input", "button", "press"), Payload: 1}) // no match

	lines := waitLines(t, sink, 1)
	var line Line
	if err := json.Unmarshal([]byte(lines[0]), &line); err != nil {
		t.Fatalf("bad JSON %q: %v", lines[0], err)
	}
	if line.Topic != "status/measure" {
		t.Errorf("topic = %q", line.Topic)
	}

	time.Sleep(50 * time.Millisecond)
	for _, l := range sink.lines() {
		if strings.Contains(l, "button") {
			t.Errorf("non-matching topic mirrored: %q", l)
		}
	}
}

func TestDialFailure_RetriesAndReportsDegraded(t *testing.T) {
	b := bus.NewBus(16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	attempts := 0
	sink := &memSink{}
	svc := NewService(func(context.Context) (io.WriteCloser, error) {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 3 {
			return nil, errors.New("port busy")
		}
		return sink, nil
	})
	svc.Start(ctx, b.NewConnection("telemetry"))

	stateSub := b.NewConnection("t").Subscribe(StateTopic)
	enable(b)

	sawDegraded, sawUp := false, false
	deadline := time.After(3 * time.Second)
	for !sawUp {
		select {
		case m := <-stateSub.Channel():
			switch m.Payload {
			case "degraded":
				sawDegraded = true
			case "up":
				sawUp = true
			}
		case <-deadline:
			t.Fatal("link never recovered")
		}
	}
	if !sawDegraded {
		t.Error("degraded state never reported")
	}
}

func TestDisabledConfig_StopsMirror(t *testing.T) {
	b := bus.NewBus(16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &memSink{}
	svc := NewService(func(context.Context) (io.WriteCloser, error) { return sink, nil })
	svc.Start(ctx, b.NewConnection("telemetry"))

	stateSub := b.NewConnection("t").Subscribe(StateTopic)
	b.Publish(&bus.Message{Topic: configTopic, Payload: map[string]any{"enabled": false}, Retained: true})

	deadline := time.After(2 * time.Second)
	for {
		select {
		case m := <-stateSub.Channel():
			if m.Payload == "disabled" {
				return
			}
		case <-deadline:
			t.Fatal("disabled state never reported")
		}
	}
}

func TestSplitPattern(t *testing.T) {
	got := splitPattern("status/gps/fix")
	if len(got) != 3 || got[0] != "status" || got[2] != "fix" {
		t.Errorf("splitPattern = %v", got)
	}
	if g := splitPattern("status/#"); len(g) != 2 || g[1] != "#" {
		t.Errorf("wildcard pattern = %v", g)
	}
}
