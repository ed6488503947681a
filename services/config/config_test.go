package config

import (
	"context"
	"testing"
	"time"

	"airbuddy-go/bus"
	"airbuddy-go/types"
)

func TestConfig_PublishEmbedded_RetainedPerSection(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) {
		if device != "pico" {
			return nil, false
		}
		return []byte(`{
			"rater": {"eco2_moderate_ppm": 700},
			"measure": {"dwell_ms": 5000},
			"gps": {"enabled": false}
		}`), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")
	svc := NewService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "pico")
	svc.Start(ctx, conn)

	// Retained sections should arrive on a late wildcard subscription.
	time.Sleep(50 * time.Millisecond)
	sub := conn.Subscribe(bus.T(configPrefix, "+"))

	got := map[string]any{}
	deadline := time.Now().Add(600 * time.Millisecond)
	for len(got) < 3 && time.Now().Before(deadline) {
		select {
		case m := <-sub.Channel():
			key, ok := m.Topic.At(1).(string)
			if !ok {
				t.Fatalf("topic[1] type %T, want string", m.Topic.At(1))
			}
			got[key] = m.Payload
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 retained sections, got %d (%v)", len(got), got)
	}

	rm, ok := got["rater"].(map[string]any)
	if !ok {
		t.Fatalf("rater payload type = %T, want map[string]any", got["rater"])
	}
	rc := types.RaterConfigFromMap(rm)
	if rc.ECO2ModeratePPM != 700 {
		t.Errorf("eco2_moderate_ppm = %d, want 700", rc.ECO2ModeratePPM)
	}
	// Untouched keys keep defaults.
	if rc.TVOCPoorPPB != types.DefaultRaterConfig().TVOCPoorPPB {
		t.Errorf("tvoc_poor_ppb default not applied")
	}

	mm, _ := got["measure"].(map[string]any)
	if mc := types.MeasureConfigFromMap(mm); mc.DwellMs != 5000 {
		t.Errorf("dwell_ms = %d, want 5000", mc.DwellMs)
	}
}

func TestConfig_PublishConfig_MissingDevice(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("test-missing-device")
	svc := NewService()

	if err := svc.publishConfig(context.Background(), conn); err == nil {
		t.Fatal("expected error for missing device ID, got nil")
	}
}

func TestConfig_PublishConfig_NoConfigFound(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) { return nil, false }
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(4)
	conn := b.NewConnection("test-no-config")
	svc := NewService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "unknown-device")
	if err := svc.publishConfig(ctx, conn); err == nil {
		t.Fatal("expected error for missing embedded config, got nil")
	}
}

func TestConfig_EmbeddedDeviceConfigsParse(t *testing.T) {
	for _, dev := range []string{"pico", "host"} {
		b := bus.NewBus(16)
		conn := b.NewConnection("test-" + dev)
		svc := NewService()
		ctx := context.WithValue(context.Background(), CtxDeviceKey, dev)
		if err := svc.publishConfig(ctx, conn); err != nil {
			t.Errorf("device %q: %v", dev, err)
		}
	}
}
