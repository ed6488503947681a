//go:build rp2040 || rp2350

// On-device bus self-test. `go test` covers the same ground on the host;
// this binary proves the scheduler-dependent parts (channel wakeups, timer
// behavior) on real silicon. Flash it, watch the serial console, read the
// LED: solid means pass, blinking means fail.
package main

import (
	"context"
	"machine"
	"time"

	"airbuddy-go/bus"
	"airbuddy-go/x/logx"
)

func expectPayload(sub *bus.Subscription, want any, timeout time.Duration) bool {
	select {
	case got := <-sub.Channel():
		return got.Payload == want
	case <-time.After(timeout):
		return false
	}
}

func expectNone(sub *bus.Subscription, timeout time.Duration) bool {
	select {
	case <-sub.Channel():
		return false
	case <-time.After(timeout):
		return true
	}
}

func testBasicPubSub() bool {
	b := bus.NewBus(4)
	c := b.NewConnection("test")
	sub := c.Subscribe(bus.T("input", "button", "press"))
	c.Publish(c.NewMessage(bus.T("input", "button", "press"), "hello", false))
	return expectPayload(sub, "hello", 100*time.Millisecond)
}

func testRetained() bool {
	b := bus.NewBus(4)
	c := b.NewConnection("test")
	c.Publish(c.NewMessage(bus.T("status", "measure"), "idle", true))
	sub := c.Subscribe(bus.T("status", "measure"))
	return expectPayload(sub, "idle", 100*time.Millisecond)
}

func testRetainedClear() bool {
	b := bus.NewBus(4)
	c := b.NewConnection("test")
	c.Publish(c.NewMessage(bus.T("status", "x"), "v", true))
	c.Publish(c.NewMessage(bus.T("status", "x"), nil, true))
	sub := c.Subscribe(bus.T("status", "x"))
	return expectNone(sub, 60*time.Millisecond)
}

func testSingleWildcard() bool {
	b := bus.NewBus(8)
	c := b.NewConnection("test")
	sub := c.Subscribe(bus.T("config", "+"))
	c.Publish(c.NewMessage(bus.T("config", "rater"), "m1", false))
	if !expectPayload(sub, "m1", 200*time.Millisecond) {
		return false
	}
	c.Publish(c.NewMessage(bus.T("config", "rater", "deep"), "m2", false))
	return expectNone(sub, 60*time.Millisecond)
}

func testMultiWildcard() bool {
	b := bus.NewBus(8)
	c := b.NewConnection("test")
	sub := c.Subscribe(bus.T("status", "#"))
	c.Publish(c.NewMessage(bus.T("status", "gps", "fix"), "m1", false))
	if !expectPayload(sub, "m1", 200*time.Millisecond) {
		return false
	}
	c.Publish(c.NewMessage(bus.T("input", "button", "press"), "m2", false))
	return expectNone(sub, 60*time.Millisecond)
}

func testRequestReply() bool {
	b := bus.NewBus(8)
	server := b.NewConnection("server")
	client := b.NewConnection("client")

	sub := server.Subscribe(bus.T("rpc", "ping"))
	go func() {
		if m, ok := <-sub.Channel(); ok {
			server.Reply(m, "pong", false)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	reply, err := client.RequestWait(ctx, client.NewMessage(bus.T("rpc", "ping"), nil, false))
	server.Unsubscribe(sub)
	return err == nil && reply.Payload == "pong"
}

func testRequestTimeout() bool {
	b := bus.NewBus(8)
	client := b.NewConnection("client")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.RequestWait(ctx, client.NewMessage(bus.T("rpc", "nobody"), nil, false))
	return err != nil
}

type testCase struct {
	name string
	fn   func() bool
}

func main() {
	// Give the USB CDC time to enumerate so logs show up reliably.
	time.Sleep(250 * time.Millisecond)

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led.High()

	tests := []testCase{
		{"basic_pubsub", testBasicPubSub},
		{"retained", testRetained},
		{"retained_clear", testRetainedClear},
		{"single_wildcard", testSingleWildcard},
		{"multi_wildcard", testMultiWildcard},
		{"request_reply", testRequestReply},
		{"request_timeout", testRequestTimeout},
	}

	passed, failed := 0, 0
	logx.Infof("selftest", "bus self-test starting")
	for _, tc := range tests {
		if tc.fn() {
			logx.Infof("selftest", "PASS %s", tc.name)
			passed++
		} else {
			logx.Errorf("selftest", "FAIL %s", tc.name)
			failed++
		}
		time.Sleep(10 * time.Millisecond)
	}
	logx.Infof("selftest", "done: %d passed, %d failed", passed, failed)

	if failed == 0 {
		for {
			led.High()
			time.Sleep(2 * time.Second)
		}
	}
	for {
		led.High()
		time.Sleep(250 * time.Millisecond)
		led.Low()
		time.Sleep(250 * time.Millisecond)
	}
}
