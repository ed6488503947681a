package bus

import (
	"context"
	"testing"
	"time"
)

func recv(t *testing.T, sub *Subscription) *Message {
	t.Helper()
	select {
	case m := <-sub.Channel():
		return m
	case <-time.After(time.Second):
		t.Fatal("no message")
		return nil
	}
}

func expectNone(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case m := <-sub.Channel():
		t.Fatalf("unexpected message on %v: %#v", m.Topic, m.Payload)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestPublishSubscribe_ExactTopic(t *testing.T) {
	b := NewBus(8)
	c := b.NewConnection("a")
	sub := c.Subscribe(T("input", "button", "press"))

	b.Publish(&Message{Topic: T("input", "button", "press"), Payload: 42})
	if m := recv(t, sub); m.Payload != 42 {
		t.Errorf("payload = %v, want 42", m.Payload)
	}

	b.Publish(&Message{Topic: T("input", "button", "release"), Payload: 1})
	expectNone(t, sub)
}

func TestTopic_IntTokensAndString(t *testing.T) {
	tp := T("hal", 0, "value")
	if tp.Len() != 3 || tp.At(1) != 0 {
		t.Errorf("topic tokens = %v", tp)
	}
	if got := tp.String(); got != "hal/0/value" {
		t.Errorf("String = %q", got)
	}
	if !tp.Equal(T("hal", 0, "value")) || tp.Equal(T("hal", 1, "value")) {
		t.Error("Equal misbehaves")
	}
	app := tp.Append("x")
	if app.Len() != 4 || tp.Len() != 3 {
		t.Error("Append must not mutate the receiver")
	}
}

func TestWildcard_SingleLevel(t *testing.T) {
	b := NewBus(8)
	sub := b.NewConnection("a").Subscribe(T("config", "+"))

	b.Publish(&Message{Topic: T("config", "rater"), Payload: 1})
	b.Publish(&Message{Topic: T("config", "button"), Payload: 2})
	b.Publish(&Message{Topic: T("config", "rater", "extra"), Payload: 3})

	got := map[any]bool{}
	got[recv(t, sub).Payload] = true
	got[recv(t, sub).Payload] = true
	if !got[1] || !got[2] {
		t.Errorf("got %v, want payloads 1 and 2", got)
	}
	expectNone(t, sub) // depth mismatch must not match "+"
}

func TestWildcard_MultiLevel(t *testing.T) {
	b := NewBus(8)
	sub := b.NewConnection("a").Subscribe(T("status", "#"))

	b.Publish(&Message{Topic: T("status", "measure"), Payload: 1})
	b.Publish(&Message{Topic: T("status", "gps", "fix"), Payload: 2})
	b.Publish(&Message{Topic: T("input", "button", "press"), Payload: 3})

	got := map[any]bool{}
	got[recv(t, sub).Payload] = true
	got[recv(t, sub).Payload] = true
	if !got[1] || !got[2] {
		t.Errorf("got %v, want payloads 1 and 2", got)
	}
	expectNone(t, sub)
}

func TestRetained_DeliveredOnSubscribe(t *testing.T) {
	b := NewBus(8)
	b.Publish(&Message{Topic: T("status", "measure"), Payload: "idle", Retained: true})

	sub := b.NewConnection("late").Subscribe(T("status", "measure"))
	if m := recv(t, sub); m.Payload != "idle" {
		t.Errorf("retained payload = %v", m.Payload)
	}

	// Wildcard subscribers get retained matches too.
	wsub := b.NewConnection("later").Subscribe(T("status", "#"))
	if m := recv(t, wsub); m.Payload != "idle" {
		t.Errorf("retained via wildcard = %v", m.Payload)
	}
}

func TestRetained_NilPayloadClears(t *testing.T) {
	b := NewBus(8)
	b.Publish(&Message{Topic: T("status", "x"), Payload: 1, Retained: true})
	b.Publish(&Message{Topic: T("status", "x"), Payload: nil, Retained: true})

	sub := b.NewConnection("a").Subscribe(T("status", "x"))
	expectNone(t, sub)
}

func TestRetained_LatestWins(t *testing.T) {
	b := NewBus(8)
	b.Publish(&Message{Topic: T("s"), Payload: 1, Retained: true})
	b.Publish(&Message{Topic: T("s"), Payload: 2, Retained: true})

	sub := b.NewConnection("a").Subscribe(T("s"))
	if m := recv(t, sub); m.Payload != 2 {
		t.Errorf("retained payload = %v, want 2", m.Payload)
	}
}

func TestSlowConsumer_DropsOldestNotNewest(t *testing.T) {
	b := NewBus(2)
	sub := b.NewConnection("slow").Subscribe(T("s"))

	for i := 1; i <= 5; i++ {
		b.Publish(&Message{Topic: T("s"), Payload: i})
	}
	// Queue length 2: the newest message must survive the overflow.
	last := any(nil)
	for {
		select {
		case m := <-sub.Channel():
			last = m.Payload
			continue
		default:
		}
		break
	}
	if last != 5 {
		t.Errorf("newest surviving payload = %v, want 5", last)
	}
}

func TestRequestReply(t *testing.T) {
	b := NewBus(8)
	server := b.NewConnection("server")
	sub := server.Subscribe(T("rpc", "ping"))
	go func() {
		m := <-sub.Channel()
		if m.CanReply() {
			server.Reply(m, "pong", false)
		}
	}()

	client := b.NewConnection("client")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := client.RequestWait(ctx, &Message{Topic: T("rpc", "ping")})
	if err != nil {
		t.Fatalf("RequestWait: %v", err)
	}
	if resp.Payload != "pong" {
		t.Errorf("reply = %v", resp.Payload)
	}
}

func TestRequest_ManualSubscription(t *testing.T) {
	b := NewBus(8)
	server := b.NewConnection("server")
	sub := server.Subscribe(T("sensor", "read"))
	go func() {
		m := <-sub.Channel()
		server.Reply(m, 42, false)
	}()

	client := b.NewConnection("client")
	req := &Message{Topic: T("sensor", "read")}
	replySub := client.Request(req)
	defer client.Unsubscribe(replySub)

	if len(req.ReplyTo) == 0 {
		t.Fatal("Request did not set ReplyTo")
	}
	m := recv(t, replySub)
	if m.Payload != 42 {
		t.Errorf("reply = %v, want 42", m.Payload)
	}
	if !m.Topic.Equal(req.ReplyTo) {
		t.Errorf("reply topic %v != ReplyTo %v", m.Topic, req.ReplyTo)
	}
}

func TestRequestWait_TimesOut(t *testing.T) {
	b := NewBus(8)
	client := b.NewConnection("client")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if _, err := client.RequestWait(ctx, &Message{Topic: T("rpc", "nobody")}); err == nil {
		t.Fatal("expected timeout")
	}
}

func TestUnsubscribe_StopsDeliveryAndPrunes(t *testing.T) {
	b := NewBus(8)
	c := b.NewConnection("a")
	sub := c.Subscribe(T("deep", "branch", "leaf"))
	sub.Unsubscribe()

	b.Publish(&Message{Topic: T("deep", "branch", "leaf"), Payload: 1})
	if len(b.root.children) != 0 {
		t.Error("empty branch not pruned")
	}
}

func TestDisconnect_ClosesAllSubscriptions(t *testing.T) {
	b := NewBus(8)
	c := b.NewConnection("a")
	s1 := c.Subscribe(T("x"))
	s2 := c.Subscribe(T("y"))
	c.Disconnect()

	if _, ok := <-s1.Channel(); ok {
		t.Error("s1 channel not closed")
	}
	if _, ok := <-s2.Channel(); ok {
		t.Error("s2 channel not closed")
	}
}
