package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"jdmatch/internal/domain/jobdescription"

	"github.com/google/uuid"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func receive(t *testing.T, ch <-chan []byte) ([]byte, bool) {
	t.Helper()
	select {
	case msg, ok := <-ch:
		return msg, ok
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for message")
		return nil, false
	}
}

func assertSilent(t *testing.T, ch <-chan []byte) {
	t.Helper()
	select {
	case msg := <-ch:
		t.Fatalf("unexpected message: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestHub_BroadcastIsScopedToUser(t *testing.T) {
	hub := startHub(t)

	a1 := NewClient(hub, nil, "alice")
	a2 := NewClient(hub, nil, "alice")
	b := NewClient(hub, nil, "bob")
	hub.Register(a1)
	hub.Register(a2)
	hub.Register(b)
	waitFor(t, func() bool { return hub.ClientCount("alice") == 2 && hub.ClientCount("bob") == 1 })

	hub.Broadcast("alice", []byte("hello"))

	for _, c := range []*Client{a1, a2} {
		msg, ok := receive(t, c.send)
		if !ok || string(msg) != "hello" {
			t.Fatalf("unexpected delivery: %q ok=%v", msg, ok)
		}
	}
	assertSilent(t, b.send)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)

	c := NewClient(hub, nil, "alice")
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount("alice") == 1 })

	hub.Unregister(c)
	if _, ok := receive(t, c.send); ok {
		t.Fatalf("expected send channel to be closed")
	}
	if n := hub.ClientCount("alice"); n != 0 {
		t.Fatalf("expected no clients, got %d", n)
	}

	// a second unregister is a no-op
	hub.Unregister(c)
}

func TestHub_DropsSlowConsumer(t *testing.T) {
	hub := startHub(t)

	slow := &Client{id: uuid.New(), userID: "alice", hub: hub, send: make(chan []byte)}
	hub.Register(slow)
	waitFor(t, func() bool { return hub.ClientCount("alice") == 1 })

	hub.Broadcast("alice", []byte("x"))
	waitFor(t, func() bool { return hub.ClientCount("alice") == 0 })

	if _, ok := <-slow.send; ok {
		t.Fatalf("expected slow consumer channel to be closed")
	}
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	c := NewClient(hub, nil, "alice")
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount("alice") == 1 })

	cancel()
	<-done
	if _, ok := <-c.send; ok {
		t.Fatalf("expected channel closed on shutdown")
	}
}

func TestHub_NilSafe(t *testing.T) {
	var hub *Hub
	hub.Broadcast("alice", []byte("x"))
	hub.Register(nil)
	if hub.ClientCount("alice") != 0 {
		t.Fatalf("expected zero clients on nil hub")
	}
}

func TestNotifier_Publish(t *testing.T) {
	hub := startHub(t)
	c := NewClient(hub, nil, "alice")
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount("alice") == 1 })

	jobID := uuid.New()
	ts := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	NewNotifier(hub, nil).Publish(context.Background(), jobdescription.ChangeEvent{
		Type:      jobdescription.ChangeUpdated,
		UserID:    "alice",
		JobID:     jobID,
		Timestamp: ts,
	})

	raw, ok := receive(t, c.send)
	if !ok {
		t.Fatalf("expected message")
	}
	var msg ChangeMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := ChangeMessage{
		Type:      "job_description_updated",
		UserID:    "alice",
		JobID:     jobID.String(),
		Timestamp: "2024-05-01T08:00:00Z",
	}
	if msg != want {
		t.Fatalf("got %+v, want %+v", msg, want)
	}
}
