package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func startServer(t *testing.T) *NatsServer {
	t.Helper()

	s, err := NewNatsServer()
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer waitCancel()
	if err := s.WaitReady(waitCtx); err != nil {
		t.Fatalf("server not ready: %v", err)
	}
	return s
}

func TestNatsServer_NotStarted(t *testing.T) {
	s, err := NewNatsServer()
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	if err := s.Publish("x", nil); !errors.Is(err, ErrNotStarted) {
		t.Errorf("publish: expected ErrNotStarted, got %v", err)
	}
	if _, err := s.Subscribe("x", func([]byte) {}); !errors.Is(err, ErrNotStarted) {
		t.Errorf("subscribe: expected ErrNotStarted, got %v", err)
	}
	if _, err := s.Reply("x", func(b []byte) []byte { return b }); !errors.Is(err, ErrNotStarted) {
		t.Errorf("reply: expected ErrNotStarted, got %v", err)
	}
}

func TestNatsServer_PublishSubscribe(t *testing.T) {
	s := startServer(t)

	var mu sync.Mutex
	var got []string
	received := make(chan struct{}, 1)
	unsub, err := s.Subscribe("tycoon.test", func(data []byte) {
		mu.Lock()
		got = append(got, string(data))
		mu.Unlock()
		received <- struct{}{}
	})
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer unsub()

	if err := s.Publish("tycoon.test", []byte("hello")); err != nil {
		t.Fatalf("publishing: %v", err)
	}

	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}

	mu.Lock()
	defer mu.Unlock()
	testutil.AssertEqual(t, "messages", len(got), 1)
	testutil.AssertEqual(t, "payload", got[0], "hello")
}

func TestNatsServer_RequestReply(t *testing.T) {
	s := startServer(t)

	unsub, err := s.Reply("tycoon.echo", func(data []byte) []byte {
		return append([]byte("echo: "), data...)
	})
	if err != nil {
		t.Fatalf("registering reply: %v", err)
	}
	defer unsub()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := s.Request(ctx, "tycoon.echo", []byte("ping"))
	if err != nil {
		t.Fatalf("requesting: %v", err)
	}
	testutil.AssertEqual(t, "reply", string(out), "echo: ping")
}
