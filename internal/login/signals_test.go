package login

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitFirstReturnsWinner(t *testing.T) {
	fast := make(chan struct{})
	slow := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(fast)
	}()

	name, err := WaitFirst(context.Background(), time.Second,
		Signal{Name: "captcha", C: slow},
		Signal{Name: "navigation", C: fast},
	)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if name != "navigation" {
		t.Fatalf("winner = %q, want navigation", name)
	}
}

func TestWaitFirstDeadline(t *testing.T) {
	never := make(chan struct{})
	_, err := WaitFirst(context.Background(), 20*time.Millisecond,
		Signal{Name: "captcha", C: never},
	)
	if !errors.Is(err, ErrNoSignal) {
		t.Fatalf("expected ErrNoSignal, got %v", err)
	}
}

func TestWaitFirstContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	never := make(chan struct{})
	_, err := WaitFirst(ctx, time.Second, Signal{Name: "x", C: never})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWaitFirstAlreadyFired(t *testing.T) {
	done := make(chan struct{})
	close(done)

	name, err := WaitFirst(context.Background(), time.Second, Signal{Name: "ready", C: done})
	if err != nil || name != "ready" {
		t.Fatalf("got %q, %v", name, err)
	}
}
