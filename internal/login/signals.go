package login

import (
	"context"
	"errors"
	"time"
)

// ErrNoSignal is returned when the deadline expires before any signal fires.
var ErrNoSignal = errors.New("no signal before deadline")

// Signal is a named one-shot event source.
type Signal struct {
	Name string
	C    <-chan struct{}
}

// WaitFirst blocks until the first of the given signals fires and returns its
// name. If the timeout or the context expires first it returns ErrNoSignal or
// the context error. Losing signals are left to fire into the void.
func WaitFirst(ctx context.Context, timeout time.Duration, signals ...Signal) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	winner := make(chan string, len(signals))
	for _, s := range signals {
		s := s
		go func() {
			select {
			case <-s.C:
				winner <- s.Name
			case <-ctx.Done():
			}
		}()
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case name := <-winner:
		return name, nil
	case <-timer.C:
		return "", ErrNoSignal
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
