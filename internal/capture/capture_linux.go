//go:build linux

package capture

import (
	"context"
	"errors"
	"log/slog"
)

// New opens the local input device. The actual grab/inject pair (opening an
// evdev device in exclusive mode and re-injecting through a uinput node) is
// privileged, OS-specific driver work that spec.md §1 explicitly scopes out
// of the switching engine ("the raw input-capture driver (a EventManager
// abstraction)") — this function is the seam the engine calls through.
// Device setup genuinely blocks (opening /dev/input/event*, acquiring
// EVIOCGRAB), so it runs on its own goroutine and New awaits a result
// channel rather than blocking the caller's own goroutine directly.
func New(ctx context.Context) (Manager, error) {
	type result struct {
		m   Manager
		err error
	}
	done := make(chan result, 1)
	go func() {
		m, err := openDevice()
		done <- result{m, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			slog.Warn("input device unavailable, running headless", "err", r.err)
			return NewHeadless(), nil
		}
		return r.m, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// openDevice is the real evdev/uinput integration point. Out of scope for
// this repository; always reports unavailable so New falls back to the
// headless manager.
func openDevice() (Manager, error) {
	return nil, errors.New("evdev capture backend not built into this binary")
}
