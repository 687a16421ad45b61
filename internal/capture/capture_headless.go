package capture

import "context"

// headlessManager is a no-op Manager used when no real input grab is
// available — under test, in a container, or as the fallback when the
// platform backend fails to open its device. Read blocks until ctx is
// cancelled; Write and Notify are no-ops, matching the spec's requirement
// that notify/clipboard failures never propagate.
type headlessManager struct{}

// NewHeadless returns a Manager that never produces events.
func NewHeadless() Manager { return headlessManager{} }

func (headlessManager) Read(ctx context.Context) (Event, error) {
	<-ctx.Done()
	return Event{}, ctx.Err()
}

func (headlessManager) Write(context.Context, Event) error { return nil }
func (headlessManager) Notify(string)                      {}
func (headlessManager) Close() error                       { return nil }
