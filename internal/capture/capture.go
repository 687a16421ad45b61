// Package capture defines the local input device abstraction the switching
// engine drives. The real backend (grabbing and re-injecting low-level input
// events) is OS/privileged-driver territory and lives behind a build-tagged
// Manager implementation; this file only defines the shape every platform
// satisfies.
package capture

import "context"

// Direction is the transition direction of a key event.
type Direction int

const (
	Up Direction = iota
	Down
)

// Key is an opaque, comparable identifier for a physical key. Code is the
// platform's raw scancode; it is never interpreted by the engine beyond
// equality comparison, so any stable per-key integer works.
type Key struct {
	Code uint16
}

// EventKind distinguishes key transitions, which the engine inspects for
// chord accounting, from everything else, which it forwards unchanged.
type EventKind int

const (
	EventKey EventKind = iota
	EventOther
)

// Event is one item from the capture stream.
type Event struct {
	Kind      EventKind
	Key       Key       // valid when Kind == EventKey
	Direction Direction // valid when Kind == EventKey
	Raw       []byte    // opaque payload for EventOther (movement/button/syn)
}

// Manager is the local input device: it reads the stream of events the
// switching engine routes, and re-injects events the engine decides belong
// to the local machine. Implementations must not block the caller's
// scheduler during setup — run blocking device open on a separate goroutine
// and signal completion.
type Manager interface {
	// Read suspends until the next event is available, or ctx is cancelled.
	Read(ctx context.Context) (Event, error)

	// Write injects an event into the local system.
	Write(ctx context.Context, ev Event) error

	// Notify requests a best-effort desktop notification. It never fails
	// observably.
	Notify(text string)

	// Close releases the underlying device.
	Close() error
}
