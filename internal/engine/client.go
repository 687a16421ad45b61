package engine

import (
	"sync"

	"github.com/google/uuid"

	"go.klb.dev/rkvmd/internal/message"
)

// outboundBuffer is generously sized so the engine's send to a live client
// essentially never blocks on backpressure — only a dead client (done
// closed) turns a send into a failure, mirroring the unbounded channel the
// original implementation uses for the same purpose.
const outboundBuffer = 256

// Client is the roster entry for a connected peer: spec.md's
// "{ name: string, outbound: unbounded sink of Message }". Client is owned
// by the engine goroutine; internal/accept hands Outbound() to
// internal/session and calls Close() once, when that session exits.
type Client struct {
	ID   string
	Name string

	outbound chan *message.Message
	done     chan struct{}
	closeOne sync.Once
}

// NewClient creates a Client ready for registration. ID is a UUIDv4 used
// only for log correlation — targets are always addressed by roster index,
// never by ID.
func NewClient(name string) *Client {
	return &Client{
		ID:       uuid.NewString(),
		Name:     name,
		outbound: make(chan *message.Message, outboundBuffer),
		done:     make(chan struct{}),
	}
}

// Outbound returns the channel internal/session drains and writes to the
// wire.
func (c *Client) Outbound() <-chan *message.Message { return c.outbound }

// Close marks the client as gone. Idempotent. Called once by the accept
// handler when the client's session pump exits for any reason — this is the
// signal the engine's next send attempt observes as a send failure.
func (c *Client) Close() {
	c.closeOne.Do(func() { close(c.done) })
}

// Registration is published on the engine's client-registration channel by
// the accept loop. Err is set only for a fatal listener failure, which the
// engine promotes to an engine-fatal condition.
type Registration struct {
	Client *Client
	Err    error
}
