// Package session implements the client session task (component C2): the
// per-connection duplex pump that drains a client's outbound queue to the
// socket, forwards inbound messages to the engine's shared inbox, and
// emits keepalives on an idle outbound queue.
package session

import (
	"context"
	"fmt"
	"time"

	"go.klb.dev/rkvmd/internal/message"
	"go.klb.dev/rkvmd/internal/wire"
)

type readResult struct {
	msg *message.Message
	err error
}

// Run multiplexes outbound drain, keepalive, and inbound read until any
// branch terminates the session, mirroring the teacher's
// tcppeer.Peer.Serve duplex pump collapsed into the two-branch select
// spec.md §4.2 describes. conn is closed on return.
func Run(ctx context.Context, conn *wire.Conn, outbound <-chan *message.Message, inbox chan<- *message.Message) error {
	defer conn.Close()

	// Buffered by one: if Run returns for another reason (outbound write
	// timeout, ctx cancellation) while readPump is blocked in conn.Read,
	// conn.Close() unblocks it and the resulting send must not leak the
	// goroutine waiting for a receiver that is no longer there.
	reads := make(chan readResult, 1)
	go readPump(conn, reads)

	for {
		select {
		case <-ctx.Done():
			return nil

		case msg, ok := <-outbound:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(msg); err != nil {
				return fmt.Errorf("session: write timeout: %w", err)
			}

		case <-time.After(wire.MessageTimeout / 2):
			if err := conn.WriteMessage(message.KeepAlive()); err != nil {
				return fmt.Errorf("session: write timeout: %w", err)
			}

		case r := <-reads:
			if r.err != nil {
				return fmt.Errorf("session: read failed: %w", r.err)
			}
			select {
			case inbox <- r.msg:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// readPump continuously reads Messages off conn and reports each result on
// out, so Run can select on it alongside the outbound/keepalive branches.
// It exits after the first error — the caller's conn.Close() (on Run's
// return) unblocks any in-flight read.
func readPump(conn *wire.Conn, out chan<- readResult) {
	for {
		msg, err := conn.ReadMessage()
		out <- readResult{msg, err}
		if err != nil {
			return
		}
	}
}
