// Package accept implements the accept loop (component C3): it listens on
// a TCP endpoint, performs the TLS handshake and protocol-version exchange,
// reads the client's Hello, and registers a new session with the engine.
package accept

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"

	"go.klb.dev/rkvmd/internal/engine"
	"go.klb.dev/rkvmd/internal/message"
	"go.klb.dev/rkvmd/internal/session"
	"go.klb.dev/rkvmd/internal/wire"
)

// ProtocolVersion is exchanged before any other traffic; a mismatch drops
// the connection (spec.md §6, L4).
const ProtocolVersion uint32 = 1

// Loop accepts connections on ln until Accept fails (for example because ln
// has been closed); ctx is not checked while waiting in Accept. A
// fatal listener error is published on clientRx as an engine-fatal
// Registration, matching the teacher's client_sender.send(Err(err)) idiom.
// Non-fatal per-connection errors (TLS, handshake, version, bad Hello) are
// logged and only that connection is dropped.
func Loop(ctx context.Context, ln net.Listener, tlsCfg *tls.Config, clientRx chan<- engine.Registration, inbox chan<- *message.Message) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case clientRx <- engine.Registration{Err: fmt.Errorf("accept: %w", err)}:
			case <-ctx.Done():
			}
			return
		}
		go handle(ctx, conn, tlsCfg, clientRx, inbox)
	}
}

func handle(ctx context.Context, conn net.Conn, tlsCfg *tls.Config, clientRx chan<- engine.Registration, inbox chan<- *message.Message) {
	addr := conn.RemoteAddr().String()

	tlsConn := tls.Server(conn, tlsCfg)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		slog.Error("TLS handshake failed", "addr", addr, "err", err)
		_ = conn.Close()
		return
	}

	if err := wire.WriteVersion(tlsConn, ProtocolVersion); err != nil {
		slog.Error("write version failed", "addr", addr, "err", err)
		_ = tlsConn.Close()
		return
	}

	version, err := wire.ReadVersion(tlsConn)
	if err != nil {
		slog.Error("read version failed", "addr", addr, "err", err)
		_ = tlsConn.Close()
		return
	}
	if version != ProtocolVersion {
		slog.Error("incompatible protocol version", "addr", addr, "got", version, "want", ProtocolVersion)
		_ = tlsConn.Close()
		return
	}

	c := wire.New(tlsConn)
	hello, err := c.ReadMessage()
	if err != nil {
		slog.Error("failed to read hello", "addr", addr, "err", err)
		_ = tlsConn.Close()
		return
	}
	if hello.Type != message.TypeHello {
		slog.Error("expected hello, got different message", "addr", addr, "type", hello.Type)
		_ = tlsConn.Close()
		return
	}

	client := engine.NewClient(hello.Name)
	select {
	case clientRx <- engine.Registration{Client: client}:
	case <-ctx.Done():
		_ = tlsConn.Close()
		return
	}

	slog.Info("client connected", "name", hello.Name, "addr", addr)
	err = session.Run(ctx, c, client.Outbound(), inbox)
	client.Close()
	if err != nil {
		slog.Info("client disconnected", "name", hello.Name, "addr", addr, "err", err)
	} else {
		slog.Info("client disconnected", "name", hello.Name, "addr", addr)
	}
}
