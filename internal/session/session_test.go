package session

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.klb.dev/rkvmd/internal/message"
	"go.klb.dev/rkvmd/internal/wire"
)

func TestRunForwardsInboundAndDrainsOutbound(t *testing.T) {
	serverSide, peerSide := net.Pipe()
	defer peerSide.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outbound := make(chan *message.Message, 4)
	inbox := make(chan *message.Message, 4)

	done := make(chan error, 1)
	go func() { done <- Run(ctx, wire.New(serverSide), outbound, inbox) }()

	peer := wire.New(peerSide)

	// Inbound: the "client" sends a Hello, the session should forward it.
	require.NoError(t, peer.WriteMessage(message.Hello("alice")))
	select {
	case got := <-inbox:
		require.Equal(t, message.TypeHello, got.Type)
		require.Equal(t, "alice", got.Name)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for forwarded message")
	}

	// Outbound: the engine hands the session a message to deliver.
	outbound <- message.Notify("switching")
	got, err := peer.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, message.TypeNotify, got.Type)
	require.Equal(t, "switching", got.Text)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("session did not stop after cancellation")
	}
}

func TestRunReturnsErrorOnReadFailure(t *testing.T) {
	serverSide, peerSide := net.Pipe()

	ctx := context.Background()
	outbound := make(chan *message.Message)
	inbox := make(chan *message.Message, 4)

	done := make(chan error, 1)
	go func() { done <- Run(ctx, wire.New(serverSide), outbound, inbox) }()

	// Closing the peer side causes the session's read to fail.
	peerSide.Close()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("session did not report the read failure")
	}
}
