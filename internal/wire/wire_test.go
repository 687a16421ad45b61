package wire

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.klb.dev/rkvmd/internal/message"
)

func TestMessageRoundTrip(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	serverConn := New(server)
	clientConn := New(client)

	want := message.Hello("alice")
	errCh := make(chan error, 1)
	go func() { errCh <- serverConn.WriteMessage(want) }()

	got, err := clientConn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, <-errCh)
	require.Equal(t, want, got)
}

func TestVersionRoundTrip(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- WriteVersion(server, 7) }()

	got, err := ReadVersion(client)
	require.NoError(t, err)
	require.NoError(t, <-errCh)
	require.Equal(t, uint32(7), got)
}

func TestReadMessageRejectsOversizedFrame(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	clientConn := New(client)

	go func() {
		_ = server.SetWriteDeadline(time.Now().Add(time.Second))
		var lenBuf [4]byte
		lenBuf[0] = 0xFF // absurdly large length prefix
		_, _ = server.Write(lenBuf[:])
	}()

	_, err := clientConn.ReadMessage()
	require.Error(t, err)
}
