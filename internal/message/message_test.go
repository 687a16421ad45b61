package message

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.klb.dev/rkvmd/internal/capture"
)

func TestEventRoundTrip(t *testing.T) {
	ev := capture.Event{
		Kind:      capture.EventKey,
		Key:       capture.Key{Code: 42},
		Direction: capture.Down,
		Raw:       []byte{0x01, 0x02, 0x03},
	}

	msg := FromEvent(ev)
	require.Equal(t, TypeEvent, msg.Type)

	body, err := msg.Encode()
	require.NoError(t, err)

	decoded, err := Decode(body)
	require.NoError(t, err)

	got, err := decoded.ToEvent()
	require.NoError(t, err)
	require.Equal(t, ev, got)
}

func TestToEventRejectsNonEventMessage(t *testing.T) {
	_, err := Hello("alice").ToEvent()
	require.Error(t, err)
}

func TestConstructors(t *testing.T) {
	require.Equal(t, TypeHello, Hello("alice").Type)
	require.Equal(t, "alice", Hello("alice").Name)

	require.Equal(t, TypeSetClipboardData, SetClipboardData("x").Type)
	require.Equal(t, "x", SetClipboardData("x").Text)

	require.Equal(t, TypeGetClipboardData, GetClipboardData().Type)
	require.Equal(t, TypeNotify, Notify("hi").Type)
	require.Equal(t, TypeKeepAlive, KeepAlive().Type)
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, err := Decode([]byte("not json"))
	require.Error(t, err)
}
