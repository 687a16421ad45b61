// Package message defines the rkvmd wire protocol: the tagged Message union
// exchanged between the server's switching engine and a connected client,
// once framed and transported by internal/wire.
package message

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"go.klb.dev/rkvmd/internal/capture"
)

// Type identifies the kind of message on the wire.
type Type string

const (
	TypeHello            Type = "HELLO"
	TypeEvent            Type = "EVENT"
	TypeSetClipboardData Type = "SET_CLIPBOARD"
	TypeGetClipboardData Type = "GET_CLIPBOARD"
	TypeNotify           Type = "NOTIFY"
	TypeKeepAlive        Type = "KEEP_ALIVE"
)

// eventWire is the JSON-safe mirror of capture.Event. Raw is base64-encoded
// so arbitrary movement/button payloads travel safely inside JSON.
type eventWire struct {
	Kind      capture.EventKind `json:"kind"`
	Key       uint16            `json:"key,omitempty"`
	Direction capture.Direction `json:"direction,omitempty"`
	Raw       string            `json:"raw,omitempty"`
}

// Message is the top-level wire envelope. Only the fields relevant to Type
// are populated; this mirrors the teacher's single-struct envelope style
// rather than a Go union-via-interface, keeping (de)serialisation trivial.
type Message struct {
	Type Type `json:"type"`

	// HELLO
	Name string `json:"name,omitempty"`

	// EVENT
	Event *eventWire `json:"event,omitempty"`

	// SET_CLIPBOARD, NOTIFY
	Text string `json:"text,omitempty"`
}

// Hello builds a HELLO message.
func Hello(name string) *Message { return &Message{Type: TypeHello, Name: name} }

// FromEvent builds an EVENT message carrying ev.
func FromEvent(ev capture.Event) *Message {
	return &Message{
		Type: TypeEvent,
		Event: &eventWire{
			Kind:      ev.Kind,
			Key:       ev.Key.Code,
			Direction: ev.Direction,
			Raw:       base64.StdEncoding.EncodeToString(ev.Raw),
		},
	}
}

// ToEvent extracts the capture.Event carried by an EVENT message.
func (m *Message) ToEvent() (capture.Event, error) {
	if m.Type != TypeEvent || m.Event == nil {
		return capture.Event{}, fmt.Errorf("message: not an EVENT message")
	}
	var raw []byte
	if m.Event.Raw != "" {
		var err error
		raw, err = base64.StdEncoding.DecodeString(m.Event.Raw)
		if err != nil {
			return capture.Event{}, fmt.Errorf("message: decode event payload: %w", err)
		}
	}
	return capture.Event{
		Kind:      m.Event.Kind,
		Key:       capture.Key{Code: m.Event.Key},
		Direction: m.Event.Direction,
		Raw:       raw,
	}, nil
}

// SetClipboardData builds a SET_CLIPBOARD message carrying text.
func SetClipboardData(text string) *Message {
	return &Message{Type: TypeSetClipboardData, Text: text}
}

// GetClipboardData builds a GET_CLIPBOARD request (no payload).
func GetClipboardData() *Message { return &Message{Type: TypeGetClipboardData} }

// Notify builds a NOTIFY message asking the peer to display text.
func Notify(text string) *Message { return &Message{Type: TypeNotify, Text: text} }

// KeepAlive builds a content-free heartbeat message.
func KeepAlive() *Message { return &Message{Type: TypeKeepAlive} }

// Encode serialises m to JSON.
func (m *Message) Encode() ([]byte, error) { return json.Marshal(m) }

// Decode deserialises a Message from raw JSON bytes.
func Decode(b []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("message: decode: %w", err)
	}
	return &m, nil
}
