// Package wire implements the framed session codec (component C1): reading
// and writing length-prefixed Message records, plus the version handshake
// that precedes all other traffic, over any bidirectional net.Conn.
//
// Wire format:
//
//	[4-byte big-endian length][JSON body]
//
// JSON is used for the body — the same choice the teacher pack makes for
// its own Message envelope — while the outer framing is length-prefixed
// rather than newline-delimited, per spec.md §4.1's literal requirement.
// Reads and writes are message-atomic: either a full frame is produced, or
// an error is returned and the connection should be considered unusable.
package wire

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"go.klb.dev/rkvmd/internal/message"
)

// MaxMessageSize bounds how large a single frame may be, guarding against a
// malformed or hostile length prefix driving unbounded allocation.
const MaxMessageSize = 16 * 1024 * 1024

// MessageTimeout bounds every outbound write; it also defines the keepalive
// cadence clients and the session pump must honor (MessageTimeout/2).
const MessageTimeout = 5 * time.Second

// Conn wraps a net.Conn with buffered length-prefixed Message framing.
type Conn struct {
	conn net.Conn
	br   *bufio.Reader
}

// New wraps conn for framed Message traffic.
func New(conn net.Conn) *Conn {
	return &Conn{conn: conn, br: bufio.NewReaderSize(conn, 64*1024)}
}

// Underlying returns the wrapped net.Conn.
func (c *Conn) Underlying() net.Conn { return c.conn }

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.conn.Close() }

// RemoteAddr returns the remote network address.
func (c *Conn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// WriteVersion writes a single protocol-version scalar, bounded by
// MessageTimeout.
func WriteVersion(conn net.Conn, v uint32) error {
	_ = conn.SetWriteDeadline(time.Now().Add(MessageTimeout))
	defer func() { _ = conn.SetWriteDeadline(time.Time{}) }()

	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := conn.Write(buf[:])
	if err != nil {
		return fmt.Errorf("wire: write version: %w", err)
	}
	return nil
}

// ReadVersion reads a single protocol-version scalar. Unlike writes, reads
// are unbounded at this layer — the peer is expected to send within
// MessageTimeout during the handshake, enforced by the caller if desired.
func ReadVersion(conn net.Conn) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(conn, buf[:]); err != nil {
		return 0, fmt.Errorf("wire: read version: %w", err)
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// WriteMessage serialises msg to JSON and writes one length-prefixed frame,
// bounded by MessageTimeout.
func (c *Conn) WriteMessage(msg *message.Message) error {
	body, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("wire: encode: %w", err)
	}
	if len(body) > MaxMessageSize {
		return fmt.Errorf("wire: message too large (%d bytes)", len(body))
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(MessageTimeout))
	defer func() { _ = c.conn.SetWriteDeadline(time.Time{}) }()

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	if _, err := c.conn.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("wire: write frame length: %w", err)
	}
	if _, err := c.conn.Write(body); err != nil {
		return fmt.Errorf("wire: write frame body: %w", err)
	}
	return nil
}

// ReadMessage reads one length-prefixed frame and deserialises it into a
// Message. Reads are unbounded; a silent peer is expected to send KeepAlive
// at MessageTimeout/2.
func (c *Conn) ReadMessage() (*message.Message, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(c.br, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("wire: read frame length: %w", err)
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > MaxMessageSize {
		return nil, fmt.Errorf("wire: frame too large (%d bytes)", n)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(c.br, body); err != nil {
		return nil, fmt.Errorf("wire: read frame body: %w", err)
	}
	return message.Decode(body)
}
