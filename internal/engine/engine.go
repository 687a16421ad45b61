// Package engine implements the switching engine (component C4): the
// central state machine that owns the client roster, the current target
// index, the switch- and kill-chord detectors, and orchestrates event
// routing and clipboard handoff on every transition.
//
// Engine.Run is the single goroutine that touches clients/current/chord
// state — the same centralising role the teacher's hub.Hub plays for
// peer bookkeeping, except here there is exactly one caller, so no mutex
// is required (spec.md §5).
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.klb.dev/rkvmd/internal/capture"
	"go.klb.dev/rkvmd/internal/clipboard"
	"go.klb.dev/rkvmd/internal/message"
	"go.klb.dev/rkvmd/internal/metrics"
)

// ErrKill is returned by Run when the kill chord fires. The exact text
// matches the literal reason named in spec.md's kill-chord scenario.
var ErrKill = errors.New("Kilt")

// Config configures chord detection. Both maps must be non-empty.
type Config struct {
	SwitchDomain map[capture.Key]bool
	KillDomain   map[capture.Key]bool
}

// Engine is the switching state machine. Zero value is not usable; build
// with New.
type Engine struct {
	capture capture.Manager
	clip    clipboard.Backend

	clients []*Client
	current int

	switchState map[capture.Key]bool
	killState   map[capture.Key]bool

	inbox    chan *message.Message
	clientRx chan Registration
}

// New returns an Engine ready to Run. cfg.SwitchDomain/KillDomain are
// copied so later mutation by the caller has no effect.
func New(cfg Config, cap capture.Manager, clip clipboard.Backend) *Engine {
	return &Engine{
		capture:     cap,
		clip:        clip,
		switchState: cloneFalse(cfg.SwitchDomain),
		killState:   cloneFalse(cfg.KillDomain),
		inbox:       make(chan *message.Message, 64),
		clientRx:    make(chan Registration, 8),
	}
}

func cloneFalse(m map[capture.Key]bool) map[capture.Key]bool {
	out := make(map[capture.Key]bool, len(m))
	for k := range m {
		out[k] = false
	}
	return out
}

// Inbox returns the send side of the shared inbound message channel: every
// internal/session goroutine forwards inbound Messages here (spec.md's
// "in_rx").
func (e *Engine) Inbox() chan<- *message.Message { return e.inbox }

// ClientRx returns the send side of the client-registration channel:
// internal/accept publishes newly handshaken clients (and fatal listener
// errors) here (spec.md's "client_rx").
func (e *Engine) ClientRx() chan<- Registration { return e.clientRx }

// ClientCount reports the current roster size. Test/metrics helper only —
// the engine goroutine is the only writer of clients, so reads from other
// goroutines are racy; callers outside the engine should prefer the
// metrics.ConnectedClients gauge.
func (e *Engine) ClientCount() int { return len(e.clients) }

// Current reports the current target index. Same caveat as ClientCount.
func (e *Engine) Current() int { return e.current }

type eventResult struct {
	event capture.Event
	err   error
}

// Run executes the engine's select loop until ctx is cancelled (clean
// return, nil error) or an engine-fatal condition occurs (non-nil error):
// a capture read/write failure, a fatal accept-loop error, or the kill
// chord firing (ErrKill).
func (e *Engine) Run(ctx context.Context) error {
	events := make(chan eventResult)
	go e.readPump(ctx, events)

	for {
		select {
		case <-ctx.Done():
			return nil

		case msg := <-e.inbox:
			e.handleInbound(msg)

		case res := <-events:
			if res.err != nil {
				if errors.Is(res.err, context.Canceled) {
					return nil
				}
				return fmt.Errorf("engine: capture read failed: %w", res.err)
			}
			if err := e.handleEvent(ctx, res.event); err != nil {
				return err
			}

		case reg := <-e.clientRx:
			if reg.Err != nil {
				return fmt.Errorf("engine: accept loop failed: %w", reg.Err)
			}
			e.clients = append(e.clients, reg.Client)
			metrics.ConnectedClients.Set(float64(len(e.clients)))
			slog.Info("client registered", "name", reg.Client.Name, "id", reg.Client.ID, "total", len(e.clients))
		}
	}
}

// readPump adapts the blocking capture.Manager.Read into a channel so Run
// can select on it alongside the other two sources.
func (e *Engine) readPump(ctx context.Context, out chan<- eventResult) {
	for {
		ev, err := e.capture.Read(ctx)
		select {
		case out <- eventResult{ev, err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

// handleInbound implements §4.4.1: only SetClipboardData has engine-level
// semantics here.
func (e *Engine) handleInbound(msg *message.Message) {
	if msg.Type != message.TypeSetClipboardData {
		return
	}
	if e.current == 0 {
		if err := e.clip.SetText(msg.Text); err != nil {
			slog.Warn("local clipboard set failed", "err", err)
		}
		return
	}
	target := e.clients[e.current-1]
	if err := e.send(target, message.SetClipboardData(msg.Text)); err != nil {
		slog.Warn("clipboard sync send failed", "client", target.Name, "err", err)
	}
}

// handleEvent implements §4.4.2: chord accounting, switch/kill evaluation
// (switch first, mutually exclusive), and the input-routing fallback.
func (e *Engine) handleEvent(ctx context.Context, ev capture.Event) error {
	if ev.Kind == capture.EventKey {
		// A key present in both domains updates both independently — the
		// two chords don't share press state just because a key overlaps.
		if _, ok := e.switchState[ev.Key]; ok {
			e.switchState[ev.Key] = ev.Direction == capture.Down
		}
		if _, ok := e.killState[ev.Key]; ok {
			e.killState[ev.Key] = ev.Direction == capture.Down
		}
	}

	if allPressed(e.switchState) {
		resetAll(e.switchState)
		e.fireSwitch()
		return nil
	}
	if allPressed(e.killState) {
		resetAll(e.killState)
		metrics.KillFires.Inc()
		return ErrKill
	}

	if e.current != 0 {
		idx := e.current - 1
		target := e.clients[idx]
		if err := e.send(target, message.FromEvent(ev)); err == nil {
			return nil
		}
		slog.Warn("input send failed, removing client", "client", target.Name)
		e.removeClient(idx)
		e.current = 0
		metrics.ClientRemovals.Inc()
		metrics.ConnectedClients.Set(float64(len(e.clients)))
	}

	if err := e.capture.Write(ctx, ev); err != nil {
		return fmt.Errorf("engine: local write failed: %w", err)
	}
	return nil
}

// fireSwitch implements the switch-chord branch of §4.4.2: advance current,
// notify, and hand off the clipboard.
func (e *Engine) fireSwitch() {
	metrics.SwitchFires.Inc()

	previous := e.current
	e.current = (e.current + 1) % (len(e.clients) + 1)
	slog.Info("switching", "from", previous, "to", e.current)

	if e.current == 0 {
		e.capture.Notify("I'm over here now!")
	} else {
		target := e.clients[e.current-1]
		if err := e.send(target, message.Notify("I'm over here now!")); err != nil {
			slog.Warn("switch notify send failed", "client", target.Name, "err", err)
		} else {
			e.capture.Notify(fmt.Sprintf("Switched to %s", target.Name))
		}
	}

	if previous == 0 {
		if e.current == 0 {
			return
		}
		if text, ok := e.clip.GetText(); ok && text != "" {
			target := e.clients[e.current-1]
			if err := e.send(target, message.SetClipboardData(text)); err != nil {
				slog.Warn("clipboard handoff send failed", "client", target.Name, "err", err)
			}
		}
		return
	}

	source := e.clients[previous-1]
	if err := e.send(source, message.GetClipboardData()); err != nil {
		slog.Warn("clipboard request send failed", "client", source.Name, "err", err)
	}
}

var errClientGone = errors.New("engine: client gone")

// send delivers msg to c.outbound, reporting failure once c.done has been
// closed by the owning session. The outbound channel is generously
// buffered so in the live-client case this never blocks in practice.
func (e *Engine) send(c *Client, msg *message.Message) error {
	select {
	case <-c.done:
		return errClientGone
	default:
	}
	select {
	case c.outbound <- msg:
		return nil
	case <-c.done:
		return errClientGone
	}
}

func (e *Engine) removeClient(idx int) {
	e.clients = append(e.clients[:idx], e.clients[idx+1:]...)
}

// allPressed reports whether a chord has fired: every value in the map is
// true, and the map is non-empty.
func allPressed(m map[capture.Key]bool) bool {
	if len(m) == 0 {
		return false
	}
	for _, pressed := range m {
		if !pressed {
			return false
		}
	}
	return true
}

// resetAll implements invariant 4: after a chord fires, every key in its
// domain is reset to not-pressed, even if physically still held.
func resetAll(m map[capture.Key]bool) {
	for k := range m {
		m[k] = false
	}
}
