//go:build linux

package clipboard

import (
	"log/slog"

	"golang.design/x/clipboard"
)

// linuxBackend wraps golang.design/x/clipboard. Unlike internal/capture's
// input grab, the system clipboard is not privileged, so this one talks to
// the real API directly instead of stubbing out a driver seam.
type linuxBackend struct{}

// New returns the Linux clipboard backend, or a headless no-op backend if
// the display environment is unavailable (e.g. a headless server without
// X11 or Wayland).
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return headlessBackend{}
	}
	return linuxBackend{}
}

func (linuxBackend) Name() string { return "Linux clipboard (golang.design/x/clipboard)" }

func (linuxBackend) GetText() (string, bool) {
	text := clipboard.Read(clipboard.FmtText)
	if len(text) == 0 {
		return "", false
	}
	return string(text), true
}

func (linuxBackend) SetText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (linuxBackend) Close() {}
