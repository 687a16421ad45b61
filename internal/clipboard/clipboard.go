// Package clipboard provides a unified interface to the system clipboard
// across platforms, trimmed to the plain-text surface the switching engine
// needs (spec.md's clipboard.get_text/set_text). Build constraints select
// the appropriate implementation:
//
//	clipboard_linux.go — via golang.design/x/clipboard, reading and writing
//	                      text on demand; falls back to the headless backend
//	                      when no display server is available
//	clipboard_other.go — headless stub for non-Linux platforms
package clipboard

// Backend is the interface every platform clipboard implementation
// satisfies. Both operations are best-effort: callers log failures but
// never propagate them, per spec.md §4.5.
type Backend interface {
	// Name returns a human-readable backend name, for logging.
	Name() string

	// GetText returns the current clipboard text and whether it was
	// present. An empty, non-present clipboard returns ("", false).
	GetText() (string, bool)

	// SetText replaces the clipboard contents with text.
	SetText(text string) error

	// Close releases any resources held by the backend.
	Close()
}
