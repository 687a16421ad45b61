package clipboard

// headlessBackend is a no-op clipboard backend used on platforms/containers
// without a display server, and as the fallback when the native backend
// fails to initialize.
type headlessBackend struct{}

func (headlessBackend) Name() string            { return "headless (no-op)" }
func (headlessBackend) GetText() (string, bool) { return "", false }
func (headlessBackend) SetText(string) error    { return nil }
func (headlessBackend) Close()                  {}
