//go:build !linux

package capture

import "context"

// New returns the headless Manager on platforms without a capture backend
// built in. The engine and its tests only depend on the Manager interface,
// so this keeps the package buildable everywhere the rest of rkvmd runs.
func New(ctx context.Context) (Manager, error) {
	return NewHeadless(), nil
}
