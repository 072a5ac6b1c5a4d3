package testkit

import "testing"

// Swap swaps a function seam for the duration of the test and restores it
// after. The target must not be shared with a concurrently running test
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}
