//go:build !debug

package assert

// Invariant is a no-op in production builds.
func Invariant(bool, string) {}

// Invariantf is a no-op in production builds.
func Invariantf(bool, string, ...any) {}
