//go:build debug

package assert

import "fmt"

// Invariant panics when ok is false. Only debug builds check; use it for
// internal postconditions, never for validating caller input.
//
//	assert.Invariant(resolved.Host != "", "resolved command URI must carry an authority")
func Invariant(ok bool, msg string) {
	if !ok {
		panic(fmt.Sprintf("INVARIANT VIOLATION: %s", msg))
	}
}

// Invariantf is Invariant with a formatted message. Arguments are only
// formatted when the check fails.
func Invariantf(ok bool, format string, args ...any) {
	if !ok {
		panic("INVARIANT VIOLATION: " + fmt.Sprintf(format, args...))
	}
}
