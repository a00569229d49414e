package debug

import "context"

// Introspector is implemented by components that can provide debug snapshots.
//
// The interface compiles in all builds; only debug builds serve it.
type Introspector interface {
	// SnapshotData returns a sanitized view of runtime state.
	//
	// This must NEVER include secrets (passwords, tokens, buffer contents).
	SnapshotData(ctx context.Context) Snapshot
}
