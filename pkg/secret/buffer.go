// Package secret holds credential material outside ordinary Go strings.
//
// A Buffer copies secret bytes into storage that is allocated off the Go heap
// where the platform allows it (an anonymous mapping locked into RAM on unix)
// and overwrites that storage with zeros before it is handed back to the
// operating system. The only way to get an ordinary string back is
// ToPlainText; the caller owns that copy.
//
// A Buffer has a single owner. Reads (Use, ToPlainText, Equal) may run
// concurrently with each other but never with Release.
package secret

import (
	"crypto/subtle"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
)

const redacted = "[REDACTED]"

// Observer is told about buffer allocation and release. *metrics.Metrics implements it.
type Observer interface {
	BufferAllocated()
	BufferReleased()
}

var (
	observer atomic.Pointer[Observer]
	live     atomic.Int64
	nextID   atomic.Uint64

	// releaseHook, when set, sees the backing storage after zeroing and
	// before it is unmapped. Tests only.
	releaseHook func([]byte)
)

// SetObserver installs o as the process-wide observer, replacing any
// previous one. Nil removes it. An observer only hears about events after it
// is installed; seed it from Live.
func SetObserver(o Observer) {
	if o == nil {
		observer.Store(nil)
		return
	}
	observer.Store(&o)
}

// ClearObserver removes o if it is still the installed observer. It reports
// whether it did; a later SetObserver with another observer is left alone.
func ClearObserver(o Observer) bool {
	cur := observer.Load()
	if cur == nil || *cur != o {
		return false
	}
	return observer.CompareAndSwap(cur, nil)
}

// Live returns the number of buffers allocated and not yet released.
func Live() int64 {
	return live.Load()
}

// storage is kept apart from Buffer so the cleanup backstop can reach it
// without keeping the Buffer itself reachable.
type storage struct {
	data   []byte
	mapped bool
	locked bool
}

func (s *storage) wipe() {
	if s.data == nil {
		return
	}
	clear(s.data)
	if releaseHook != nil {
		releaseHook(s.data)
	}
	release(s)
	s.data = nil
	live.Add(-1)
	if o := observer.Load(); o != nil {
		(*o).BufferReleased()
	}
}

// Buffer is an opaque handle to secret bytes.
type Buffer struct {
	id      uint64
	mu      sync.RWMutex
	st      *storage
	cleanup runtime.Cleanup
}

// FromPlainText copies *s into a new Buffer.
//
// Go strings are immutable, so the caller's string cannot be wiped. Prefer
// FromBytes when the secret is still in a mutable slice.
func FromPlainText(s *string) (*Buffer, error) {
	if s == nil {
		return nil, ErrNullInput
	}
	return newBuffer(len(*s), func(dst []byte) { copy(dst, *s) })
}

// FromBytes copies b into a new Buffer and then zeroes b.
func FromBytes(b []byte) (*Buffer, error) {
	if b == nil {
		return nil, ErrNullInput
	}
	buf, err := newBuffer(len(b), func(dst []byte) { copy(dst, b) })
	clear(b)
	return buf, err
}

func newBuffer(n int, fill func([]byte)) (*Buffer, error) {
	st, err := allocate(n)
	if err != nil {
		return nil, err
	}
	fill(st.data)

	b := &Buffer{id: nextID.Add(1), st: st}
	// Backstop only. Owners are expected to call Release.
	b.cleanup = runtime.AddCleanup(b, (*storage).wipe, st)

	live.Add(1)
	if o := observer.Load(); o != nil {
		(*o).BufferAllocated()
	}
	return b, nil
}

// ToPlainText returns an ordinary string copy of the secret. The copy is
// outside the buffer's protection and lives until the garbage collector
// reclaims it.
func ToPlainText(b *Buffer) (string, error) {
	if b == nil {
		return "", ErrNullInput
	}
	var out string
	err := b.Use(func(p []byte) error {
		out = string(p)
		return nil
	})
	return out, err
}

// Use lends the secret bytes to fn. fn must not retain or modify p.
//
// The buffer is read-locked while fn runs, so fn must not call methods on
// b: Release deadlocks, and a nested read can deadlock behind a pending
// Release. Read what fn needs from p.
func (b *Buffer) Use(fn func(p []byte) error) error {
	if b == nil {
		return ErrNullInput
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.st.data == nil {
		return ErrReleased
	}
	return fn(b.st.data)
}

// Len returns the secret length in bytes, or 0 after Release or for nil.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.st.data)
}

// Released reports whether Release has been called. A nil Buffer counts
// as released.
func (b *Buffer) Released() bool {
	if b == nil {
		return true
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.st.data == nil
}

// Equal compares two secrets in constant time with respect to their contents.
// Released or nil buffers are never equal.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == nil || other == nil {
		return false
	}
	if b == other {
		return !b.Released()
	}

	first, second := b, other
	if second.id < first.id {
		first, second = second, first
	}
	first.mu.RLock()
	defer first.mu.RUnlock()
	second.mu.RLock()
	defer second.mu.RUnlock()

	if b.st.data == nil || other.st.data == nil {
		return false
	}
	return subtle.ConstantTimeCompare(b.st.data, other.st.data) == 1
}

// Release zeroes the backing storage and returns it to the system.
// Calling Release more than once is a no-op.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.st.data == nil {
		return
	}
	b.cleanup.Stop()
	b.st.wipe()
}

// String implements fmt.Stringer without revealing the secret.
func (b *Buffer) String() string { return redacted }

// GoString implements fmt.GoStringer without revealing the secret.
func (b *Buffer) GoString() string { return "secret.Buffer{" + redacted + "}" }

// LogValue implements slog.LogValuer.
func (b *Buffer) LogValue() slog.Value { return slog.StringValue(redacted) }

// MarshalJSON always encodes the redaction marker.
func (b *Buffer) MarshalJSON() ([]byte, error) { return []byte(`"` + redacted + `"`), nil }
