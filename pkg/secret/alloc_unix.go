//go:build unix

package secret

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// allocate maps n anonymous bytes and tries to lock them into RAM so they
// are never written to swap. A failed mlock (RLIMIT_MEMLOCK) is tolerated.
func allocate(n int) (*storage, error) {
	if n == 0 {
		return &storage{data: []byte{}}, nil
	}
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap: %w", ErrAllocate, err)
	}
	st := &storage{data: data, mapped: true}
	if unix.Mlock(data) == nil {
		st.locked = true
	}
	return st, nil
}

// release hands zeroed storage back to the kernel.
func release(st *storage) {
	if !st.mapped {
		return
	}
	if st.locked {
		_ = unix.Munlock(st.data)
	}
	_ = unix.Munmap(st.data)
}
