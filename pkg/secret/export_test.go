package secret

// SetReleaseHook installs fn to observe backing storage between zeroing and
// unmapping, and returns a func restoring the previous hook.
func SetReleaseHook(fn func([]byte)) (restore func()) {
	prev := releaseHook
	releaseHook = fn
	return func() { releaseHook = prev }
}

// Storage exposes the backing slice. Valid only until Release.
func Storage(b *Buffer) []byte {
	return b.st.data
}
