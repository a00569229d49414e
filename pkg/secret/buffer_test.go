package secret_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/lime/pkg/secret"
)

func TestFromPlainText_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"hunter2", "", "pässwörd", "with\x00nul"} {
		t.Run(fmt.Sprintf("%q", s), func(t *testing.T) {
			t.Parallel()
			in := s
			buf, err := secret.FromPlainText(&in)
			require.NoError(t, err)
			defer buf.Release()

			out, err := secret.ToPlainText(buf)
			require.NoError(t, err)
			assert.Equal(t, s, out)
			assert.Equal(t, len(s), buf.Len())
		})
	}
}

func TestNullInput(t *testing.T) {
	t.Parallel()

	_, err := secret.FromPlainText(nil)
	assert.ErrorIs(t, err, secret.ErrNullInput)

	_, err = secret.FromBytes(nil)
	assert.ErrorIs(t, err, secret.ErrNullInput)

	_, err = secret.ToPlainText(nil)
	assert.ErrorIs(t, err, secret.ErrNullInput)
}

func TestNilBuffer(t *testing.T) {
	t.Parallel()

	var buf *secret.Buffer
	assert.Zero(t, buf.Len())
	assert.True(t, buf.Released())
	assert.ErrorIs(t, buf.Use(func([]byte) error { return nil }), secret.ErrNullInput)
	assert.False(t, buf.Equal(nil))
	assert.NotPanics(t, buf.Release)
}

func TestRelease_AfterUseReturns(t *testing.T) {
	t.Parallel()

	s := "token"
	buf, err := secret.FromPlainText(&s)
	require.NoError(t, err)

	var n int
	require.NoError(t, buf.Use(func(p []byte) error {
		n = len(p)
		return nil
	}))
	buf.Release()

	assert.Equal(t, len(s), n)
	assert.True(t, buf.Released())
	assert.Zero(t, buf.Len())
}

func TestFromBytes_WipesSource(t *testing.T) {
	t.Parallel()

	src := []byte("s3cr3t")
	buf, err := secret.FromBytes(src)
	require.NoError(t, err)
	defer buf.Release()

	assert.Equal(t, make([]byte, 6), src)
	out, err := secret.ToPlainText(buf)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", out)
}

func TestRelease(t *testing.T) {
	t.Parallel()

	s := "token"
	buf, err := secret.FromPlainText(&s)
	require.NoError(t, err)

	buf.Release()
	buf.Release()

	assert.True(t, buf.Released())
	assert.Zero(t, buf.Len())

	_, err = secret.ToPlainText(buf)
	assert.ErrorIs(t, err, secret.ErrReleased)

	called := false
	err = buf.Use(func([]byte) error { called = true; return nil })
	assert.ErrorIs(t, err, secret.ErrReleased)
	assert.False(t, called)
}

func TestRelease_ZeroesBackingStorage(t *testing.T) {
	var seen [][]byte
	restore := secret.SetReleaseHook(func(p []byte) {
		seen = append(seen, bytes.Clone(p))
	})
	defer restore()

	s := "correct horse battery staple"
	buf, err := secret.FromPlainText(&s)
	require.NoError(t, err)
	assert.Equal(t, []byte(s), secret.Storage(buf))

	buf.Release()

	require.Len(t, seen, 1)
	assert.Len(t, seen[0], len(s))
	assert.Equal(t, make([]byte, len(s)), seen[0])
}

func TestRelease_ZeroesOnUseError(t *testing.T) {
	var zeroed bool
	restore := secret.SetReleaseHook(func(p []byte) {
		zeroed = !slicesContainNonZero(p)
	})
	defer restore()

	s := "password"
	buf, err := secret.FromPlainText(&s)
	require.NoError(t, err)

	boom := errors.New("boom")
	func() {
		defer buf.Release()
		err = buf.Use(func([]byte) error { return boom })
	}()

	assert.ErrorIs(t, err, boom)
	assert.True(t, zeroed)
}

func slicesContainNonZero(p []byte) bool {
	for _, c := range p {
		if c != 0 {
			return true
		}
	}
	return false
}

func TestEqual(t *testing.T) {
	t.Parallel()

	a1, a2, b := "alpha", "alpha", "bravo"
	x, _ := secret.FromPlainText(&a1)
	y, _ := secret.FromPlainText(&a2)
	z, _ := secret.FromPlainText(&b)
	defer x.Release()
	defer z.Release()

	assert.True(t, x.Equal(y))
	assert.True(t, y.Equal(x))
	assert.True(t, x.Equal(x))
	assert.False(t, x.Equal(z))
	assert.False(t, x.Equal(nil))

	y.Release()
	assert.False(t, x.Equal(y))
}

func TestRedaction(t *testing.T) {
	t.Parallel()

	s := "do-not-print"
	buf, err := secret.FromPlainText(&s)
	require.NoError(t, err)
	defer buf.Release()

	assert.NotContains(t, fmt.Sprintf("%v %s %+v %#v %x", buf, buf, buf, buf, buf), s)

	js, err := json.Marshal(map[string]any{"password": buf})
	require.NoError(t, err)
	assert.JSONEq(t, `{"password":"[REDACTED]"}`, string(js))

	var logs bytes.Buffer
	slog.New(slog.NewTextHandler(&logs, nil)).Info("login", "password", buf)
	assert.NotContains(t, logs.String(), s)
	assert.Contains(t, logs.String(), "[REDACTED]")
}

func TestConcurrentReadersAndRelease(t *testing.T) {
	t.Parallel()

	s := "shared"
	buf, err := secret.FromPlainText(&s)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := secret.ToPlainText(buf)
			if err == nil {
				assert.Equal(t, s, out)
			} else {
				assert.ErrorIs(t, err, secret.ErrReleased)
			}
		}()
	}
	buf.Release()
	wg.Wait()
}

type countingObserver struct {
	mu                  sync.Mutex
	allocated, released int
}

func (c *countingObserver) BufferAllocated() { c.mu.Lock(); c.allocated++; c.mu.Unlock() }
func (c *countingObserver) BufferReleased()  { c.mu.Lock(); c.released++; c.mu.Unlock() }

func TestObserver(t *testing.T) {
	obs := &countingObserver{}
	secret.SetObserver(obs)
	defer secret.SetObserver(nil)

	before := secret.Live()
	s := "x"
	buf, err := secret.FromPlainText(&s)
	require.NoError(t, err)
	assert.Equal(t, before+1, secret.Live())

	buf.Release()
	assert.Equal(t, before, secret.Live())

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, 1, obs.allocated)
	assert.Equal(t, 1, obs.released)
}

func TestClearObserver(t *testing.T) {
	first, second := &countingObserver{}, &countingObserver{}

	secret.SetObserver(first)
	defer secret.SetObserver(nil)
	secret.SetObserver(second)

	assert.False(t, secret.ClearObserver(first), "replaced observer must not clear the current one")

	s := "x"
	buf, err := secret.FromPlainText(&s)
	require.NoError(t, err)

	assert.True(t, secret.ClearObserver(second))
	assert.False(t, secret.ClearObserver(second))
	buf.Release()

	second.mu.Lock()
	defer second.mu.Unlock()
	assert.Equal(t, 1, second.allocated)
	assert.Zero(t, second.released)
	assert.Zero(t, first.allocated)
}
