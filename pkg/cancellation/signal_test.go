package cancellation_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/lime/pkg/cancellation"
)

func TestSource_Cancel(t *testing.T) {
	t.Parallel()

	src := cancellation.NewSource(context.Background())
	defer src.Close()

	assert.False(t, src.Cancelled())
	_, ok := src.CancelledAt()
	assert.False(t, ok)
	assert.NoError(t, src.Cause())

	before := time.Now()
	src.Cancel()

	assert.True(t, src.Cancelled())
	at, ok := src.CancelledAt()
	require.True(t, ok)
	assert.False(t, at.Before(before))
	assert.ErrorIs(t, src.Cause(), context.Canceled)
	assert.ErrorIs(t, context.Cause(src.Context()), context.Canceled)

	select {
	case <-src.Done():
	default:
		t.Fatal("context not done after Cancel")
	}
}

func TestSource_OneShot(t *testing.T) {
	t.Parallel()

	src := cancellation.NewSource(context.Background())
	defer src.Close()

	custom := errors.New("first")
	src.CancelWithCause(custom)
	first, _ := src.CancelledAt()

	time.Sleep(2 * time.Millisecond)
	src.Cancel()
	src.CancelWithCause(errors.New("second"))

	second, _ := src.CancelledAt()
	assert.Equal(t, first, second, "fire time must not change after the first fire")
	assert.ErrorIs(t, src.Cause(), custom)
}

func TestSource_CancelWithNilCause(t *testing.T) {
	t.Parallel()

	src := cancellation.NewSource(context.Background())
	src.CancelWithCause(nil)

	assert.ErrorIs(t, src.Cause(), context.Canceled)
}

func TestSourceAfter_Fires(t *testing.T) {
	t.Parallel()

	start := time.Now()
	src := cancellation.NewSourceAfter(context.Background(), 10*time.Millisecond)
	defer src.Close()

	select {
	case <-src.Done():
	case <-time.After(time.Second):
		t.Fatal("time-to-live signal never fired")
	}

	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.ErrorIs(t, src.Cause(), context.DeadlineExceeded)
}

func TestSourceAfter_NonPositiveFiresImmediately(t *testing.T) {
	t.Parallel()

	src := cancellation.NewSourceAfter(context.Background(), 0)
	assert.True(t, src.Cancelled())
	assert.ErrorIs(t, src.Cause(), context.DeadlineExceeded)
}

func TestSource_ParentCancellation(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithCancelCause(context.Background())
	src := cancellation.NewSource(parent)
	defer src.Close()

	reason := errors.New("shutting down")
	cancel(reason)

	select {
	case <-src.Done():
	case <-time.After(time.Second):
		t.Fatal("parent cancellation not forwarded")
	}
	assert.ErrorIs(t, src.Cause(), reason)
}

func TestSource_CloseReleasesWithoutFiring(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithCancel(context.Background())
	src := cancellation.NewSourceAfter(parent, 20*time.Millisecond)
	src.Close()
	src.Close()

	cancel()
	time.Sleep(50 * time.Millisecond)

	assert.False(t, src.Cancelled(), "closed signal must not fire from timer or parent")
}

func TestSource_KeepsParentValues(t *testing.T) {
	t.Parallel()

	type key struct{}
	parent := context.WithValue(context.Background(), key{}, "v")
	src := cancellation.NewSource(parent)
	defer src.Close()

	assert.Equal(t, "v", src.Context().Value(key{}))
}

func TestSource_OnCancel(t *testing.T) {
	t.Parallel()

	src := cancellation.NewSource(context.Background())

	var got []cancellation.Event
	src.OnCancel(func(ev cancellation.Event) { got = append(got, ev) })
	removed := src.OnCancel(func(cancellation.Event) { t.Error("unsubscribed handler called") })
	removed()

	src.Cancel()
	src.Cancel()

	require.Len(t, got, 1)
	assert.ErrorIs(t, got[0].Cause, context.Canceled)

	// Subscribing after the fire runs the handler immediately.
	var late bool
	src.OnCancel(func(cancellation.Event) { late = true })
	assert.True(t, late)
}

func TestSource_ConcurrentReaders(t *testing.T) {
	t.Parallel()

	src := cancellation.NewSource(context.Background())
	var handlerCalls atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			src.OnCancel(func(cancellation.Event) { handlerCalls.Add(1) })
			_ = src.Cancelled()
			<-src.Done()
		}()
	}

	for i := 0; i < 8; i++ {
		go src.Cancel()
	}
	wg.Wait()

	assert.Equal(t, int32(32), handlerCalls.Load(), "each handler runs exactly once")
}
