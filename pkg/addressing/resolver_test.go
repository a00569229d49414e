package addressing_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/lime/internal/debug"
	"github.com/sufield/lime/pkg/addressing"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingObserver) ObserveResolution(kind, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, kind+"/"+outcome)
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := &recordingObserver{}
	r := addressing.NewResolver(addressing.WithLogger(logger), addressing.WithObserver(obs))

	u, err := r.Resolve(command(t, "/accounts/1", "alice@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "lime://alice@example.com/accounts/1", u.String())

	_, err = r.Resolve(command(t, "lime://bob@example.org/x", ""))
	require.NoError(t, err)

	_, err = r.Resolve(command(t, "/accounts/1", ""))
	assert.ErrorIs(t, err, addressing.ErrMissingSender)

	assert.Equal(t, []string{"relative/ok", "absolute/ok", "relative/error"}, obs.calls)
	assert.Contains(t, logs.String(), "command URI resolution failed")
	assert.Contains(t, logs.String(), "command URI resolved")
}

func TestResolver_Route(t *testing.T) {
	t.Parallel()
	r := addressing.NewResolver()

	id, err := r.Route(command(t, "/presence", "alice@example.com/phone"))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", id.String())
}

func TestResolver_History(t *testing.T) {
	t.Parallel()
	r := addressing.NewResolver(addressing.WithHistorySize(3))

	for i := range 5 {
		_, _ = r.Resolve(command(t, fmt.Sprintf("/item/%d", i), "alice@example.com"))
	}

	recent := r.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "/item/2", recent[0].URI)
	assert.Equal(t, "lime://alice@example.com/item/4", recent[2].Resolved)
	assert.Equal(t, "alice@example.com", recent[2].From)
	assert.NotEmpty(t, recent[2].CommandID)

	none := addressing.NewResolver(addressing.WithHistorySize(0))
	_, _ = none.Resolve(command(t, "/x", "alice@example.com"))
	assert.Empty(t, none.Recent())
}

func TestResolver_InjectedFault(t *testing.T) {
	debug.Faults.Reset()
	t.Cleanup(debug.Faults.Reset)

	r := addressing.NewResolver()
	debug.Faults.SetFailNextResolution(true)

	_, err := r.Resolve(command(t, "/accounts/1", "alice@example.com"))
	assert.ErrorIs(t, err, addressing.ErrFaultInjected)

	_, err = r.Resolve(command(t, "/accounts/1", "alice@example.com"))
	assert.NoError(t, err, "fault is one-shot")

	recent := r.Recent()
	require.Len(t, recent, 2)
	assert.ErrorIs(t, recent[0].Err, addressing.ErrFaultInjected)
}
