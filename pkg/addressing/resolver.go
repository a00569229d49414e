package addressing

import (
	"io"
	"log/slog"
	"net/url"
	"sync"

	"github.com/sufield/lime/internal/assert"
	"github.com/sufield/lime/internal/debug"
	"github.com/sufield/lime/internal/domain"
	"github.com/sufield/lime/internal/metrics"
)

// DefaultHistorySize is how many recent resolutions a Resolver keeps.
const DefaultHistorySize = 32

// Observer records resolution outcomes. *metrics.Metrics implements it.
type Observer interface {
	ObserveResolution(kind, outcome string)
}

// Resolution is one entry of a Resolver's history.
type Resolution struct {
	CommandID string
	From      string
	URI       string
	Resolved  string
	Err       error
}

// Resolver wraps ResolveCommandURI with logging, metrics and a short
// history for introspection.
type Resolver struct {
	logger   *slog.Logger
	observer Observer

	mu      sync.Mutex
	history []Resolution
	next    int
	size    int
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets a structured logger.
// If logger is nil, uses io.Discard for silent operation
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		} else {
			r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
	}
}

// WithObserver sets the metrics observer.
func WithObserver(o Observer) ResolverOption {
	return func(r *Resolver) {
		r.observer = o
	}
}

// WithHistorySize sets how many resolutions are retained; 0 disables history.
func WithHistorySize(n int) ResolverOption {
	return func(r *Resolver) {
		if n >= 0 {
			r.size = n
		}
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		size:   DefaultHistorySize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve resolves cmd's resource URI. See ResolveCommandURI.
func (r *Resolver) Resolve(cmd *domain.Command) (*url.URL, error) {
	kind := "absolute"
	if cmd != nil && cmd.URI != nil && IsRelative(cmd.URI) {
		kind = "relative"
	}

	var (
		u   *url.URL
		err error
	)
	if debug.Faults.ShouldFailResolution() {
		debug.GetLogger().Debugf("injected resolution failure for command %s", commandID(cmd))
		err = ErrFaultInjected
	} else {
		u, err = ResolveCommandURI(cmd)
	}

	if err == nil {
		assert.Invariant(u.Host != "", "resolved command URI must carry an authority")
	}

	r.record(cmd, u, err)

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
		r.logger.Warn("command URI resolution failed",
			"command_id", commandID(cmd),
			"kind", kind,
			"error", err)
	} else {
		r.logger.Debug("command URI resolved",
			"command_id", commandID(cmd),
			"kind", kind,
			"resolved", u.Redacted())
	}
	if r.observer != nil {
		r.observer.ObserveResolution(kind, outcome)
	}
	return u, err
}

// Route resolves cmd and returns the identity it must be routed to.
func (r *Resolver) Route(cmd *domain.Command) (domain.Identity, error) {
	u, err := r.Resolve(cmd)
	if err != nil {
		return domain.Identity{}, err
	}
	return IdentityFromURI(u)
}

// Recent returns the retained resolutions, oldest first.
func (r *Resolver) Recent() []Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.history) < r.size {
		return append([]Resolution(nil), r.history...)
	}
	out := make([]Resolution, 0, len(r.history))
	out = append(out, r.history[r.next:]...)
	return append(out, r.history[:r.next]...)
}

func (r *Resolver) record(cmd *domain.Command, u *url.URL, err error) {
	if r.size == 0 {
		return
	}
	entry := Resolution{CommandID: commandID(cmd), Err: err}
	if cmd != nil {
		if cmd.From != nil {
			entry.From = cmd.From.String()
		}
		if cmd.URI != nil {
			entry.URI = cmd.URI.Redacted()
		}
	}
	if u != nil {
		entry.Resolved = u.Redacted()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) < r.size {
		r.history = append(r.history, entry)
		return
	}
	r.history[r.next] = entry
	r.next = (r.next + 1) % r.size
}

func commandID(cmd *domain.Command) string {
	if cmd == nil {
		return ""
	}
	return cmd.ID
}
