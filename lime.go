// Package lime wires the addressing and concurrency-safety core of a LIME
// node into a single Runtime.
//
// A Runtime owns the configuration, a structured logger, the document
// registry, the command URI resolver, the long-running task isolator and
// the prometheus collectors shared by all of them.
//
// Quick Start:
//
//	rt, err := lime.New("lime.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Shutdown(context.Background())
//
//	cmd := domain.NewCommand(domain.MethodGet, &url.URL{Path: "/presence"}).
//	    WithFrom(node)
//	target, err := rt.Route(cmd)
//
//	fut := lime.RunIsolated(rt, ctx, func(ctx context.Context) ([]byte, error) {
//	    return blockingFetch(ctx, target)
//	})
//	body, err := lime.Await(rt, ctx, fut)
package lime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sufield/lime/internal/config"
	"github.com/sufield/lime/internal/debug"
	"github.com/sufield/lime/internal/domain"
	"github.com/sufield/lime/internal/metrics"
	"github.com/sufield/lime/pkg/addressing"
	"github.com/sufield/lime/pkg/cancellation"
	"github.com/sufield/lime/pkg/documents"
	"github.com/sufield/lime/pkg/isolate"
	"github.com/sufield/lime/pkg/secret"
)

// ErrAwaitFaultInjected is the cancellation cause used when the debug fault
// profile cancels an await.
var ErrAwaitFaultInjected = errors.New("await cancelled by injected fault")

// Runtime is the assembled lime core.
type Runtime struct {
	cfg      config.Config
	node     *domain.Node
	logger   *slog.Logger
	registry *documents.Registry
	resolver *addressing.Resolver
	isolator *isolate.Isolator
	metrics  *metrics.Metrics
	gatherer *prometheus.Registry

	stopDebug    func(context.Context) error
	shutdownOnce sync.Once
	shutdownErr  error
}

type options struct {
	logger *slog.Logger
	output io.Writer
}

// Option configures New.
type Option func(*options)

// WithLogger uses logger instead of building one from the logging section.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogOutput directs the configured logger to w (default os.Stderr).
func WithLogOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// New loads the configuration at configPath (empty for defaults plus
// environment) and assembles a Runtime.
func New(configPath string, opts ...Option) (*Runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return newRuntime(cfg, opts...)
}

func newRuntime(cfg config.Config, opts ...Option) (*Runtime, error) {
	o := options{output: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	debug.Init()
	debug.InitLogger()

	logger := o.logger
	if logger == nil {
		logger = newLogger(o.output, cfg.Logging)
	}

	rt := &Runtime{
		cfg:      cfg,
		logger:   logger,
		registry: documents.Default(),
		gatherer: prometheus.NewRegistry(),
	}

	if cfg.Node.Identity != "" {
		node, err := domain.ParseNode(cfg.Node.Identity)
		if err != nil {
			return nil, fmt.Errorf("node identity: %w", err)
		}
		rt.node = &node
	}

	m, err := metrics.New(rt.gatherer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	rt.metrics = m
	// The most recent Runtime owns the process-wide buffer gauge.
	m.SecretBuffers.Set(float64(secret.Live()))
	secret.SetObserver(m)

	rt.resolver = addressing.NewResolver(
		addressing.WithLogger(logger.With("component", "resolver")),
		addressing.WithObserver(m),
		addressing.WithHistorySize(cfg.Runtime.ResolutionHistory),
	)

	isoOpts := []isolate.Option{
		isolate.WithLogger(logger.With("component", "isolator")),
		isolate.WithObserver(m),
		isolate.WithMaxWorkers(cfg.Runtime.MaxWorkers),
	}
	if debug.Active.SingleThreaded {
		isoOpts = append(isoOpts, isolate.WithSingleThreaded())
		logger.Warn("isolated tasks run single-threaded (debug mode)")
	}
	rt.isolator = isolate.New(isoOpts...)

	if debug.Active.LocalDebugServer && cfg.Debug.ServerAddr != "" {
		debug.Active.DebugServerAddr = cfg.Debug.ServerAddr
	}
	rt.stopDebug = debug.Start(rt, rt.gatherer)

	logger.Info("lime runtime started",
		"node", rt.nodeString(),
		"max_workers", rt.isolator.MaxWorkers(),
		"command_timeout", cfg.Runtime.CommandTimeout,
		"media_types", len(rt.registry.Registrations()))

	return rt, nil
}

func newLogger(w io.Writer, cfg config.LoggingSection) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == config.FormatJSON {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// Logger returns the runtime logger.
func (rt *Runtime) Logger() *slog.Logger { return rt.logger }

// Documents returns the media type registry.
func (rt *Runtime) Documents() *documents.Registry { return rt.registry }

// Resolver returns the command URI resolver.
func (rt *Runtime) Resolver() *addressing.Resolver { return rt.resolver }

// Isolator returns the long-running task isolator.
func (rt *Runtime) Isolator() *isolate.Isolator { return rt.isolator }

// Gatherer exposes the runtime's prometheus registry.
func (rt *Runtime) Gatherer() prometheus.Gatherer { return rt.gatherer }

// Node returns the configured local node, if any.
func (rt *Runtime) Node() (domain.Node, bool) {
	if rt.node == nil {
		return domain.Node{}, false
	}
	return *rt.node, true
}

func (rt *Runtime) nodeString() string {
	if rt.node == nil {
		return ""
	}
	return rt.node.String()
}

// NewCommand builds a command for uri sent from the local node. Without a
// configured node, From stays nil and only absolute URIs will resolve.
func (rt *Runtime) NewCommand(method domain.CommandMethod, uri string) (*domain.Command, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", addressing.ErrMissingURI, err)
	}
	cmd := domain.NewCommand(method, u)
	if rt.node != nil {
		cmd.WithFrom(*rt.node)
	}
	return cmd, nil
}

// Resolve returns the absolute form of cmd's resource URI.
func (rt *Runtime) Resolve(cmd *domain.Command) (*url.URL, error) {
	return rt.resolver.Resolve(cmd)
}

// Route returns the identity cmd must be delivered to.
func (rt *Runtime) Route(cmd *domain.Command) (domain.Identity, error) {
	return rt.resolver.Route(cmd)
}

// Signal returns a cancellation source bounded by the configured command
// timeout. The caller must Close or Cancel it.
func (rt *Runtime) Signal(parent context.Context) *cancellation.Source {
	if rt.cfg.Runtime.CommandTimeout > 0 {
		return cancellation.NewSourceAfter(parent, rt.cfg.Runtime.CommandTimeout)
	}
	return cancellation.NewSource(parent)
}

// RunIsolated runs work on the runtime's isolator.
func RunIsolated[T any](rt *Runtime, ctx context.Context, work func(context.Context) (T, error)) *cancellation.Future[T] {
	return isolate.Run(rt.isolator, ctx, work)
}

// Await waits for f or for ctx, whichever finishes first, and records the
// outcome. If ctx has no deadline the configured command timeout applies; a
// nil ctx is treated as context.Background. A cancelled await leaves f
// running; see cancellation.Await.
func Await[T any](rt *Runtime, ctx context.Context, f *cancellation.Future[T]) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok && rt.cfg.Runtime.CommandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.cfg.Runtime.CommandTimeout)
		defer cancel()
	}
	if debug.Faults.ShouldCancelAwait() {
		var cancel context.CancelCauseFunc
		ctx, cancel = context.WithCancelCause(ctx)
		cancel(ErrAwaitFaultInjected)
	}

	v, err := cancellation.Await(ctx, f)
	rt.metrics.ObserveAwait(awaitOutcome(err))
	if errors.Is(err, cancellation.ErrOperationCancelled) {
		rt.logger.Debug("await cancelled; operation left running", "cause", context.Cause(ctx))
	}
	return v, err
}

func awaitOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, cancellation.ErrOperationCancelled):
		return metrics.OutcomeCancelled
	case errors.Is(err, cancellation.ErrOperationPanicked):
		return metrics.OutcomePanicked
	default:
		return metrics.OutcomeError
	}
}

// SnapshotData implements debug.Introspector. It never includes secret
// material, only the count of live buffers.
func (rt *Runtime) SnapshotData(context.Context) debug.Snapshot {
	mode := "production"
	if debug.IsEnabled() {
		mode = "debug"
	}

	regs := rt.registry.Registrations()
	mediaTypes := make([]debug.MediaTypeView, 0, len(regs))
	for _, r := range regs {
		mediaTypes = append(mediaTypes, debug.MediaTypeView{MediaType: r.MediaType.Key(), Kind: r.Kind.String()})
	}

	recent := rt.resolver.Recent()
	resolutions := make([]debug.ResolutionView, 0, len(recent))
	for _, r := range recent {
		view := debug.ResolutionView{CommandID: r.CommandID, From: r.From, URI: r.URI, Resolved: r.Resolved}
		if r.Err != nil {
			view.Error = r.Err.Error()
		}
		resolutions = append(resolutions, view)
	}

	return debug.Snapshot{
		Mode:       mode,
		MediaTypes: mediaTypes,
		Isolator: debug.IsolatorView{
			MaxWorkers: rt.isolator.MaxWorkers(),
			Running:    rt.isolator.Running(),
			Pending:    rt.isolator.Pending(),
		},
		RecentResolutions: resolutions,
		LiveSecretBuffers: secret.Live(),
	}
}

var _ debug.Introspector = (*Runtime)(nil)

// Shutdown stops the debug server, detaches the secret buffer gauge and
// waits for isolated work to finish or for ctx to end. Later calls return
// the first result.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	rt.shutdownOnce.Do(func() {
		secret.ClearObserver(rt.metrics)
		var errs []error
		if err := rt.stopDebug(ctx); err != nil {
			errs = append(errs, fmt.Errorf("debug server: %w", err))
		}
		if err := rt.isolator.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("isolator: %w", err))
		}
		rt.shutdownErr = errors.Join(errs...)
		rt.logger.Info("lime runtime stopped", "error", rt.shutdownErr)
	})
	return rt.shutdownErr
}
