//go:build debug

package debug

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	maxRequestBodyBytes = 10 * 1024 // 10KB max for fault injection requests
)

// Server is the debug HTTP server
type Server struct {
	introspector Introspector
	gatherer     prometheus.Gatherer
	router       chi.Router
}

// FaultRequest represents a fault injection request
type FaultRequest struct {
	FailNextResolution      *bool `json:"fail_next_resolution,omitempty"`
	DelayNextIsolatedTaskMS *int  `json:"delay_next_isolated_task_ms,omitempty"`
	CancelNextAwait         *bool `json:"cancel_next_await,omitempty"`
}

// NewServer builds the debug router. Both arguments may be nil; the
// corresponding endpoints then answer 501.
func NewServer(introspector Introspector, gatherer prometheus.Gatherer) *Server {
	s := &Server{introspector: introspector, gatherer: gatherer}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/_debug", func(r chi.Router) {
		r.Get("/", s.handleIndex)
		r.Get("/state", s.handleState)
		r.Get("/config", s.handleConfig)
		r.Get("/runtime", s.handleRuntime)
		r.Get("/faults", s.getFaults)
		r.Post("/faults", s.setFaults)
		r.Post("/faults/reset", s.handleFaultsReset)
	})
	r.Get("/metrics", s.handleMetrics)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start starts the debug HTTP server (debug build only) when
// Active.LocalDebugServer is set. The returned function shuts it down.
func Start(introspector Introspector, gatherer prometheus.Gatherer) func(context.Context) error {
	if !Active.LocalDebugServer {
		return func(context.Context) error { return nil }
	}

	httpServer := &http.Server{
		Addr:              Active.DebugServerAddr,
		Handler:           NewServer(introspector, gatherer),
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		logger := GetLogger()
		logger.Debugf("debug server listening on %s", httpServer.Addr)
		logger.Debug("debug mode is enabled, do not use in production")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Debugf("Debug server error: %v", err)
		}
	}()

	return httpServer.Shutdown
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	const html = `<!DOCTYPE html>
<html>
<head><title>lime debug</title></head>
<body>
<h1>lime runtime - debug interface</h1>
<p><strong>WARNING:</strong> debug builds only. Never expose this listener.</p>
<ul>
<li><a href="/_debug/state">/_debug/state</a> - debug flags and faults</li>
<li><a href="/_debug/runtime">/_debug/runtime</a> - registry, isolator and resolution snapshot</li>
<li><a href="/_debug/faults">/_debug/faults</a> - view/modify fault injection (GET/POST)</li>
<li>/_debug/faults/reset - reset all faults (POST)</li>
<li><a href="/_debug/config">/_debug/config</a> - debug configuration</li>
<li><a href="/metrics">/metrics</a> - prometheus metrics</li>
</ul>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"debug_enabled": Active.Enabled,
		"single_thread": Active.SingleThreaded,
		"faults":        Faults.Snapshot(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"enabled":            Active.Enabled,
		"single_threaded":    Active.SingleThreaded,
		"local_debug_server": Active.LocalDebugServer,
		"debug_server_addr":  Active.DebugServerAddr,
	})
}

func (s *Server) handleRuntime(w http.ResponseWriter, r *http.Request) {
	if s.introspector == nil {
		http.Error(w, "runtime introspection not available", http.StatusNotImplemented)
		return
	}
	writeJSON(w, s.introspector.SnapshotData(r.Context()))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.gatherer == nil {
		http.Error(w, "metrics not available", http.StatusNotImplemented)
		return
	}
	promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

func (s *Server) getFaults(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, Faults.Snapshot())
}

// setFaults applies fault injection configuration from JSON request.
func (s *Server) setFaults(w http.ResponseWriter, r *http.Request) {
	logger := GetLogger()

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	var req FaultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Debugf("Failed to decode fault request: %v", err)
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	if req.DelayNextIsolatedTaskMS != nil {
		d := time.Duration(*req.DelayNextIsolatedTaskMS) * time.Millisecond
		if err := Faults.SetDelayNextIsolatedTask(d); err != nil {
			http.Error(w, fmt.Sprintf("Invalid delay: %v", err), http.StatusBadRequest)
			return
		}
		logger.Debugf("Fault set: delay_next_isolated_task=%s", d)
	}

	if req.FailNextResolution != nil {
		Faults.SetFailNextResolution(*req.FailNextResolution)
		logger.Debugf("Fault set: fail_next_resolution=%v", *req.FailNextResolution)
	}

	if req.CancelNextAwait != nil {
		Faults.SetCancelNextAwait(*req.CancelNextAwait)
		logger.Debugf("Fault set: cancel_next_await=%v", *req.CancelNextAwait)
	}

	s.getFaults(w, r)
}

func (s *Server) handleFaultsReset(w http.ResponseWriter, _ *http.Request) {
	Faults.Reset()
	GetLogger().Debug("All faults reset")
	writeJSON(w, map[string]string{"status": "reset"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
