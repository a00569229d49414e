//go:build !debug

package debug

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Start is a no-op in production builds; no debug endpoints are exposed.
func Start(_ Introspector, _ prometheus.Gatherer) func(context.Context) error {
	return func(context.Context) error { return nil }
}
