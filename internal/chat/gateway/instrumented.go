package gateway

import (
	"context"
	"time"

	"facility-chat/internal/common/metrics"
	"facility-chat/internal/models"
)

// Instrumented records fetch counts and latency for a named source.
type Instrumented struct {
	source string
	inner  Gateway
}

func NewInstrumented(source string, inner Gateway) *Instrumented {
	return &Instrumented{source: source, inner: inner}
}

func (g *Instrumented) Fetch(ctx context.Context, domain models.DomainTag, opts FetchOptions) (*models.DomainData, error) {
	start := time.Now()
	data, err := g.inner.Fetch(ctx, domain, opts)

	result := "ok"
	switch {
	case err != nil:
		result = "unavailable"
	case data.Len() == 0:
		result = "empty"
	}
	metrics.DataFetchTotal.WithLabelValues(g.source, string(domain), result).Inc()
	metrics.DataFetchDuration.WithLabelValues(g.source, string(domain)).Observe(time.Since(start).Seconds())
	return data, err
}
