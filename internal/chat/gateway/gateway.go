// Package gateway fetches facility data for a domain from one of several
// backing sources. A failed fetch is always an error wrapping
// ErrUnavailable; an empty result is a non-nil DomainData with no records.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"facility-chat/internal/models"
)

// ErrUnavailable marks every fetch failure: transport errors, timeouts,
// unknown resources and undecodable payloads.
var ErrUnavailable = errors.New("data source unavailable")

// FetchOptions narrows a fetch. Only work-order listings honor the window.
type FetchOptions struct {
	TimeRangeEnabled bool `json:"timeRangeEnabled"`
	LastDays         int  `json:"lastDays"`
}

// OptionsFor derives fetch options from a classified intent.
func OptionsFor(intent models.IntentResult) FetchOptions {
	if intent.TimeRange == nil || !intent.TimeRange.Enabled {
		return FetchOptions{}
	}
	return FetchOptions{TimeRangeEnabled: true, LastDays: intent.TimeRange.LastDays}
}

// Gateway must be safe for concurrent use and free of side effects visible
// to callers.
type Gateway interface {
	Fetch(ctx context.Context, domain models.DomainTag, opts FetchOptions) (*models.DomainData, error)
}

// Func adapts a function to Gateway.
type Func func(ctx context.Context, domain models.DomainTag, opts FetchOptions) (*models.DomainData, error)

func (f Func) Fetch(ctx context.Context, domain models.DomainTag, opts FetchOptions) (*models.DomainData, error) {
	return f(ctx, domain, opts)
}

// unavailable wraps cause so that errors.Is(err, ErrUnavailable) holds and
// the original error stays reachable.
func unavailable(cause error) error {
	return fmt.Errorf("%w: %w", ErrUnavailable, cause)
}

func checkDomain(domain models.DomainTag) error {
	if !domain.Valid() {
		return unavailable(fmt.Errorf("unknown domain %q", domain))
	}
	return nil
}

// Option configures the gateways that compute a work-order cutoff.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now for the work-order cutoff.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// windowDays returns the effective look-back for a work-order fetch, or 0
// when no window applies.
func windowDays(domain models.DomainTag, opts FetchOptions) int {
	if domain != models.DomainWorkOrders || !opts.TimeRangeEnabled {
		return 0
	}
	if opts.LastDays <= 0 {
		return 7
	}
	return opts.LastDays
}
