// Package search wraps the search collaborator with run-level quota
// accounting. The first quota or auth failure flips a latch the pipeline
// consults before starting new rows.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/leadscope/practicescout/internal/scout"
	"github.com/leadscope/practicescout/internal/telemetry"
)

// Meter decorates a Searcher with call counting and a fail-fast latch.
// A local quota of 0 defers entirely to the provider's own enforcement.
type Meter struct {
	next       scout.Searcher
	quota      int64
	calls      atomic.Int64
	exhausted  atomic.Bool
	authFailed atomic.Bool
}

// NewMeter wraps next with quota accounting.
func NewMeter(next scout.Searcher, quota int64) *Meter {
	return &Meter{next: next, quota: quota}
}

// Search forwards to the wrapped Searcher unless the run's allowance is
// already spent. Once tripped, every subsequent call fails immediately
// without consuming provider quota.
func (m *Meter) Search(ctx context.Context, query string) ([]scout.SearchResult, error) {
	if m.authFailed.Load() {
		return nil, fmt.Errorf("search disabled: %w", scout.ErrAuth)
	}
	if m.exhausted.Load() {
		return nil, fmt.Errorf("search disabled: %w", scout.ErrQuotaExceeded)
	}

	n := m.calls.Add(1)
	if m.quota > 0 && n > m.quota {
		m.exhausted.Store(true)
		telemetry.SearchCall("quota")
		return nil, fmt.Errorf("local quota of %d calls spent: %w", m.quota, scout.ErrQuotaExceeded)
	}

	results, err := m.next.Search(ctx, query)
	switch {
	case err == nil:
		telemetry.SearchCall("ok")
	case errors.Is(err, scout.ErrQuotaExceeded):
		m.exhausted.Store(true)
		telemetry.SearchCall("quota")
	case errors.Is(err, scout.ErrAuth):
		m.authFailed.Store(true)
		telemetry.SearchCall("auth")
	default:
		telemetry.SearchCall("error")
	}
	return results, err
}

// Calls reports how many searches have been attempted this run.
func (m *Meter) Calls() int64 {
	return m.calls.Load()
}

// Exhausted reports whether the quota latch has tripped.
func (m *Meter) Exhausted() bool {
	return m.exhausted.Load()
}

// AuthFailed reports whether the provider rejected our credentials.
func (m *Meter) AuthFailed() bool {
	return m.authFailed.Load()
}
