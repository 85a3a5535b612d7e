package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leadscope/practicescout/internal/crawl"
	"github.com/leadscope/practicescout/internal/scout"
)

func TestRetryPolicyShouldRetry(t *testing.T) {
	p := crawl.NewRetryPolicy(2)

	t.Run("TransientErrorRetries", func(t *testing.T) {
		err := fmt.Errorf("status 503: %w", scout.ErrTransient)
		assert.True(t, p.ShouldRetry(err, 1))
		assert.True(t, p.ShouldRetry(err, 2))
	})

	t.Run("AttemptsAreBounded", func(t *testing.T) {
		err := fmt.Errorf("status 503: %w", scout.ErrTransient)
		assert.False(t, p.ShouldRetry(err, 3))
	})

	t.Run("NilErrorNeverRetries", func(t *testing.T) {
		assert.False(t, p.ShouldRetry(nil, 1))
	})

	t.Run("QuotaErrorNeverRetries", func(t *testing.T) {
		assert.False(t, p.ShouldRetry(scout.ErrQuotaExceeded, 1))
	})

	t.Run("AuthErrorNeverRetries", func(t *testing.T) {
		assert.False(t, p.ShouldRetry(scout.ErrAuth, 1))
	})

	t.Run("ContextCancelNeverRetries", func(t *testing.T) {
		assert.False(t, p.ShouldRetry(context.Canceled, 1))
		assert.False(t, p.ShouldRetry(fmt.Errorf("fetch: %w", context.DeadlineExceeded), 1))
	})

	t.Run("PlainErrorNeverRetries", func(t *testing.T) {
		assert.False(t, p.ShouldRetry(errors.New("parse failure"), 1))
	})
}

func TestRetryPolicyBackoffGrowsAndCaps(t *testing.T) {
	p := crawl.NewRetryPolicy(5)

	prevCeiling := time.Duration(0)
	for attempt := 0; attempt < 6; attempt++ {
		d := p.Backoff(attempt)
		assert.Positive(t, d)
		assert.LessOrEqual(t, d, 5*time.Second)
		// The jittered value stays within the attempt's window.
		ceiling := 250 * time.Millisecond << attempt
		if ceiling > 5*time.Second {
			ceiling = 5 * time.Second
		}
		assert.LessOrEqual(t, d, ceiling)
		if ceiling > prevCeiling {
			prevCeiling = ceiling
		}
	}
}

func TestRetryPolicySleepHonorsContext(t *testing.T) {
	p := crawl.NewRetryPolicy(5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Sleep(ctx, 4)
	assert.ErrorIs(t, err, context.Canceled)
}
