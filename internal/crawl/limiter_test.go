package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscope/practicescout/internal/crawl"
)

func TestDomainLimiterEnforcesGap(t *testing.T) {
	const delay = 50 * time.Millisecond
	limiter := crawl.NewDomainLimiter(delay)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, "example.com"))
	start := time.Now()
	require.NoError(t, limiter.Wait(ctx, "example.com"))
	assert.GreaterOrEqual(t, time.Since(start), delay-5*time.Millisecond)
}

func TestDomainLimiterHostsAreIndependent(t *testing.T) {
	limiter := crawl.NewDomainLimiter(time.Second)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, "a.com"))
	start := time.Now()
	require.NoError(t, limiter.Wait(ctx, "b.com"))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestDomainLimiterCaseInsensitiveHost(t *testing.T) {
	const delay = 50 * time.Millisecond
	limiter := crawl.NewDomainLimiter(delay)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, "Example.COM"))
	start := time.Now()
	require.NoError(t, limiter.Wait(ctx, "example.com"))
	assert.GreaterOrEqual(t, time.Since(start), delay-5*time.Millisecond)
}

func TestDomainLimiterZeroDelayNeverBlocks(t *testing.T) {
	limiter := crawl.NewDomainLimiter(0)
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, limiter.Wait(ctx, "example.com"))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestDomainLimiterHonorsContext(t *testing.T) {
	limiter := crawl.NewDomainLimiter(time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, limiter.Wait(ctx, "example.com"))
	err := limiter.Wait(ctx, "example.com")
	assert.Error(t, err)
}
