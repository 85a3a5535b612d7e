package crawl

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/leadscope/practicescout/internal/telemetry"
)

// DomainLimiter enforces a minimum gap between requests to the same hostname.
// Different hosts proceed independently, so concurrent rows crawling distinct
// domains never block each other.
type DomainLimiter struct {
	delay time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewDomainLimiter creates a limiter with a per-host minimum delay. A zero or
// negative delay disables limiting.
func NewDomainLimiter(delay time.Duration) *DomainLimiter {
	return &DomainLimiter{
		delay:    delay,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until the host's politeness gap has elapsed or the context ends.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d == nil || d.delay <= 0 || host == "" {
		return nil
	}
	host = strings.ToLower(host)

	d.mu.Lock()
	limiter, ok := d.limiters[host]
	if !ok {
		// Burst 1 so two requests to one host are always Δ apart.
		limiter = rate.NewLimiter(rate.Every(d.delay), 1)
		d.limiters[host] = limiter
	}
	d.mu.Unlock()

	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		return err
	}
	if waited := time.Since(start); waited > time.Millisecond {
		telemetry.ObserveRateLimitDelay(host, waited)
	}
	return nil
}
