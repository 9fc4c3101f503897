package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/ppiankov/policywatch/internal/classify"
	"golang.org/x/time/rate"
)

// Limiter paces requests per host so a batch never hammers one site
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewLimiter creates a per-host limiter. A non-positive rate disables
// limiting.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     limit,
		burst:    burst,
	}
}

// Wait blocks until a request to rawURL's host may proceed
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	host := classify.Hostname(rawURL)
	if host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	return l.forHost(host).Wait(ctx)
}

// Allow reports whether a request to rawURL's host may proceed now
func (l *Limiter) Allow(rawURL string) bool {
	host := classify.Hostname(rawURL)
	if host == "" {
		return false
	}
	return l.forHost(host).Allow()
}

// Hosts returns the number of hosts seen
func (l *Limiter) Hosts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *Limiter) forHost(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[host] = limiter
	}
	return limiter
}
