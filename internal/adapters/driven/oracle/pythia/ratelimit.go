package pythia

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HeaderRetryAfter is the retry-after header (seconds).
const HeaderRetryAfter = "Retry-After"

// defaultBackoff is used when a 429 carries no usable Retry-After header.
const defaultBackoff = time.Second

// RateLimiter throttles oracle calls proactively with a token bucket and
// reactively honours Retry-After after a 429.
type RateLimiter struct {
	mu         sync.Mutex
	bucket     *rate.Limiter
	blockUntil time.Time
	now        func() time.Time
}

// NewRateLimiter creates a limiter allowing perSecond requests per second.
// A non-positive rate disables proactive throttling.
func NewRateLimiter(perSecond float64) *RateLimiter {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(limit, 1),
		now:    time.Now,
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	blockUntil := r.blockUntil
	r.mu.Unlock()

	wait := blockUntil.Sub(r.now())
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Observe records a response; a 429 blocks further calls until the
// Retry-After delay has passed.
func (r *RateLimiter) Observe(statusCode int, header http.Header) {
	if statusCode != http.StatusTooManyRequests {
		return
	}

	backoff := defaultBackoff
	if header != nil {
		if secs, err := strconv.Atoi(header.Get(HeaderRetryAfter)); err == nil && secs >= 0 {
			backoff = time.Duration(secs) * time.Second
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if until := r.now().Add(backoff); until.After(r.blockUntil) {
		r.blockUntil = until
	}
}

// BlockedUntil returns the time before which calls are held back.
func (r *RateLimiter) BlockedUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blockUntil
}
