package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	limiterSweepInterval = 10 * time.Minute
	limiterIdleTTL       = 30 * time.Minute
)

type entry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// keyedLimiters hands out one token bucket per key and forgets idle keys.
type keyedLimiters[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*entry
	limit   rate.Limit
	burst   int
}

func newKeyedLimiters[K comparable](ctx context.Context, requestsPerSecond float64, burst int) *keyedLimiters[K] {
	k := &keyedLimiters[K]{
		entries: make(map[K]*entry),
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
	}
	go k.sweep(ctx)
	return k
}

func (k *keyedLimiters[K]) allow(key K) bool {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.entries[key] = e
	}
	e.lastAccess = time.Now()
	k.mu.Unlock()

	return e.limiter.Allow()
}

func (k *keyedLimiters[K]) sweep(ctx context.Context) {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-limiterIdleTTL)
			k.mu.Lock()
			for key, e := range k.entries {
				if e.lastAccess.Before(cutoff) {
					delete(k.entries, key)
				}
			}
			k.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

func tooManyRequests(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "1")
	http.Error(w, `{"title":"Too Many Requests","status":429,"detail":"rate limit exceeded"}`, http.StatusTooManyRequests)
}

// RateLimitByIP limits requests per client address. Mount it before Auth so
// that rejected credentials are throttled too. Relies on chi's RealIP having
// rewritten r.RemoteAddr.
func RateLimitByIP(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	limiters := newKeyedLimiters[string](ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.allow(r.RemoteAddr) {
				tooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit limits requests per tenant. Requests without a tenant pass through;
// RequireTenant rejects them.
func RateLimit(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	limiters := newKeyedLimiters[uuid.UUID](ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID, ok := TenantIDFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			if !limiters.allow(tenantID) {
				tooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
