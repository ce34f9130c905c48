package middleware

import (
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// limiterTTL is how long a per-source limiter survives without being
// replaced. A sweep runs at the same interval and deletes expired
// entries, so sources that stop sending do not accumulate in the map.
const limiterTTL = 5 * time.Minute

// RateLimit limits webhook deliveries per source address.
// limit is events per second; limit=0 means unlimited.
func RateLimit(limit float64, burst int) func(http.Handler) http.Handler {
	limiters := newSourceLimiters(rate.Limit(limit), burst, limiterTTL)

	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			source, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				source = r.RemoteAddr
			}

			if !limiters.get(source).Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type cachedLimiter struct {
	limiter   *rate.Limiter
	expiresAt time.Time
}

// sourceLimiters caches one limiter per source address with a TTL.
type sourceLimiters struct {
	entries   sync.Map // source addr -> *cachedLimiter
	lastSweep atomic.Int64

	limit rate.Limit
	burst int
	ttl   time.Duration
}

func newSourceLimiters(limit rate.Limit, burst int, ttl time.Duration) *sourceLimiters {
	return &sourceLimiters{limit: limit, burst: burst, ttl: ttl}
}

func (s *sourceLimiters) get(key string) *rate.Limiter {
	now := time.Now()
	s.maybeSweep(now)

	if cached, ok := s.entries.Load(key); ok {
		entry := cached.(*cachedLimiter)
		if now.Before(entry.expiresAt) {
			return entry.limiter
		}

		// Expired: swap in a fresh limiter. CompareAndSwap keeps two
		// concurrent requests from each minting their own burst.
		fresh := s.newEntry(now)
		if s.entries.CompareAndSwap(key, cached, fresh) {
			return fresh.limiter
		}
		if current, ok := s.entries.Load(key); ok {
			return current.(*cachedLimiter).limiter
		}
	}

	fresh := s.newEntry(now)
	actual, _ := s.entries.LoadOrStore(key, fresh)
	return actual.(*cachedLimiter).limiter
}

func (s *sourceLimiters) newEntry(now time.Time) *cachedLimiter {
	return &cachedLimiter{
		limiter:   rate.NewLimiter(s.limit, s.burst),
		expiresAt: now.Add(s.ttl),
	}
}

// maybeSweep deletes expired entries at most once per TTL interval.
func (s *sourceLimiters) maybeSweep(now time.Time) {
	last := s.lastSweep.Load()
	if now.UnixNano()-last < int64(s.ttl) {
		return
	}
	if !s.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	s.entries.Range(func(key, value any) bool {
		if !now.Before(value.(*cachedLimiter).expiresAt) {
			// Conditional delete: a concurrent request may have already
			// swapped in a fresh limiter for this source.
			s.entries.CompareAndDelete(key, value)
		}
		return true
	})
}
