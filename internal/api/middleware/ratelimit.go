package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/eshaffer321/receipt-inbox/internal/api/dto"
)

// limiterIdleTTL is how long an unused tenant bucket is kept.
const limiterIdleTTL = 10 * time.Minute

// RateLimitConfig holds per-tenant token bucket settings.
type RateLimitConfig struct {
	RequestsPerSecond float64 // 0 disables limiting
	Burst             int
}

// RateLimit limits each tenant independently. It must run after Tenant.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiters := newTenantLimiters(cfg, time.Now)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.get(TenantFrom(r.Context())).Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(dto.RateLimitedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type tenantLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// tenantLimiters holds one bucket per tenant and drops buckets idle for
// longer than limiterIdleTTL.
type tenantLimiters struct {
	mu        sync.Mutex
	cfg       RateLimitConfig
	now       func() time.Time
	limiters  map[string]*tenantLimiter
	lastSweep time.Time
}

func newTenantLimiters(cfg RateLimitConfig, now func() time.Time) *tenantLimiters {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &tenantLimiters{
		cfg:       cfg,
		now:       now,
		limiters:  make(map[string]*tenantLimiter),
		lastSweep: now(),
	}
}

func (t *tenantLimiters) get(tenant string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if now.Sub(t.lastSweep) >= limiterIdleTTL {
		for key, l := range t.limiters {
			if now.Sub(l.lastSeen) >= limiterIdleTTL {
				delete(t.limiters, key)
			}
		}
		t.lastSweep = now
	}

	l, ok := t.limiters[tenant]
	if !ok {
		l = &tenantLimiter{limiter: rate.NewLimiter(rate.Limit(t.cfg.RequestsPerSecond), t.cfg.Burst)}
		t.limiters[tenant] = l
	}
	l.lastSeen = now
	return l.limiter
}

func (t *tenantLimiters) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.limiters)
}
