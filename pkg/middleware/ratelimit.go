package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/utafrali/swagshop/pkg/httputil"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP. Idle clients are evicted
// by a background loop that stops when the parent context ends or Shutdown is
// called.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	limit       rate.Limit
	burst       int
	clientTTL   time.Duration
	serviceName string

	cancel context.CancelFunc
	now    func() time.Time
}

// NewRateLimiter starts a limiter allowing rps requests per second with the
// given burst for every client. Non-positive durations fall back to one
// minute between sweeps and a three minute idle TTL.
func NewRateLimiter(ctx context.Context, serviceName string, rps float64, burst int, cleanupPeriod, clientTTL time.Duration) *RateLimiter {
	if cleanupPeriod <= 0 {
		cleanupPeriod = time.Minute
	}
	if clientTTL <= 0 {
		clientTTL = 3 * time.Minute
	}

	ctx, cancel := context.WithCancel(ctx)
	rl := &RateLimiter{
		visitors:    make(map[string]*visitor),
		limit:       rate.Limit(rps),
		burst:       burst,
		clientTTL:   clientTTL,
		serviceName: serviceName,
		cancel:      cancel,
		now:         time.Now,
	}
	go rl.cleanupLoop(ctx, cleanupPeriod)
	return rl
}

// Middleware rejects requests over the client's budget with 429.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	rejected := httpRequestsRateLimited.WithLabelValues(rl.serviceName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.limiterFor(remoteHost(r)).Allow() {
				rejected.Inc()
				w.Header().Set("Retry-After", "1")
				httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.ErrorResponse{
					Error: "too many requests",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Shutdown stops the eviction loop.
func (rl *RateLimiter) Shutdown() {
	rl.cancel()
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-ctx.Done():
			return
		}
	}
}

func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.clientTTL)
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}
