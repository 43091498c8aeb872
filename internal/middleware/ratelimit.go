package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig tunes the per-client token bucket. A kiosk shared by a
// whole classroom marks from one IP, so Burst should comfortably exceed
// the size of a single arriving group.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

const (
	visitorSweepInterval = 5 * time.Minute
	visitorIdleEviction  = 10 * time.Minute
)

// visitor is one client's bucket plus the recency stamp the sweeper uses.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterPool hands out one token bucket per client IP and evicts buckets
// idle longer than visitorIdleEviction.
type limiterPool struct {
	cfg RateLimitConfig

	mu       sync.Mutex
	visitors map[string]*visitor
}

func newLimiterPool(cfg RateLimitConfig) *limiterPool {
	p := &limiterPool{cfg: cfg, visitors: make(map[string]*visitor)}
	go p.sweep()
	return p
}

func (p *limiterPool) get(ip string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(p.cfg.RequestsPerSecond), p.cfg.Burst)}
		p.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (p *limiterPool) sweep() {
	for {
		time.Sleep(visitorSweepInterval)
		p.mu.Lock()
		for ip, v := range p.visitors {
			if time.Since(v.lastSeen) > visitorIdleEviction {
				delete(p.visitors, ip)
			}
		}
		p.mu.Unlock()
	}
}

// RateLimiter rejects clients that mark or query faster than the
// configured rate with a 429 and the standard error payload. Limits are
// keyed by RemoteAddr; X-Forwarded-For is ignored since a spoofed header
// would sidestep the limit entirely.
func RateLimiter(cfg RateLimitConfig) func(http.Handler) http.Handler {
	pool := newLimiterPool(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := pool.get(clientIP(r))

			reservation := limiter.Reserve()
			if !reservation.OK() {
				writeStatusError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()
				w.Header().Set("Retry-After", strconv.Itoa(int(delay.Seconds())+1))
				writeStatusError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
