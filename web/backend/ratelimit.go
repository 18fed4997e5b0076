package backend

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter applies a token bucket per client host.
type Limiter struct {
	rate  rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

type clientLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewLimiter(perSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		rate:    rate.Limit(perSecond),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
	}
}

func (l *Limiter) allow(host string) bool {
	l.mu.Lock()
	c, ok := l.clients[host]
	if !ok {
		c = &clientLimiter{lim: rate.NewLimiter(l.rate, l.burst)}
		l.clients[host] = c
	}
	c.seen = time.Now()
	l.mu.Unlock()
	return c.lim.Allow()
}

// Prune forgets clients idle for longer than maxIdle.
func (l *Limiter) Prune(maxIdle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	for host, c := range l.clients {
		if now.Sub(c.seen) > maxIdle {
			delete(l.clients, host)
		}
	}
}

// Middleware rejects requests over the limit with 429.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(remoteHost(r)) {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
