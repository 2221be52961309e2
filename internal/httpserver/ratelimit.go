package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/time/rate"
)

// limiterSet hands out one token bucket per client IP.
type limiterSet struct {
	mu      sync.Mutex
	clock   quartz.Clock
	rps     int
	burst   int
	entries map[string]*limiterEntry
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// newLimiterSet returns a set allowing rps requests per second per IP.
// rps <= 0 disables limiting.
func newLimiterSet(rps, burst int, clock quartz.Clock) *limiterSet {
	if burst <= 0 {
		burst = 1
	}
	return &limiterSet{clock: clock, rps: rps, burst: burst, entries: make(map[string]*limiterEntry)}
}

func (l *limiterSet) allow(key string) bool {
	if l.rps <= 0 {
		return true
	}
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(rate.Every(time.Second/time.Duration(l.rps)), l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.lim.AllowN(now, 1)
}

// sweep forgets limiters not used since cutoff.
func (l *limiterSet) sweep(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for k, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, k)
			removed++
		}
	}
	return removed
}

func (l *limiterSet) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "rate_limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr (already rewritten by RealIP).
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
