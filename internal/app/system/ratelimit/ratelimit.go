// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a per-key token bucket limiter. Each key (normally a client IP)
// gets its own bucket that refills at perMinute tokens per minute and holds
// at most burst tokens. It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	idle    time.Duration // buckets unused this long are dropped
	stop    chan struct{}
	once    sync.Once
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// New creates a limiter allowing perMinute requests per minute per key with
// the given burst. A perMinute of 0 or less disables limiting.
func New(perMinute, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	l := &Limiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Inf,
		burst:   burst,
		idle:    10 * time.Minute,
		stop:    make(chan struct{}),
	}
	if perMinute > 0 {
		l.limit = rate.Every(time.Minute / time.Duration(perMinute))
		go l.cleanupLoop()
	}
	return l
}

// Enabled reports whether the limiter restricts anything.
func (l *Limiter) Enabled() bool {
	return l.limit != rate.Inf
}

// Allow reports whether a request for key may proceed now and consumes a
// token if so.
func (l *Limiter) Allow(key string) bool {
	if !l.Enabled() {
		return true
	}
	return l.get(key).Allow()
}

// RetryAfter estimates how long key must wait for its next token.
func (l *Limiter) RetryAfter(key string) time.Duration {
	if !l.Enabled() {
		return 0
	}
	r := l.get(key).Reserve()
	d := r.Delay()
	r.Cancel()
	return d
}

// Reset forgets the bucket for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// Close stops the background cleanup goroutine.
func (l *Limiter) Close() {
	l.once.Do(func() { close(l.stop) })
}

// Done is closed once Close has been called.
func (l *Limiter) Done() <-chan struct{} {
	return l.stop
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b.lim
}

// cleanupLoop periodically removes idle buckets to prevent memory leaks.
func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.idle)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			cutoff := time.Now().Add(-l.idle)
			for key, b := range l.buckets {
				if b.lastSeen.Before(cutoff) {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// ClientIP extracts the client IP from an HTTP request. chi's RealIP
// middleware runs first, so RemoteAddr already reflects proxy headers.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return ip
}

// Middleware limits requests per client IP. Rejected requests get a
// Retry-After header and are passed to deny, which writes the response.
func (l *Limiter) Middleware(deny http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if !l.Allow(ip) {
				secs := int(l.RetryAfter(ip).Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				deny(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
