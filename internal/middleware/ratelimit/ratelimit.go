// Package ratelimit applies a fixed one-minute request budget per client key.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const window = time.Minute

type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
	// WritesOnly limits only state-changing methods.
	WritesOnly bool
}

func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
		WritesOnly:        true,
	}
}

type Limiter struct {
	mu      sync.Mutex
	clients map[string]*bucket
	config  Config
	now     func() time.Time
	limited atomic.Int64
}

type bucket struct {
	windowStart time.Time
	requests    int
}

func NewLimiter(config Config) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig().CleanupInterval
	}
	return &Limiter{
		clients: make(map[string]*bucket),
		config:  config,
		now:     time.Now,
	}
}

// Allow counts one request for key and reports whether it fits the budget.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.clients[key]
	if !ok || now.Sub(b.windowStart) >= window {
		l.clients[key] = &bucket{windowStart: now, requests: 1}
		return true
	}
	b.requests++
	return b.requests <= l.config.RequestsPerMinute
}

// RunCleanup drops idle clients until ctx is done.
func (l *Limiter) RunCleanup(ctx context.Context) {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *Limiter) cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-2 * window)
	removed := 0
	for key, b := range l.clients {
		if b.windowStart.Before(cutoff) {
			delete(l.clients, key)
			removed++
		}
	}
	return removed
}

func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Limited returns how many requests were refused.
func (l *Limiter) Limited() int64 {
	return l.limited.Load()
}

// Middleware refuses over-budget requests with 429. key maps a request to
// its client, typically the user id or the client address.
func (l *Limiter) Middleware(key func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.config.WritesOnly && !isWrite(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			if !l.Allow(key(r)) {
				l.limited.Add(1)
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
