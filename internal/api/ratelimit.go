package api

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps one token bucket per client address.
type RateLimiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration

	mu      sync.Mutex
	clients map[string]*clientLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter starts a limiter allowing rps requests per second with the
// given burst. Clients idle for longer than idle are forgotten.
func NewRateLimiter(rps float64, burst int, idle time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idle:    idle,
		clients: make(map[string]*clientLimiter),
		stopCh:  make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop ends the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Allow reports whether the client may make a request now.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	cl, ok := rl.clients[client]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[client] = cl
	}
	cl.lastAccess = time.Now()
	rl.mu.Unlock()

	return cl.limiter.Allow()
}

// ClientCount returns the number of tracked clients.
func (rl *RateLimiter) ClientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Middleware rejects requests over the client's budget with 429.
func (rl *RateLimiter) Middleware(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientAddr(r)
			if !rl.Allow(client) {
				logger.Warn("rate limit exceeded",
					slog.String("client", client),
					slog.String("path", r.URL.Path),
				)
				retry := 1
				if rl.limit > 0 {
					retry = int(math.Ceil(1 / float64(rl.limit)))
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				WriteTooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.idle)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for client, cl := range rl.clients {
		if now.Sub(cl.lastAccess) > rl.idle {
			delete(rl.clients, client)
		}
	}
}

// clientAddr is the host part of RemoteAddr.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
