package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"workforce-api/internal/model"
)

// Credential endpoints get the stricter per-client budget.
var authPaths = []string{"/api/v1/login", "/api/v1/refresh"}

const (
	gcThreshold       = 1000
	staleAfter        = 10 * time.Minute
	maxTrackedClients = 10000
)

type clientLimiter struct {
	general  *rate.Limiter
	auth     *rate.Limiter
	lastSeen time.Time
}

type RateLimitMiddleware struct {
	generalRPM     int
	authRPM        int
	trustedProxies []netip.Prefix
	mu             sync.Mutex
	clients        map[string]*clientLimiter
}

// NewRateLimitMiddleware builds per-client limiters keyed on the TCP peer.
// Forwarding headers are honoured only when the peer is in trustedProxies.
// A non-positive generalRPM disables general limiting; a non-positive authRPM
// falls back to 10.
func NewRateLimitMiddleware(generalRPM int, authRPM int, trustedProxies []netip.Prefix) *RateLimitMiddleware {
	if authRPM <= 0 {
		authRPM = 10
	}

	return &RateLimitMiddleware{
		generalRPM:     generalRPM,
		authRPM:        authRPM,
		trustedProxies: trustedProxies,
		clients:        map[string]*clientLimiter{},
	}
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := m.getLimiter(clientIP(r, m.trustedProxies))

		target := limiter.general
		if isAuthPath(r.URL.Path) {
			target = limiter.auth
		}

		if !target.Allow() {
			w.Header().Set("Retry-After", "60")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = jsonEncode(w, model.APIResponse{
				Success: false,
				Error: &model.APIError{
					Code:    "RATE_LIMITED",
					Message: "Too many requests",
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isAuthPath(path string) bool {
	path = strings.TrimSuffix(strings.ToLower(path), "/")
	for _, p := range authPaths {
		if path == p {
			return true
		}
	}
	return false
}

func (m *RateLimitMiddleware) getLimiter(key string) *clientLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if limiter, exists := m.clients[key]; exists {
		limiter.lastSeen = now
		return limiter
	}

	m.gcLocked(now)

	created := &clientLimiter{
		general:  newLimiter(m.generalRPM),
		auth:     newLimiter(m.authRPM),
		lastSeen: now,
	}
	m.clients[key] = created

	return created
}

func (m *RateLimitMiddleware) trackedClients() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

func newLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm)
}

// gcLocked makes room for one more client. Stale entries go first; if the map
// is still full the least recently seen client is evicted.
func (m *RateLimitMiddleware) gcLocked(now time.Time) {
	if len(m.clients) < gcThreshold {
		return
	}

	cutoff := now.Add(-staleAfter)
	for ip, limiter := range m.clients {
		if limiter.lastSeen.Before(cutoff) {
			delete(m.clients, ip)
		}
	}

	for len(m.clients) >= maxTrackedClients {
		oldestIP := ""
		var oldest time.Time
		for ip, limiter := range m.clients {
			if oldestIP == "" || limiter.lastSeen.Before(oldest) {
				oldestIP, oldest = ip, limiter.lastSeen
			}
		}
		delete(m.clients, oldestIP)
	}
}

// remoteIP is the address of the TCP peer.
func remoteIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return "unknown"
	}

	host, _, err := net.SplitHostPort(addr)
	if err == nil && host != "" {
		return host
	}

	return addr
}

// clientIP resolves the originating client. X-Forwarded-For is walked right to
// left past trusted hops, so a client can only prepend entries that are ignored.
func clientIP(r *http.Request, trusted []netip.Prefix) string {
	peer := remoteIP(r)
	if !isTrusted(peer, trusted) {
		return peer
	}

	if forwarded := r.Header.Values("X-Forwarded-For"); len(forwarded) > 0 {
		hops := strings.Split(strings.Join(forwarded, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if _, err := netip.ParseAddr(hop); err != nil {
				return peer
			}
			if !isTrusted(hop, trusted) {
				return hop
			}
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		if _, err := netip.ParseAddr(realIP); err == nil {
			return realIP
		}
	}

	return peer
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()

	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
