package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mintrail/mintrail/application/port/inbound"
	"github.com/mintrail/mintrail/infrastructure/http/response"
	"github.com/mintrail/mintrail/infrastructure/service/logger"
)

// RateLimitMiddleware throttles the commit endpoints. Claims and sends burn
// gas and mint real tokens; a runaway or hostile client is cut off here
// before it reaches the chain.
type RateLimitMiddleware struct {
	rateLimitService inbound.RateLimitService
	logger           logger.Logger
	commitAttempts   int
	commitWindow     time.Duration
	blockDuration    time.Duration
}

func NewRateLimitMiddleware(rateLimitService inbound.RateLimitService, log logger.Logger, commitAttempts int, commitWindow, blockDuration time.Duration) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		logger:           log,
		commitAttempts:   commitAttempts,
		commitWindow:     commitWindow,
		blockDuration:    blockDuration,
	}
}

func (m *RateLimitMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if m.rateLimitService == nil {
			next.ServeHTTP(w, r)
			return
		}

		clientIP := getClientIP(r)
		key := fmt.Sprintf("commit:ip:%s", clientIP)

		isBlocked, err := m.rateLimitService.IsBlocked(ctx, key)
		if err != nil {
			m.logger.Error(ctx, "Failed to check block status", err, map[string]interface{}{
				"ip":  clientIP,
				"key": key,
			})
			// Continue with request on limiter error
		}
		if isBlocked {
			m.logger.Warn(ctx, "Blocked client attempted commit", map[string]interface{}{
				"ip":   clientIP,
				"path": r.URL.Path,
			})
			response.TooManyRequests(w, "Too many requests, try again later")
			return
		}

		underLimit, err := m.rateLimitService.CheckLimit(ctx, key, m.commitAttempts, m.commitWindow)
		if err != nil {
			m.logger.Error(ctx, "Failed to check rate limit", err, map[string]interface{}{
				"ip":  clientIP,
				"key": key,
			})
			next.ServeHTTP(w, r)
			return
		}
		if !underLimit {
			if err := m.rateLimitService.Block(ctx, key, m.blockDuration, "commit rate limit exceeded"); err != nil {
				m.logger.Error(ctx, "Failed to block client", err, map[string]interface{}{
					"ip": clientIP,
				})
			}
			response.TooManyRequests(w, "Too many requests, try again later")
			return
		}

		if err := m.rateLimitService.Increment(ctx, key, m.commitWindow); err != nil {
			m.logger.Error(ctx, "Failed to increment rate limit", err, map[string]interface{}{
				"ip": clientIP,
			})
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP, preferring proxy headers.
func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
