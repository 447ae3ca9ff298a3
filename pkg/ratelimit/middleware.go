package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"ticketcore/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// Middleware classifies the route into a limit type and rejects callers
// over their window with 429.
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := getRateLimitType(c.FullPath(), c.Request.Method)

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			// Redis trouble must not take the API down
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

func getRateLimitType(path, method string) RateLimitType {
	switch {
	// Money-moving endpoints
	case strings.Contains(path, "/withdraw"),
		strings.Contains(path, "/refund-claim"),
		strings.Contains(path, "/refunds/reconcile"):
		return RateLimitTypePayout

	// Minting and the refund queue
	case strings.Contains(path, "/tickets") && method == http.MethodPost,
		strings.Contains(path, "/refund-request"),
		strings.Contains(path, "/refund-requests"):
		return RateLimitTypePurchase

	case strings.Contains(path, "/auth/"):
		return RateLimitTypeAuth

	// Public browsing
	case strings.Contains(path, "/events") && method == http.MethodGet:
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}

// getClientIP extracts the real client IP, preferring proxy headers
func getClientIP(c *gin.Context) string {
	xForwardedFor := c.GetHeader("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	xRealIP := c.GetHeader("X-Real-IP")
	if xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}
