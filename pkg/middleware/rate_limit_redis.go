package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/authbridge/gateway/pkg/metrics"
)

// RedisRateLimitMiddleware enforces a fixed-window counter per key backed by
// Redis, so the limit holds across gateway replicas. Window is the counting
// interval; limit is derived from rps*window seconds, floored at burst.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if window <= 0 {
		window = time.Minute
	}
	limit := int(rps * window.Seconds())
	if limit < burst {
		limit = burst
	}
	return func(c *gin.Context) {
		var key string
		if s := SessionFrom(c); s != nil {
			key = "rl:id:" + s.Identity.ID.String()
		} else {
			ip := c.ClientIP()
			if ip == "" {
				ip = "unknown"
			}
			key = "rl:ip:" + ip
		}

		ctx := c.Request.Context()
		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			// limiter outage must not take the gateway down with it
			metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
			c.Next()
			return
		}
		if count == 1 {
			_ = client.Expire(ctx, key, window).Err()
		}
		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
