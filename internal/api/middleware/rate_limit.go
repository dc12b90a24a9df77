package middleware

import (
	"fmt"
	"sync"
	"time"

	"kids-content-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter 令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	tokens   int
	capacity int
	rate     float64
	lastTime time.Time
}

// NewRateLimiter 創建新的限流器
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:   requests,
		capacity: requests,
		rate:     float64(requests) / window.Seconds(),
		lastTime: time.Now(),
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastTime).Seconds()

	if newTokens := int(elapsed * rl.rate); newTokens > 0 {
		rl.tokens += newTokens
		if rl.tokens >= rl.capacity {
			rl.tokens = rl.capacity
			rl.lastTime = now
		} else {
			// 只前移已折算成令牌的時間，未滿一個令牌的零頭留到下一次累積，
			// 高頻輪詢才不會讓補充額度永遠歸零
			rl.lastTime = rl.lastTime.Add(time.Duration(float64(newTokens) / rl.rate * float64(time.Second)))
		}
	}

	if rl.tokens > 0 {
		rl.tokens--
		return true
	}

	return false
}

// RateLimit 限流中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(requests, window)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			common.WriteErrorResponse(c, common.ErrTooManyRequests, fmt.Sprintf("retry after %s", window))
			c.Abort()
			return
		}

		c.Next()
	}
}
