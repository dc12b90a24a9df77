package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterExhaustion(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !limiter.Allow() {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if limiter.Allow() {
		t.Error("request over capacity should be rejected")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	// 高速率讓令牌在短暫等待後補回
	limiter := NewRateLimiter(100, time.Second)

	for i := 0; i < 100; i++ {
		limiter.Allow()
	}
	if limiter.Allow() {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(50 * time.Millisecond)
	if !limiter.Allow() {
		t.Error("tokens should have refilled")
	}
}

// 輪詢間隔短於單一令牌的補充間隔時，額度仍要能跨次累積
func TestRateLimiterSubIntervalRefill(t *testing.T) {
	// 每 100ms 補一個令牌
	limiter := NewRateLimiter(10, time.Second)

	for i := 0; i < 10; i++ {
		limiter.Allow()
	}
	if limiter.Allow() {
		t.Fatal("bucket should be empty")
	}

	// 每 30ms 輪詢一次，300ms 內應累積出約 3 個令牌
	allowed := 0
	for i := 0; i < 10; i++ {
		time.Sleep(30 * time.Millisecond)
		if limiter.Allow() {
			allowed++
		}
	}
	if allowed < 2 {
		t.Errorf("allowed = %d, want at least 2 after sub-interval polling", allowed)
	}
}
