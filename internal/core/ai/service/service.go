package service

import (
	"context"
	"strings"
	"time"

	"kids-content-api/internal/core/ai/cache"
	"kids-content-api/internal/core/ai/groq"
	"kids-content-api/internal/infrastructure/config"
	"kids-content-api/internal/pkg/common"
)

// Service LLM 服務：補全請求的統一入口，帶快取
type Service struct {
	config       *config.Config
	groq         *groq.Client
	cacheManager *cache.CacheManager
}

// NewService 創建 LLM 服務
func NewService(cfg *config.Config, cacheManager *cache.CacheManager) (*Service, error) {
	return &Service{
		config:       cfg,
		groq:         groq.NewClient(cfg),
		cacheManager: cacheManager,
	}, nil
}

// Complete 統一對外方法：先查快取，未命中才呼叫 Groq
func (s *Service) Complete(ctx context.Context, system, user string) (string, error) {
	// 統一格式，去除多餘空白，確保快取 key 一致
	cacheKey := normalizeForKey(system) + "|" + normalizeForKey(user)

	if s.config.Cache.Enabled && s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, cacheKey); err == nil && val != "" {
			return val, nil
		}
	}

	start := time.Now()
	content, err := s.groq.Complete(ctx, system, user)
	common.LogAICall(time.Since(start), err)
	if err != nil {
		return "", err
	}

	if s.config.Cache.Enabled && s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, cacheKey, content)
	}

	return content, nil
}

// normalizeForKey 壓縮空白與換行，讓相同語義的 prompt 映射到同一鍵
func normalizeForKey(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}
