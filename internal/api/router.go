package api

import (
	"context"
	"fmt"
	"time"

	emotionHandler "kids-content-api/internal/api/handlers/emotion"
	"kids-content-api/internal/api/handlers/health"
	searchHandler "kids-content-api/internal/api/handlers/search"
	"kids-content-api/internal/api/middleware"
	"kids-content-api/internal/core/ai/cache"
	"kids-content-api/internal/core/ai/service"
	"kids-content-api/internal/core/emotion"
	"kids-content-api/internal/core/recommend"
	searchService "kids-content-api/internal/core/search"
	"kids-content-api/internal/infrastructure/config"
	"kids-content-api/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.CacheManager) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID))) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制（base64 圖片比原始檔大 1/3，上限放寬到設定值）
	router.Use(middleware.BodySizeLimit(cfg.Image.MaxSizeBytes))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("model", cfg.Groq.Model),
		zap.String("classifier_url", cfg.Classifier.BaseURL),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化 AI 服務
	aiService, err := service.NewService(cfg, cacheManager)
	if err != nil || aiService == nil {
		common.LogError("Failed to initialize AI service", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize AI service: %w", err)
	}

	// 初始化情緒分類服務
	sentimentState := emotion.NewState()
	classifier := emotion.NewService(emotion.NewDeepFaceClient(cfg), sentimentState)

	// 初始化推薦管線
	recommendSvc := recommend.NewService(classifier, aiService)

	// 初始化影片搜尋服務
	searchSvc := searchService.NewService(cfg)

	common.LogInfo("Services initialized successfully",
		zap.Bool("ai_service_initialized", aiService != nil),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.String("environment", cfg.App.Env),
	)

	// 全局中間件：設置超時和配置
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		// 設置配置與最近情緒（供健康檢查讀取）
		c.Set("config", cfg)
		c.Set("sentiment", sentimentState.Get())

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			common.WriteErrorResponse(c, common.ErrRequestTimeout, timeoutDuration.String())
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api")
	{
		emotionH := emotionHandler.NewHandler(recommendSvc, sentimentState)

		// 去重只掛在帶圖片的管線端點：同一張畫面短時間內重複送出時擋下。
		// 純讀取的 get_sentiment 連續呼叫必須每次都回值，不能被去重吃掉。
		dedup := middleware.Deduplication(cfg)

		// 情緒分析與推薦
		api.POST("/emotion", dedup, emotionH.HandleAnalyze)
		api.POST("/emotion-v2", dedup, emotionH.HandleAnalyzeV2)
		api.POST("/sentiment", dedup, emotionH.HandleSentiment)
		api.POST("/get_sentiment", emotionH.HandleGetSentiment)

		// 影片搜尋
		searchH := searchHandler.NewHandler(searchSvc)
		api.POST("/search", searchH.HandleSearch)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", cfg.Image.MaxSizeBytes),
	)

	return router, nil
}
