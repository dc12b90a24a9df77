package recommend

import (
	"context"
	"errors"

	"kids-content-api/internal/core/emotion"
	"kids-content-api/internal/core/vision"
	"kids-content-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Completer LLM 補全的黑箱契約，單次嘗試、逾時視同失敗
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Service 推薦管線協調器：decode -> classify -> prompt -> LLM -> parse，
// LLM 路徑任何失敗都以 fallback 收尾
type Service struct {
	classifier *emotion.Service
	llm        Completer
}

// NewService 創建推薦服務
func NewService(classifier *emotion.Service, llm Completer) *Service {
	return &Service{
		classifier: classifier,
		llm:        llm,
	}
}

// Result 管線結果。Success 為 true 時依 EndpointKind 填入 Items 或 Structured；
// 為 false 時 Fallback 必為完整 schema。
type Result struct {
	Success    bool
	Items      []string
	Structured map[string]interface{}
	Fallback   *StructuredAnalysis
}

// Recommend 對單一請求執行完整管線。
// 回傳 error 只會發生在輸入階段（圖片解不開，對應 HTTP 400）；
// 分類失敗在內部被吸收，LLM 失敗與解析失敗轉為 fallback 結果。
func (s *Service) Recommend(ctx context.Context, kind EndpointKind, imageData string) (*Result, error) {
	img, err := vision.Decode(imageData)
	if err != nil {
		return nil, err
	}

	// 分類永不失敗：最差情況是合成的 neutral 批次
	batch := s.classifier.Classify(ctx, img)

	prompt, err := BuildPrompt(kind, batch)
	if err != nil {
		// 未知的 endpoint kind 屬於設定錯誤，照樣以 fallback 保底
		common.LogError("建立 prompt 失敗", zap.Error(err))
		return fallbackResult(), nil
	}

	completion, err := s.llm.Complete(ctx, prompt.System, prompt.User)
	if err != nil {
		common.LogWarn("LLM 呼叫失敗，改用 fallback",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return fallbackResult(), nil
	}

	parsed, err := Parse(kind, completion)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			common.LogWarn("LLM 回應解析失敗，改用 fallback",
				zap.String("kind", string(kind)),
				zap.String("reason", parseErr.Reason),
			)
		} else {
			common.LogWarn("LLM 回應解析失敗，改用 fallback", zap.Error(err))
		}
		return fallbackResult(), nil
	}

	common.LogInfo("推薦管線完成",
		zap.String("kind", string(kind)),
		zap.Int("items_count", len(parsed.Items)),
	)

	return &Result{
		Success:    true,
		Items:      parsed.Items,
		Structured: parsed.Structured,
	}, nil
}

func fallbackResult() *Result {
	return &Result{
		Success:  false,
		Fallback: GenerateFallback(),
	}
}
