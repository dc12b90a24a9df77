package emotion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"kids-content-api/internal/core/vision"
	"kids-content-api/internal/infrastructure/config"
	"kids-content-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DeepFaceClient 透過 HTTP 呼叫 DeepFace sidecar 的分類器實現
type DeepFaceClient struct {
	config *config.Config
	client *resty.Client
}

// NewDeepFaceClient 創建 DeepFace sidecar 客戶端
func NewDeepFaceClient(cfg *config.Config) *DeepFaceClient {
	client := resty.New().
		SetBaseURL(cfg.Classifier.BaseURL).
		SetTimeout(cfg.Classifier.Timeout).
		SetHeader("Content-Type", "application/json")

	return &DeepFaceClient{
		config: cfg,
		client: client,
	}
}

// analyzeRequest deepface serve 的 /analyze 請求格式
type analyzeRequest struct {
	Img              string   `json:"img_path"`
	Actions          []string `json:"actions"`
	EnforceDetection bool     `json:"enforce_detection"`
}

// Analyze 將圖片送往 sidecar 分析情緒。
// enforce_detection 固定關閉：偵測不到人臉時分類器仍須給整張畫面的估計。
func (c *DeepFaceClient) Analyze(ctx context.Context, img *vision.PixelBuffer) (json.RawMessage, error) {
	dataURI, err := vision.EncodeJPEG(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image for analyzer: %w", err)
	}

	req := analyzeRequest{
		Img:              dataURI,
		Actions:          []string{"emotion"},
		EnforceDetection: false,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/analyze")

	if err != nil {
		return nil, fmt.Errorf("failed to send request to classifier: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("分類器回應錯誤狀態",
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return json.RawMessage(resp.Body()), nil
}
