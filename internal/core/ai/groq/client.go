package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"kids-content-api/internal/infrastructure/config"
	"kids-content-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://api.groq.com/openai/v1"

// Client Groq chat completions 客戶端（OpenAI 相容介面）
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient 創建 Groq 客戶端。逾時由 config 控制，到期視同 LLM 呼叫失敗。
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Groq.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Groq.APIKey)).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config: cfg,
		client: client,
	}
}

// message 對話消息
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Complete 以 system + user 消息請求一次文字補全，單次嘗試、不重試
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	req := map[string]interface{}{
		"model": c.config.Groq.Model,
		"messages": []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		"max_tokens":  c.config.Groq.MaxTokens,
		"temperature": c.config.Groq.Temperature,
	}

	common.LogInfo("發送請求至 Groq",
		zap.String("model", c.config.Groq.Model),
		zap.Int("user_content_length", len(user)),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")

	if err != nil {
		return "", fmt.Errorf("failed to send request to Groq: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("Groq API returned error (status %d): %s", resp.StatusCode(), resp.String())
	}

	// 解析回應
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse Groq response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in Groq response")
	}

	content := result.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty content in Groq response")
	}

	common.LogInfo("Groq 回應成功",
		zap.String("model", c.config.Groq.Model),
		zap.Int("content_length", len(content)),
	)

	return content, nil
}
