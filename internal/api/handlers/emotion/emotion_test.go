package emotion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	emotioncore "kids-content-api/internal/core/emotion"
	"kids-content-api/internal/core/recommend"
	"kids-content-api/internal/core/vision"

	"github.com/gin-gonic/gin"
)

type stubAnalyzer struct {
	raw json.RawMessage
	err error
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ *vision.PixelBuffer) (json.RawMessage, error) {
	return s.raw, s.err
}

type stubCompleter struct {
	completion string
	err        error
}

func (s *stubCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	return s.completion, s.err
}

func validImage(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newTestRouter(llm recommend.Completer) (*gin.Engine, *emotioncore.State) {
	gin.SetMode(gin.TestMode)

	state := emotioncore.NewState()
	analyzer := &stubAnalyzer{raw: json.RawMessage(`{"emotion": {"sad": 80, "happy": 20}}`)}
	classifier := emotioncore.NewService(analyzer, state)
	recommender := recommend.NewService(classifier, llm)
	h := NewHandler(recommender, state)

	router := gin.New()
	router.POST("/api/emotion", h.HandleAnalyze)
	router.POST("/api/emotion-v2", h.HandleAnalyzeV2)
	router.POST("/api/sentiment", h.HandleSentiment)
	router.POST("/api/get_sentiment", h.HandleGetSentiment)
	return router, state
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestMissingImageDataReturns400(t *testing.T) {
	router, _ := newTestRouter(&stubCompleter{completion: "never reached"})

	for _, body := range []string{`{}`, `{"imageData": ""}`} {
		w := postJSON(router, "/api/emotion", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestInvalidImageReturns400(t *testing.T) {
	router, _ := newTestRouter(&stubCompleter{completion: "never reached"})

	w := postJSON(router, "/api/emotion", `{"imageData": "not base64 at all!!!"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["success"] != false {
		t.Error("success must be false")
	}
	if resp["code"] != "INVALID_IMAGE_FORMAT" {
		t.Errorf("code = %v, want INVALID_IMAGE_FORMAT", resp["code"])
	}
	if resp["detail"] == "" || resp["detail"] == nil {
		t.Error("detail must explain the decode failure")
	}
}

func TestSentimentSuccess(t *testing.T) {
	router, state := newTestRouter(&stubCompleter{completion: "A Cheerful Counting Song"})

	w := postJSON(router, "/api/sentiment", `{"imageData": "`+validImage(t)+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Success bool     `json:"success"`
		Titles  []string `json:"titles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success {
		t.Error("success must be true")
	}
	if len(resp.Titles) != 1 || resp.Titles[0] != "A Cheerful Counting Song" {
		t.Errorf("titles = %v", resp.Titles)
	}
	// 成功分類後狀態跟著更新
	if state.Get() != emotioncore.LabelSad {
		t.Errorf("state = %q, want sad", state.Get())
	}
}

func TestEmotionFallbackOnLLMFailure(t *testing.T) {
	router, _ := newTestRouter(&stubCompleter{err: errors.New("llm unavailable")})

	w := postJSON(router, "/api/emotion", `{"imageData": "`+validImage(t)+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Success  bool                   `json:"success"`
		Analysis map[string]interface{} `json:"analysis"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Success {
		t.Error("success must be false on fallback")
	}
	// fallback 必須是完整 schema
	for _, key := range []string{"childAnalysis", "contentStrategy", "queryRanking", "parentalGuidance", "safetyAssurance"} {
		if _, ok := resp.Analysis[key]; !ok {
			t.Errorf("fallback analysis missing key %q", key)
		}
	}
}

func TestEmotionV2FallbackOnGarbageCompletion(t *testing.T) {
	// 空白回應解析失敗，走 fallback
	router, _ := newTestRouter(&stubCompleter{completion: "   \n\n  "})

	w := postJSON(router, "/api/emotion-v2", `{"imageData": "`+validImage(t)+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Success  bool            `json:"success"`
		Analysis json.RawMessage `json:"analysis"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Success {
		t.Error("success must be false on fallback")
	}
	// fallback 是物件而不是 URL 列表
	var obj map[string]interface{}
	if err := json.Unmarshal(resp.Analysis, &obj); err != nil {
		t.Errorf("fallback analysis is not an object: %v", err)
	}
}

func TestGetSentimentDefaultAndUpdate(t *testing.T) {
	router, state := newTestRouter(&stubCompleter{completion: "some title"})

	// 初始值
	w := postJSON(router, "/api/get_sentiment", `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["emotion"] != emotioncore.DefaultSentiment {
		t.Errorf("emotion = %q, want %q", resp["emotion"], emotioncore.DefaultSentiment)
	}

	// 讀取不改變狀態
	postJSON(router, "/api/get_sentiment", `{}`)
	if state.Get() != emotioncore.DefaultSentiment {
		t.Error("get_sentiment must not mutate state")
	}

	// 成功分類後讀到新值
	postJSON(router, "/api/sentiment", `{"imageData": "`+validImage(t)+`"}`)
	w = postJSON(router, "/api/get_sentiment", `{}`)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["emotion"] != emotioncore.LabelSad {
		t.Errorf("emotion = %q, want sad", resp["emotion"])
	}
}
