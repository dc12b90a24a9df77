package emotion

import (
	"errors"
	"net/http"

	emotioncore "kids-content-api/internal/core/emotion"
	"kids-content-api/internal/core/recommend"
	"kids-content-api/internal/core/vision"
	"kids-content-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 情緒分析相關的 HTTP 處理器
type Handler struct {
	recommender *recommend.Service
	state       *emotioncore.State
}

// NewHandler 創建情緒處理器
func NewHandler(recommender *recommend.Service, state *emotioncore.State) *Handler {
	return &Handler{
		recommender: recommender,
		state:       state,
	}
}

// analyzeRequest 所有分析端點共用的請求格式
type analyzeRequest struct {
	ImageData string `json:"imageData"`
}

// bindImage 解析請求體並檢查 imageData 是否存在
func bindImage(c *gin.Context) (string, bool) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式錯誤",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		common.WriteErrorResponse(c, common.ErrInvalidRequest, err.Error())
		return "", false
	}
	if req.ImageData == "" {
		common.WriteErrorResponse(c, common.ErrMissingImageData, "imageData is required")
		return "", false
	}
	return req.ImageData, true
}

// respondDecodeError 圖片解不開一律回 400，帶上失敗原因
func respondDecodeError(c *gin.Context, err error) bool {
	var decodeErr *vision.DecodeError
	if !errors.As(err, &decodeErr) {
		return false
	}
	common.LogWarn("圖片解碼失敗",
		zap.String("path", c.Request.URL.Path),
		zap.String("reason", decodeErr.Reason),
	)
	common.WriteErrorResponse(c, common.ErrInvalidImageFormat, decodeErr.Reason)
	return true
}

func respondInternalError(c *gin.Context, err error) {
	common.LogError("推薦管線異常",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	common.WriteErrorResponse(c, common.ErrInternalError, "")
}

// HandleAnalyze POST /api/emotion
// 回傳完整的結構化分析 JSON；管線失敗時回傳 fallback 分析。
func (h *Handler) HandleAnalyze(c *gin.Context) {
	imageData, ok := bindImage(c)
	if !ok {
		return
	}

	result, err := h.recommender.Recommend(c.Request.Context(), recommend.KindStructured, imageData)
	if err != nil {
		if respondDecodeError(c, err) {
			return
		}
		respondInternalError(c, err)
		return
	}

	if result.Success {
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"analysis": result.Structured,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  false,
		"analysis": result.Fallback,
	})
}

// HandleAnalyzeV2 POST /api/emotion-v2
// 成功時 analysis 為影片 URL 列表；失敗時 analysis 為 fallback 分析物件。
func (h *Handler) HandleAnalyzeV2(c *gin.Context) {
	imageData, ok := bindImage(c)
	if !ok {
		return
	}

	result, err := h.recommender.Recommend(c.Request.Context(), recommend.KindURLs, imageData)
	if err != nil {
		if respondDecodeError(c, err) {
			return
		}
		respondInternalError(c, err)
		return
	}

	if result.Success {
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"analysis": result.Items,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  false,
		"analysis": result.Fallback,
	})
}

// HandleSentiment POST /api/sentiment
// 成功時回傳單一影片標題列表；失敗時回傳 fallback 分析。
func (h *Handler) HandleSentiment(c *gin.Context) {
	imageData, ok := bindImage(c)
	if !ok {
		return
	}

	result, err := h.recommender.Recommend(c.Request.Context(), recommend.KindTitles, imageData)
	if err != nil {
		if respondDecodeError(c, err) {
			return
		}
		respondInternalError(c, err)
		return
	}

	if result.Success {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"titles":  result.Items,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  false,
		"analysis": result.Fallback,
	})
}

// HandleGetSentiment POST /api/get_sentiment
// 只讀取最近一次成功分類的情緒，不觸發任何管線。
func (h *Handler) HandleGetSentiment(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"emotion": h.state.Get(),
	})
}
