package search

import (
	"net/http"

	searchcore "kids-content-api/internal/core/search"
	"kids-content-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 影片搜尋處理器
type Handler struct {
	service *searchcore.Service
}

// NewHandler 創建搜尋處理器
func NewHandler(service *searchcore.Service) *Handler {
	return &Handler{service: service}
}

// searchRequest 搜尋請求：searchQueries 依排名排序，childAnalysis 僅供記錄
type searchRequest struct {
	SearchQueries []string               `json:"searchQueries"`
	ChildAnalysis map[string]interface{} `json:"childAnalysis"`
}

// HandleSearch POST /api/search
func (h *Handler) HandleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteErrorResponse(c, common.ErrInvalidRequest, err.Error())
		return
	}

	common.LogInfo("影片搜尋請求",
		zap.Int("queries_count", len(req.SearchQueries)),
		zap.Bool("has_child_analysis", req.ChildAnalysis != nil),
	)

	result := h.service.Search(c.Request.Context(), req.SearchQueries)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"videos":        result.Videos,
		"totalFound":    result.TotalFound,
		"selectedQuery": result.SelectedQuery,
		"note":          result.Note,
	})
}
