package common

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID，作為 requestid 中間件的請求 ID 產生器
func GenerateUUID() string {
	return uuid.New().String()
}

// WriteErrorResponse 以統一信封寫出錯誤回應；detail 為空時省略
func WriteErrorResponse(c *gin.Context, cerr *CustomError, detail string) {
	c.JSON(cerr.Status, ErrorResponse{
		Success: false,
		Code:    cerr.Code,
		Error:   cerr.Message,
		Detail:  detail,
	})
}
