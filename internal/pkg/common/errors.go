package common

import (
	"net/http"
)

// ErrorResponse API 錯誤回應的統一信封，由 WriteErrorResponse 寫出
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`             // 錯誤代碼
	Error   string `json:"error"`            // 錯誤信息
	Detail  string `json:"detail,omitempty"` // 詳細信息
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"      // 400
	ErrCodeMissingImage    = "MISSING_IMAGE_DATA"   // 400
	ErrCodeInvalidImage    = "INVALID_IMAGE_FORMAT" // 400
	ErrCodeImageTooLarge   = "IMAGE_TOO_LARGE"      // 413
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"    // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError  = "INTERNAL_ERROR"  // 500
	ErrCodeRequestTimeout = "REQUEST_TIMEOUT" // 504
)

// 預定義錯誤。Message 會直接進 API 回應，維持英文
var (
	// 客戶端錯誤
	ErrInvalidRequest     = NewError(ErrCodeInvalidRequest, "Invalid request format", http.StatusBadRequest, nil)
	ErrMissingImageData   = NewError(ErrCodeMissingImage, "No image data provided", http.StatusBadRequest, nil)
	ErrInvalidImageFormat = NewError(ErrCodeInvalidImage, "Invalid image data", http.StatusBadRequest, nil)
	ErrImageTooLarge      = NewError(ErrCodeImageTooLarge, "Request body too large", http.StatusRequestEntityTooLarge, nil)
	ErrTooManyRequests    = NewError(ErrCodeTooManyRequests, "Too many requests", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError  = NewError(ErrCodeInternalError, "Internal server error", http.StatusInternalServerError, nil)
	ErrRequestTimeout = NewError(ErrCodeRequestTimeout, "Request timeout", http.StatusGatewayTimeout, nil)

	// 快取流程內部的哨兵錯誤，不進 API 回應
	ErrCacheFull     = NewError("CACHE_FULL", "緩存已滿", http.StatusServiceUnavailable, nil)
	ErrCacheDisabled = NewError("CACHE_DISABLED", "緩存未命中或停用", http.StatusServiceUnavailable, nil)
)
