// Package types 观察接口的响应格式
package types

import "time"

// 错误码
const (
	ErrNotFound = "NOT_FOUND"
	ErrInternal = "INTERNAL"
)

// SuccessResponse 统一成功响应格式
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"requestId,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}, requestID string) *SuccessResponse {
	return &SuccessResponse{
		Data:      data,
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorResponse 统一错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code, message, requestID string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message, RequestID: requestID}}
}
