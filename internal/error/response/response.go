package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resqwave-dispatch-service/internal/domain/services"
	"resqwave-dispatch-service/internal/error/code"
	"resqwave-dispatch-service/pkg/logger"
)

// Response 定义统一的响应格式
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    code.ErrSuccess,
		Message: code.GetMessage(code.ErrSuccess),
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    code.ErrSuccess,
		Message: code.GetMessage(code.ErrSuccess),
		Data:    data,
	})
}

// Fail 失败响应
func Fail(c *gin.Context, errorCode int, data interface{}) {
	httpStatus := code.GetStatus(errorCode)
	message := code.GetMessage(errorCode)

	c.JSON(httpStatus, Response{
		Code:    errorCode,
		Message: message,
		Data:    data,
	})
}

// FailWithMessage 失败响应（自定义消息）
func FailWithMessage(c *gin.Context, errorCode int, message string, data interface{}) {
	httpStatus := code.GetStatus(errorCode)

	c.JSON(httpStatus, Response{
		Code:    errorCode,
		Message: message,
		Data:    data,
	})
}

// Error maps a service error onto the envelope. Unclassified errors are
// logged and reported as 500 without leaking their text.
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		FailWithMessage(c, code.ErrResourceNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrResourceConflict):
		FailWithMessage(c, code.ErrResourceConflict, err.Error(), nil)
	case errors.Is(err, services.ErrValidation):
		FailWithMessage(c, code.ErrValidation, err.Error(), nil)
	case errors.Is(err, services.ErrPreconditionFailed):
		FailWithMessage(c, code.ErrPreconditionFailed, err.Error(), nil)
	default:
		logger.Error("request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		Fail(c, code.ErrUnknown, nil)
	}
}

// ParamError 参数错误响应
func ParamError(c *gin.Context, message string) {
	if message == "" {
		message = code.GetMessage(code.ErrValidation)
	}
	FailWithMessage(c, code.ErrValidation, message, nil)
}

// ServerError 服务器错误响应
func ServerError(c *gin.Context) {
	Fail(c, code.ErrUnknown, nil)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "资源不存在"
	}
	FailWithMessage(c, code.ErrResourceNotFound, message, nil)
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context) {
	Fail(c, code.ErrTokenInvalid, nil)
}
