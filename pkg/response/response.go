package response

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	apperrors "github.com/laoming/experiment-manage-system/pkg/errors"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	Code     int         `json:"code"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data,omitempty"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

// 响应码定义
const (
	CodeSuccess      = 0
	CodeError        = 1
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeServerError  = 500
)

// Success 成功响应
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(http.StatusOK).JSON(Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 成功响应(带消息)
func SuccessWithMessage(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(http.StatusOK).JSON(Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// SuccessPage 分页成功响应
func SuccessPage(c *fiber.Ctx, data interface{}, total int64, page, pageSize int) error {
	return c.Status(http.StatusOK).JSON(PageResponse{
		Code:     CodeSuccess,
		Message:  "success",
		Data:     data,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Error 错误响应
func Error(c *fiber.Ctx, code int, message string) error {
	return c.Status(http.StatusOK).JSON(Response{
		Code:    code,
		Message: message,
	})
}

// Fail 按应用错误响应，HTTP状态随错误码映射
func Fail(c *fiber.Ctx, err error) error {
	code := apperrors.GetCode(err)
	message := apperrors.GetMessage(err)

	httpStatus := http.StatusOK
	switch code {
	case 401:
		httpStatus = http.StatusUnauthorized
	case 403:
		httpStatus = http.StatusForbidden
	case 404:
		httpStatus = http.StatusNotFound
	case 500:
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 请求错误
func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(Response{
		Code:    CodeError,
		Message: message,
	})
}

// Unauthorized 未授权
func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "unauthorized"
	}
	return c.Status(http.StatusUnauthorized).JSON(Response{
		Code:    CodeUnauthorized,
		Message: message,
	})
}

// Forbidden 禁止访问
func Forbidden(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "forbidden"
	}
	return c.Status(http.StatusForbidden).JSON(Response{
		Code:    CodeForbidden,
		Message: message,
	})
}

// NotFound 未找到
func NotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "not found"
	}
	return c.Status(http.StatusNotFound).JSON(Response{
		Code:    CodeNotFound,
		Message: message,
	})
}

// ServerError 服务器错误
func ServerError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "server error"
	}
	return c.Status(http.StatusInternalServerError).JSON(Response{
		Code:    CodeServerError,
		Message: message,
	})
}
