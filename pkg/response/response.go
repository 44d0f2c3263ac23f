package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/newsportal/internal/apperr"
	"github.com/d60-Lab/newsportal/pkg/logger"
)

// ErrorBody 统一错误响应体
type ErrorBody struct {
	Error string `json:"error"`
}

// Success 200 + data 原样返回
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created 201 + data
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// BadRequest 400 校验/冲突类错误
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: msg})
}

// Unauthorized 401 缺少凭证或登录失败
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, ErrorBody{Error: msg})
}

// Forbidden 403 凭证无效
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, ErrorBody{Error: msg})
}

// NotFound 404
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, ErrorBody{Error: msg})
}

// InternalError 500；细节记日志并上报 sentry，客户端只看到通用文案
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
	sentry.CaptureException(err)
	c.JSON(http.StatusInternalServerError, ErrorBody{Error: "internal server error"})
}

// Fail 按业务错误分类渲染响应
func Fail(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		InternalError(c, err)
		return
	}
	c.JSON(apperr.Status(err), ErrorBody{Error: apperr.MessageOf(err)})
}
