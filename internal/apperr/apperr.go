package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误分类，决定 HTTP 状态码
type Kind int

const (
	KindValidation Kind = iota + 1 // 400 请求不合法
	KindAuth                       // 401 凭证缺失或登录失败
	KindForbidden                  // 403 凭证无效/过期
	KindConflict                   // 400 唯一约束冲突（重复邮箱/重复交互）
	KindNotFound                   // 404 资源不存在
	KindUpstream                   // 上游新闻源异常，降级而非硬失败
	KindInternal                   // 500 存储或其他未预期失败
)

// Error 携带分类与对外消息的业务错误
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf 提取错误分类；非业务错误一律视为 Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf 提取对外消息；Internal 类错误只返回通用文案，细节进日志
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}

// Status 分类到 HTTP 状态码的映射；对外状态码限定在 {400,401,403,404,500}
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
