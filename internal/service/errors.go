package service

import (
	"errors"

	"eco-report/internal/dto"
	"eco-report/internal/models"
)

// 错误类别
var (
	ErrBadRequest      = errors.New("请求参数错误")
	ErrUnauthorized    = errors.New("未登录")
	ErrForbidden       = errors.New("无权限")
	ErrNotFound        = errors.New("记录不存在")
	ErrConflict        = errors.New("状态冲突")
	ErrTooManyRequests = errors.New("请求过于频繁")
)

// Error 带提示信息的业务错误
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap 返回错误类别
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

var kindCodes = []struct {
	kind error
	code int
}{
	{ErrBadRequest, dto.CodeBadRequest},
	{ErrUnauthorized, dto.CodeUnauthorized},
	{ErrForbidden, dto.CodeForbidden},
	{ErrNotFound, dto.CodeNotFound},
	{ErrConflict, dto.CodeConflict},
	{ErrTooManyRequests, dto.CodeTooMany},
}

// MsgInternal 未知错误的提示
const MsgInternal = "服务器内部错误"

// Code 把错误转换为响应码和提示
func Code(err error) (int, string) {
	var e *Error
	if errors.As(err, &e) {
		for _, kc := range kindCodes {
			if errors.Is(e.Kind, kc.kind) {
				return kc.code, e.Message
			}
		}
	}
	return dto.CodeInternal, MsgInternal
}

// transitionError 状态变更失败的业务错误
func transitionError(err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidStatus):
		return newError(ErrBadRequest, dto.MsgStatusInvalid)
	case errors.Is(err, models.ErrStatusRevert):
		return newError(ErrConflict, dto.MsgStatusRevert)
	case errors.Is(err, models.ErrAlreadyFixed):
		return newError(ErrConflict, dto.MsgAlreadyFixed)
	case errors.Is(err, models.ErrNoFixPhotos):
		return newError(ErrBadRequest, dto.MsgPhotoRequired)
	default:
		return err
	}
}
