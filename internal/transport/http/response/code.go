package response

import (
	"context"
	"errors"
	"net/http"

	"gametask/internal/domain"
)

const (
	MsgInternal       = "Internal error"
	MsgValidation     = "Validation error"
	MsgNoToken        = "No token provided"
	MsgMalformedToken = "Token malformatted"
	MsgInvalidToken   = "Invalid token"
	MsgForbidden      = "Forbidden"
	MsgTooManyRequest = "Too many requests"
	MsgBusy           = "Server busy"
	MsgBodyTooLarge   = "Request body too large"
	MsgTimeout        = "Timeout"
)

// kindStatus 业务错误类型 -> HTTP 状态；未找到按 400 返回
var kindStatus = map[domain.Kind]int{
	domain.KindValidation:   http.StatusBadRequest,
	domain.KindNotFound:     http.StatusBadRequest,
	domain.KindConflict:     http.StatusBadRequest,
	domain.KindUnauthorized: http.StatusUnauthorized,
	domain.KindForbidden:    http.StatusForbidden,
}

// StatusOf 超时 504；其余非业务错误一律 500，消息不外泄
func StatusOf(err error) (int, string) {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, MsgTimeout
	}
	if de, ok := domain.AsError(err); ok {
		if st, ok := kindStatus[de.Kind]; ok {
			return st, de.Msg
		}
	}
	return http.StatusInternalServerError, MsgInternal
}
