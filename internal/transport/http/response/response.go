package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gametask/internal/domain"
)

// Msg 业务结果与业务错误都用 {message}
type Msg struct {
	Message string `json:"message"`
}

// AuthErr 鉴权中间件专用 {error}
type AuthErr struct {
	Error string `json:"error"`
}

func Message(msg string) Msg { return Msg{Message: msg} }

func AuthError(msg string) AuthErr { return AuthErr{Error: msg} }

// Fail 按错误类型写状态码；原始错误挂到 c.Errors 供访问日志使用
func Fail(c *gin.Context, err error) {
	status, msg := StatusOf(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, Message(msg))
}

// Unauthorized 401 {error}
func Unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, AuthError(msg))
}

// Validation 绑定失败统一为 Validation error，不暴露字段名
func Validation(c *gin.Context, err error) {
	Fail(c, domain.Invalid(err))
}
