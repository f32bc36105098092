package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "gametask/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；超限时 JSON 绑定会失败，这里提前按 Content-Length 拒绝
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Message(resp.MsgBodyTooLarge))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
