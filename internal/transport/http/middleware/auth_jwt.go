package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gametask/internal/core/auth"
	"gametask/internal/transport/http/ez"
	resp "gametask/internal/transport/http/response"
)

// AuthJWT 解析 "Authorization: Bearer <token>"，写入 userId/role/claims
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if ah == "" {
			resp.Unauthorized(c, resp.MsgNoToken)
			return
		}
		parts := strings.Split(ah, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			resp.Unauthorized(c, resp.MsgMalformedToken)
			return
		}
		claims, err := j.Parse(parts[1])
		if err != nil {
			_ = c.Error(err)
			resp.Unauthorized(c, resp.MsgInvalidToken)
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.AuthError(resp.MsgForbidden))
			return
		}
		c.Set(ez.KeyClaims, claims)
		c.Set(ez.KeyUserID, claims.UID)
		c.Set(ez.KeyRole, claims.Role)
		c.Next()
	}
}
