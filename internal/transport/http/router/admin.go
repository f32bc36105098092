package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gametask/internal/core/auth"
	"gametask/internal/core/config"
	"gametask/internal/core/server"
	"gametask/internal/domain"
	"gametask/internal/service"
	"gametask/internal/transport/http/handler"
	mdw "gametask/internal/transport/http/middleware"
)

// NewAdminEngine 访问日志和 panic 恢复走 gin-contrib/zap
func NewAdminEngine(l *zap.Logger, users *service.UserService, j *auth.JWTer, lim config.Limits) *gin.Engine {
	r := server.NewRouter(l)
	r.Use(mdw.RequestID(), mdw.Metrics())
	if lim.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}

	mountOps(r)

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(j, domain.RoleAdmin))
	handler.NewAdminHandler(users).Mount(admin)

	return r
}
