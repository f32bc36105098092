package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gametask/internal/core/auth"
	"gametask/internal/core/config"
	"gametask/internal/service"
	"gametask/internal/transport/http/handler"
	mdw "gametask/internal/transport/http/middleware"
)

// Deps 用户端 engine 需要的全部依赖
type Deps struct {
	Users   *service.UserService
	Friends *service.FriendService
	Tasks   *service.TaskService
	Todos   *service.TodoService
	Score   *service.ScoreService
	JWT     *auth.JWTer

	Limits      config.Limits
	CORSOrigins []string
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", mdw.KeyRequestID)
	cfg.ExposeHeaders = []string{mdw.KeyRequestID}
	return cors.New(cfg)
}

// protect 两个 engine 共用的保护中间件；配置为 0 的项不启用
func protect(l *zap.Logger, lim config.Limits) []gin.HandlerFunc {
	hs := []gin.HandlerFunc{
		mdw.RequestID(),
		mdw.Metrics(),
		mdw.AccessLog(l),
		mdw.SimpleRecovery(l),
	}
	if lim.RPS > 0 {
		hs = append(hs, mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst))
	}
	if lim.PerIPRPS > 0 {
		hs = append(hs, mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst, 10*time.Minute))
	}
	if lim.Concurrency > 0 {
		hs = append(hs, mdw.ConcurrencyLimit(lim.Concurrency, time.Second))
	}
	if lim.MaxBodyBytes > 0 {
		hs = append(hs, mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}
	if lim.TimeoutSec > 0 {
		hs = append(hs, mdw.Timeout(time.Duration(lim.TimeoutSec)*time.Second))
	}
	return hs
}

func mountOps(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func NewAPIEngine(l *zap.Logger, d Deps) *gin.Engine {
	r := gin.New()
	r.Use(corsMiddleware(d.CORSOrigins))
	r.Use(protect(l, d.Limits)...)

	mountOps(r)

	public := r.Group("")
	// 鉴权分组，handler 里才能拿到 userId
	authed := r.Group("")
	authed.Use(mdw.AuthJWT(d.JWT, ""))

	handler.NewUserHandler(d.Users, d.JWT).Mount(public, authed)
	handler.NewFriendHandler(d.Friends).Mount(authed)
	handler.NewTaskHandler(d.Tasks).Mount(authed)
	handler.NewTodoHandler(d.Todos).Mount(authed)
	handler.NewScoreHandler(d.Score).Mount(authed)

	return r
}
