package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gametask/internal/service"
	"gametask/internal/transport/http/ez"
)

type ScoreHandler struct {
	score *service.ScoreService
}

func NewScoreHandler(score *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{score: score}
}

type scoreIn struct {
	TaskID string `json:"task_id" binding:"required,objectid"`
}

// Mount POST /score 返回任务主人最新的身份投影
func (h *ScoreHandler) Mount(authed *gin.RouterGroup) {
	ez.RegisterAction(ez.New(authed), ez.Action[scoreIn, *service.Profile]{
		Method: http.MethodPost,
		Path:   "/score",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *scoreIn) (*service.Profile, error) {
			return h.score.Score(c.Request.Context(), ez.UserID(c), in.TaskID)
		},
	})
}
