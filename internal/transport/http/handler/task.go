package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gametask/internal/domain"
	"gametask/internal/service"
	"gametask/internal/transport/http/ez"
	resp "gametask/internal/transport/http/response"
)

const msgDeleted = "Successfully delete"

// taskView todo_list 只给 id
type taskView struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Active      bool      `json:"active"`
	TodoList    []string  `json:"todo_list"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func viewTask(t *domain.Task) taskView {
	return taskView{
		ID:          t.ID,
		UserID:      t.OwnerID,
		Name:        t.Name,
		Description: t.Description,
		DueDate:     t.DueDate,
		Active:      t.Active,
		TodoList:    t.TodoIDs(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type taskCreateIn struct {
	Name        string `json:"name"        binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"    binding:"required"`
}

// taskRefIn task_id 可放 query 也可放 body
type taskRefIn struct {
	TaskID string `json:"task_id" form:"task_id" binding:"omitempty,objectid"`
}

type taskUpdateIn struct {
	ID          string  `json:"id"          binding:"required,objectid"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Active      *bool   `json:"active"`
}

func (h *TaskHandler) Mount(authed *gin.RouterGroup) {
	e := ez.New(authed)

	ez.RegisterAction(e, ez.Action[taskCreateIn, taskView]{
		Method: http.MethodPost,
		Path:   "/task",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *taskCreateIn) (taskView, error) {
			t, err := h.tasks.Create(c.Request.Context(), ez.UserID(c), service.TaskInput{
				Name: in.Name, Description: in.Description, DueDate: in.DueDate,
			})
			if err != nil {
				return taskView{}, err
			}
			return viewTask(t), nil
		},
	})

	// 不带 task_id 时返回自己的全部任务
	ez.RegisterAction(e, ez.Action[taskRefIn, any]{
		Method: http.MethodGet,
		Path:   "/task",
		Binder: ez.BindAuto,
		Auth:   true,
		Handler: func(c *gin.Context, in *taskRefIn) (any, error) {
			ctx, uid := c.Request.Context(), ez.UserID(c)
			if in.TaskID == "" {
				ts, err := h.tasks.List(ctx, uid)
				if err != nil {
					return nil, err
				}
				out := make([]taskView, 0, len(ts))
				for i := range ts {
					out = append(out, viewTask(&ts[i]))
				}
				return out, nil
			}
			t, err := h.tasks.Get(ctx, uid, in.TaskID)
			if err != nil {
				return nil, err
			}
			return viewTask(t), nil
		},
	})

	ez.RegisterAction(e, ez.Action[taskUpdateIn, taskView]{
		Method: http.MethodPut,
		Path:   "/task",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *taskUpdateIn) (taskView, error) {
			t, err := h.tasks.Update(c.Request.Context(), ez.UserID(c), service.TaskUpdate{
				ID:          in.ID,
				Name:        in.Name,
				Description: in.Description,
				DueDate:     in.DueDate,
				Active:      in.Active,
			})
			if err != nil {
				return taskView{}, err
			}
			return viewTask(t), nil
		},
	})

	ez.RegisterAction(e, ez.Action[taskRefIn, resp.Msg]{
		Method: http.MethodDelete,
		Path:   "/task",
		Binder: ez.BindAuto,
		Auth:   true,
		Handler: func(c *gin.Context, in *taskRefIn) (resp.Msg, error) {
			if err := h.tasks.Delete(c.Request.Context(), ez.UserID(c), in.TaskID); err != nil {
				return resp.Msg{}, err
			}
			return resp.Message(msgDeleted), nil
		},
	})
}
