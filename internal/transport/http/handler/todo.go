package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gametask/internal/domain"
	"gametask/internal/service"
	"gametask/internal/transport/http/ez"
	resp "gametask/internal/transport/http/response"
)

type todoView struct {
	ID          string `json:"id"`
	Task        string `json:"task"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func viewTodo(t *domain.Todo) todoView {
	return todoView{ID: t.ID, Task: t.TaskID, Name: t.Name, Description: t.Description}
}

type TodoHandler struct {
	todos *service.TodoService
}

func NewTodoHandler(todos *service.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

type todoCreateIn struct {
	TaskID      string `json:"task_id"     binding:"required,objectid"`
	Name        string `json:"name"        binding:"required"`
	Description string `json:"description"`
}

type todoRefIn struct {
	ID string `json:"id" form:"id" binding:"omitempty,objectid"`
}

type todoUpdateIn struct {
	ID          string  `json:"id" binding:"required,objectid"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *TodoHandler) Mount(authed *gin.RouterGroup) {
	e := ez.New(authed)

	ez.RegisterAction(e, ez.Action[todoCreateIn, todoView]{
		Method: http.MethodPost,
		Path:   "/todo",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *todoCreateIn) (todoView, error) {
			td, err := h.todos.Create(c.Request.Context(), ez.UserID(c), service.TodoInput{
				TaskID: in.TaskID, Name: in.Name, Description: in.Description,
			})
			if err != nil {
				return todoView{}, err
			}
			return viewTodo(td), nil
		},
	})

	ez.RegisterAction(e, ez.Action[todoRefIn, todoView]{
		Method: http.MethodGet,
		Path:   "/todo",
		Binder: ez.BindAuto,
		Auth:   true,
		Handler: func(c *gin.Context, in *todoRefIn) (todoView, error) {
			td, err := h.todos.Get(c.Request.Context(), ez.UserID(c), in.ID)
			if err != nil {
				return todoView{}, err
			}
			return viewTodo(td), nil
		},
	})

	ez.RegisterAction(e, ez.Action[todoUpdateIn, todoView]{
		Method: http.MethodPut,
		Path:   "/todo",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *todoUpdateIn) (todoView, error) {
			td, err := h.todos.Update(c.Request.Context(), ez.UserID(c), service.TodoUpdate{
				ID: in.ID, Name: in.Name, Description: in.Description,
			})
			if err != nil {
				return todoView{}, err
			}
			return viewTodo(td), nil
		},
	})

	ez.RegisterAction(e, ez.Action[todoRefIn, resp.Msg]{
		Method: http.MethodDelete,
		Path:   "/todo",
		Binder: ez.BindAuto,
		Auth:   true,
		Handler: func(c *gin.Context, in *todoRefIn) (resp.Msg, error) {
			if err := h.todos.Delete(c.Request.Context(), ez.UserID(c), in.ID); err != nil {
				return resp.Msg{}, err
			}
			return resp.Message(msgDeleted), nil
		},
	})
}
