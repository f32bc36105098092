package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gametask/internal/domain"
	"gametask/internal/service"
	"gametask/internal/transport/http/ez"
	resp "gametask/internal/transport/http/response"
	"gametask/pkg/utils"
)

// AdminHandler 管理端接口，分组已走 AuthJWT("admin")
type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

type listQ struct {
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"` // 按 email/name 模糊搜
}

type userRow struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Exp       int64     `json:"exp"`
	CreatedAt time.Time `json:"createdAt"`
}

type listOut struct {
	Total int64     `json:"total"`
	Items []userRow `json:"items"`
}

type expOut struct {
	ID  string `json:"id"`
	Exp int64  `json:"exp"`
}

func pathID(c *gin.Context) (string, error) {
	id := c.Param("id")
	if !utils.IsValidID(id) {
		return "", domain.ErrValidation
	}
	return id, nil
}

func (h *AdminHandler) Mount(admin *gin.RouterGroup) {
	e := ez.New(admin)

	// --- GET /admin/v1/users  用户列表 ---
	ez.RegisterAction(e, ez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			us, total, err := h.users.List(c.Request.Context(), in.Offset, in.Limit, in.Q)
			if err != nil {
				return listOut{}, err
			}
			out := listOut{Total: total, Items: make([]userRow, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, userRow{
					ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, Exp: u.Exp, CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})

	// --- POST /admin/v1/users/:id/reset-exp  经验清零 ---
	ez.RegisterAction(e, ez.Action[struct{}, expOut]{
		Method: http.MethodPost,
		Path:   "/users/:id/reset-exp",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (expOut, error) {
			id, err := pathID(c)
			if err != nil {
				return expOut{}, err
			}
			p, err := h.users.ResetExperience(c.Request.Context(), id)
			if err != nil {
				return expOut{}, err
			}
			return expOut{ID: p.ID, Exp: p.Exp}, nil
		},
	})

	// --- DELETE /admin/v1/users/:id  级联删除 ---
	ez.RegisterAction(e, ez.Action[struct{}, resp.Msg]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (resp.Msg, error) {
			id, err := pathID(c)
			if err != nil {
				return resp.Msg{}, err
			}
			if err := h.users.Delete(c.Request.Context(), id); err != nil {
				return resp.Msg{}, err
			}
			return resp.Message("Delete successfully"), nil
		},
	})
}
