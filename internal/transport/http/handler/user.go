package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gametask/internal/core/auth"
	"gametask/internal/service"
	"gametask/internal/transport/http/ez"
	resp "gametask/internal/transport/http/response"
)

type UserHandler struct {
	users *service.UserService
	jwt   *auth.JWTer
}

func NewUserHandler(users *service.UserService, j *auth.JWTer) *UserHandler {
	return &UserHandler{users: users, jwt: j}
}

type registerIn struct {
	Name     string `json:"name"     binding:"required,max=64"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Birthday string `json:"birthday" binding:"required"`
}

type authIn struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateIn struct {
	Name        *string `json:"name"        binding:"omitempty,max=64"`
	Email       *string `json:"email"       binding:"omitempty,email"`
	Birthday    *string `json:"birthday"`
	Password    *string `json:"password"`
	OldPassword *string `json:"oldPassword"`
}

type userOut struct {
	User  *service.Profile `json:"user"`
	Token string           `json:"token,omitempty"`
}

func (h *UserHandler) withToken(p *service.Profile) (userOut, error) {
	tok, err := h.jwt.Issue(p.ID, p.Role)
	if err != nil {
		return userOut{}, err
	}
	return userOut{User: p, Token: tok}, nil
}

// Mount 注册与登录公开，其余需要登录
func (h *UserHandler) Mount(public, authed *gin.RouterGroup) {
	pub := ez.New(public)
	priv := ez.New(authed)

	ez.RegisterAction(pub, ez.Action[registerIn, userOut]{
		Method: http.MethodPost,
		Path:   "/user",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *registerIn) (userOut, error) {
			p, err := h.users.Register(c.Request.Context(), service.RegisterInput{
				Name: in.Name, Email: in.Email, Password: in.Password, Birthday: in.Birthday,
			})
			if err != nil {
				return userOut{}, err
			}
			return h.withToken(p)
		},
	})

	ez.RegisterAction(pub, ez.Action[authIn, userOut]{
		Method: http.MethodPost,
		Path:   "/user/auth",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *authIn) (userOut, error) {
			p, err := h.users.Authenticate(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return userOut{}, err
			}
			return h.withToken(p)
		},
	})

	ez.RegisterAction(priv, ez.Action[struct{}, userOut]{
		Method: http.MethodGet,
		Path:   "/user",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
			p, err := h.users.Profile(c.Request.Context(), ez.UserID(c))
			return userOut{User: p}, err
		},
	})

	ez.RegisterAction(priv, ez.Action[updateIn, userOut]{
		Method: http.MethodPut,
		Path:   "/user",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *updateIn) (userOut, error) {
			p, err := h.users.Update(c.Request.Context(), ez.UserID(c), service.UpdateInput{
				Name:        in.Name,
				Email:       in.Email,
				Birthday:    in.Birthday,
				Password:    in.Password,
				OldPassword: in.OldPassword,
			})
			return userOut{User: p}, err
		},
	})

	ez.RegisterAction(priv, ez.Action[struct{}, resp.Msg]{
		Method: http.MethodDelete,
		Path:   "/user",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Msg, error) {
			if err := h.users.Delete(c.Request.Context(), ez.UserID(c)); err != nil {
				return resp.Msg{}, err
			}
			return resp.Message("Delete successfully"), nil
		},
	})
}
