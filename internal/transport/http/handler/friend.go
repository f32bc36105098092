package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gametask/internal/service"
	"gametask/internal/transport/http/ez"
	resp "gametask/internal/transport/http/response"
)

const msgFriendOK = "Successful operation"

type FriendHandler struct {
	friends *service.FriendService
}

func NewFriendHandler(friends *service.FriendService) *FriendHandler {
	return &FriendHandler{friends: friends}
}

type friendIn struct {
	ID string `json:"id" binding:"required,objectid"`
}

func (h *FriendHandler) Mount(authed *gin.RouterGroup) {
	e := ez.New(authed)

	ez.RegisterAction(e, ez.Action[friendIn, resp.Msg]{
		Method: http.MethodPost,
		Path:   "/friend",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *friendIn) (resp.Msg, error) {
			if err := h.friends.Add(c.Request.Context(), ez.UserID(c), in.ID); err != nil {
				return resp.Msg{}, err
			}
			return resp.Message(msgFriendOK), nil
		},
	})

	ez.RegisterAction(e, ez.Action[friendIn, resp.Msg]{
		Method: http.MethodDelete,
		Path:   "/friend",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *friendIn) (resp.Msg, error) {
			if err := h.friends.Remove(c.Request.Context(), ez.UserID(c), in.ID); err != nil {
				return resp.Msg{}, err
			}
			return resp.Message(msgFriendOK), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []service.FriendView]{
		Method: http.MethodGet,
		Path:   "/friend",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.FriendView, error) {
			return h.friends.List(c.Request.Context(), ez.UserID(c))
		},
	})
}
