package ez

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"gametask/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

type refIn struct {
	ID string `json:"id" form:"id" binding:"omitempty,objectid"`
}

type requiredIn struct {
	ID string `json:"id" binding:"required,objectid"`
}

func newEngine(uid string) (*gin.Engine, EZ) {
	r := gin.New()
	g := r.Group("")
	if uid != "" {
		g.Use(func(c *gin.Context) { c.Set(KeyUserID, uid); c.Set(KeyRole, "user") })
	}
	return r, New(g)
}

func call(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAction_BindAuto(t *testing.T) {
	r, e := newEngine("u1")
	RegisterAction(e, Action[refIn, gin.H]{
		Method: http.MethodGet,
		Path:   "/ref",
		Binder: BindAuto,
		Auth:   true,
		Handler: func(c *gin.Context, in *refIn) (gin.H, error) {
			return gin.H{"id": in.ID, "uid": UserID(c)}, nil
		},
	})

	const id = "5e533d45b8511c3e7aefa666"
	w := call(r, http.MethodGet, "/ref?id="+id, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+id+`","uid":"u1"}`, w.Body.String())

	w = call(r, http.MethodGet, "/ref", `{"id":"`+id+`"}`)
	assert.JSONEq(t, `{"id":"`+id+`","uid":"u1"}`, w.Body.String())

	w = call(r, http.MethodGet, "/ref", "")
	assert.JSONEq(t, `{"id":"","uid":"u1"}`, w.Body.String())

	w = call(r, http.MethodGet, "/ref?id=xyz", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Validation error"}`, w.Body.String())
}

func TestRegisterAction_Errors(t *testing.T) {
	r, e := newEngine("u1")
	RegisterAction(e, Action[requiredIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/do",
		Binder: BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *requiredIn) (gin.H, error) {
			switch in.ID {
			case "5e533d45b8511c3e7aefa666":
				return nil, domain.ErrTaskNotFound
			case "5e533d45b8511c3e7aefa667":
				return nil, domain.ErrNotTaskOwner
			}
			return nil, errors.New("db down")
		},
	})

	cases := []struct {
		body   string
		status int
		want   string
	}{
		{`{}`, http.StatusBadRequest, `{"message":"Validation error"}`},
		{`{"id":1}`, http.StatusBadRequest, `{"message":"Validation error"}`},
		{`{"id":"5e533d45b8511c3e7aefa666"}`, http.StatusBadRequest, `{"message":"Task not found"}`},
		{`{"id":"5e533d45b8511c3e7aefa667"}`, http.StatusForbidden, `{"message":"Not task owner"}`},
		{`{"id":"5e533d45b8511c3e7aefa668"}`, http.StatusInternalServerError, `{"message":"Internal error"}`},
	}
	for _, tc := range cases {
		w := call(r, http.MethodPost, "/do", tc.body)
		assert.Equal(t, tc.status, w.Code, tc.body)
		assert.JSONEq(t, tc.want, w.Body.String(), tc.body)
	}
}

func TestRegisterAction_AuthAndRoles(t *testing.T) {
	r, e := newEngine("")
	RegisterAction(e, Action[struct{}, gin.H]{
		Method:  http.MethodGet,
		Path:    "/me",
		Binder:  BindNone,
		Auth:    true,
		Handler: func(*gin.Context, *struct{}) (gin.H, error) { return gin.H{}, nil },
	})
	w := call(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"No token provided"}`, w.Body.String())

	r, e = newEngine("u1")
	RegisterAction(e, Action[struct{}, gin.H]{
		Method:  http.MethodGet,
		Path:    "/admin",
		Binder:  BindNone,
		Auth:    true,
		Roles:   []string{"admin"},
		Handler: func(*gin.Context, *struct{}) (gin.H, error) { return gin.H{}, nil },
	})
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodGet, "/admin", "").Code)
}
