package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/seed"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/anonto42/nano-social/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type app struct {
	t     *testing.T
	e     *echo.Echo
	store *store.Store
}

func newApp(t *testing.T) *app {
	t.Helper()
	ctx := context.Background()
	v := validators.NewValidator()
	s, err := store.Open(ctx, store.NewMemoryBackend(nil), store.Options{Validate: v.Engine()})
	require.NoError(t, err)
	_, err = seed.Install(ctx, s)
	require.NoError(t, err)

	e := echo.New()
	e.Validator = v
	SetupRoutes(e, s, &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}, nil)
	return &app{t: t, e: e, store: s}
}

func (a *app) do(method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (a *app) login(email string) string {
	a.t.Helper()
	rec, env := a.do(http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"`+email+`","password":"`+seed.DemoPassword+`"}`)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	var data struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(a.t, data.Token)
	assert.Empty(a.t, data.User.PasswordHash)
	return data.Token
}

func TestHealth(t *testing.T) {
	a := newApp(t)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterLoginLogout(t *testing.T) {
	a := newApp(t)

	body := `{"username":"newbie","email":"newbie@example.com","password":"secret1","confirmPassword":"secret1","fullName":"New Person"}`
	rec, env := a.do(http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)

	rec, _ = a.do(http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = a.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"newbie@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := a.login("newbie@example.com")
	rec, env = a.do(http.MethodGet, "/api/v1/auth/session", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"username":"newbie"`)

	rec, _ = a.do(http.MethodPost, "/api/v1/auth/logout", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = a.do(http.MethodGet, "/api/v1/auth/session", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "logged out token must be rejected")
}

func TestNewerLoginReplacesSession(t *testing.T) {
	a := newApp(t)
	first := a.login("john@example.com")
	second := a.login("john@example.com")

	rec, _ := a.do(http.MethodGet, "/api/v1/profile", first, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec, _ = a.do(http.MethodGet, "/api/v1/profile", second, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	a := newApp(t)
	for _, path := range []string{"/api/v1/feed", "/api/v1/conversations", "/api/v1/notifications"} {
		rec, _ := a.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestLikeNotifiesAuthor(t *testing.T) {
	a := newApp(t)
	token := a.login("john@example.com")

	rec, env := a.do(http.MethodPost, "/api/v1/posts/5/likes", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"isLiked":true,"likesCount":3}`, string(env.Data))

	// liking again changes nothing
	rec, env = a.do(http.MethodPost, "/api/v1/posts/5/likes", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isLiked":true,"likesCount":3}`, string(env.Data))

	var likes int
	require.NoError(t, a.store.View(func(tx *store.Tx) error {
		for _, n := range tx.NotificationsFor("5") {
			if n.Type == models.NotificationLike && n.ActorID == "1" && n.PostID == "5" {
				likes++
			}
		}
		return nil
	}))
	assert.Equal(t, 1, likes)

	alex := a.login("alex@example.com")
	rec, env = a.do(http.MethodGet, "/api/v1/notifications/unread-count", alex, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"unreadCount":1}`, string(env.Data))
}

func TestConversations(t *testing.T) {
	a := newApp(t)
	token := a.login("john@example.com")

	rec, env := a.do(http.MethodGet, "/api/v1/conversations", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var convs []struct {
		UserID      string             `json:"userId"`
		UnreadCount int                `json:"unreadCount"`
		LastMessage models.Message     `json:"lastMessage"`
		User        models.UserCompact `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &convs))
	require.Len(t, convs, 2)
	assert.Equal(t, "3", convs[0].UserID)
	assert.Equal(t, "mikejohnson", convs[0].User.Username)
	assert.Equal(t, 1, convs[0].UnreadCount)
	assert.Equal(t, "2", convs[1].UserID)
	assert.Equal(t, "m3", convs[1].LastMessage.ID)

	rec, env = a.do(http.MethodPost, "/api/v1/conversations/2/seen", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"marked":1}`, string(env.Data))

	rec, env = a.do(http.MethodGet, "/api/v1/messages/unread-count", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"unreadCount":1}`, string(env.Data))

	rec, _ = a.do(http.MethodPost, "/api/v1/messages", token, `{"receiverId":"1","content":"note to self"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = a.do(http.MethodPost, "/api/v1/messages", token, `{"receiverId":"4","content":"hi Emily"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, env = a.do(http.MethodGet, "/api/v1/conversations/4", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "hi Emily")
}

func TestErrorMapping(t *testing.T) {
	a := newApp(t)
	john := a.login("john@example.com")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown post", http.MethodGet, "/api/v1/posts/nope", "", http.StatusNotFound},
		{"follow self", http.MethodPost, "/api/v1/users/1/follow", "", http.StatusBadRequest},
		{"edit others post", http.MethodPut, "/api/v1/posts/1", `{"content":"mine now"}`, http.StatusForbidden},
		{"empty comment", http.MethodPost, "/api/v1/posts/1/comments", `{"content":""}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/api/v1/posts", `{`, http.StatusBadRequest},
		{"unknown notification", http.MethodPut, "/api/v1/notifications/zzz/read", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := a.do(tt.method, tt.path, john, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}
