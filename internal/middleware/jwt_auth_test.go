package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type sessionMap map[string]string

func (m sessionMap) Session(_ context.Context, userID string) (models.Session, error) {
	tok, ok := m[userID]
	if !ok {
		return models.Session{}, fmt.Errorf("no session for %s", userID)
	}
	return models.Session{UserID: userID, Token: tok}, nil
}

func sign(t *testing.T, secret, userID string, expires time.Time) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func run(sessions SessionLookup, header string) (*httptest.ResponseRecorder, string) {
	e := echo.New()
	var seen string
	h := JWTAuthMiddleware(testSecret, sessions)(func(c echo.Context) error {
		seen, _ = c.Get(ContextUserID).(string)
		return c.NoContent(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		e.HTTPErrorHandler(err, e.NewContext(req, rec))
	}
	return rec, seen
}

func TestJWTAuthMiddleware(t *testing.T) {
	future := time.Now().Add(time.Hour)
	valid := sign(t, testSecret, "u1", future)
	sessions := sessionMap{"u1": valid}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized},
		{"bad signature", "Bearer " + sign(t, "other", "u1", future), http.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, testSecret, "u1", time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"not the session token", "Bearer " + sign(t, testSecret, "u1", future.Add(time.Minute)), http.StatusUnauthorized},
		{"no session", "Bearer " + sign(t, testSecret, "u2", future), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, userID := run(sessions, tt.header)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, "u1", userID)
			}
		})
	}
}
