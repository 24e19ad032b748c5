package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("post 1: %w", store.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("user: %w", store.ErrAlreadyExists), http.StatusConflict},
		{fmt.Errorf("posts: %w", store.ErrConflict), http.StatusConflict},
		{fmt.Errorf("empty: %w", store.ErrInvalid), http.StatusBadRequest},
		{fmt.Errorf("delete: %w", store.ErrForbidden), http.StatusForbidden},
		{repositories.ErrInvalidCredentials, http.StatusUnauthorized},
		{echo.NewHTTPError(http.StatusTeapot, "tea"), http.StatusTeapot},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		var he *echo.HTTPError
		require.ErrorAs(t, toHTTPError(tt.err), &he)
		assert.Equal(t, tt.want, he.Code, tt.err.Error())
	}
}

func TestPagination(t *testing.T) {
	e := echo.New()
	tests := []struct {
		query       string
		page, limit int
	}{
		{"", 1, 20},
		{"?page=3&limit=5", 3, 5},
		{"?page=-1&limit=500", 1, 20},
		{"?page=x&limit=y", 1, 20},
		{"?page=9223372036854775807", maxPage, 20},
	}
	for _, tt := range tests {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil), httptest.NewRecorder())
		page, limit := pagination(c, 20)
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.limit, limit, tt.query)
	}
}

func TestPageMeta(t *testing.T) {
	meta := pageMeta(2, 10, 25)
	assert.Equal(t, 3, meta["totalPages"])
	assert.Equal(t, true, meta["hasNextPage"])
	assert.Equal(t, true, meta["hasPreviousPage"])

	meta = pageMeta(1, 10, 0)
	assert.Equal(t, 0, meta["totalPages"])
	assert.Equal(t, false, meta["hasNextPage"])
}
