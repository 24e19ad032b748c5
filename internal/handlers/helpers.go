package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the id set by the JWT middleware, or "".
func getUserIDFromContext(c echo.Context) string {
	id, _ := c.Get(middleware.ContextUserID).(string)
	return id
}

// requireUserID is getUserIDFromContext for routes that need a signed-in user.
func requireUserID(c echo.Context) (string, error) {
	id := getUserIDFromContext(c)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return id, nil
}

// toHTTPError maps store and repository errors to HTTP errors.
func toHTTPError(err error) error {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, "Already exists")
	case errors.Is(err, store.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "Data changed concurrently, retry")
	case errors.Is(err, store.ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed")
	case errors.Is(err, repositories.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	log.Printf("internal error: %v", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

// bindAndValidate decodes the request body into req and runs the echo validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// maxPage bounds the page query param.
const maxPage = 10000

// pagination reads page and limit query params.
func pagination(c echo.Context, defaultLimit int) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 || limit > 50 {
		limit = defaultLimit
	}
	return page, limit
}

func pageMeta(page, limit, totalItems int) echo.Map {
	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))
	return echo.Map{
		"currentPage":     page,
		"totalPages":      totalPages,
		"totalItems":      totalItems,
		"itemsPerPage":    limit,
		"hasNextPage":     page < totalPages,
		"hasPreviousPage": page > 1,
	}
}

func sanitizeUsers(users []models.User) []models.User {
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = u.Sanitized()
	}
	return out
}

// userDirectory resolves user ids to compact summaries, caching lookups
// for the lifetime of one request.
type userDirectory struct {
	c     echo.Context
	users repositories.UserRepository
	cache map[string]models.UserCompact
}

func newUserDirectory(c echo.Context, users repositories.UserRepository) *userDirectory {
	return &userDirectory{c: c, users: users, cache: make(map[string]models.UserCompact)}
}

func (d *userDirectory) compact(id string) models.UserCompact {
	if u, ok := d.cache[id]; ok {
		return u
	}
	var compact models.UserCompact
	if u, err := d.users.GetUserByID(d.c.Request().Context(), id); err == nil {
		compact = u.ToCompact()
	}
	d.cache[id] = compact
	return compact
}
