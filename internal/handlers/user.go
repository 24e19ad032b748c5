package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterProfileRoutes registers user profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)    // Get own profile
	g.PUT("/profile", h.UpdateProfile) // Update own profile
	g.GET("/users", h.GetUsers)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/suggestions", h.GetSuggestions)
	g.GET("/users/:id", h.GetUser) // Get other user's profile by ID
}

// GetUser returns a user's public profile
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user.Sanitized()})
}

// GetProfile returns the caller's own profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user.Sanitized()})
}

// UpdateProfile applies a partial edit to the caller's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userRepository.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user.Sanitized()})
}

// GetUsers lists every user
func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.userRepository.GetUsers(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": sanitizeUsers(users)})
}

// SearchUsers matches ?q= against usernames and full names
func (h *UserHandler) SearchUsers(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	users, err := h.userRepository.SearchUsers(c.Request().Context(), c.QueryParam("q"), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": sanitizeUsers(users)})
}

// GetSuggestions lists users the caller might follow
func (h *UserHandler) GetSuggestions(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 20 {
		limit = 5
	}
	users, err := h.userRepository.Suggestions(c.Request().Context(), userID, limit)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": sanitizeUsers(users)})
}
