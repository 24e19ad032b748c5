package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow-related HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository) *FollowHandler {
	return &FollowHandler{followRepository: followRepo}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// FollowUser makes the caller follow the user in the path
func (h *FollowHandler) FollowUser(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.followRepository.Follow(c.Request().Context(), userID, c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// UnfollowUser stops the caller following the user in the path
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.followRepository.Unfollow(c.Request().Context(), userID, c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	users, err := h.followRepository.GetFollowers(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": sanitizeUsers(users)})
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	users, err := h.followRepository.GetFollowing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": sanitizeUsers(users)})
}
