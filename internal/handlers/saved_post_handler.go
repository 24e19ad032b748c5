package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// SavedPostHandler handles saved-post HTTP requests
type SavedPostHandler struct {
	savedPostRepository repositories.SavedPostRepository
	userRepository      repositories.UserRepository
}

// NewSavedPostHandler creates a new SavedPostHandler
func NewSavedPostHandler(savedPostRepo repositories.SavedPostRepository, userRepo repositories.UserRepository) *SavedPostHandler {
	return &SavedPostHandler{
		savedPostRepository: savedPostRepo,
		userRepository:      userRepo,
	}
}

// RegisterSavedPostRoutes registers saved-post routes
func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group) {
	g.GET("/posts/saved", h.GetSavedPosts)
	g.POST("/posts/:id/save", h.SavePost)
	g.DELETE("/posts/:id/save", h.UnsavePost)
}

func (h *SavedPostHandler) SavePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if _, err := h.savedPostRepository.SavePost(c.Request().Context(), c.Param("id"), userID); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"isSaved": true}})
}

func (h *SavedPostHandler) UnsavePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if _, err := h.savedPostRepository.UnsavePost(c.Request().Context(), c.Param("id"), userID); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"isSaved": false}})
}

// GetSavedPosts lists the caller's saved posts
func (h *SavedPostHandler) GetSavedPosts(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	posts, err := h.savedPostRepository.GetSavedPosts(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": enrichPosts(c, h.userRepository, posts)})
}
