package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles like-related HTTP requests
type LikeHandler struct {
	likeRepository repositories.LikeRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository) *LikeHandler {
	return &LikeHandler{likeRepository: likeRepo}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/likes", h.LikePost)
	g.DELETE("/posts/:id/likes", h.UnlikePost)
}

// LikePost adds the caller's like to a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	post, err := h.likeRepository.Like(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"isLiked": true, "likesCount": len(post.Likes)},
	})
}

// UnlikePost removes the caller's like from a post
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	post, err := h.likeRepository.Unlike(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"isLiked": false, "likesCount": len(post.Likes)},
	})
}
