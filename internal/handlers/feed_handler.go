package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/nano-social/backend/internal/inbox"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *FeedHandler {
	return &FeedHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/posts/trending", h.GetTrending)
}

// GetFeed returns enriched feed posts for the current user. With
// ?following=true only the caller's and followed users' posts are included.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	page, limit := pagination(c, 10)
	followingOnly, _ := strconv.ParseBool(c.QueryParam("following"))

	posts, err := h.postRepository.GetFeed(c.Request().Context(), userID, followingOnly)
	if err != nil {
		return toHTTPError(err)
	}
	pagePosts, _ := inbox.Page(posts, page, limit)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": enrichPosts(c, h.userRepository, pagePosts),
		},
		"meta": pageMeta(page, limit, len(posts)),
	})
}

// GetTrending returns the most liked posts
func (h *FeedHandler) GetTrending(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 50 {
		limit = 5
	}
	posts, err := h.postRepository.GetTrending(c.Request().Context(), limit)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": enrichPosts(c, h.userRepository, posts)})
}
