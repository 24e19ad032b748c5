package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

// EnrichedPost is a post with author info and viewer-specific flags
type EnrichedPost struct {
	models.Post
	Author        models.UserCompact `json:"author"`
	LikesCount    int                `json:"likesCount"`
	CommentsCount int                `json:"commentsCount"`
	IsLiked       bool               `json:"isLiked"`
	IsSaved       bool               `json:"isSaved"`
}

func enrichPosts(c echo.Context, users repositories.UserRepository, posts []models.Post) []EnrichedPost {
	viewerID := getUserIDFromContext(c)
	dir := newUserDirectory(c, users)
	out := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		out[i] = EnrichedPost{
			Post:          p,
			Author:        dir.compact(p.AuthorID),
			LikesCount:    len(p.Likes),
			CommentsCount: len(p.Comments),
			IsLiked:       p.LikedBy(viewerID),
			IsSaved:       p.IsSavedBy(viewerID),
		}
	}
	return out
}

// CreatePost creates a post by the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postRepository.CreatePost(c.Request().Context(), userID, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    enrichPosts(c, h.userRepository, []models.Post{post})[0],
	})
}

// GetPost returns one post
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    enrichPosts(c, h.userRepository, []models.Post{post})[0],
	})
}

// GetPosts lists all posts, newest first
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.postRepository.GetPosts(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": enrichPosts(c, h.userRepository, posts)})
}

// GetUserPosts lists the posts of the user in the path
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	posts, err := h.postRepository.GetPostsByAuthor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": enrichPosts(c, h.userRepository, posts)})
}

// UpdatePost edits a post owned by the caller
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postRepository.UpdatePost(c.Request().Context(), c.Param("id"), userID, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    enrichPosts(c, h.userRepository, []models.Post{post})[0],
	})
}

// DeletePost deletes a post owned by the caller, or any post for admins
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.postRepository.DeletePost(c.Request().Context(), c.Param("id"), userID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
