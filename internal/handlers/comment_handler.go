package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	userRepository    repositories.UserRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, userRepo repositories.UserRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		userRepository:    userRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
	g.DELETE("/posts/:id/comments/:commentId", h.DeleteComment)
}

// EnrichedComment is a comment with its author's summary
type EnrichedComment struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

// CreateComment adds a comment by the caller
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentRepository.AddComment(c.Request().Context(), c.Param("id"), userID, req.Content)
	if err != nil {
		return toHTTPError(err)
	}
	dir := newUserDirectory(c, h.userRepository)
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    EnrichedComment{Comment: comment, Author: dir.compact(comment.AuthorID)},
	})
}

// GetCommentsByPostID lists a post's comments in the order they were made
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	comments, err := h.commentRepository.GetComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	dir := newUserDirectory(c, h.userRepository)
	enriched := make([]EnrichedComment, len(comments))
	for i, cm := range comments {
		enriched[i] = EnrichedComment{Comment: cm, Author: dir.compact(cm.AuthorID)}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": enriched})
}

// DeleteComment deletes one of the caller's comments
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	err = h.commentRepository.DeleteComment(c.Request().Context(), c.Param("id"), c.Param("commentId"), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
