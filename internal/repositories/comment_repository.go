package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/google/uuid"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	AddComment(ctx context.Context, postID, authorID, content string) (models.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID, requesterID string) error
	GetComments(ctx context.Context, postID string) ([]models.Comment, error)
}

// StoreCommentRepository implements CommentRepository on the record store
type StoreCommentRepository struct {
	store *store.Store
}

// NewStoreCommentRepository creates a new StoreCommentRepository
func NewStoreCommentRepository(s *store.Store) *StoreCommentRepository {
	return &StoreCommentRepository{store: s}
}

// AddComment appends a comment to the post and notifies its author.
func (r *StoreCommentRepository) AddComment(ctx context.Context, postID, authorID, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, fmt.Errorf("comment content is empty: %w", store.ErrInvalid)
	}

	var comment models.Comment
	_, err := updatePost(ctx, r.store, postID, func(tx *store.Tx, p *models.Post) (bool, error) {
		if _, err := tx.User(authorID); err != nil {
			return false, err
		}
		comment = models.Comment{
			ID:        uuid.NewString(),
			PostID:    p.ID,
			AuthorID:  authorID,
			Content:   content,
			CreatedAt: tx.Now(),
		}
		p.Comments = append(p.Comments, comment)
		return true, notify(tx, models.NotificationComment, authorID, p.AuthorID, p.ID)
	})
	if err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// DeleteComment removes a comment. Only its author may do so.
func (r *StoreCommentRepository) DeleteComment(ctx context.Context, postID, commentID, requesterID string) error {
	_, err := updatePost(ctx, r.store, postID, func(_ *store.Tx, p *models.Post) (bool, error) {
		for i, c := range p.Comments {
			if c.ID != commentID {
				continue
			}
			if c.AuthorID != requesterID {
				return false, fmt.Errorf("delete comment %s: %w", commentID, store.ErrForbidden)
			}
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return true, nil
		}
		return false, fmt.Errorf("comment %s: %w", commentID, store.ErrNotFound)
	})
	return err
}

// GetComments returns the comments of a post in insertion order.
func (r *StoreCommentRepository) GetComments(_ context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.store.View(func(tx *store.Tx) error {
		p, err := tx.Post(postID)
		if err != nil {
			return err
		}
		comments = p.Comments
		return nil
	})
	return comments, err
}
