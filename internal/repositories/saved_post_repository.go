package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
)

// SavedPostRepository defines the interface for saved post data operations
type SavedPostRepository interface {
	SavePost(ctx context.Context, postID, userID string) (models.Post, error)
	UnsavePost(ctx context.Context, postID, userID string) (models.Post, error)
	GetSavedPosts(ctx context.Context, userID string) ([]models.Post, error)
}

// StoreSavedPostRepository implements SavedPostRepository on the record store
type StoreSavedPostRepository struct {
	store *store.Store
}

// NewStoreSavedPostRepository creates a new StoreSavedPostRepository
func NewStoreSavedPostRepository(s *store.Store) *StoreSavedPostRepository {
	return &StoreSavedPostRepository{store: s}
}

func (r *StoreSavedPostRepository) SavePost(ctx context.Context, postID, userID string) (models.Post, error) {
	return updatePost(ctx, r.store, postID, func(tx *store.Tx, p *models.Post) (bool, error) {
		if _, err := tx.User(userID); err != nil {
			return false, err
		}
		var added bool
		p.SavedBy, added = models.AddMember(p.SavedBy, userID)
		return added, nil
	})
}

func (r *StoreSavedPostRepository) UnsavePost(ctx context.Context, postID, userID string) (models.Post, error) {
	return updatePost(ctx, r.store, postID, func(_ *store.Tx, p *models.Post) (bool, error) {
		var removed bool
		p.SavedBy, removed = models.RemoveMember(p.SavedBy, userID)
		return removed, nil
	})
}

// GetSavedPosts lists the posts userID saved, newest first.
func (r *StoreSavedPostRepository) GetSavedPosts(_ context.Context, userID string) ([]models.Post, error) {
	posts := []models.Post{}
	err := r.store.View(func(tx *store.Tx) error {
		for _, p := range tx.Posts() {
			if p.IsSavedBy(userID) {
				posts = append(posts, p)
			}
		}
		return nil
	})
	sortNewestFirst(posts)
	return posts, err
}
