package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	Like(ctx context.Context, postID, userID string) (models.Post, error)
	Unlike(ctx context.Context, postID, userID string) (models.Post, error)
}

// StoreLikeRepository implements LikeRepository on the record store
type StoreLikeRepository struct {
	store *store.Store
}

// NewStoreLikeRepository creates a new StoreLikeRepository
func NewStoreLikeRepository(s *store.Store) *StoreLikeRepository {
	return &StoreLikeRepository{store: s}
}

// Like adds userID to the post's likes and notifies the author. Liking a
// post twice changes nothing and notifies once.
func (r *StoreLikeRepository) Like(ctx context.Context, postID, userID string) (models.Post, error) {
	return updatePost(ctx, r.store, postID, func(tx *store.Tx, p *models.Post) (bool, error) {
		if _, err := tx.User(userID); err != nil {
			return false, err
		}
		var added bool
		p.Likes, added = models.AddMember(p.Likes, userID)
		if !added {
			return false, nil
		}
		return true, notify(tx, models.NotificationLike, userID, p.AuthorID, p.ID)
	})
}

// Unlike removes userID from the post's likes.
func (r *StoreLikeRepository) Unlike(ctx context.Context, postID, userID string) (models.Post, error) {
	return updatePost(ctx, r.store, postID, func(_ *store.Tx, p *models.Post) (bool, error) {
		var removed bool
		p.Likes, removed = models.RemoveMember(p.Likes, userID)
		return removed, nil
	})
}
