package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	Follow(ctx context.Context, followerID, targetID string) error
	Unfollow(ctx context.Context, followerID, targetID string) error
	IsFollowing(ctx context.Context, followerID, targetID string) (bool, error)
	GetFollowers(ctx context.Context, userID string) ([]models.User, error)
	GetFollowing(ctx context.Context, userID string) ([]models.User, error)
}

// StoreFollowRepository implements FollowRepository on the record store
type StoreFollowRepository struct {
	store *store.Store
}

// NewStoreFollowRepository creates a new StoreFollowRepository
func NewStoreFollowRepository(s *store.Store) *StoreFollowRepository {
	return &StoreFollowRepository{store: s}
}

// Follow adds target to the follower's Following set and the follower to
// target's Followers set, then notifies target. Following someone twice
// changes nothing.
func (r *StoreFollowRepository) Follow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return fmt.Errorf("cannot follow yourself: %w", store.ErrInvalid)
	}
	return r.store.Update(ctx, func(tx *store.Tx) error {
		follower, err := tx.User(followerID)
		if err != nil {
			return err
		}
		target, err := tx.User(targetID)
		if err != nil {
			return err
		}

		var added bool
		follower.Following, added = models.AddMember(follower.Following, targetID)
		if !added {
			return nil
		}
		target.Followers, _ = models.AddMember(target.Followers, followerID)

		if err := tx.PutUser(follower); err != nil {
			return err
		}
		if err := tx.PutUser(target); err != nil {
			return err
		}
		return notify(tx, models.NotificationFollow, followerID, targetID, "")
	})
}

// Unfollow removes both sides of the relationship. It is a no-op when the
// follower does not follow target.
func (r *StoreFollowRepository) Unfollow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return fmt.Errorf("cannot unfollow yourself: %w", store.ErrInvalid)
	}
	return r.store.Update(ctx, func(tx *store.Tx) error {
		follower, err := tx.User(followerID)
		if err != nil {
			return err
		}
		target, err := tx.User(targetID)
		if err != nil {
			return err
		}

		var out, in bool
		follower.Following, out = models.RemoveMember(follower.Following, targetID)
		target.Followers, in = models.RemoveMember(target.Followers, followerID)
		if !out && !in {
			return nil
		}

		if err := tx.PutUser(follower); err != nil {
			return err
		}
		return tx.PutUser(target)
	})
}

func (r *StoreFollowRepository) IsFollowing(_ context.Context, followerID, targetID string) (bool, error) {
	var following bool
	err := r.store.View(func(tx *store.Tx) error {
		u, err := tx.User(followerID)
		if err != nil {
			return err
		}
		following = u.IsFollowing(targetID)
		return nil
	})
	return following, err
}

func (r *StoreFollowRepository) GetFollowers(_ context.Context, userID string) ([]models.User, error) {
	return r.related(userID, func(u models.User) []string { return u.Followers })
}

func (r *StoreFollowRepository) GetFollowing(_ context.Context, userID string) ([]models.User, error) {
	return r.related(userID, func(u models.User) []string { return u.Following })
}

// related resolves the ids picked from userID's record, skipping ids that
// no longer name a user.
func (r *StoreFollowRepository) related(userID string, pick func(models.User) []string) ([]models.User, error) {
	users := []models.User{}
	err := r.store.View(func(tx *store.Tx) error {
		u, err := tx.User(userID)
		if err != nil {
			return err
		}
		for _, id := range pick(u) {
			if other, err := tx.User(id); err == nil {
				users = append(users, other)
			}
		}
		return nil
	})
	return users, err
}
