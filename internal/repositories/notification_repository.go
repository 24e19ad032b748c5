package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-social/backend/internal/inbox"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
)

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	GetByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error)
	GetGrouped(ctx context.Context, recipientID string) (inbox.Grouped, error)
	UnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkAsRead(ctx context.Context, recipientID, id string) error
	MarkAllAsRead(ctx context.Context, recipientID string) (int, error)
}

// StoreNotificationRepository implements NotificationRepository on the record store
type StoreNotificationRepository struct {
	store *store.Store
}

// NewStoreNotificationRepository creates a new StoreNotificationRepository
func NewStoreNotificationRepository(s *store.Store) *StoreNotificationRepository {
	return &StoreNotificationRepository{store: s}
}

// GetByRecipient returns the recipient's notifications, newest first.
func (r *StoreNotificationRepository) GetByRecipient(_ context.Context, recipientID string) ([]models.Notification, error) {
	var notifs []models.Notification
	err := r.store.View(func(tx *store.Tx) error {
		notifs = inbox.NotificationsFor(tx.NotificationsFor(recipientID), recipientID)
		return nil
	})
	return notifs, err
}

// GetGrouped buckets the recipient's notifications by age.
func (r *StoreNotificationRepository) GetGrouped(ctx context.Context, recipientID string) (inbox.Grouped, error) {
	notifs, err := r.GetByRecipient(ctx, recipientID)
	if err != nil {
		return inbox.Grouped{}, err
	}
	return inbox.GroupByAge(notifs, r.store.Now()), nil
}

func (r *StoreNotificationRepository) UnreadCount(_ context.Context, recipientID string) (int, error) {
	var n int
	err := r.store.View(func(tx *store.Tx) error {
		n = inbox.UnreadCount(tx.NotificationsFor(recipientID))
		return nil
	})
	return n, err
}

// MarkAsRead marks one notification read. Marking a read notification again
// is a no-op; a notification addressed to someone else reads as not found.
func (r *StoreNotificationRepository) MarkAsRead(ctx context.Context, recipientID, id string) error {
	return r.store.Update(ctx, func(tx *store.Tx) error {
		n, err := tx.Notification(id)
		if err != nil {
			return err
		}
		if n.RecipientID != recipientID {
			return fmt.Errorf("notification %s: %w", id, store.ErrNotFound)
		}
		if n.Read {
			return nil
		}
		n.Read = true
		return tx.PutNotification(n)
	})
}

// MarkAllAsRead marks every notification of the recipient read and returns
// how many changed.
func (r *StoreNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) (int, error) {
	var marked int
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		marked = 0
		for _, n := range tx.NotificationsFor(recipientID) {
			if n.Read {
				continue
			}
			n.Read = true
			if err := tx.PutNotification(n); err != nil {
				return err
			}
			marked++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return marked, nil
}
