package repositories

import (
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/google/uuid"
)

// notify records a notification to recipient inside tx. Actions on your
// own content or account produce nothing.
func notify(tx *store.Tx, typ models.NotificationType, actorID, recipientID, postID string) error {
	if actorID == recipientID {
		return nil
	}
	return tx.InsertNotification(models.Notification{
		ID:          uuid.NewString(),
		Type:        typ,
		ActorID:     actorID,
		RecipientID: recipientID,
		PostID:      postID,
		Content:     typ.DefaultContent(),
		CreatedAt:   tx.Now(),
	})
}
