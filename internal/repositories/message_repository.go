package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/inbox"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/google/uuid"
)

// MessageRepository defines the interface for direct message operations
type MessageRepository interface {
	SendMessage(ctx context.Context, senderID string, req models.SendMessageRequest) (models.Message, error)
	GetConversations(ctx context.Context, viewerID string) ([]models.Conversation, error)
	GetConversationMessages(ctx context.Context, viewerID, peerID string) ([]models.Message, error)
	MarkConversationSeen(ctx context.Context, viewerID, peerID string) (int, error)
	UnreadCount(ctx context.Context, viewerID string) (int, error)
}

// StoreMessageRepository implements MessageRepository on the record store
type StoreMessageRepository struct {
	store *store.Store
}

// NewStoreMessageRepository creates a new StoreMessageRepository
func NewStoreMessageRepository(s *store.Store) *StoreMessageRepository {
	return &StoreMessageRepository{store: s}
}

// SendMessage stores a message from senderID. Messaging yourself is rejected.
func (r *StoreMessageRepository) SendMessage(ctx context.Context, senderID string, req models.SendMessageRequest) (models.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return models.Message{}, fmt.Errorf("message content is empty: %w", store.ErrInvalid)
	}
	if senderID == req.ReceiverID {
		return models.Message{}, fmt.Errorf("cannot message yourself: %w", store.ErrInvalid)
	}

	var msg models.Message
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		if _, err := tx.User(senderID); err != nil {
			return err
		}
		if _, err := tx.User(req.ReceiverID); err != nil {
			return err
		}
		msg = models.Message{
			ID:         uuid.NewString(),
			SenderID:   senderID,
			ReceiverID: req.ReceiverID,
			Content:    content,
			CreatedAt:  tx.Now(),
		}
		return tx.InsertMessage(msg)
	})
	if err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// GetConversations summarizes the viewer's threads, most recent first.
func (r *StoreMessageRepository) GetConversations(_ context.Context, viewerID string) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.store.View(func(tx *store.Tx) error {
		convs = inbox.Conversations(tx.MessagesFor(viewerID), viewerID)
		return nil
	})
	return convs, err
}

// GetConversationMessages returns the thread between viewer and peer, oldest first.
func (r *StoreMessageRepository) GetConversationMessages(_ context.Context, viewerID, peerID string) ([]models.Message, error) {
	var thread []models.Message
	err := r.store.View(func(tx *store.Tx) error {
		if _, err := tx.User(peerID); err != nil {
			return err
		}
		thread = inbox.Thread(tx.MessagesFor(viewerID), viewerID, peerID)
		return nil
	})
	return thread, err
}

// MarkConversationSeen marks every message from peer to viewer as seen and
// returns how many changed. Other conversations are untouched.
func (r *StoreMessageRepository) MarkConversationSeen(ctx context.Context, viewerID, peerID string) (int, error) {
	var marked int
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		marked = 0
		for _, m := range tx.MessagesFor(viewerID) {
			if m.SenderID != peerID || m.ReceiverID != viewerID || m.Seen {
				continue
			}
			m.Seen = true
			if err := tx.PutMessage(m); err != nil {
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

// UnreadCount counts unseen messages addressed to the viewer across all threads.
func (r *StoreMessageRepository) UnreadCount(_ context.Context, viewerID string) (int, error) {
	var n int
	err := r.store.View(func(tx *store.Tx) error {
		n = inbox.UnreadMessages(tx.MessagesFor(viewerID), viewerID)
		return nil
	})
	return n, err
}
