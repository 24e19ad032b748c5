package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
)

// SessionRepository stores the signed-in state of each user.
type SessionRepository interface {
	SaveSession(ctx context.Context, sess models.Session) error
	Session(ctx context.Context, userID string) (models.Session, error)
	ClearSession(ctx context.Context, userID string) error
}

var _ SessionRepository = (*store.Store)(nil)
