package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
)

type sessionUser struct {
	User     models.User `json:"user"`
	IssuedAt time.Time   `json:"issuedAt"`
}

// SaveSession records sess as the signed-in state of its user. The user
// snapshot and the token live under two separate keys.
func (s *Store) SaveSession(ctx context.Context, sess models.Session) error {
	if sess.UserID == "" || sess.Token == "" {
		return fmt.Errorf("session without user or token: %w", ErrInvalid)
	}
	data, err := s.codec.Marshal(sessionUser{User: sess.User.Sanitized(), IssuedAt: sess.IssuedAt})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.backend.Set(ctx, keyAuthTokenPrefix+sess.UserID, []byte(sess.Token)); err != nil {
		return fmt.Errorf("write session token: %w", err)
	}
	if err := s.backend.Set(ctx, keyCurrentUserPrefix+sess.UserID, data); err != nil {
		return fmt.Errorf("write session user: %w", err)
	}
	return nil
}

// Session returns the stored session of userID, or ErrNotFound.
func (s *Store) Session(ctx context.Context, userID string) (models.Session, error) {
	token, err := s.backend.Get(ctx, keyAuthTokenPrefix+userID)
	if err != nil {
		return models.Session{}, fmt.Errorf("session of %s: %w", userID, err)
	}
	data, err := s.backend.Get(ctx, keyCurrentUserPrefix+userID)
	if err != nil {
		return models.Session{}, fmt.Errorf("session of %s: %w", userID, err)
	}
	var su sessionUser
	if err := s.codec.Unmarshal(data, &su); err != nil {
		return models.Session{}, fmt.Errorf("decode session of %s: %w", userID, err)
	}
	return models.Session{UserID: userID, Token: string(token), User: su.User, IssuedAt: su.IssuedAt}, nil
}

// ClearSession removes both session keys of userID.
func (s *Store) ClearSession(ctx context.Context, userID string) error {
	return errors.Join(
		s.backend.Remove(ctx, keyAuthTokenPrefix+userID),
		s.backend.Remove(ctx, keyCurrentUserPrefix+userID),
	)
}
