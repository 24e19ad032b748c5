package store

import "context"

// Keys under which the tables and bookkeeping blobs are persisted.
const (
	KeyUsers         = "social_app_users"
	KeyPosts         = "social_app_posts"
	KeyMessages      = "social_app_messages"
	KeyNotifications = "social_app_notifications"
	KeyQuarantine    = "social_app_quarantine"

	keyCurrentUserPrefix = "social_app_current_user:"
	keyAuthTokenPrefix   = "social_app_token:"
)

// Backend is the persistence substrate: a flat key to blob map with no
// transactional guarantees. Get returns ErrNotFound for missing keys.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close(ctx context.Context) error
}
