package seed

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/inbox"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstall(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s, err := store.Open(ctx, store.NewMemoryBackend(nil), store.Options{Now: func() time.Time { return now }})
	require.NoError(t, err)

	report, err := Install(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, Report{Users: 5, Posts: 6, Messages: 4, Notifications: 3}, report)

	require.NoError(t, s.View(func(tx *store.Tx) error {
		for _, u := range tx.Users() {
			for _, f := range u.Following {
				other, err := tx.User(f)
				require.NoError(t, err)
				assert.Contains(t, other.Followers, u.ID, "%s follows %s", u.ID, f)
			}
		}

		convs := inbox.Conversations(tx.MessagesFor("1"), "1")
		require.Len(t, convs, 2)
		assert.Equal(t, "3", convs[0].PeerID)
		assert.Equal(t, 1, convs[0].UnreadCount)
		assert.Equal(t, "m3", convs[1].LastMessage.ID)

		assert.Equal(t, 2, inbox.UnreadCount(tx.NotificationsFor("1")))
		return nil
	}))

	again, err := Install(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, Report{}, again)
}
