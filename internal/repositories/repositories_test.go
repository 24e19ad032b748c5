package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// testClock advances one second per call so records get distinct times.
type testClock struct{ t time.Time }

func (c *testClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

// failingBackend fails every Set once failWrites is on.
type failingBackend struct {
	*store.MemoryBackend
	failWrites bool
}

func (b *failingBackend) Set(ctx context.Context, key string, value []byte) error {
	if b.failWrites {
		return errors.New("disk full")
	}
	return b.MemoryBackend.Set(ctx, key, value)
}

func newTestStore(t *testing.T, userIDs ...string) *store.Store {
	t.Helper()
	return newTestStoreOn(t, store.NewMemoryBackend(nil), userIDs...)
}

func newTestStoreOn(t *testing.T, backend store.Backend, userIDs ...string) *store.Store {
	t.Helper()
	clock := &testClock{t: testNow}
	s, err := store.Open(context.Background(), backend, store.Options{Now: clock.now})
	require.NoError(t, err)
	require.NoError(t, s.Update(context.Background(), func(tx *store.Tx) error {
		for _, id := range userIDs {
			role := models.RoleUser
			if id == "admin" {
				role = models.RoleAdmin
			}
			err := tx.InsertUser(models.User{
				ID:        id,
				Username:  "user_" + id,
				Email:     id + "@example.com",
				FullName:  "User " + id,
				Followers: []string{},
				Following: []string{},
				Role:      role,
				CreatedAt: testNow,
			})
			if err != nil {
				return err
			}
		}
		return nil
	}))
	return s
}

func notificationsOf(t *testing.T, s *store.Store) []models.Notification {
	t.Helper()
	var out []models.Notification
	require.NoError(t, s.View(func(tx *store.Tx) error {
		out = tx.Notifications()
		return nil
	}))
	return out
}

func requireNoSelfNotifications(t *testing.T, s *store.Store) {
	t.Helper()
	for _, n := range notificationsOf(t, s) {
		require.NotEqual(t, n.ActorID, n.RecipientID, "notification %s is self-addressed", n.ID)
	}
}
