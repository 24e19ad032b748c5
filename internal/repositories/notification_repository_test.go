package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationFeed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "u1", "u2", "u3")
	post, err := NewStorePostRepository(s).CreatePost(ctx, "u1", models.CreatePostRequest{Content: "x"})
	require.NoError(t, err)

	_, err = NewStoreLikeRepository(s).Like(ctx, post.ID, "u2")
	require.NoError(t, err)
	_, err = NewStoreCommentRepository(s).AddComment(ctx, post.ID, "u3", "nice")
	require.NoError(t, err)
	require.NoError(t, NewStoreFollowRepository(s).Follow(ctx, "u1", "u2"))

	notifs := NewStoreNotificationRepository(s)
	list, err := notifs.GetByRecipient(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.NotificationComment, list[0].Type)
	assert.Equal(t, models.NotificationLike, list[1].Type)

	unread, err := notifs.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	require.NoError(t, notifs.MarkAsRead(ctx, "u1", list[1].ID))
	require.NoError(t, notifs.MarkAsRead(ctx, "u1", list[1].ID))
	unread, _ = notifs.UnreadCount(ctx, "u1")
	assert.Equal(t, 1, unread)

	err = notifs.MarkAsRead(ctx, "u2", list[0].ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	n, err := notifs.MarkAllAsRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = notifs.MarkAllAsRead(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, n)

	// u2's follow notification is untouched.
	unread, _ = notifs.UnreadCount(ctx, "u2")
	assert.Equal(t, 1, unread)

	grouped, err := notifs.GetGrouped(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, grouped.Today, 2)
}

func TestMarkAllAsReadFailedWriteMarksNothing(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{MemoryBackend: store.NewMemoryBackend(nil)}
	s := newTestStoreOn(t, backend, "u1", "u2")
	require.NoError(t, NewStoreFollowRepository(s).Follow(ctx, "u2", "u1"))
	post, err := NewStorePostRepository(s).CreatePost(ctx, "u1", models.CreatePostRequest{Content: "x"})
	require.NoError(t, err)
	_, err = NewStoreLikeRepository(s).Like(ctx, post.ID, "u2")
	require.NoError(t, err)

	notifs := NewStoreNotificationRepository(s)
	backend.failWrites = true
	n, err := notifs.MarkAllAsRead(ctx, "u1")
	require.Error(t, err)
	assert.Zero(t, n)

	backend.failWrites = false
	unread, err := notifs.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, unread)
}
