package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func send(t *testing.T, r *StoreMessageRepository, from, to, content string) models.Message {
	t.Helper()
	m, err := r.SendMessage(context.Background(), from, models.SendMessageRequest{ReceiverID: to, Content: content})
	require.NoError(t, err)
	return m
}

func TestConversationScenario(t *testing.T) {
	ctx := context.Background()
	messages := NewStoreMessageRepository(newTestStore(t, "u1", "u2"))

	convs, err := messages.GetConversations(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, convs)

	send(t, messages, "u1", "u2", "t1")
	send(t, messages, "u2", "u1", "t2")
	last := send(t, messages, "u1", "u2", "t3")

	convs, err = messages.GetConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "u2", convs[0].PeerID)
	assert.Equal(t, last.ID, convs[0].LastMessage.ID)
	assert.Equal(t, 1, convs[0].UnreadCount)

	convs, err = messages.GetConversations(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, 2, convs[0].UnreadCount)
}

func TestMarkConversationSeenOnlyAffectsThatPeer(t *testing.T) {
	ctx := context.Background()
	messages := NewStoreMessageRepository(newTestStore(t, "u1", "u2", "u3"))

	send(t, messages, "u2", "u1", "hey")
	send(t, messages, "u2", "u1", "you there?")
	send(t, messages, "u3", "u1", "hello")
	send(t, messages, "u1", "u2", "yes")

	n, err := messages.MarkConversationSeen(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	convs, err := messages.GetConversations(ctx, "u1")
	require.NoError(t, err)
	counts := map[string]int{}
	for _, c := range convs {
		counts[c.PeerID] = c.UnreadCount
	}
	assert.Equal(t, map[string]int{"u2": 0, "u3": 1}, counts)

	// u1's own message to u2 stays unseen for u2.
	convs, err = messages.GetConversations(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, 1, convs[0].UnreadCount)

	total, err := messages.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	n, err = messages.MarkConversationSeen(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSendMessageValidation(t *testing.T) {
	ctx := context.Background()
	messages := NewStoreMessageRepository(newTestStore(t, "u1"))

	_, err := messages.SendMessage(ctx, "u1", models.SendMessageRequest{ReceiverID: "u1", Content: "me"})
	require.ErrorIs(t, err, store.ErrInvalid)

	_, err = messages.SendMessage(ctx, "u1", models.SendMessageRequest{ReceiverID: "ghost", Content: "hi"})
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = messages.SendMessage(ctx, "u1", models.SendMessageRequest{ReceiverID: "u2", Content: "  "})
	require.ErrorIs(t, err, store.ErrInvalid)
}

func TestConversationMessages(t *testing.T) {
	ctx := context.Background()
	messages := NewStoreMessageRepository(newTestStore(t, "u1", "u2", "u3"))

	first := send(t, messages, "u1", "u2", "one")
	send(t, messages, "u1", "u3", "elsewhere")
	second := send(t, messages, "u2", "u1", "two")

	thread, err := messages.GetConversationMessages(ctx, "u1", "u2")
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, first.ID, thread[0].ID)
	assert.Equal(t, second.ID, thread[1].ID)

	_, err = messages.GetConversationMessages(ctx, "u1", "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMarkConversationSeenFailedWriteMarksNothing(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{MemoryBackend: store.NewMemoryBackend(nil)}
	messages := NewStoreMessageRepository(newTestStoreOn(t, backend, "u1", "u2"))
	send(t, messages, "u2", "u1", "hey")
	send(t, messages, "u2", "u1", "you there?")

	backend.failWrites = true
	n, err := messages.MarkConversationSeen(ctx, "u1", "u2")
	require.Error(t, err)
	assert.Zero(t, n)

	backend.failWrites = false
	total, err := messages.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
