package inbox

import (
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func msg(id, from, to string, at int, seen bool) models.Message {
	return models.Message{
		ID:         id,
		SenderID:   from,
		ReceiverID: to,
		Content:    "hi",
		Seen:       seen,
		CreatedAt:  t0.Add(time.Duration(at) * time.Minute),
	}
}

func TestConversationsEmpty(t *testing.T) {
	convs := Conversations(nil, "u1")
	require.NotNil(t, convs)
	assert.Empty(t, convs)
}

func TestConversationsSinglePeer(t *testing.T) {
	messages := []models.Message{
		msg("m1", "u1", "u2", 1, false),
		msg("m2", "u2", "u1", 2, false),
		msg("m3", "u1", "u2", 3, false),
	}

	convs := Conversations(messages, "u1")
	require.Len(t, convs, 1)
	assert.Equal(t, "u2", convs[0].PeerID)
	assert.Equal(t, "m3", convs[0].LastMessage.ID)
	assert.Equal(t, 1, convs[0].UnreadCount)
}

func TestConversationsOnePerPeerSortedByLastMessage(t *testing.T) {
	messages := []models.Message{
		msg("m1", "u2", "u1", 5, false),
		msg("m2", "u1", "u3", 9, true),
		msg("m3", "u4", "u1", 1, true),
		msg("m4", "u2", "u1", 2, true),
		msg("m5", "u3", "u4", 20, false), // not involving u1
	}

	convs := Conversations(messages, "u1")
	require.Len(t, convs, 3)

	var peers []string
	for i, c := range convs {
		peers = append(peers, c.PeerID)
		if i > 0 {
			assert.False(t, c.LastMessage.CreatedAt.After(convs[i-1].LastMessage.CreatedAt))
		}
	}
	assert.Equal(t, []string{"u3", "u2", "u4"}, peers)
	assert.Equal(t, 1, convs[1].UnreadCount)
	assert.Equal(t, 0, convs[0].UnreadCount)
	assert.Equal(t, 0, convs[2].UnreadCount)
}

func TestConversationsTieBreaks(t *testing.T) {
	messages := []models.Message{
		msg("a", "u2", "u1", 1, true),
		msg("b", "u2", "u1", 1, true),
		msg("c", "u3", "u1", 1, true),
	}

	convs := Conversations(messages, "u1")
	require.Len(t, convs, 2)
	assert.Equal(t, "u2", convs[0].PeerID)
	assert.Equal(t, "b", convs[0].LastMessage.ID)
	assert.Equal(t, "u3", convs[1].PeerID)
}

func TestConversationsIgnoreSelfMessages(t *testing.T) {
	messages := []models.Message{
		msg("m1", "u1", "u1", 1, false),
		msg("m2", "u2", "u1", 2, false),
	}

	convs := Conversations(messages, "u1")
	require.Len(t, convs, 1)
	assert.Equal(t, "u2", convs[0].PeerID)
	assert.Equal(t, 1, UnreadMessages(messages, "u1"))
}

func TestSeenResetsOnlyThatPeer(t *testing.T) {
	messages := []models.Message{
		msg("m1", "u2", "u1", 1, false),
		msg("m2", "u2", "u1", 2, false),
		msg("m3", "u3", "u1", 3, false),
	}
	for i := range messages {
		if messages[i].SenderID == "u2" {
			messages[i].Seen = true
		}
	}

	counts := map[string]int{}
	for _, c := range Conversations(messages, "u1") {
		counts[c.PeerID] = c.UnreadCount
	}
	assert.Equal(t, map[string]int{"u2": 0, "u3": 1}, counts)
}

func TestThread(t *testing.T) {
	messages := []models.Message{
		msg("m3", "u1", "u2", 3, false),
		msg("m1", "u1", "u2", 1, false),
		msg("mx", "u1", "u3", 2, false),
		msg("m2", "u2", "u1", 2, false),
	}

	thread := Thread(messages, "u1", "u2")
	var ids []string
	for _, m := range thread {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids)
}
