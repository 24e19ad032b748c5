// Package inbox derives read models from the message and notification
// tables: per-peer conversation summaries and the notification feed.
package inbox

import (
	"sort"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// Conversations returns one summary per peer viewerID has exchanged a
// message with, most recent conversation first.
//
// LastMessage is the peer's newest message, ties on CreatedAt going to the
// larger message id. UnreadCount counts unseen messages from the peer to
// the viewer. Messages not involving the viewer and messages a user sent to
// themselves are ignored.
func Conversations(messages []models.Message, viewerID string) []models.Conversation {
	byPeer := make(map[string]*models.Conversation)
	for _, m := range messages {
		if !m.Involves(viewerID) || m.SenderID == m.ReceiverID {
			continue
		}
		peer := m.Peer(viewerID)
		conv, ok := byPeer[peer]
		if !ok {
			conv = &models.Conversation{PeerID: peer, LastMessage: m}
			byPeer[peer] = conv
		} else if newer(m, conv.LastMessage) {
			conv.LastMessage = m
		}
		if m.ReceiverID == viewerID && !m.Seen {
			conv.UnreadCount++
		}
	}

	out := make([]models.Conversation, 0, len(byPeer))
	for _, conv := range byPeer {
		out = append(out, *conv)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].LastMessage, out[j].LastMessage
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return out[i].PeerID < out[j].PeerID
	})
	return out
}

// newer reports whether a sorts after b in message time.
func newer(a, b models.Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// Thread returns the messages exchanged between a and b, oldest first.
func Thread(messages []models.Message, a, b string) []models.Message {
	out := make([]models.Message, 0)
	for _, m := range messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return newer(out[j], out[i]) })
	return out
}

// UnreadMessages counts unseen messages addressed to viewerID across all peers.
func UnreadMessages(messages []models.Message, viewerID string) int {
	n := 0
	for _, m := range messages {
		if m.ReceiverID == viewerID && m.SenderID != viewerID && !m.Seen {
			n++
		}
	}
	return n
}
