package models

import "time"

// Message is a direct message between two users. Only Seen changes after sending.
type Message struct {
	ID         string    `json:"id" validate:"required"`
	SenderID   string    `json:"senderId" validate:"required"`
	ReceiverID string    `json:"receiverId" validate:"required"`
	Content    string    `json:"content" validate:"required,max=2000"`
	Seen       bool      `json:"seen"`
	CreatedAt  time.Time `json:"createdAt" validate:"required"`
}

// Clone returns a copy of the message.
func (m Message) Clone() Message { return m }

// Peer returns the participant that is not viewerID.
func (m Message) Peer(viewerID string) string {
	if m.SenderID == viewerID {
		return m.ReceiverID
	}
	return m.SenderID
}

// Involves reports whether userID sent or received the message.
func (m Message) Involves(userID string) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

// Conversation summarizes the thread between a viewer and one peer.
type Conversation struct {
	PeerID      string  `json:"userId"`
	LastMessage Message `json:"lastMessage"`
	UnreadCount int     `json:"unreadCount"`
}

// SendMessageRequest defines the request body for sending a direct message
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required,min=1,max=2000"`
}
