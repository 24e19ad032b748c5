package models

import "time"

// NotificationType is the action that produced a notification.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
)

// Notification is addressed to RecipientID and triggered by ActorID.
// It is never deleted, only marked read.
type Notification struct {
	ID          string           `json:"id" validate:"required"`
	Type        NotificationType `json:"type" validate:"oneof=like comment follow"`
	ActorID     string           `json:"userId" validate:"required"`
	RecipientID string           `json:"targetUserId" validate:"required,nefield=ActorID"`
	PostID      string           `json:"postId,omitempty"`
	Content     string           `json:"content"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"createdAt" validate:"required"`
}

// Clone returns a copy of the notification.
func (n Notification) Clone() Notification { return n }

// DefaultContent is the display text stored with a notification of type t.
func (t NotificationType) DefaultContent() string {
	switch t {
	case NotificationLike:
		return "liked your post"
	case NotificationComment:
		return "commented on your post"
	case NotificationFollow:
		return "started following you"
	}
	return ""
}
