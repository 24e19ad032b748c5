package models

import "time"

// Comment is owned by its parent post; PostID is a back-reference.
type Comment struct {
	ID        string    `json:"id" validate:"required"`
	PostID    string    `json:"postId" validate:"required"`
	AuthorID  string    `json:"userId" validate:"required"`
	Content   string    `json:"content" validate:"required,max=500"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
