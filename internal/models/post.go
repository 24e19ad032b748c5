package models

import "time"

// MaxPostImages bounds the number of image URLs attached to a post.
const MaxPostImages = 4

// Post is a piece of user content. Likes and SavedBy are sets of user IDs;
// Comments keep insertion order.
type Post struct {
	ID        string    `json:"id" validate:"required"`
	AuthorID  string    `json:"userId" validate:"required"`
	Content   string    `json:"content" validate:"required,max=2000"`
	Images    []string  `json:"images,omitempty" validate:"max=4,dive,url"`
	Likes     []string  `json:"likes" validate:"unique"`
	SavedBy   []string  `json:"savedBy" validate:"unique"`
	Comments  []Comment `json:"comments" validate:"dive"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the post.
func (p Post) Clone() Post {
	if p.Images != nil {
		images := make([]string, len(p.Images))
		copy(images, p.Images)
		p.Images = images
	}
	p.Likes = cloneIDs(p.Likes)
	p.SavedBy = cloneIDs(p.SavedBy)
	comments := make([]Comment, len(p.Comments))
	copy(comments, p.Comments)
	p.Comments = comments
	return p
}

// LikedBy reports whether the user has liked the post.
func (p Post) LikedBy(userID string) bool {
	return containsID(p.Likes, userID)
}

// IsSavedBy reports whether the user has saved the post.
func (p Post) IsSavedBy(userID string) bool {
	return containsID(p.SavedBy, userID)
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string   `json:"content" validate:"required,max=2000"`
	Images  []string `json:"images,omitempty" validate:"omitempty,max=4,dive,url"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content string   `json:"content" validate:"required,max=2000"`
	Images  []string `json:"images,omitempty" validate:"omitempty,max=4,dive,url"`
}
