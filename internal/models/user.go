package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Role is the access level of a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a member of the network. Followers and Following are sets of user IDs
// kept symmetric by the store: B in A.Followers iff A in B.Following.
type User struct {
	ID             string     `json:"id" validate:"required"`
	Username       string     `json:"username" validate:"required,min=3,max=30"`
	Email          string     `json:"email" validate:"required,email"`
	FullName       string     `json:"fullName" validate:"required,max=80"`
	Bio            string     `json:"bio,omitempty" validate:"max=300"`
	ProfilePicture string     `json:"profilePicture,omitempty" validate:"omitempty,url"`
	CoverPhoto     string     `json:"coverPhoto,omitempty" validate:"omitempty,url"`
	Followers      []string   `json:"followers" validate:"unique"`
	Following      []string   `json:"following" validate:"unique"`
	Role           Role       `json:"role" validate:"oneof=user admin"`
	IsOnline       bool       `json:"isOnline"`
	LastSeen       *time.Time `json:"lastSeen,omitempty"`
	CreatedAt      time.Time  `json:"createdAt" validate:"required"`
	PasswordHash   string     `json:"passwordHash,omitempty"`
}

// Clone returns a deep copy of the user.
func (u User) Clone() User {
	u.Followers = cloneIDs(u.Followers)
	u.Following = cloneIDs(u.Following)
	if u.LastSeen != nil {
		seen := *u.LastSeen
		u.LastSeen = &seen
	}
	return u
}

// Sanitized returns a copy without credentials, safe to hand to clients.
func (u User) Sanitized() User {
	c := u.Clone()
	c.PasswordHash = ""
	return c
}

// IsFollowing reports whether u follows the given user.
func (u User) IsFollowing(id string) bool {
	return containsID(u.Following, id)
}

// UserCompact is the author/actor summary embedded in enriched responses.
type UserCompact struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"fullName"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	IsOnline       bool   `json:"isOnline"`
}

// ToCompact converts a user into its compact representation.
func (u User) ToCompact() UserCompact {
	return UserCompact{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		ProfilePicture: u.ProfilePicture,
		IsOnline:       u.IsOnline,
	}
}

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	FullName        string `json:"fullName" validate:"required,min=2,max=80"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries a partial profile edit; nil fields are left unchanged.
type UpdateProfileRequest struct {
	FullName       *string `json:"fullName,omitempty" validate:"omitempty,min=2,max=80"`
	Bio            *string `json:"bio,omitempty" validate:"omitempty,max=300"`
	ProfilePicture *string `json:"profilePicture,omitempty" validate:"omitempty,url"`
	CoverPhoto     *string `json:"coverPhoto,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
