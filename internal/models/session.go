package models

import "time"

// Session is the signed-in state of one user: the token handed to the client
// and a snapshot of the user at sign-in.
type Session struct {
	UserID   string    `json:"userId"`
	Token    string    `json:"token"`
	User     User      `json:"user"`
	IssuedAt time.Time `json:"issuedAt"`
}
