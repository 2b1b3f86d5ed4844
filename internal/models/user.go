package models

import (
	"time"
)

// User represents a person who can borrow material
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

// FullName returns the display name used by views and sorts
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UnknownUserName is displayed when a loan references a missing user
const UnknownUserName = "Utilisateur inconnu"

// CreateUserRequest is the payload for registering a user
type CreateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
