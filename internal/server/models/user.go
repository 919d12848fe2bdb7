package models

import "time"

// User is an account allowed to perform protected operations. PasswordHash
// holds a bcrypt hash and is never serialized into responses.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
