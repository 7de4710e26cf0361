package models

import "time"

// User is the storage model for the local identity provider.
// Unused when the Firebase provider is configured.
type User struct {
	UserID       string    `db:"user_id"`
	Email        string    `db:"email"`
	DisplayName  string    `db:"display_name"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
