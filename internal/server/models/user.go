// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. PasswordHash is argon2id(password, Salt).
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Salt         []byte
	FullName     string
	AvatarURL    string
	CreatedAt    time.Time
}

// Preferences are the cloud copy of a user's display settings. Nil fields
// were never set.
type Preferences struct {
	Theme       *string
	AccentColor *string
	FontScale   *float64
}

// ProfileUpdate changes only the non-nil fields.
type ProfileUpdate struct {
	FullName  *string
	AvatarURL *string
}
