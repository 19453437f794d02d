package models

import "time"

const (
	UploadStatusPending   = "pending"
	UploadStatusCompleted = "completed"
)

// Upload records an object key handed out for an avatar upload. Only keys
// issued to a user may become that user's avatar.
type Upload struct {
	StorageKey string
	UserID     string
	Status     string
	CreatedAt  time.Time
}
