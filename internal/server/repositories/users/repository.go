// Package users stores accounts, profiles and cloud preferences.
package users

import (
	"context"

	"github.com/dmitrijs2005/dailyquote/internal/server/models"
)

// Repository stores user accounts.
type Repository interface {
	// Create inserts user; a taken email yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, hash, salt []byte) error
	GetPreferences(ctx context.Context, id string) (*models.Preferences, error)
	// UpdatePreferences overwrites only the non-nil fields.
	UpdatePreferences(ctx context.Context, id string, prefs models.Preferences) (*models.Preferences, error)
}
