package client

import (
	"context"

	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
)

// Auth is the session provider.
type Auth interface {
	SignUp(ctx context.Context, email, password, fullName string) (*models.Session, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	// SignOut revokes the refresh token remotely and always forgets the
	// local session.
	SignOut(ctx context.Context) error
	GetUser(ctx context.Context) (*models.User, error)
	UpdateUser(ctx context.Context, upd models.UserUpdate) (*models.User, error)
	RecoverPassword(ctx context.Context, email string) error
	VerifyRecovery(ctx context.Context, token string) (*models.Session, error)
	GetPreferences(ctx context.Context) (*models.CloudPreferences, error)
	UpdatePreferences(ctx context.Context, p models.CloudPreferences) error

	// Session returns the current session, nil when signed out.
	Session() *models.Session
	SetSession(s *models.Session)
	// OnSessionChange registers fn to run after every session change,
	// including token refreshes. fn gets nil on sign-out.
	OnSessionChange(fn func(*models.Session))
}

// TableStore is the generic remote row store.
type TableStore interface {
	Select(ctx context.Context, q wire.Query) ([]wire.Row, error)
	Insert(ctx context.Context, table string, rows ...wire.Row) ([]wire.Row, error)
	Delete(ctx context.Context, table string, filters ...wire.Filter) (int64, error)
}

// ObjectStore stores public files.
type ObjectStore interface {
	// UploadAvatar stores data as the caller's profile picture and returns
	// its public URL.
	UploadAvatar(ctx context.Context, contentType string, data []byte) (string, error)
}

// Client is everything the app needs from the server.
type Client interface {
	Auth
	TableStore
	ObjectStore
	Ping(ctx context.Context) error
	Close() error
}
