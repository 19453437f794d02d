package services

import "errors"

// ErrNotAuthenticated is returned by operations that cannot run without a
// signed-in user.
var ErrNotAuthenticated = errors.New("not signed in")

// UserProvider resolves the signed-in user.
type UserProvider interface {
	// CurrentUserID returns the user id and whether anyone is signed in.
	CurrentUserID() (string, bool)
}
