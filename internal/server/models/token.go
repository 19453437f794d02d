package models

import "time"

// TokenKind separates session refresh tokens from single-use password
// recovery tokens; both live in the refresh_tokens table.
type TokenKind string

const (
	TokenKindRefresh  TokenKind = "refresh"
	TokenKindRecovery TokenKind = "recovery"
)

// RefreshToken is a stored opaque token of either kind.
type RefreshToken struct {
	UserID  string
	Token   string
	Kind    TokenKind
	Expires time.Time
}
