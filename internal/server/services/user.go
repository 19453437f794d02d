// Package services contains server-side business logic. This file implements
// UserService: accounts, JWT/refresh-token sessions, password recovery and
// cloud preferences.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/cryptox"
	"github.com/dmitrijs2005/dailyquote/internal/dbx"
	"github.com/dmitrijs2005/dailyquote/internal/server/auth"
	"github.com/dmitrijs2005/dailyquote/internal/server/config"
	"github.com/dmitrijs2005/dailyquote/internal/server/models"
	"github.com/dmitrijs2005/dailyquote/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dailyquote/internal/validatex"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session is what a successful sign-in hands back to the client.
type Session struct {
	TokenPair
	User *models.User
}

type signUpInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
	FullName string `json:"full_name" validate:"max=200"`
}

type preferencesInput struct {
	Theme       *string  `json:"theme" validate:"omitempty,oneof=system light dark"`
	AccentColor *string  `json:"accent_color" validate:"omitempty,oneof=blue green purple orange"`
	FontScale   *float64 `json:"font_scale" validate:"omitempty,gte=0.8,lte=1.5"`
}

// UserService implements accounts and sessions.
type UserService struct {
	db                            *sql.DB
	repomanager                   repomanager.RepositoryManager
	mailer                        Mailer
	jwtSecret                     []byte
	accessTokenValidityDuration   time.Duration
	refreshTokenValidityDuration  time.Duration
	recoveryTokenValidityDuration time.Duration
	recoveryRedirectURL           string
	avatarPrefix                  string
}

// NewUserService takes token lifetimes and the recovery redirect from cfg.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, mailer Mailer, cfg *config.Config) *UserService {
	return &UserService{
		db:                            db,
		repomanager:                   m,
		mailer:                        mailer,
		jwtSecret:                     []byte(cfg.SecretKey),
		accessTokenValidityDuration:   cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration:  cfg.RefreshTokenValidityDuration,
		recoveryTokenValidityDuration: cfg.RecoveryTokenValidityDuration,
		recoveryRedirectURL:           cfg.RecoveryRedirectURL,
		avatarPrefix:                  publicObjectURL(cfg.PublicBaseURL(), cfg.S3Bucket, ""),
	}
}

// SignUp creates an account and signs it in.
func (s *UserService) SignUp(ctx context.Context, email, password, fullName string) (*Session, error) {
	in := signUpInput{Email: strings.TrimSpace(email), Password: password, FullName: strings.TrimSpace(fullName)}
	if err := validatex.Struct(in); err != nil {
		return nil, err
	}

	hash, salt := cryptox.HashPassword([]byte(password))
	user := &models.User{Email: in.Email, PasswordHash: hash, Salt: salt, FullName: in.FullName}

	var session *Session
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		pair, err := s.generateTokenPair(ctx, u.ID, tx)
		if err != nil {
			return err
		}
		session = &Session{TokenPair: *pair, User: u}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return session, nil
}

// SignIn verifies the password and returns a new session. Unknown emails and
// wrong passwords are indistinguishable.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			cryptox.DeriveKey([]byte(password), common.GenerateRandByteArray(16))
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}
	if !cryptox.VerifyPassword([]byte(password), user.Salt, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, err
	}
	return &Session{TokenPair: *pair, User: user}, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh session. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken, models.TokenKindRefresh)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	return s.exchange(ctx, token)
}

// SignOut revokes refreshToken. Unknown tokens are not an error.
func (s *UserService) SignOut(ctx context.Context, refreshToken string) error {
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// GetUser returns the profile of userID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, userID)
}

// UpdateUser applies profile changes and, when given, a new password. An
// avatar URL must point at an object this user was issued an upload for.
func (s *UserService) UpdateUser(ctx context.Context, userID string, upd models.ProfileUpdate, password *string) (*models.User, error) {
	if password != nil {
		if err := validatex.Var("password", *password, "min=6"); err != nil {
			return nil, err
		}
	}
	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		if err := validatex.Var("full_name", name, "max=200"); err != nil {
			return nil, err
		}
		upd.FullName = &name
	}

	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if upd.AvatarURL != nil && *upd.AvatarURL != "" {
			if err := s.claimAvatar(ctx, tx, userID, *upd.AvatarURL); err != nil {
				return err
			}
		}
		if password != nil {
			hash, salt := cryptox.HashPassword([]byte(*password))
			if err := s.repomanager.Users(tx).UpdatePassword(ctx, userID, hash, salt); err != nil {
				return err
			}
		}
		var err error
		user, err = s.repomanager.Users(tx).UpdateProfile(ctx, userID, upd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) claimAvatar(ctx context.Context, tx dbx.DBTX, userID, url string) error {
	key, ok := strings.CutPrefix(url, s.avatarPrefix)
	if !ok || key == "" {
		return common.NewValidationError("avatar_url", "must point at an uploaded profile picture")
	}
	repo := s.repomanager.Uploads(tx)
	up, err := repo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrForbidden
		}
		return err
	}
	if up.UserID != userID {
		return common.ErrForbidden
	}
	if up.Status == models.UploadStatusCompleted {
		return nil
	}
	return repo.MarkUploaded(ctx, key)
}

// RequestRecovery mails a single-use recovery link. Unknown emails succeed
// silently so the call cannot be used to discover accounts.
func (s *UserService) RequestRecovery(ctx context.Context, email string) error {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := common.MakeRandHexString(32)
	if err != nil {
		return common.ErrInternal
	}
	if err := s.repomanager.RefreshTokens(s.db).Create(ctx, user.ID, token, models.TokenKindRecovery, s.recoveryTokenValidityDuration); err != nil {
		return err
	}

	return s.mailer.SendRecoveryLink(ctx, user.Email, RecoveryLink(s.recoveryRedirectURL, token))
}

// RecoveryLink is the deep link mailed for password recovery.
func RecoveryLink(redirect, token string) string {
	return fmt.Sprintf("%s#type=recovery&token=%s", redirect, token)
}

// VerifyRecovery consumes a recovery token and opens a session so the user
// can set a new password.
func (s *UserService) VerifyRecovery(ctx context.Context, token string) (*Session, error) {
	rt, err := s.repomanager.RefreshTokens(s.db).Find(ctx, token, models.TokenKindRecovery)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	if rt.Expires.Before(time.Now()) {
		return nil, common.ErrTokenExpired
	}
	return s.exchange(ctx, rt)
}

// GetPreferences returns the cloud display settings of userID.
func (s *UserService) GetPreferences(ctx context.Context, userID string) (*models.Preferences, error) {
	return s.repomanager.Users(s.db).GetPreferences(ctx, userID)
}

// UpdatePreferences validates and stores the non-nil fields of prefs.
func (s *UserService) UpdatePreferences(ctx context.Context, userID string, prefs models.Preferences) (*models.Preferences, error) {
	in := preferencesInput{Theme: prefs.Theme, AccentColor: prefs.AccentColor, FontScale: prefs.FontScale}
	if err := validatex.Struct(in); err != nil {
		return nil, err
	}
	return s.repomanager.Users(s.db).UpdatePreferences(ctx, userID, prefs)
}

// --- helpers below ---

// exchange deletes a single-use token and mints a new session for its owner.
func (s *UserService) exchange(ctx context.Context, token *models.RefreshToken) (*Session, error) {
	var session *Session
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, token.Token); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return err
		}
		pair, err := s.generateTokenPair(ctx, token.UserID, tx)
		if err != nil {
			return err
		}
		session = &Session{TokenPair: *pair, User: user}
		return nil
	}); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, models.TokenKindRefresh, s.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
