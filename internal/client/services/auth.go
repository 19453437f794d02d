package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/dailyquote/internal/client/client"
	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/logging"
	"github.com/dmitrijs2005/dailyquote/internal/validatex"
)

const minPasswordLength = 6

// Account is the part of the remote client the auth flows need.
type Account interface {
	client.Auth
	client.ObjectStore
}

// LinkKind tells what a deep link was about.
type LinkKind int

const (
	LinkUnknown LinkKind = iota
	// LinkRecovery signed the user in from a password-reset link; the
	// caller must now ask for a new password.
	LinkRecovery
)

// AuthService drives sign-in, the profile and password recovery. The
// session is persisted in the local metadata table on every change and
// restored by Restore.
type AuthService struct {
	account Account
	meta    metadata.Repository
	logger  logging.Logger
}

// NewAuthService returns a service over account; sessions are persisted
// in meta.
func NewAuthService(account Account, meta metadata.Repository, logger logging.Logger) *AuthService {
	s := &AuthService{account: account, meta: meta, logger: logger}
	account.OnSessionChange(s.persist)
	return s
}

func (s *AuthService) persist(sess *models.Session) {
	ctx := context.Background()
	var err error
	if sess == nil {
		err = s.meta.Delete(ctx, metadata.KeySession)
	} else {
		err = s.meta.SetJSON(ctx, metadata.KeySession, sess)
	}
	if err != nil {
		s.logger.Error(ctx, "Failed to persist session", "error", err)
	}
}

// Restore loads the saved session, if any, and reports whether one was
// found.
func (s *AuthService) Restore(ctx context.Context) (bool, error) {
	var sess models.Session
	ok, err := s.meta.GetJSON(ctx, metadata.KeySession, &sess)
	if err != nil {
		return false, err
	}
	if !ok || sess.AccessToken == "" {
		return false, nil
	}
	s.account.SetSession(&sess)
	s.logger.Debug(ctx, "Session restored", "user_id", sess.User.ID)
	return true, nil
}

// CurrentUserID returns the signed-in user's id and whether there is one.
func (s *AuthService) CurrentUserID() (string, bool) {
	sess := s.account.Session()
	if sess == nil || sess.User.ID == "" {
		return "", false
	}
	return sess.User.ID, true
}

// CurrentUser returns the cached profile, nil when signed out.
func (s *AuthService) CurrentUser() *models.User {
	sess := s.account.Session()
	if sess == nil {
		return nil
	}
	u := sess.User
	return &u
}

func validatePassword(password, confirm string) error {
	if password != confirm {
		return common.NewValidationError("password", "Passwords do not match")
	}
	if len([]rune(password)) < minPasswordLength {
		return common.NewValidationError("password", fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	return nil
}

// SignUp validates the form, creates the account and persists the session.
func (s *AuthService) SignUp(ctx context.Context, email, password, confirm, fullName string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if err := validatex.Var("email", email, "required,email"); err != nil {
		return nil, err
	}
	if err := validatePassword(password, confirm); err != nil {
		return nil, err
	}
	sess, err := s.account.SignUp(ctx, email, password, strings.TrimSpace(fullName))
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Signed up", "user_id", sess.User.ID)
	return &sess.User, nil
}

// SignIn validates the credentials and persists the session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if err := validatex.Var("email", email, "required,email"); err != nil {
		return nil, err
	}
	if err := validatex.Var("password", password, "required"); err != nil {
		return nil, err
	}
	sess, err := s.account.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Signed in", "user_id", sess.User.ID)
	return &sess.User, nil
}

// SignOut forgets the local session even when the server cannot be told.
func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.account.SignOut(ctx); err != nil {
		s.logger.Warn(ctx, "Remote sign-out failed", "error", err)
		return err
	}
	return nil
}

// RefreshProfile fetches the profile from the server.
func (s *AuthService) RefreshProfile(ctx context.Context) (*models.User, error) {
	if _, ok := s.CurrentUserID(); !ok {
		return nil, ErrNotAuthenticated
	}
	return s.account.GetUser(ctx)
}

// UpdateFullName trims and saves a new display name.
func (s *AuthService) UpdateFullName(ctx context.Context, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if err := validatex.Var("full_name", name, "notblank,max=100"); err != nil {
		return nil, err
	}
	if _, ok := s.CurrentUserID(); !ok {
		return nil, ErrNotAuthenticated
	}
	return s.account.UpdateUser(ctx, models.UserUpdate{FullName: &name})
}

// UploadAvatar stores data as the profile picture and points the profile
// at it. Only images are accepted.
func (s *AuthService) UploadAvatar(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", common.NewValidationError("avatar", "file is empty")
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", common.NewValidationError("avatar", "file is not an image")
	}
	if _, ok := s.CurrentUserID(); !ok {
		return "", ErrNotAuthenticated
	}

	publicURL, err := s.account.UploadAvatar(ctx, contentType, data)
	if err != nil {
		return "", err
	}
	if _, err := s.account.UpdateUser(ctx, models.UserUpdate{AvatarURL: &publicURL}); err != nil {
		return "", err
	}
	s.logger.Info(ctx, "Avatar updated", "url", publicURL)
	return publicURL, nil
}

// UpdatePassword sets a new password for the signed-in user, typically
// right after a recovery link.
func (s *AuthService) UpdatePassword(ctx context.Context, password, confirm string) error {
	if err := validatePassword(password, confirm); err != nil {
		return err
	}
	if _, ok := s.CurrentUserID(); !ok {
		return ErrNotAuthenticated
	}
	_, err := s.account.UpdateUser(ctx, models.UserUpdate{Password: &password})
	return err
}

// RequestPasswordReset mails a recovery link to email. It works signed out.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validatex.Var("email", email, "required,email"); err != nil {
		return err
	}
	return s.account.RecoverPassword(ctx, email)
}

// HandleDeepLink processes a link opened by the user. Recovery links carry
// type=recovery and a token in either the query or the fragment; the token
// is exchanged for a session.
func (s *AuthService) HandleDeepLink(ctx context.Context, link string) (LinkKind, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return LinkUnknown, common.NewValidationError("link", "malformed link")
	}
	params := u.Query()
	if params.Get("type") == "" && u.Fragment != "" {
		if fp, err := url.ParseQuery(u.Fragment); err == nil {
			params = fp
		}
	}
	if params.Get("type") != "recovery" {
		return LinkUnknown, nil
	}
	token := params.Get("token")
	if token == "" {
		return LinkUnknown, common.NewValidationError("link", "recovery token is missing")
	}
	if _, err := s.account.VerifyRecovery(ctx, token); err != nil {
		return LinkUnknown, err
	}
	s.logger.Info(ctx, "Recovery link accepted")
	return LinkRecovery, nil
}
