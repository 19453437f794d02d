package grpc

import (
	"context"

	"github.com/dmitrijs2005/dailyquote/internal/server/models"
	"github.com/dmitrijs2005/dailyquote/internal/server/services"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
)

func toWireUser(u *models.User) wire.User {
	return wire.User{ID: u.ID, Email: u.Email, FullName: u.FullName, AvatarURL: u.AvatarURL}
}

func toWireSession(s *services.Session) *wire.Session {
	return &wire.Session{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken, User: toWireUser(s.User)}
}

// SignUp creates an account and opens a session.
func (s *GRPCServer) SignUp(ctx context.Context, req *wire.Credentials) (*wire.Session, error) {
	s.logger.Info(ctx, "Registration request")

	sess, err := s.users.SignUp(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", sess.User.ID)
	return toWireSession(sess), nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *wire.Credentials) (*wire.Session, error) {
	sess, err := s.users.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toWireSession(sess), nil
}

// Refresh rotates the refresh token.
func (s *GRPCServer) Refresh(ctx context.Context, req *wire.RefreshRequest) (*wire.Session, error) {
	sess, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toWireSession(sess), nil
}

// SignOut revokes the given refresh token.
func (s *GRPCServer) SignOut(ctx context.Context, req *wire.RefreshRequest) (*wire.Empty, error) {
	if err := s.users.SignOut(ctx, req.RefreshToken); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.Empty{}, nil
}

// GetUser returns the caller's profile.
func (s *GRPCServer) GetUser(ctx context.Context, _ *wire.Empty) (*wire.User, error) {
	userID, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := toWireUser(u)
	return &out, nil
}

// UpdateUser changes the caller's profile or password.
func (s *GRPCServer) UpdateUser(ctx context.Context, req *wire.UserUpdate) (*wire.User, error) {
	userID, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.users.UpdateUser(ctx, userID, models.ProfileUpdate{FullName: req.FullName, AvatarURL: req.AvatarURL}, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := toWireUser(u)
	return &out, nil
}

// RecoverPassword answers the same for unknown emails, so it cannot be used
// to discover registered accounts.
func (s *GRPCServer) RecoverPassword(ctx context.Context, req *wire.RecoveryRequest) (*wire.Empty, error) {
	if err := s.users.RequestRecovery(ctx, req.Email); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.Empty{}, nil
}

// VerifyRecovery consumes a recovery token and signs its owner in.
func (s *GRPCServer) VerifyRecovery(ctx context.Context, req *wire.RecoveryToken) (*wire.Session, error) {
	sess, err := s.users.VerifyRecovery(ctx, req.Token)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toWireSession(sess), nil
}

// GetPreferences returns the caller's cloud display settings.
func (s *GRPCServer) GetPreferences(ctx context.Context, _ *wire.Empty) (*wire.Preferences, error) {
	userID, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.users.GetPreferences(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.Preferences{Theme: p.Theme, AccentColor: p.AccentColor, FontScale: p.FontScale}, nil
}

// UpdatePreferences stores the settings that are set and returns them all.
func (s *GRPCServer) UpdatePreferences(ctx context.Context, req *wire.Preferences) (*wire.Preferences, error) {
	userID, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.users.UpdatePreferences(ctx, userID, models.Preferences{Theme: req.Theme, AccentColor: req.AccentColor, FontScale: req.FontScale})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.Preferences{Theme: p.Theme, AccentColor: p.AccentColor, FontScale: p.FontScale}, nil
}

// Select runs a table query as the caller, anonymous callers included.
func (s *GRPCServer) Select(ctx context.Context, req *wire.Query) (*wire.Rows, error) {
	userID, _ := UserIDFromContext(ctx)
	rows, err := s.tables.Select(ctx, userID, *req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.Rows{Rows: rows}, nil
}

// Insert stores rows owned by the caller.
func (s *GRPCServer) Insert(ctx context.Context, req *wire.InsertRequest) (*wire.Rows, error) {
	userID, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.tables.Insert(ctx, userID, req.Table, req.Rows)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.Rows{Rows: rows}, nil
}

// Delete removes the caller's rows matching the filters.
func (s *GRPCServer) Delete(ctx context.Context, req *wire.DeleteRequest) (*wire.DeleteResult, error) {
	userID, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}
	n, err := s.tables.Delete(ctx, userID, req.Table, req.Filters)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.DeleteResult{Deleted: n}, nil
}

// CreateUpload issues a presigned URL for a new avatar.
func (s *GRPCServer) CreateUpload(ctx context.Context, req *wire.UploadRequest) (*wire.UploadTicket, error) {
	userID, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}
	up, err := s.storage.CreateAvatarUpload(ctx, userID, req.ContentType)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &wire.UploadTicket{UploadURL: up.UploadURL, PublicURL: up.PublicURL, MaxBytes: s.maxAvatarBytes}, nil
}

// Ping needs no access token.
func (s *GRPCServer) Ping(ctx context.Context, _ *wire.Empty) (*wire.Status, error) {
	return &wire.Status{Status: "OK"}, nil
}
