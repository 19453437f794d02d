package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/netx"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// GRPCClient implements Client over the wire services.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	auth        *wire.AuthClient
	tables      *wire.TablesClient
	storage     *wire.StorageClient
	health      *wire.HealthClient
	upload      func(ctx context.Context, url, contentType string, body []byte) error

	mu        sync.Mutex
	session   *models.Session
	listeners []func(*models.Session)

	// refreshMu lets only one caller rotate the tokens at a time.
	refreshMu sync.Mutex
}

// NewGRPCClient connects to endpointURL. opts are appended to the default
// dial options (insecure transport, token interceptor).
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, upload: netx.UploadToPresignedURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.auth = wire.NewAuthClient(conn)
	c.tables = wire.NewTablesClient(conn)
	c.storage = wire.NewStorageClient(conn)
	c.health = wire.NewHealthClient(conn)
	return c, nil
}

// withAccessToken replaces any token already present in the outgoing
// metadata.
func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

// isTokenExpired matches the server's expired-token answer only; other
// Unauthenticated errors are not retried.
func isTokenExpired(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}

// accessTokenInterceptor attaches the access token and, when it has
// expired, refreshes the session and retries the call once.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	token := s.accessToken()
	err := invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)
	if err == nil || wire.PublicMethods[method] || !isTokenExpired(err) {
		return err
	}

	if rerr := s.refresh(ctx, token); rerr != nil {
		return err
	}

	// tokens refreshed, retry once with the new access token
	return invoker(withAccessToken(ctx, s.accessToken()), method, req, reply, cc, opts...)
}

// refresh rotates the token pair unless another caller already replaced
// stale. A rejected refresh token ends the session.
func (s *GRPCClient) refresh(ctx context.Context, stale string) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	sess := s.Session()
	if sess == nil || sess.RefreshToken == "" {
		return ErrNotSignedIn
	}
	if sess.AccessToken != stale {
		return nil
	}

	resp, err := s.auth.Refresh(ctx, &wire.RefreshRequest{RefreshToken: sess.RefreshToken})
	if err != nil {
		if status.Code(err) == codes.Unauthenticated {
			s.SetSession(nil)
		}
		return s.mapError(err)
	}
	s.SetSession(fromWireSession(resp))
	return nil
}

func (s *GRPCClient) accessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.AccessToken
}

// Session returns a copy of the current session, nil when signed out.
func (s *GRPCClient) Session() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// SetSession replaces the session and notifies the listeners.
func (s *GRPCClient) SetSession(sess *models.Session) {
	s.mu.Lock()
	if sess != nil {
		cp := *sess
		sess = &cp
	}
	s.session = sess
	listeners := append([]func(*models.Session){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(sess)
	}
}

// OnSessionChange registers fn to run after every session change,
// including refreshes and sign-out.
func (s *GRPCClient) OnSessionChange(fn func(*models.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func fromWireUser(u wire.User) models.User {
	return models.User{ID: u.ID, Email: u.Email, FullName: u.FullName, AvatarURL: u.AvatarURL}
}

func fromWireSession(s *wire.Session) *models.Session {
	return &models.Session{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken, User: fromWireUser(s.User)}
}

// SignUp creates an account and keeps the new session.
func (s *GRPCClient) SignUp(ctx context.Context, email, password, fullName string) (*models.Session, error) {
	resp, err := s.auth.SignUp(ctx, &wire.Credentials{Email: email, Password: password, FullName: fullName})
	if err != nil {
		return nil, s.mapError(err)
	}
	sess := fromWireSession(resp)
	s.SetSession(sess)
	return sess, nil
}

// SignIn opens a session for an existing account.
func (s *GRPCClient) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	resp, err := s.auth.SignIn(ctx, &wire.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	sess := fromWireSession(resp)
	s.SetSession(sess)
	return sess, nil
}

// SignOut revokes the refresh token. The local session is dropped even
// when the server cannot be reached.
func (s *GRPCClient) SignOut(ctx context.Context) error {
	sess := s.Session()
	if sess == nil {
		return nil
	}
	defer s.SetSession(nil)

	if _, err := s.auth.SignOut(ctx, &wire.RefreshRequest{RefreshToken: sess.RefreshToken}); err != nil {
		return s.mapError(err)
	}
	return nil
}

// GetUser fetches the profile and updates the cached session user.
func (s *GRPCClient) GetUser(ctx context.Context) (*models.User, error) {
	resp, err := s.auth.GetUser(ctx, &wire.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	u := fromWireUser(*resp)
	s.updateUser(u)
	return &u, nil
}

// UpdateUser changes the fields of upd that are set.
func (s *GRPCClient) UpdateUser(ctx context.Context, upd models.UserUpdate) (*models.User, error) {
	resp, err := s.auth.UpdateUser(ctx, &wire.UserUpdate{FullName: upd.FullName, AvatarURL: upd.AvatarURL, Password: upd.Password})
	if err != nil {
		return nil, s.mapError(err)
	}
	u := fromWireUser(*resp)
	s.updateUser(u)
	return &u, nil
}

// updateUser refreshes the cached profile of the current session.
func (s *GRPCClient) updateUser(u models.User) {
	sess := s.Session()
	if sess == nil || sess.User.ID != u.ID {
		return
	}
	sess.User = u
	s.SetSession(sess)
}

// RecoverPassword asks the server to mail a recovery link.
func (s *GRPCClient) RecoverPassword(ctx context.Context, email string) error {
	if _, err := s.auth.RecoverPassword(ctx, &wire.RecoveryRequest{Email: email}); err != nil {
		return s.mapError(err)
	}
	return nil
}

// VerifyRecovery trades a recovery token for a session.
func (s *GRPCClient) VerifyRecovery(ctx context.Context, token string) (*models.Session, error) {
	resp, err := s.auth.VerifyRecovery(ctx, &wire.RecoveryToken{Token: token})
	if err != nil {
		return nil, s.mapError(err)
	}
	sess := fromWireSession(resp)
	s.SetSession(sess)
	return sess, nil
}

// GetPreferences returns the display settings stored with the account.
func (s *GRPCClient) GetPreferences(ctx context.Context) (*models.CloudPreferences, error) {
	resp, err := s.auth.GetPreferences(ctx, &wire.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &models.CloudPreferences{Theme: resp.Theme, AccentColor: resp.AccentColor, FontScale: resp.FontScale}, nil
}

// UpdatePreferences overwrites the non-nil display settings.
func (s *GRPCClient) UpdatePreferences(ctx context.Context, p models.CloudPreferences) error {
	_, err := s.auth.UpdatePreferences(ctx, &wire.Preferences{Theme: p.Theme, AccentColor: p.AccentColor, FontScale: p.FontScale})
	return s.mapError(err)
}

// Select runs q against the server's table API.
func (s *GRPCClient) Select(ctx context.Context, q wire.Query) ([]wire.Row, error) {
	resp, err := s.tables.Select(ctx, &q)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Rows, nil
}

// Insert stores rows in table and returns them as saved.
func (s *GRPCClient) Insert(ctx context.Context, table string, rows ...wire.Row) ([]wire.Row, error) {
	resp, err := s.tables.Insert(ctx, &wire.InsertRequest{Table: table, Rows: rows})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Rows, nil
}

// Delete removes the caller's rows of table matching filters.
func (s *GRPCClient) Delete(ctx context.Context, table string, filters ...wire.Filter) (int64, error) {
	resp, err := s.tables.Delete(ctx, &wire.DeleteRequest{Table: table, Filters: filters})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Deleted, nil
}

// UploadAvatar requests an upload ticket and PUTs data to it.
func (s *GRPCClient) UploadAvatar(ctx context.Context, contentType string, data []byte) (string, error) {
	ticket, err := s.storage.CreateUpload(ctx, &wire.UploadRequest{ContentType: contentType})
	if err != nil {
		return "", s.mapError(err)
	}
	if ticket.MaxBytes > 0 && int64(len(data)) > ticket.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit is %d", ErrTooLarge, len(data), ticket.MaxBytes)
	}
	if err := s.upload(ctx, ticket.UploadURL, contentType, data); err != nil {
		return "", fmt.Errorf("upload error: %w", err)
	}
	return ticket.PublicURL, nil
}

// Ping checks that the server answers.
func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.health.Ping(ctx)
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

// Close closes the connection.
func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// mapError converts gRPC statuses to the client's sentinel errors. The
// server's message is kept where it helps the user.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated:
		if st.Message() == "invalid credentials" {
			return common.ErrInvalidCredentials
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
