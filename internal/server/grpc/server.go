// Package grpc exposes the server services over gRPC: Auth, Tables,
// Storage and Health, behind metrics and access-token interceptors.
package grpc

import (
	"context"
	"fmt"
	"net"

	"github.com/dmitrijs2005/dailyquote/internal/logging"
	"github.com/dmitrijs2005/dailyquote/internal/server/models"
	"github.com/dmitrijs2005/dailyquote/internal/server/services"
	"github.com/dmitrijs2005/dailyquote/internal/wire"
	"google.golang.org/grpc"
)

// UserService handles accounts, sessions and cloud preferences.
type UserService interface {
	SignUp(ctx context.Context, email, password, fullName string) (*services.Session, error)
	SignIn(ctx context.Context, email, password string) (*services.Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, userID string, upd models.ProfileUpdate, password *string) (*models.User, error)
	RequestRecovery(ctx context.Context, email string) error
	VerifyRecovery(ctx context.Context, token string) (*services.Session, error)
	GetPreferences(ctx context.Context, userID string) (*models.Preferences, error)
	UpdatePreferences(ctx context.Context, userID string, prefs models.Preferences) (*models.Preferences, error)
}

// TableService serves the generic table API.
type TableService interface {
	Select(ctx context.Context, userID string, q wire.Query) ([]wire.Row, error)
	Insert(ctx context.Context, userID, table string, rows []wire.Row) ([]wire.Row, error)
	Delete(ctx context.Context, userID, table string, filters []wire.Filter) (int64, error)
}

// StorageService issues avatar upload URLs.
type StorageService interface {
	CreateAvatarUpload(ctx context.Context, userID, contentType string) (*services.Upload, error)
}

// GRPCServer implements every wire service.
type GRPCServer struct {
	address        string
	users          UserService
	tables         TableService
	storage        StorageService
	logger         logging.Logger
	jwtSecret      []byte
	maxAvatarBytes int64
	interceptors   []grpc.UnaryServerInterceptor
}

// Option configures a GRPCServer.
type Option func(*GRPCServer)

// WithInterceptor runs i ahead of the access-token check.
func WithInterceptor(i grpc.UnaryServerInterceptor) Option {
	return func(s *GRPCServer) { s.interceptors = append(s.interceptors, i) }
}

// WithMaxAvatarBytes is advertised to clients on every upload ticket.
func WithMaxAvatarBytes(n int64) Option {
	return func(s *GRPCServer) { s.maxAvatarBytes = n }
}

// NewGRPCServer returns a server that listens on address once Run is called.
// Access tokens are verified with secretKey.
func NewGRPCServer(address string, l logging.Logger, us UserService, ts TableService, ss StorageService, secretKey string, opts ...Option) *GRPCServer {
	s := &GRPCServer{
		address:   address,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		tables:    ts,
		storage:   ss,
		jwtSecret: []byte(secretKey),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewServer builds a grpc.Server with the interceptor chain and all
// services registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	chain := append([]grpc.UnaryServerInterceptor{}, s.interceptors...)
	chain = append(chain, s.accessTokenInterceptor)

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))
	wire.RegisterAuthServer(srv, s)
	wire.RegisterTablesServer(srv, s)
	wire.RegisterStorageServer(srv, s)
	wire.RegisterHealthServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done,
// then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.address, err)
	}

	srv := s.NewServer()
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())
	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
