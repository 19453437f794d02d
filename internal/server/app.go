// Package server wires the dailyquote server together: database,
// migrations, seed data, services, metrics and the gRPC endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/dailyquote/internal/logging"
	"github.com/dmitrijs2005/dailyquote/internal/server/config"
	"github.com/dmitrijs2005/dailyquote/internal/server/metrics"
	"github.com/dmitrijs2005/dailyquote/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dailyquote/internal/server/seed"
	"github.com/dmitrijs2005/dailyquote/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/dailyquote/internal/server/grpc"
)

// App owns the server's dependencies for one run.
type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	metrics        *metrics.Metrics
	userService    *services.UserService
	tableService   *services.TableService
	storageService *services.StorageService
}

// NewLogger builds the server logger from cfg.
func NewLogger(cfg *config.Config) logging.Logger {
	return logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile}, os.Stdout)
}

// OpenDB opens the pgx pool and runs pending migrations.
func OpenDB(ctx context.Context, cfg *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrations error: %w", err)
	}
	return db, rm, nil
}

// NewApp opens the database, seeds the catalogue and builds the services.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := NewLogger(cfg)

	db, rm, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Only an empty catalogue is seeded.
	n, err := seed.Seed(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("seed error: %w", err)
	}
	if n > 0 {
		logger.Info(ctx, "Seeded quotes", "count", n)
	}

	app := &App{
		config:         cfg,
		logger:         logger,
		db:             db,
		metrics:        metrics.New(),
		userService:    services.NewUserService(db, rm, services.NewLogMailer(logger), cfg),
		tableService:   services.NewTableService(db, rm),
		storageService: services.NewStorageService(db, rm, cfg),
	}
	return app, nil
}

// grpcServer counts every call in the metrics before checking tokens.
func (app *App) grpcServer() *gs.GRPCServer {
	return gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger,
		app.userService, app.tableService, app.storageService, app.config.SecretKey,
		gs.WithInterceptor(app.metrics.UnaryInterceptor),
		gs.WithMaxAvatarBytes(app.config.MaxAvatarBytes),
	)
}

// Run serves until ctx is done or one of the servers fails; a failure
// stops the others. The database is closed on return.
func (app *App) Run(ctx context.Context) error {
	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
		app.logger.Info(ctx, "Stopped")
	}()

	app.logger.Info(ctx, "Starting app...", "grpc", app.config.EndpointAddrGRPC, "metrics", app.config.MetricsAddr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := app.grpcServer().Run(gctx); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})
	if app.config.MetricsAddr != "" {
		g.Go(func() error {
			if err := app.metrics.Serve(gctx, app.config.MetricsAddr, app.logger); err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}
