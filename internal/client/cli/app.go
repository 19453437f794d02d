package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/dailyquote/internal/client/client"
	"github.com/dmitrijs2005/dailyquote/internal/client/config"
	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/client/prefs"
	"github.com/dmitrijs2005/dailyquote/internal/client/repositories/cloudfavorites"
	"github.com/dmitrijs2005/dailyquote/internal/client/repositories/collections"
	"github.com/dmitrijs2005/dailyquote/internal/client/repositories/discovery"
	"github.com/dmitrijs2005/dailyquote/internal/client/repositories/favorites"
	"github.com/dmitrijs2005/dailyquote/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dailyquote/internal/client/services"
	"github.com/dmitrijs2005/dailyquote/internal/client/viewstate"
	"github.com/dmitrijs2005/dailyquote/internal/filex"
	"github.com/dmitrijs2005/dailyquote/internal/logging"
	"github.com/google/uuid"
)

// Mode says whether the REPL currently reaches the server.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const onlineCheckInterval = 15 * time.Second

// App is the interactive client: one REPL session over the local cache
// and, when reachable, the server.
type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	remote client.Client

	auth        *services.AuthService
	favorites   *services.FavoritesService
	preferences *services.PreferencesService
	prefsStore  *prefs.Store
	quotes      *discovery.Repository

	discovery   *viewstate.Discovery
	favScreen   *viewstate.Favorites
	collections *viewstate.Collections
	profile     *viewstate.Profile

	lines  *bufio.Scanner
	out    io.Writer

	mu     sync.Mutex
	mode   Mode
	styles styles
	// Positions typed by the user refer to the last list printed.
	shownFavs []models.FavoriteQuote
	shownCols []models.QuoteCollection
}

// newLogger writes to cfg.LogFile when set so that logs do not interleave
// with the REPL.
func newLogger(cfg *config.Config) (logging.Logger, error) {
	file := cfg.LogFile
	if file != "" {
		var err error
		if file, err = filex.ExpandHome(file); err != nil {
			return nil, err
		}
		if err := filex.EnsureParentDir(file); err != nil {
			return nil, err
		}
	}
	return logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: file}, os.Stderr), nil
}

// NewApp opens the local cache, connects to the server and builds the
// services and screens on top of them.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	dbPath, err := filex.ExpandHome(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	db, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		logger.Error(ctx, "Error initializing database", "error", err)
		return nil, err
	}

	remote, err := client.NewGRPCClient(cfg.ServerEndpointAddr)
	if err != nil {
		db.Close()
		return nil, err
	}

	store, err := prefs.Open(ctx, cfg.PrefsPath, logger)
	if err != nil {
		db.Close()
		remote.Close()
		return nil, err
	}

	app, err := newApp(ctx, cfg, remote, db, store, logger, os.Stdin, os.Stdout)
	if err != nil {
		db.Close()
		remote.Close()
		return nil, err
	}
	return app, nil
}

// newApp wires the services and screens over already opened resources.
// Tests call it with fakes and an in-memory cache.
func newApp(ctx context.Context, cfg *config.Config, remote client.Client, db *sql.DB, store *prefs.Store, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	favStore, err := favorites.OpenStore(ctx, db)
	if err != nil {
		return nil, err
	}

	auth := services.NewAuthService(remote, metadata.NewSQLiteRepository(db), logger)
	quotes := discovery.NewRepository(remote)
	favs := services.NewFavoritesService(favStore, cloudfavorites.NewRepository(remote), auth, logger)
	cols := services.NewCollectionsService(collections.NewRepository(remote), auth, logger)
	prefsSvc := services.NewPreferencesService(store, remote, auth, services.LogScheduler{Logger: logger}, logger)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		remote:      remote,
		auth:        auth,
		favorites:   favs,
		preferences: prefsSvc,
		prefsStore:  store,
		quotes:      quotes,
		discovery:   viewstate.NewDiscovery(quotes, favs, cfg.SearchDebounce, cfg.LikedGrace, logger),
		favScreen:   viewstate.NewFavorites(favs, logger),
		collections: viewstate.NewCollections(cols, logger),
		profile:     viewstate.NewProfile(auth, favs, cols, logger),
		lines:       bufio.NewScanner(in),
		out:         out,
		styles:      newStyles(store.Get()),
	}, nil
}

// Run restores the previous session, starts the background watchers and
// blocks in the REPL until the user leaves.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	ctx = logging.ContextWith(ctx, "run_id", uuid.NewString())

	a.start(ctx)

	printlnFn("Welcome to dailyquote (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.lines)
}

// start restores the session and launches the watchers. Failures are
// logged; the REPL still runs offline.
func (a *App) start(ctx context.Context) {
	restored, err := a.auth.Restore(ctx)
	if err != nil {
		a.logger.Warn(ctx, "Failed to restore session", "error", err)
	}
	if restored {
		// Errors are logged by the service; local values stay in place.
		_, _ = a.preferences.SyncFromCloud(ctx)
	}
	if err := a.preferences.ApplySchedule(ctx); err != nil {
		a.logger.Warn(ctx, "Failed to schedule notification", "error", err)
	}

	go func() {
		if err := a.prefsStore.Watch(ctx); err != nil {
			a.logger.Warn(ctx, "Preferences watcher stopped", "error", err)
		}
	}()
	go a.followPreferences(ctx)
	go a.StartOnlineStatusWatcher(ctx, onlineCheckInterval)

	if err := a.discovery.Open(ctx); err != nil {
		a.logger.Warn(ctx, "Initial quotes load failed", "error", err)
	}
}

// followPreferences keeps the palette in line with the preferences file,
// including edits made outside the app.
func (a *App) followPreferences(ctx context.Context) {
	ch, cancel := a.preferences.Subscribe()
	defer cancel()
	for {
		select {
		case p, ok := <-ch:
			if !ok {
				return
			}
			a.mu.Lock()
			a.styles = newStyles(p)
			a.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) style() styles {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.styles
}

// Close detaches the screens and releases the cache and the connection.
func (a *App) Close() {
	a.discovery.Close()
	a.favScreen.Close()
	a.profile.Close()
	if err := a.remote.Close(); err != nil {
		a.logger.Warn(context.Background(), "Failed to close connection", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn(context.Background(), "Failed to close database", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	_, ok := a.auth.CurrentUserID()
	return ok
}

// getStatus is the prompt prefix, e.g. "(me@example.com online)".
func (a *App) getStatus() string {
	s := ""
	if u := a.auth.CurrentUser(); u != nil {
		s = u.Email + " "
	}
	a.mu.Lock()
	mode := a.mode
	a.mu.Unlock()
	if mode != "" {
		s += string(mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// setMode logs only actual transitions.
func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.logger.Info(context.Background(), "Connectivity changed", "mode", string(mode))
	}
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode shown in the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := a.remote.Ping(pctx)
		cancel()
		if err != nil {
			a.setMode(ModeOffline)
		} else {
			a.setMode(ModeOnline)
		}
	}

	check()
	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}

// say writes one line of user-facing output.
func (a *App) say(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}
