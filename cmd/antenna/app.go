package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pgray/antenna/internal/config"
	"github.com/pgray/antenna/internal/log"
	"github.com/pgray/antenna/internal/service"
	"github.com/pgray/antenna/internal/store"
	"github.com/pgray/antenna/internal/xtream"
)

// app is the composition root: it owns the lifecycle of the store, the portal
// client and the services, and is built fresh for every invocation. Nothing
// below this layer reaches for globals.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.BlobStore
	client  *xtream.Client
	session *service.SessionService
	catalog *service.CatalogService
	users   *service.UserDataService
}

// newApp wires the full service graph from configuration. It fails when no
// provider is configured; the login command builds its wiring separately.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("no provider configured, run `antenna login` first")
	}

	return wireApp(cfg, logger)
}

// wireApp builds the service graph for a known-good configuration
func wireApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	st, err := store.Open(cfg.Cache.Dir, cfg.Provider.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	client := xtream.NewClient(cfg.Provider.URL, cfg.Provider.Username, cfg.Provider.Password, logger)

	session := service.NewSessionService(client, st, logger)
	session.Load()

	catalog := service.NewCatalogService(client, st, session, logger)
	catalog.LoadCaches()

	users := service.NewUserDataService(st, logger)

	// Catalog reset is registered before user-data cleanup so a new session
	// can never observe the old session's catalogs.
	session.OnLogout(func(string) { catalog.Reset() })
	session.OnLogout(func(userID string) { users.ClearUser(userID) })

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		client:  client,
		session: session,
		catalog: catalog,
		users:   users,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
}

// ensureSession authenticates against the portal when no persisted session
// exists yet.
func (a *app) ensureSession(ctx context.Context) error {
	if a.session.Authenticated() {
		return nil
	}
	if _, err := a.session.Login(ctx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}

// userID returns the username of the active session, or the configured
// username when no session is loaded yet.
func (a *app) userID() string {
	if acct := a.session.Account(); acct != nil {
		return acct.Username
	}
	return a.cfg.Provider.Username
}
