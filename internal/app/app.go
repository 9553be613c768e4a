package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/config"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/encryption"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/repo"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/revision"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/server"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/store"
)

// App is the application layer between the CLI and the service
// packages. It constructs all dependencies from config and manages
// their lifecycle on Close.
type App struct {
	cfg       *config.Config
	store     shop.KVStore
	encryptor shop.Encryptor
	rev       *revision.Clock
	poller    *revision.Poller
	products  *repo.ProductRepository
	settings  *repo.SettingsRepository
	gate      *server.Gate
	feed      *server.Feed
	handler   http.Handler
	logger    shop.Logger
	logFile   *os.File
}

// sessionReloader is the server-side stand-in for a browser reload:
// it drops nothing (the repositories read through on every call) but
// re-reads both collections so seeding happens eagerly, and logs the
// event for operators.
type sessionReloader struct {
	logger   shop.Logger
	products *repo.ProductRepository
	settings *repo.SettingsRepository
}

func (r *sessionReloader) Reload() {
	if r.products != nil {
		r.products.List()
	}
	if r.settings != nil {
		r.settings.Load()
	}
	r.logger.Info("session reload triggered")
}

// NewApp creates a fully wired App from the given config.
// The caller must call Close when done.
func NewApp(cfg *config.Config) (*App, error) {
	logger, logFile, err := newLogger(cfg.LogDir, cfg.InstanceID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	st, err := store.NewStoreFromConfig(cfg.Store, enc)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating store: %w", err)
	}
	if err := st.ValidateSetup(); err != nil {
		st.Close()
		logFile.Close()
		return nil, fmt.Errorf("validating store: %w", err)
	}

	wall := shop.RealClock{}
	reloader := &sessionReloader{logger: log}

	rev := revision.NewClock(st, wall, log, revision.NewNotifier(), reloader,
		time.Duration(cfg.Sync.ReloadDelayMillis)*time.Millisecond)
	poller := revision.NewPoller(st, rev, reloader, wall, log,
		time.Duration(cfg.Sync.CheckIntervalSeconds)*time.Second)

	var ids shop.IDGenerator
	switch cfg.Sync.IDStrategy {
	case "uuid":
		ids = shop.UUIDGenerator{}
	default:
		ids = shop.TimestampIDGenerator{Clock: wall}
	}

	products := repo.NewProductRepository(st, rev, wall, ids, log)
	settings := repo.NewSettingsRepository(st, rev, wall, log)
	reloader.products = products
	reloader.settings = settings

	gate := server.NewGate(cfg.Admin.PasswordSHA256,
		time.Duration(cfg.Admin.SessionTTLMinutes)*time.Minute, st, wall, log)
	feed := server.NewFeed(rev, log)

	handler := server.NewRouter(&server.App{
		Products: products,
		Settings: settings,
		Rev:      rev,
		Poller:   poller,
		Gate:     gate,
		Feed:     feed,
		Logger:   log,
	})

	return &App{
		cfg:       cfg,
		store:     st,
		encryptor: enc,
		rev:       rev,
		poller:    poller,
		products:  products,
		settings:  settings,
		gate:      gate,
		feed:      feed,
		handler:   handler,
		logger:    log,
		logFile:   logFile,
	}, nil
}

// Serve runs the HTTP server until ctx is canceled, then shuts it down
// gracefully within the configured timeout. The poller runs for the
// duration so the serve session detects edits from other processes.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:    a.cfg.Server.Addr,
		Handler: a.handler,
	}

	a.poller.Start()
	defer a.poller.Stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(a.cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

// Seed loads both collections, persisting the defaults for any that
// are absent or unreadable. Returns the resulting product count.
func (a *App) Seed() int {
	products := a.products.List()
	a.settings.Load()
	return len(products)
}

// Bump advances the revision clock. With force, the forced-update
// marker is written too and the triggering session is scheduled to
// reload.
func (a *App) Bump(force bool) int64 {
	if force {
		return a.rev.ForceBump()
	}
	return a.rev.Bump()
}

// Revision returns the current stored revision.
func (a *App) Revision() int64 {
	return a.rev.Read()
}

// ListProducts returns the current catalog.
func (a *App) ListProducts() []shop.Product {
	return a.products.List()
}

// ShowSettings returns the current site settings merged over defaults.
func (a *App) ShowSettings() shop.SiteSettings {
	return a.settings.Load()
}

// Login checks the admin password and returns a session token.
func (a *App) Login(password string) (string, error) {
	if !a.gate.Configured() {
		return "", fmt.Errorf("no admin password configured: set admin.password_sha256 in the config")
	}
	token, ok := a.gate.Login(password)
	if !ok {
		return "", fmt.Errorf("invalid password")
	}
	return token, nil
}

// Close releases every resource the App owns.
func (a *App) Close() error {
	var firstErr error

	a.poller.Stop()
	a.feed.Close()
	a.rev.Close()

	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
