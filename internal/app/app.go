// Package app wires configuration, storage, the identity gateway and the
// HTTP server into a runnable service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/loandesk/loandesk/internal/http"
	"github.com/loandesk/loandesk/internal/identity"
	"github.com/loandesk/loandesk/internal/service"
	"github.com/loandesk/loandesk/internal/store"
	"github.com/loandesk/loandesk/internal/store/drivers/memory"
	"github.com/loandesk/loandesk/internal/store/drivers/sqlite"
	"github.com/loandesk/loandesk/pkg/jwtx"
	"github.com/loandesk/loandesk/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the loan service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	keys    *jwtx.KeyPair
	signer  *jwtx.Signer
	gateway identity.Gateway

	loanService *service.LoanService
	userService *service.UserService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "loandesk",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	if err := app.initIdentity(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	if cfg.Env == "dev" {
		if err := app.seedDevUsers(context.Background()); err != nil {
			_ = app.db.Close()
			return nil, fmt.Errorf("failed to seed dev users: %w", err)
		}
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("loandesk starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down loandesk...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("loandesk stopped")
	return nil
}

// initStore selects the storage driver. An unset DATABASE_FILE keeps all
// state in process memory; setting it switches to SQLite.
func (app *Application) initStore() error {
	if app.cfg.DatabaseFile == "" {
		app.db = memory.NewStore()
		app.logger.Info("using in-memory store")
		return nil
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

// initIdentity loads or generates the token key pair and builds the local
// identity gateway around it.
func (app *Application) initIdentity() error {
	var (
		keys *jwtx.KeyPair
		err  error
	)
	if app.cfg.KeyFile != "" {
		keys, err = jwtx.LoadKeyPair(app.cfg.KeyFile)
	} else {
		keys, err = jwtx.GenerateKeyPair()
		if err == nil {
			app.logger.Warn("no AUTH_KEY_FILE set, using an ephemeral keypair; tokens will not survive restarts")
		}
	}
	if err != nil {
		return fmt.Errorf("failed to initialize token keys: %w", err)
	}

	app.keys = keys
	app.signer = &jwtx.Signer{Keys: keys}

	verifier := jwtx.NewEdDSAVerifier(keys, app.cfg.Issuer, app.cfg.Audience)
	app.gateway = identity.NewLocal(verifier, app.db.Users())
	return nil
}

func (app *Application) initServices() {
	app.loanService = &service.LoanService{Store: app.db}
	app.userService = service.NewUserService(app.gateway)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.gateway, app.logger)
	router.LoanService = app.loanService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
