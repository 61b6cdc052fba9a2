// Package server wires the scmexpert services together and runs the JSON
// HTTP API and the gRPC health endpoint until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/scmexpert/internal/dbx"
	"github.com/dmitrijs2005/scmexpert/internal/logging"
	"github.com/dmitrijs2005/scmexpert/internal/server/auth"
	"github.com/dmitrijs2005/scmexpert/internal/server/config"
	"github.com/dmitrijs2005/scmexpert/internal/server/httpapi"
	"github.com/dmitrijs2005/scmexpert/internal/server/notify"
	"github.com/dmitrijs2005/scmexpert/internal/server/objectstore"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/scmexpert/internal/server/services"

	gs "github.com/dmitrijs2005/scmexpert/internal/server/grpc"
)

// ShutdownTimeout bounds how long in-flight HTTP requests may run after a
// stop signal.
const ShutdownTimeout = 15 * time.Second

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *http.Server
	grpcServer *gs.GRPCServer
}

// NewApp connects to the store, applies migrations and builds every
// service. An unreachable store is fatal.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := dbx.Open(ctx, "pgx", c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	app, err := newApp(ctx, c, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, db *sql.DB, logger logging.Logger) (*App, error) {
	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	issuer, err := auth.NewTokenIssuer([]byte(c.SecretKey), c.SigningAlgorithm, c.AccessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}
	hasher := auth.NewBcryptHasher(c.BcryptCost)

	users, err := services.NewUserService(db, m, hasher, issuer, logger)
	if err != nil {
		return nil, fmt.Errorf("user service: %w", err)
	}

	handler := httpapi.NewRouter(httpapi.Deps{
		Resolver:     auth.NewResolver(issuer, m.Users(db), logger),
		Users:        users,
		Resets:       services.NewResetService(db, m, hasher, notify.FromConfig(c, logger), c.PublicBaseURL, logger),
		Shipments:    services.NewShipmentService(db, m, objectstore.NewS3Store(c), logger),
		Devices:      services.NewDeviceDataService(db, m),
		Health:       db.PingContext,
		CookieSecure: c.CookieSecure,
		Logger:       logger,
	})

	return &App{
		config: c,
		logger: logger,
		db:     db,
		httpServer: &http.Server{
			Addr:              c.EndpointAddrHTTP,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		grpcServer: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, db, gs.DefaultCheckInterval),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or a listener fails,
// then waits for both servers to stop and closes the store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
