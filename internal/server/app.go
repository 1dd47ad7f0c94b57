// Package server initializes and runs the API server: storage, migrations,
// services, and the HTTP endpoint, with signal-driven graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/hkondo/secretbase/internal/logging"
	"github.com/hkondo/secretbase/internal/server/categories"
	"github.com/hkondo/secretbase/internal/server/config"
	"github.com/hkondo/secretbase/internal/server/db"
	"github.com/hkondo/secretbase/internal/server/events"
	"github.com/hkondo/secretbase/internal/server/httpapi"
	"github.com/hkondo/secretbase/internal/server/todos"
	"github.com/hkondo/secretbase/internal/server/transactions"
	"github.com/hkondo/secretbase/internal/server/users"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  db.RepositoryManager
	server *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	repos, err := db.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := users.NewService(repos.Users(), []byte(c.SecretKey), c.TokenValidityDuration)
	ts := todos.NewService(repos.Todos())
	es := events.NewService(repos.Events())
	trs := transactions.NewService(repos.Transactions())
	cs := categories.NewService(repos.Categories())

	srv := httpapi.NewServer(c.EndpointAddr, logger, us, ts, es, trs, cs, c.SecretKey)

	return &App{config: c, logger: logger, repos: repos, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
