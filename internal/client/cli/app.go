package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/hkondo/secretbase/internal/client/api"
	"github.com/hkondo/secretbase/internal/client/config"
	"github.com/hkondo/secretbase/internal/client/repositories/metadata"
	"github.com/hkondo/secretbase/internal/client/services"
	"github.com/hkondo/secretbase/internal/client/session"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	session *session.Manager
	client  *api.Client
	todos   *services.TodoService
	db      *sql.DB
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := sql.Open("sqlite", c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("cannot open local database: %w", err)
	}

	if err := metadata.InitDatabase(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	sess := session.NewManager(metadata.NewSQLiteRepository(db))
	if err := sess.Restore(ctx); err != nil {
		log.Printf("cannot restore session: %s", err.Error())
	}

	client := api.NewClient(c.ServerBaseURL, sess, c.RequestTimeout)

	return &App{
		config:  c,
		session: sess,
		client:  client,
		todos:   services.NewTodoService(client),
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Current() != nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	go a.watchInvalidation(ctx)
	a.Root(ctx)
}

// watchInvalidation tells the user when the server rejected the stored token.
// The REPL itself notices on the next prompt because the login gate reads
// session state directly.
func (a *App) watchInvalidation(ctx context.Context) {
	sub := a.session.Subscribe()
	for {
		select {
		case <-sub:
			printlnFn("Session expired, please log in again.")
		case <-ctx.Done():
			return
		}
	}
}
