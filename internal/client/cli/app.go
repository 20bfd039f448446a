package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/client/config"
	"github.com/dmitrijs2005/filekeeper/internal/client/models"
	"github.com/dmitrijs2005/filekeeper/internal/client/repositories"
	"github.com/dmitrijs2005/filekeeper/internal/client/services"
	"github.com/dmitrijs2005/filekeeper/internal/client/session"
	"github.com/dmitrijs2005/filekeeper/internal/filex"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
)

// StateDBName is the client state database inside the data directory.
const StateDBName = "filekeeper.db"

type App struct {
	config *config.Config
	log    logging.Logger

	sess   *session.Session
	remote services.Remote
	db     *sql.DB
	stores *services.Stores

	userService services.UserService
	fileService services.FileService
	syncService services.SyncService

	reader *bufio.Reader
}

// NewApp builds the session and the services. rc must already be connected.
func NewApp(ctx context.Context, c *config.Config, rc services.Remote, node models.Node, log logging.Logger) (*App, error) {
	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	db, err := repositories.InitDatabase(ctx, filepath.Join(dir, StateDBName))
	if err != nil {
		log.Error(ctx, "error initializing database", "err", err)
		return nil, err
	}

	sess := session.New(node)
	sess.SetOnline(true)

	stores := services.NewStores(dir, c.StoreOptions(), log)
	sync := services.NewSyncService(rc, db, log)

	return &App{
		config:      c,
		log:         log,
		sess:        sess,
		remote:      rc,
		db:          db,
		stores:      stores,
		userService: services.NewUserService(sess, rc, sync, stores, db, log),
		fileService: services.NewFileService(sess, rc, sync, stores, log),
		syncService: sync,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the connectivity watcher and blocks in the REPL until the user
// exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close(context.Background())

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	printlnFn("filekeeper (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

// Close logs the user out if needed and releases local resources.
func (a *App) Close(ctx context.Context) {
	if a.isLoggedIn() {
		if err := a.userService.Logout(ctx); err != nil {
			a.log.Warn(ctx, "logout on exit", "err", err)
		}
	}
	if err := a.stores.Close(); err != nil {
		a.log.Warn(ctx, "closing store", "err", err)
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn(ctx, "closing state database", "err", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.sess.User() != nil
}

func (a *App) getStatus() string {
	mode := "offline"
	if a.sess.Online() {
		mode = "online"
	}
	if u := a.sess.User(); u != nil {
		return fmt.Sprintf("(%s %s)", u.Username, mode)
	}
	return fmt.Sprintf("(%s)", mode)
}

// StartOnlineStatusWatcher pings the remote every interval and flips the
// session's online flag. When the remote comes back, queued requests are
// replayed.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.remote.Ping(pctx)
	cancel()

	online := err == nil
	if !a.sess.SetOnline(online) {
		return
	}

	if !online {
		a.log.Warn(ctx, "remote store unreachable, switched to offline mode", "err", err)
		return
	}

	a.log.Info(ctx, "remote store reachable, switched to online mode")
	res, err := a.syncService.Flush(ctx)
	if err != nil {
		a.log.Warn(ctx, "replaying queued requests", "err", err, "pending", res.Pending)
		return
	}
	if res.Sent > 0 || res.Dropped > 0 {
		a.log.Info(ctx, "queued requests replayed", "sent", res.Sent, "dropped", res.Dropped)
	}
}
