package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/filekeeper/internal/client/config"
	"github.com/dmitrijs2005/filekeeper/internal/client/models"
	"github.com/dmitrijs2005/filekeeper/internal/client/remote"
	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyRemote struct {
	*remote.Client
	down bool
}

func (f *flakyRemote) Send(ctx context.Context, req remote.Request) (remote.Reply, error) {
	if f.down {
		return remote.Reply{}, fmt.Errorf("%w: down", common.ErrReply)
	}
	return f.Client.Send(ctx, req)
}

func (f *flakyRemote) Ping(ctx context.Context) error {
	if f.down {
		return fmt.Errorf("%w: down", common.ErrReply)
	}
	return f.Client.Ping(ctx)
}

func newTestApp(t *testing.T) (*App, *flakyRemote, *miniredis.Miniredis) {
	t.Helper()
	ctx := context.Background()

	mr := miniredis.RunT(t)
	rc, err := remote.Dial(ctx, remote.Config{Addr: mr.Addr()}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DataDir = t.TempDir()

	fr := &flakyRemote{Client: rc}
	app, err := NewApp(ctx, cfg, fr, models.Node{IP: "10.0.0.1", MAC: "aa:bb", UUID: "N1"}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close(context.Background()) })

	return app, fr, mr
}

func stubCredentials(t *testing.T, username, password string) {
	t.Helper()
	oldText, oldPw := getSimpleText, getPassword
	t.Cleanup(func() { getSimpleText, getPassword = oldText, oldPw })

	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return username, nil }
	getPassword = func(io.Writer) ([]byte, error) { return []byte(password), nil }
}

func TestNewApp_CreatesStateDB(t *testing.T) {
	app, _, _ := newTestApp(t)

	_, err := os.Stat(filepath.Join(app.config.DataDir, StateDBName))
	require.NoError(t, err)
	assert.False(t, app.isLoggedIn())
	assert.Equal(t, "(online)", app.getStatus())
}

func TestApp_CommandFlow(t *testing.T) {
	ctx := context.Background()
	out := captureOutput(t)
	app, _, mr := newTestApp(t)

	stubCredentials(t, "alice", "pw")
	require.NoError(t, app.Register(ctx))
	assert.True(t, app.isLoggedIn())
	assert.Equal(t, "(alice online)", app.getStatus())
	assert.Equal(t, "alice", mr.HGet("node:N1:user:alice", "username"))

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 5000)), 0o600))

	require.NoError(t, app.Encrypt(ctx, path))
	require.NoError(t, app.List(ctx, false))
	require.NoError(t, app.List(ctx, true))
	require.NoError(t, app.Fingerprint(ctx, path))
	require.NoError(t, app.Whoami(ctx))
	require.NoError(t, app.Decrypt(ctx, path))
	require.NoError(t, app.Sync(ctx))
	require.NoError(t, app.Users(ctx))

	back, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 5000), string(back))

	require.NoError(t, app.Logout(ctx))
	assert.False(t, app.isLoggedIn())
	require.ErrorIs(t, app.Whoami(ctx), common.ErrNotLoggedIn)

	stubCredentials(t, "alice", "bad")
	require.ErrorIs(t, app.Login(ctx), common.ErrUnauthorized)

	stubCredentials(t, "alice", "pw")
	require.NoError(t, app.Login(ctx))

	joined := strings.Join(*out, "")
	assert.Contains(t, joined, "Registered alice")
	assert.Contains(t, joined, "Encrypted "+path)
	assert.Contains(t, joined, "report.pdf")
	assert.Contains(t, joined, "isonline: 1")
	assert.NotContains(t, joined, "password:")
	assert.Contains(t, joined, "Logged in as alice")
}

func TestApp_CheckOnlineFlushesQueue(t *testing.T) {
	ctx := context.Background()
	captureOutput(t)
	app, fr, mr := newTestApp(t)

	stubCredentials(t, "alice", "pw")
	fr.down = true
	app.checkOnline(ctx)
	assert.False(t, app.sess.Online())
	assert.Equal(t, "(offline)", app.getStatus())

	require.NoError(t, app.Register(ctx))
	n, err := app.syncService.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	fr.down = false
	app.checkOnline(ctx)
	assert.True(t, app.sess.Online())

	n, err = app.syncService.Pending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "alice", mr.HGet("node:N1:user:alice", "username"))
}

func TestStartOnlineStatusWatcher_StopsOnCancel(t *testing.T) {
	app, _, _ := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
		close(done)
	}()
	cancel()
	<-done

	// zero interval disables the watcher
	app.StartOnlineStatusWatcher(context.Background(), 0)
}
