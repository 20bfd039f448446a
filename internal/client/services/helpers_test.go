package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/filekeeper/internal/client/models"
	"github.com/dmitrijs2005/filekeeper/internal/client/remote"
	"github.com/dmitrijs2005/filekeeper/internal/client/repositories"
	"github.com/dmitrijs2005/filekeeper/internal/client/session"
	"github.com/dmitrijs2005/filekeeper/internal/client/store"
	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

// switchRemote forwards to a real client unless down is set.
type switchRemote struct {
	Remote
	down  bool
	calls []remote.ActionType
}

func (s *switchRemote) Send(ctx context.Context, req remote.Request) (remote.Reply, error) {
	s.calls = append(s.calls, req.Action())
	if s.down {
		return remote.Reply{}, fmt.Errorf("%w: connection refused", common.ErrReply)
	}
	return s.Remote.Send(ctx, req)
}

func (s *switchRemote) Ping(ctx context.Context) error {
	if s.down {
		return fmt.Errorf("%w: connection refused", common.ErrReply)
	}
	return s.Remote.Ping(ctx)
}

type testEnv struct {
	mr     *miniredis.Miniredis
	remote *switchRemote
	db     *sql.DB
	sess   *session.Session
	stores *Stores
	sync   SyncService
	users  UserService
	files  FileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvOn(t, models.Node{IP: "10.0.0.1", MAC: "aa:bb:cc:dd:ee:ff", UUID: "N1"})
}

func newTestEnvOn(t *testing.T, node models.Node) *testEnv {
	t.Helper()
	ctx := context.Background()
	log := logging.Discard()

	mr := miniredis.RunT(t)
	rc, err := remote.Dial(ctx, remote.Config{Addr: mr.Addr()}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	db, err := repositories.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sw := &switchRemote{Remote: rc}
	sess := session.New(node)
	stores := NewStores(t.TempDir(), store.DefaultOptions(), log)
	t.Cleanup(func() { _ = stores.Close() })

	sync := NewSyncService(sw, db, log)

	return &testEnv{
		mr:     mr,
		remote: sw,
		db:     db,
		sess:   sess,
		stores: stores,
		sync:   sync,
		users:  NewUserService(sess, sw, sync, stores, db, log),
		files:  NewFileService(sess, sw, sync, stores, log),
	}
}
