package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/client/models"
	"github.com/dmitrijs2005/filekeeper/internal/client/remote"
	"github.com/dmitrijs2005/filekeeper/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSync_OfflineWorkIsReplayed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.remote.down = true

	_, err := env.users.Register(ctx, "alice", []byte("pw"))
	require.NoError(t, err)

	path, _ := writeFile(t, "report.pdf", 5000)
	rec, err := env.files.Encrypt(ctx, path)
	require.NoError(t, err)

	n, err := env.sync.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	res, err := env.sync.Flush(ctx)
	require.ErrorIs(t, err, common.ErrReply)
	assert.Equal(t, 3, res.Pending)

	env.remote.down = false
	res, err = env.sync.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, FlushResult{Sent: 3}, res)

	assert.Equal(t, "N1", env.mr.HGet("node:N1", "uuid"))
	assert.Equal(t, "alice", env.mr.HGet("node:N1:user:alice", "username"))
	fp := strconv.FormatUint(rec.Fingerprint, 10)
	assert.Equal(t, "report.pdf", env.mr.HGet("node:N1:user:alice:files:"+fp, "filename"))

	n, err = env.sync.Pending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSync_ReadsAreNotQueued(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.remote.down = true

	_, err := env.sync.Deliver(ctx, remote.GetNodeRequest{NodeUUID: "N1"})
	require.ErrorIs(t, err, common.ErrReply)

	n, err := env.sync.Pending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSync_DuplicatesCollapse(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.remote.down = true

	req := remote.LoginRequest{NodeUUID: "N1", Username: "alice", Online: true}
	for i := 0; i < 3; i++ {
		_, err := env.sync.Deliver(ctx, req)
		require.Error(t, err)
	}

	n, err := env.sync.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSync_UndeliverableIsDropped(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	repo := outbox.NewSQLiteRepository(env.db)
	now := time.Now()
	require.NoError(t, repo.Enqueue(ctx, &models.OutboxItem{ID: "1", Action: "BOGUS", Payload: []byte(`{}`), CreatedAt: now}))
	require.NoError(t, repo.Enqueue(ctx, &models.OutboxItem{ID: "2", Action: "GET-NODE", Payload: []byte(`{}`), CreatedAt: now.Add(time.Millisecond)}))
	require.NoError(t, repo.Enqueue(ctx, &models.OutboxItem{ID: "3", Action: "SET-NODE", Payload: []byte(`not json`), CreatedAt: now.Add(2 * time.Millisecond)}))

	res, err := env.sync.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, FlushResult{Dropped: 3}, res)
}

func TestSync_EncodeFailureIsQueuedThenDropped(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	req := remote.RawRequest{Type: remote.ActionFileCrypt, Values: map[string]string{"uuid": "N1"}}
	_, err := env.sync.Deliver(ctx, req)
	require.ErrorIs(t, err, common.ErrInvalidInput)

	n, err := env.sync.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	res, err := env.sync.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, FlushResult{Dropped: 1}, res)

	n, err = env.sync.Pending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
