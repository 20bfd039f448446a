package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/client/models"
	"github.com/dmitrijs2005/filekeeper/internal/client/remote"
	"github.com/dmitrijs2005/filekeeper/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/dbx"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/google/uuid"
)

const flushBatch = 100

// FlushResult summarizes one Flush run.
type FlushResult struct {
	Sent    int
	Dropped int
	Pending int
}

// SyncService delivers state-changing requests to the remote store and
// queues the ones that fail so local and remote state converge later.
type SyncService interface {
	// Deliver sends req. If the send fails for any reason and req changes
	// remote state it is queued; Flush drops what can never be delivered.
	// The send error is returned either way.
	Deliver(ctx context.Context, req remote.Request) (remote.Reply, error)
	Enqueue(ctx context.Context, req remote.Request, cause error) error
	// Flush replays queued requests in order and stops at the first
	// delivery failure.
	Flush(ctx context.Context) (FlushResult, error)
	Pending(ctx context.Context) (int, error)
}

type syncService struct {
	remote Remote
	db     *sql.DB
	log    logging.Logger
	now    func() time.Time
}

func NewSyncService(r Remote, db *sql.DB, log logging.Logger) SyncService {
	return &syncService{remote: r, db: db, log: log.With("service", "sync"), now: time.Now}
}

func queueable(t remote.ActionType) bool {
	switch t {
	case remote.ActionSetNode, remote.ActionRegisterUser, remote.ActionLogin, remote.ActionFileCrypt:
		return true
	default:
		return false
	}
}

func (s *syncService) Deliver(ctx context.Context, req remote.Request) (remote.Reply, error) {
	rep, err := s.remote.Send(ctx, req)
	if err == nil {
		return rep, nil
	}

	if queueable(req.Action()) {
		if qerr := s.Enqueue(ctx, req, err); qerr != nil {
			s.log.Error(ctx, "queueing failed request", "action", req.Action().String(), "err", qerr)
		}
	}
	return remote.Reply{}, err
}

func (s *syncService) Enqueue(ctx context.Context, req remote.Request, cause error) error {
	payload, err := json.Marshal(req.Params())
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	item := &models.OutboxItem{
		ID:        uuid.NewString(),
		Action:    req.Action().String(),
		Payload:   payload,
		CreatedAt: s.now(),
	}
	if cause != nil {
		item.LastError = cause.Error()
	}

	err = dbx.InTx(ctx, s.db, outbox.NewSQLiteRepository, func(ctx context.Context, repo *outbox.SQLiteRepository) error {
		if _, err := repo.DropPendingDuplicates(ctx, item.Action, item.Payload); err != nil {
			return err
		}
		return repo.Enqueue(ctx, item)
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "request queued", "action", item.Action, "id", item.ID)
	return nil
}

func (s *syncService) Flush(ctx context.Context) (FlushResult, error) {
	var res FlushResult
	repo := outbox.NewSQLiteRepository(s.db)

	for {
		items, err := repo.Pending(ctx, flushBatch)
		if err != nil {
			return res, err
		}
		if len(items) == 0 {
			return res, nil
		}

		for _, item := range items {
			sent, err := s.replay(ctx, repo, item)
			if err != nil {
				n, cerr := repo.CountPending(ctx)
				if cerr != nil {
					s.log.Error(ctx, "counting queued requests", "err", cerr)
				}
				res.Pending = n
				return res, err
			}
			if sent {
				res.Sent++
			} else {
				res.Dropped++
			}
		}
	}
}

// replay returns false when the item can never be delivered and was dropped.
func (s *syncService) replay(ctx context.Context, repo outbox.Repository, item *models.OutboxItem) (bool, error) {
	drop := func(reason error) (bool, error) {
		s.log.Warn(ctx, "dropping queued request", "id", item.ID, "action", item.Action, "err", reason)
		if err := repo.MarkFailed(ctx, item.ID, reason.Error()); err != nil {
			return false, err
		}
		return false, repo.MarkSynced(ctx, item.ID)
	}

	action, ok := remote.ParseActionType(item.Action)
	if !ok {
		return drop(fmt.Errorf("%w: unknown action %q", common.ErrInvalidInput, item.Action))
	}

	var params map[string]string
	if err := json.Unmarshal(item.Payload, &params); err != nil {
		return drop(fmt.Errorf("%w: payload: %w", common.ErrInvalidInput, err))
	}

	_, err := s.remote.Send(ctx, remote.RawRequest{Type: action, Values: params})
	switch {
	case err == nil:
		s.log.Debug(ctx, "queued request delivered", "id", item.ID, "action", item.Action)
		return true, repo.MarkSynced(ctx, item.ID)
	case errors.Is(err, common.ErrInvalidInput):
		return drop(err)
	default:
		if merr := repo.MarkFailed(ctx, item.ID, err.Error()); merr != nil {
			s.log.Error(ctx, "marking queued request failed", "id", item.ID, "err", merr)
		}
		return false, err
	}
}

func (s *syncService) Pending(ctx context.Context) (int, error) {
	return outbox.NewSQLiteRepository(s.db).CountPending(ctx)
}
