package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/client/models"
	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Enqueue(ctx context.Context, item *models.OutboxItem) error {
	query := `INSERT INTO outbox (id, action, payload, created_at, attempts, last_error, synced)
			VALUES (?, ?, ?, ?, ?, ?, 0)`

	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Action, item.Payload, item.CreatedAt.UnixNano(), item.Attempts, item.LastError)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", item.Action, err)
	}
	return nil
}

func (r *SQLiteRepository) DropPendingDuplicates(ctx context.Context, action string, payload []byte) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM outbox WHERE synced = 0 AND action = ? AND payload = ?`, action, payload)
	if err != nil {
		return 0, fmt.Errorf("failed to drop duplicates of %s: %w", action, err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) Pending(ctx context.Context, limit int) ([]*models.OutboxItem, error) {
	query := `SELECT id, action, payload, created_at, attempts, last_error
			FROM outbox WHERE synced = 0 ORDER BY created_at, rowid LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error selecting outbox: %w", err)
	}
	defer rows.Close()

	var result []*models.OutboxItem

	for rows.Next() {
		var (
			item    = &models.OutboxItem{}
			created int64
		)
		if err := rows.Scan(&item.ID, &item.Action, &item.Payload, &created, &item.Attempts, &item.LastError); err != nil {
			return nil, err
		}
		item.CreatedAt = time.Unix(0, created).UTC()
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SQLiteRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox WHERE synced = 0`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count outbox: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	return r.updateOne(ctx, `UPDATE outbox SET synced = 1 WHERE id = ?`, id)
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return r.updateOne(ctx, `UPDATE outbox SET attempts = attempts + 1, last_error = ? WHERE id = ?`, reason, id)
}

func (r *SQLiteRepository) updateOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update outbox: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("outbox item %v: %w", args[len(args)-1], common.ErrorNotFound)
	}

	return nil
}
