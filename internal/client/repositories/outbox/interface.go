package outbox

import (
	"context"

	"github.com/dmitrijs2005/filekeeper/internal/client/models"
)

// Repository stores undelivered remote requests.
type Repository interface {
	// Enqueue inserts a new pending item.
	Enqueue(ctx context.Context, item *models.OutboxItem) error

	// DropPendingDuplicates removes pending items with the same action and
	// payload, returning how many were removed.
	DropPendingDuplicates(ctx context.Context, action string, payload []byte) (int64, error)

	// Pending returns up to limit unsynced items, oldest first.
	Pending(ctx context.Context, limit int) ([]*models.OutboxItem, error)

	// CountPending returns the number of unsynced items.
	CountPending(ctx context.Context) (int, error)

	// MarkSynced flags the item as delivered.
	MarkSynced(ctx context.Context, id string) error

	// MarkFailed bumps the attempt counter and records the last error.
	MarkFailed(ctx context.Context, id string, reason string) error
}
