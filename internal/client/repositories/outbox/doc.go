// Package outbox persists remote requests that failed to reach the remote
// store so they can be replayed in order once it is reachable again.
//
// Key Types
//
//   - type Repository        - contract used by services.SyncService
//   - type SQLiteRepository  - SQLite implementation over dbx.DBTX
//
// Typical Usage
//
//	repo := outbox.NewSQLiteRepository(db)
//	_ = repo.Enqueue(ctx, item)
//	pend, _ := repo.Pending(ctx, 100)
//	_ = repo.MarkSynced(ctx, pend[0].ID)
package outbox
