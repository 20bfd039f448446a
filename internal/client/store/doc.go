// Package store is the local record store of the client.
//
// # Overview
//
// Each identity gets its own bbolt file under the data directory,
// <dir>/<identity>.db. Inside, records are grouped in one bucket per
// namespace and keyed by Key(namespace, fingerprint). Values are
// models.FileRecord in its fixed binary layout.
//
// Writes go through a single read-write transaction per call and are
// committed before Put returns. Reads run in read-only transactions and can
// proceed concurrently with a writer.
//
// Typical Usage
//
//	s, _ := store.Open(cfg.DataDir, "alice", store.DefaultOptions(), log)
//	defer s.Close()
//	_ = s.Put(ctx, "alice", rec)
//	rec, err := s.Get(ctx, "alice", fp)
//	if errors.Is(err, common.ErrorNotFound) { ... }
//	for rec, err := range s.List(ctx, "alice") { ... }
package store
