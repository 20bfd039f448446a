package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/client/models"
	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/filex"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	bolt "go.etcd.io/bbolt"
)

const (
	DefaultMaxMapSize  = 10 * 1024 * 1024
	DefaultOpenTimeout = time.Second
)

// Options tune the underlying bbolt file.
type Options struct {
	// MaxMapSize is the initial size of the memory map.
	MaxMapSize int
	// OpenTimeout bounds the wait for the file lock.
	OpenTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{MaxMapSize: DefaultMaxMapSize, OpenTimeout: DefaultOpenTimeout}
}

// Store is a per-identity record store.
type Store struct {
	db   *bolt.DB
	path string
	log  logging.Logger
}

// Key composes the record key used for both writes and lookups.
func Key(namespace string, fp uint64) []byte {
	return []byte(namespace + ":" + strconv.FormatUint(fp, 10))
}

// Open creates dir when needed and opens the identity's store file.
func Open(dir, identity string, opts Options, log logging.Logger) (*Store, error) {
	if identity == "" || identity != filepath.Base(identity) {
		return nil, fmt.Errorf("%w: bad identity %q", common.ErrInvalidInput, identity)
	}
	if opts.MaxMapSize <= 0 {
		opts.MaxMapSize = DefaultMaxMapSize
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = DefaultOpenTimeout
	}

	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStore, err)
	}

	path := filepath.Join(abs, identity+".db")
	db, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout:         opts.OpenTimeout,
		InitialMmapSize: opts.MaxMapSize,
	})
	if err != nil {
		log.Error(context.Background(), "open store failed", "path", path, "err", err)
		return nil, fmt.Errorf("%w: open %s: %w", common.ErrStore, path, err)
	}

	return &Store{db: db, path: path, log: log.With("store", identity)}, nil
}

// Path returns the location of the store file.
func (s *Store) Path() string { return s.path }

// Put writes rec under Key(namespace, rec.Fingerprint), replacing any
// previous value. There is no retry.
func (s *Store) Put(ctx context.Context, namespace string, rec *models.FileRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if namespace == "" {
		return fmt.Errorf("%w: empty namespace", common.ErrInvalidInput)
	}

	val, err := rec.MarshalBinary()
	if err != nil {
		return err
	}

	key := Key(namespace, rec.Fingerprint)
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(namespace))
		if err != nil {
			return err
		}
		return b.Put(key, val)
	})
	if err != nil {
		s.log.Error(ctx, "put failed", "key", string(key), "err", err)
		return fmt.Errorf("%w: put %s: %w", common.ErrStore, key, err)
	}

	s.log.Debug(ctx, "record stored", "key", string(key))
	return nil
}

// Get returns the record stored for fp, or common.ErrorNotFound.
func (s *Store) Get(ctx context.Context, namespace string, fp uint64) (*models.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := Key(namespace, fp)
	rec := &models.FileRecord{}
	found := false

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(namespace))
		if b == nil {
			return nil
		}
		k, v := b.Cursor().Seek(key)
		if k == nil || !bytes.Equal(k, key) {
			return nil
		}
		found = true
		return rec.UnmarshalBinary(v)
	})
	if err != nil {
		s.log.Error(ctx, "get failed", "key", string(key), "err", err)
		return nil, fmt.Errorf("%w: get %s: %w", common.ErrStore, key, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", key, common.ErrorNotFound)
	}

	return rec, nil
}

var errStopped = errors.New("iteration stopped")

// List iterates the namespace in key order. Every range over the returned
// sequence runs its own read transaction, closed when the loop ends.
// The loop body must not write to the same store.
func (s *Store) List(ctx context.Context, namespace string) iter.Seq2[*models.FileRecord, error] {
	return func(yield func(*models.FileRecord, error) bool) {
		err := s.db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte(namespace))
			if b == nil {
				return nil
			}
			c := b.Cursor()
			for k, v := c.First(); k != nil; k, v = c.Next() {
				if err := ctx.Err(); err != nil {
					return err
				}

				rec := &models.FileRecord{}
				if err := rec.UnmarshalBinary(v); err != nil {
					s.log.Warn(ctx, "skipping bad record", "key", string(k), "err", err)
					if !yield(nil, fmt.Errorf("%w: %s: %w", common.ErrStore, k, err)) {
						return errStopped
					}
					continue
				}
				if !yield(rec, nil) {
					return errStopped
				}
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopped) {
			yield(nil, fmt.Errorf("%w: list %s: %w", common.ErrStore, namespace, err))
		}
	}
}

// Close releases the file lock and the memory map.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", common.ErrStore, err)
	}
	return nil
}
