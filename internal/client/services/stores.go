package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/filekeeper/internal/client/store"
	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
)

// Stores keeps the record store of the bound user open. At most one store is
// open at a time.
type Stores struct {
	dir  string
	opts store.Options
	log  logging.Logger

	mu       sync.Mutex
	identity string
	cur      *store.Store
}

func NewStores(dir string, opts store.Options, log logging.Logger) *Stores {
	return &Stores{dir: dir, opts: opts, log: log}
}

// Open switches to the store of identity, closing the previous one.
func (s *Stores) Open(identity string) (*store.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur != nil && s.identity == identity {
		return s.cur, nil
	}
	if err := s.closeLocked(); err != nil {
		s.log.Warn(context.Background(), "closing previous store", "err", err)
	}

	st, err := store.Open(s.dir, identity, s.opts, s.log)
	if err != nil {
		return nil, err
	}
	s.cur, s.identity = st, identity
	s.log.Debug(context.Background(), "store opened", "path", st.Path())
	return st, nil
}

// Current returns the open store or common.ErrNotLoggedIn.
func (s *Stores) Current() (*store.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return nil, common.ErrNotLoggedIn
	}
	return s.cur, nil
}

// Exists reports whether identity already has a store file.
func (s *Stores) Exists(identity string) bool {
	_, err := os.Stat(filepath.Join(s.dir, identity+".db"))
	return err == nil
}

func (s *Stores) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Stores) closeLocked() error {
	if s.cur == nil {
		return nil
	}
	err := s.cur.Close()
	s.cur, s.identity = nil, ""
	return err
}
