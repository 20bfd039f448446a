// Package session holds the state shared by the REPL and the background
// connectivity watcher.
package session

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/filekeeper/internal/client/models"
)

// Session is created once per process. All access goes through its methods,
// which take the lock.
type Session struct {
	mu sync.RWMutex

	node   models.Node
	user   *models.User
	online bool

	local  []models.FileRecord
	remote []models.FileRecord
}

func New(node models.Node) *Session {
	return &Session{node: node}
}

func (s *Session) Node() models.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.node
}

// User returns the bound user or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetUser binds u, wiping any previous user.
func (s *Session) SetUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil && s.user != u {
		s.user.Wipe()
	}
	s.user = u
	s.local = nil
	s.remote = nil
}

// ClearUser unbinds and wipes the current user.
func (s *Session) ClearUser() {
	s.SetUser(nil)
}

func (s *Session) Online() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online
}

// SetOnline stores the flag and reports whether it changed. The bound
// user is not touched: callers may hold it without the lock.
func (s *Session) SetOnline(v bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.online != v
	s.online = v
	return changed
}

func (s *Session) SetLocal(recs []models.FileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local = recs
}

func (s *Session) Local() []models.FileRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.local)
}

func (s *Session) AppendRemote(recs ...models.FileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remote = append(s.remote, recs...)
}

func (s *Session) ResetRemote() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remote = nil
}

func (s *Session) Remote() []models.FileRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.remote)
}
