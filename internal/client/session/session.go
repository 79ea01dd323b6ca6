// Package session owns the single current-user identity. The session is
// persisted as one JSON-serialized slot on disk and restored across
// process restarts; all other components read it through this store.
package session

import (
	"encoding/json"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/nanolink/nanolink/internal/models"
)

// Listener is notified synchronously whenever the session changes. A nil
// session means logged out.
type Listener func(*models.Session)

// Store is the single authoritative holder of the current session.
// Dependents subscribe to change notifications rather than polling it.
type Store struct {
	mu        sync.Mutex
	path      string
	current   *models.Session
	listeners []Listener
	log       *zap.Logger
}

// NewStore constructs a Store persisting its slot at path.
func NewStore(path string, log *zap.Logger) *Store {
	return &Store{path: path, log: log}
}

// Restore reads a previously persisted session. An absent file means
// logged out. A present but unparseable file is purged and treated as
// absent; restoration never fails loudly.
func (s *Store) Restore() {
	s.mu.Lock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("cannot read persisted session", zap.Error(err))
		}
		s.current = nil
		s.mu.Unlock()
		return
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.ID == "" {
		s.log.Warn("purging corrupt persisted session", zap.Error(err))
		if err := os.Remove(s.path); err != nil {
			s.log.Warn("cannot purge session file", zap.Error(err))
		}
		s.current = nil
		s.mu.Unlock()
		return
	}

	s.current = &sess
	s.notifyAndUnlock()
}

// Login persists the session, overwriting any prior slot, and publishes
// it to all subscribers before returning.
func (s *Store) Login(sess models.Session) {
	s.mu.Lock()

	data, err := json.Marshal(&sess)
	if err != nil {
		s.log.Warn("cannot serialize session", zap.Error(err))
	} else if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.log.Warn("cannot persist session", zap.Error(err))
	}

	s.current = &sess
	s.notifyAndUnlock()
}

// Logout purges the persisted slot and publishes an empty session. It is
// a pure local state transition; any server-side invalidation is outside
// this store's concern.
func (s *Store) Logout() {
	s.mu.Lock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("cannot remove session file", zap.Error(err))
	}
	s.current = nil
	s.notifyAndUnlock()
}

// Current returns a read-only snapshot of the live session, or nil when
// logged out.
func (s *Store) Current() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	sess := *s.current
	return &sess
}

// Subscribe registers a listener for session changes. Listeners run
// synchronously inside Login, Logout and a successful Restore, so every
// component sees the new session before the mutating call returns.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// notifyAndUnlock snapshots state, releases the lock and then invokes
// the listeners, so a listener may call back into the store.
func (s *Store) notifyAndUnlock() {
	var snapshot *models.Session
	if s.current != nil {
		sess := *s.current
		snapshot = &sess
	}
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
