package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/patrickmn/go-cache"

	"github.com/lumina-note/docxir/internal/config"
	"github.com/lumina-note/docxir/internal/logging"
	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

var (
	ErrTooManySessions = errors.New("too many open sessions")
	ErrSessionExists   = errors.New("session already open")
)

// ManagerConfig contains configuration options for the session registry
type ManagerConfig struct {
	// MaxSessions is the maximum number of open sessions. 0 means no limit.
	MaxSessions int
}

// Manager is the registry of open sessions, keyed by session id. Sessions
// never expire; they live until Close. It is safe for concurrent use,
// the sessions it hands out are not.
type Manager struct {
	// mu serializes the size check with the insert.
	mu     sync.Mutex
	store  *cache.Cache
	config ManagerConfig
}

// NewManager creates a registry sized from the global configuration
func NewManager() *Manager {
	return NewManagerWithConfig(ManagerConfig{
		MaxSessions: config.GetGlobalConfig().MaxSessions,
	})
}

// NewManagerWithConfig creates a registry with the given configuration
func NewManagerWithConfig(cfg ManagerConfig) *Manager {
	return &Manager{
		store:  cache.New(cache.NoExpiration, 0),
		config: cfg,
	}
}

// Open creates and registers a session for doc.
func (m *Manager) Open(path string, doc *ir.Document) (*Session, error) {
	s := New(path, doc)
	if err := m.Track(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Track registers a session built elsewhere, for instance by docxir.Open.
func (m *Manager) Track(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config.MaxSessions > 0 && m.store.ItemCount() >= m.config.MaxSessions {
		return fmt.Errorf("%w: limit is %d", ErrTooManySessions, m.config.MaxSessions)
	}
	if err := m.store.Add(s.ID, s, cache.NoExpiration); err != nil {
		return fmt.Errorf("%w: %s", ErrSessionExists, s.ID)
	}
	logging.WithFields(logging.Fields{"session": s.ID, "path": s.Path}).Debug("session opened")
	return nil
}

// Get returns the open session with the given id.
func (m *Manager) Get(id string) (*Session, bool) {
	x, ok := m.store.Get(id)
	if !ok {
		return nil, false
	}
	return x.(*Session), true
}

// Close forgets a session and reports whether it was open. Unsaved
// changes are discarded; callers check IsDirty first.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	x, ok := m.store.Get(id)
	if !ok {
		return false
	}
	m.store.Delete(id)
	s := x.(*Session)
	fields := logging.Fields{"session": id, "path": s.Path}
	if s.IsDirty {
		logging.WithFields(fields).Warn("closing session with unsaved changes")
	} else {
		logging.WithFields(fields).Debug("session closed")
	}
	return true
}

// List returns the open sessions, oldest first.
func (m *Manager) List() []*Session {
	items := m.store.Items()
	out := make([]*Session, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(*Session))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OpenedAt.Equal(out[j].OpenedAt) {
			return out[i].OpenedAt.Before(out[j].OpenedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	return m.store.ItemCount()
}
