package docxir

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumina-note/docxir/pkg/docxir/session"
)

var ErrSessionNotFound = errors.New("session not found")

// Engine keeps the open sessions of an editor and the storage their paths
// resolve against. Use New() to create one.
type Engine struct {
	sessions *session.Manager
	store    Storage
	opts     []Option
}

// New creates an engine on the local file system with the session limit
// from the global configuration.
func New() *Engine {
	return &Engine{
		sessions: session.NewManager(),
		store:    FileStorage{},
	}
}

// NewWithStorage creates an engine reading and writing through store.
func NewWithStorage(store Storage, cfg session.ManagerConfig, opts ...Option) *Engine {
	return &Engine{
		sessions: session.NewManagerWithConfig(cfg),
		store:    store,
		opts:     opts,
	}
}

// OpenFile opens path and tracks the new session. A path that is already
// open returns its session.
func (e *Engine) OpenFile(ctx context.Context, path string) (*session.Session, error) {
	for _, s := range e.sessions.List() {
		if s.Path == path {
			return s, nil
		}
	}
	s, err := OpenFile(ctx, e.store, path, e.opts...)
	if err != nil {
		return nil, err
	}
	if err := e.sessions.Track(s); err != nil {
		return nil, err
	}
	return s, nil
}

// NewDocument tracks a session on a blank document that will be saved to
// path.
func (e *Engine) NewDocument(path string) (*session.Session, error) {
	s, err := OpenBlank(path)
	if err != nil {
		return nil, err
	}
	if err := e.sessions.Track(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Session returns a tracked session by id.
func (e *Engine) Session(id string) (*session.Session, bool) {
	return e.sessions.Get(id)
}

// Sessions lists the tracked sessions, oldest first.
func (e *Engine) Sessions() []*session.Session {
	return e.sessions.List()
}

// SaveSession writes a session back to its own path and clears its dirty
// flag.
func (e *Engine) SaveSession(ctx context.Context, id string) error {
	s, ok := e.sessions.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err := ExportDocx(ctx, s, s.Path, e.store); err != nil {
		return err
	}
	s.MarkSaved()
	return nil
}

// ExportSession writes a copy of a session to targetPath. The session
// stays dirty.
func (e *Engine) ExportSession(ctx context.Context, id, targetPath string) error {
	s, ok := e.sessions.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return ExportDocx(ctx, s, targetPath, e.store)
}

// CloseSession stops tracking a session. Unsaved changes are discarded.
func (e *Engine) CloseSession(id string) bool {
	return e.sessions.Close(id)
}
