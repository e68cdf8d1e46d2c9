// Package session holds the editing state of one open document: its IR,
// the dirty flag, the last applied operation and the layout summary shown
// by the editor.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumina-note/docxir/internal/logging"
	"github.com/lumina-note/docxir/pkg/docxir/container"
	"github.com/lumina-note/docxir/pkg/docxir/diag"
	"github.com/lumina-note/docxir/pkg/docxir/docop"
	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

// LayoutCache is the result of the last layout pass.
type LayoutCache struct {
	LineCount int       `json:"lineCount"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Session is owned by a single editing surface and is not safe for
// concurrent use.
type Session struct {
	ID       string       `json:"id"`
	Path     string       `json:"path"`
	Document *ir.Document `json:"document"`
	// IsDirty is set by content-changing operations and cleared only by
	// MarkSaved.
	IsDirty     bool         `json:"isDirty"`
	LayoutCache *LayoutCache `json:"layoutCache,omitempty"`
	LastOp      *docop.Op    `json:"lastOp,omitempty"`
	OpenedAt    time.Time    `json:"openedAt"`
	// Warnings are the recovered problems met while opening.
	Warnings []diag.Warning `json:"warnings,omitempty"`

	// Package is the container the document was decoded from. Saving
	// re-encodes it so parts outside the IR survive.
	Package *container.Package `json:"-"`
	// Applier applies operations; nil means a CaretApplier at the start
	// of the document.
	Applier Applier `json:"-"`
}

// New creates a clean session for doc with a fresh id.
func New(path string, doc *ir.Document) *Session {
	if doc == nil {
		doc = ir.NewDocument()
	}
	doc.EnsureMaps()
	return &Session{
		ID:       uuid.NewString(),
		Path:     path,
		Document: doc,
		OpenedAt: time.Now(),
	}
}

// Apply applies op to the document and records it as the last operation.
// It reports whether the document changed. The dirty flag is raised only
// when the document changed and op is a content mutation.
func (s *Session) Apply(op *docop.Op) (bool, error) {
	if op == nil {
		return false, nil
	}
	if s.Applier == nil {
		s.Applier = NewCaretApplier()
	}
	changed, err := s.Applier.Apply(s.Document, op)
	if err != nil {
		logging.WithFields(logging.Fields{"session": s.ID, "op": op.String()}).Debug("op rejected: %v", err)
		return false, err
	}
	s.LastOp = op.Clone()
	if changed && op.IsContentMutation() {
		s.IsDirty = true
	}
	return changed, nil
}

// SetLayoutCache records the line count of a layout pass.
func (s *Session) SetLayoutCache(lines int, at time.Time) {
	s.LayoutCache = &LayoutCache{LineCount: lines, UpdatedAt: at}
}

// SetLastOp records op without applying it.
func (s *Session) SetLastOp(op *docop.Op) {
	s.LastOp = op.Clone()
}

// MarkSaved clears the dirty flag once the caller has persisted the
// document.
func (s *Session) MarkSaved() {
	s.IsDirty = false
}

// ReplaceDocument swaps in a new IR, for instance after an HTML edit, and
// marks the session dirty. The layout summary is dropped.
func (s *Session) ReplaceDocument(doc *ir.Document) {
	if doc == nil {
		doc = ir.NewDocument()
	}
	doc.EnsureMaps()
	s.Document = doc
	s.IsDirty = true
	s.LayoutCache = nil
	if c, ok := s.Applier.(*CaretApplier); ok {
		c.Caret = Caret{}
	}
}
