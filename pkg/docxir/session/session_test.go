package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-note/docxir/pkg/docxir/docop"
	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

func TestNewSession(t *testing.T) {
	s := New("a.docx", nil)
	require.NotNil(t, s.Document)
	assert.NotEmpty(t, s.ID)
	assert.NotNil(t, s.Document.Relationships)
	assert.False(t, s.IsDirty)
	assert.Nil(t, s.LayoutCache)
	assert.Nil(t, s.LastOp)

	other := New("a.docx", nil)
	assert.NotEqual(t, s.ID, other.ID)
}

func TestDirtyFlagIsolation(t *testing.T) {
	tests := []struct {
		name      string
		act       func(s *Session)
		wantDirty bool
	}{
		{
			name:      "insert",
			act:       func(s *Session) { _, _ = s.Apply(docop.InsertText("x")) },
			wantDirty: true,
		},
		{
			name: "layout cache",
			act:  func(s *Session) { s.SetLayoutCache(42, time.Now()) },
		},
		{
			name: "last op",
			act:  func(s *Session) { s.SetLastOp(docop.InsertText("x")) },
		},
		{
			name: "empty insert",
			act:  func(s *Session) { _, _ = s.Apply(docop.InsertText("")) },
		},
		{
			name: "op that changes nothing",
			act:  func(s *Session) { _, _ = s.Apply(docop.Indent(-1)) },
		},
		{
			name: "rejected op",
			act: func(s *Session) {
				s.Applier = &CaretApplier{Caret: Caret{Block: 5}}
				_, _ = s.Apply(docop.InsertText("x"))
			},
		},
		{
			name: "nil op",
			act:  func(s *Session) { _, _ = s.Apply(nil) },
		},
		{
			name:      "replace document",
			act:       func(s *Session) { s.ReplaceDocument(ir.NewDocument()) },
			wantDirty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := ir.NewDocument()
			doc.Blocks = []ir.Block{ir.NewParagraph(ir.Plain("text"))}
			s := New("a.docx", doc)
			tt.act(s)
			assert.Equal(t, tt.wantDirty, s.IsDirty)
		})
	}
}

func TestApplyRecordsLastOp(t *testing.T) {
	s := New("a.docx", nil)
	op := docop.InsertText("hello")

	changed, err := s.Apply(op)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, op, s.LastOp)
	op.Text = "mutated"
	assert.Equal(t, "hello", s.LastOp.Text, "the recorded op is a copy")
	assert.Equal(t, "hello", ir.PlainText(s.Document.Blocks))

	_, err = s.Apply(docop.DeleteContent(docop.Backward, "page"))
	require.Error(t, err)
	assert.Equal(t, "hello", s.LastOp.Text, "rejected ops are not recorded")
}

func TestMarkSaved(t *testing.T) {
	s := New("a.docx", nil)
	_, err := s.Apply(docop.InsertText("x"))
	require.NoError(t, err)
	require.True(t, s.IsDirty)

	s.SetLayoutCache(3, time.Unix(10, 0))
	s.MarkSaved()
	assert.False(t, s.IsDirty)
	require.NotNil(t, s.LayoutCache)
	assert.Equal(t, 3, s.LayoutCache.LineCount)
	assert.True(t, s.LayoutCache.UpdatedAt.Equal(time.Unix(10, 0)))
}

func TestReplaceDocumentResetsCaret(t *testing.T) {
	s := New("a.docx", nil)
	_, err := s.Apply(docop.InsertText("one\ntwo"))
	require.NoError(t, err)
	s.SetLayoutCache(2, time.Now())

	s.ReplaceDocument(nil)
	assert.Nil(t, s.LayoutCache)
	assert.Empty(t, s.Document.Blocks)

	_, err = s.Apply(docop.InsertText("fresh"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", ir.PlainText(s.Document.Blocks))
}

func TestEditingSequence(t *testing.T) {
	s := New("a.docx", nil)
	ops := []*docop.Op{
		docop.FromInputEvent("insertText", "Hello"),
		docop.FromInputEvent("insertParagraph", ""),
		docop.FromInputEvent("insertText", "world wide"),
		docop.FromInputEvent("deleteWordBackward", ""),
		docop.FromInputEvent("deleteContentBackward", ""),
		docop.FromInputEvent("formatBold", ""),
		docop.FromInputEvent("formatJustifyCenter", ""),
		docop.FromInputEvent("formatBlock", "<H2>"),
	}
	for _, op := range ops {
		require.NotNil(t, op)
		_, err := s.Apply(op)
		require.NoError(t, err, op.String())
	}

	want := []ir.Block{
		ir.NewParagraph(ir.Plain("Hello")),
		&ir.Heading{Level: 2, Runs: []ir.Run{ir.NewRun("world", ir.RunStyle{Bold: true})}, Align: ir.AlignCenter},
	}
	assert.True(t, ir.Equal(want, s.Document.Blocks), "got %q", ir.PlainText(s.Document.Blocks))
	assert.True(t, s.IsDirty)
}

func TestManager(t *testing.T) {
	m := NewManagerWithConfig(ManagerConfig{})

	a, err := m.Open("a.docx", nil)
	require.NoError(t, err)
	b := New("b.docx", nil)
	b.OpenedAt = a.OpenedAt.Add(time.Second)
	require.NoError(t, m.Track(b))
	assert.Equal(t, 2, m.Len())

	got, ok := m.Get(a.ID)
	require.True(t, ok)
	assert.Same(t, a, got)

	assert.ErrorIs(t, m.Track(b), ErrSessionExists)

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a.docx", list[0].Path)
	assert.Equal(t, "b.docx", list[1].Path)

	assert.True(t, m.Close(a.ID))
	assert.False(t, m.Close(a.ID))
	_, ok = m.Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestManagerLimit(t *testing.T) {
	m := NewManagerWithConfig(ManagerConfig{MaxSessions: 1})

	s, err := m.Open("a.docx", nil)
	require.NoError(t, err)
	_, err = m.Open("b.docx", nil)
	assert.ErrorIs(t, err, ErrTooManySessions)

	m.Close(s.ID)
	_, err = m.Open("b.docx", nil)
	assert.NoError(t, err)
}

func TestManagerConcurrentUse(t *testing.T) {
	m := NewManagerWithConfig(ManagerConfig{MaxSessions: 10})

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := m.Open(fmt.Sprintf("%d.docx", i), nil)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	failed := 0
	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrTooManySessions)
			failed++
		}
	}
	assert.Equal(t, 10, failed)
	assert.Equal(t, 10, m.Len())
}
