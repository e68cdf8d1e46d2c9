package diag

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-note/docxir/internal/logging"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "part and reason",
			err:  NewFormatError("word/styles.xml", "malformed styles", nil),
			want: "format error in 'word/styles.xml': malformed styles",
		},
		{
			name: "wrapped cause",
			err:  NewFormatError("", "", ErrMissingDocumentPart),
			want: "format error: docxir: missing word/document.xml",
		},
		{
			name: "everything",
			err:  NewFormatError("word/media/a.png", "too large", ErrLimitExceeded),
			want: "format error in 'word/media/a.png': too large: docxir: limit exceeded",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.True(t, IsFormatError(tt.err))
		})
	}

	wrapped := fmt.Errorf("open: %w", NewFormatError("", "not a zip archive", nil))
	assert.True(t, IsFormatError(wrapped))
	assert.False(t, IsFormatError(errors.New("plain")))
	assert.ErrorIs(t, NewFormatError("x", "", ErrLimitExceeded), ErrLimitExceeded)
}

func TestWarningMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&MissingReferenceError{Kind: RefEmbed, ID: "rId9"}, "missing embed reference 'rId9'"},
		{&MissingReferenceError{Kind: RefStyle, ID: "Fancy"}, "missing style reference 'Fancy'"},
		{&UnsupportedConstructWarning{Element: "w:sdt"}, "unsupported construct <w:sdt> dropped"},
		{&UnsupportedConstructWarning{Element: "w:ins", Action: "flattened"}, "unsupported construct <w:ins> flattened"},
		{&MediaReadWarning{Part: "word/media/x.png", Err: errors.New("crc")}, "unreadable media entry 'word/media/x.png': crc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestWarnings(t *testing.T) {
	original := logging.GetLogger()
	t.Cleanup(func() { logging.SetLogger(original) })
	var buf bytes.Buffer
	logging.SetLogger(logging.NewLogger(&buf, logging.LogWarn))

	var w Warnings
	assert.Equal(t, "no warnings", w.String())
	assert.Nil(t, w.List())

	w.Add("word/document.xml", &MissingReferenceError{Kind: RefEmbed, ID: "rId4"})
	w.Add("ignored", nil)
	w.Merge([]Warning{{Cause: errors.New("bare")}})

	require.Equal(t, 2, w.Len())
	list := w.List()
	assert.Equal(t, "word/document.xml: missing embed reference 'rId4'", list[0].String())
	assert.Equal(t, "bare", list[1].String())
	assert.Equal(t, "2 warnings:\n  [1] word/document.xml: missing embed reference 'rId4'\n  [2] bare", w.String())

	text, err := list[0].MarshalText()
	require.NoError(t, err)
	assert.Equal(t, list[0].String(), string(text))

	list[0] = Warning{}
	assert.Equal(t, "word/document.xml", w.List()[0].Part, "List returns a copy")

	assert.Contains(t, buf.String(), "rId4")
	assert.NotContains(t, buf.String(), "bare", "merged warnings are not logged twice")
}
