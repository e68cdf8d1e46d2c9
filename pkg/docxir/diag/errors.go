// Package diag holds the error taxonomy and warning collector shared by the
// docxir packages.
//
// Only FormatError is ever returned to a caller. Missing references and
// unsupported constructs are recovered locally and surface as Warnings.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingDocumentPart = errors.New("docxir: missing word/document.xml")
	ErrLimitExceeded       = errors.New("docxir: limit exceeded")
)

// FormatError reports a malformed container, a malformed XML part or a
// missing mandatory part. It is fatal for the document being opened.
type FormatError struct {
	Part   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString("format error")
	if e.Part != "" {
		fmt.Fprintf(&b, " in '%s'", e.Part)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// NewFormatError creates a new format error
func NewFormatError(part, reason string, cause error) error {
	return &FormatError{Part: part, Reason: reason, Err: cause}
}

// IsFormatError checks if an error is (or wraps) a format error
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// ReferenceKind names what a dangling reference pointed at.
type ReferenceKind string

const (
	RefEmbed ReferenceKind = "embed"
	RefStyle ReferenceKind = "style"
)

// MissingReferenceError describes a dangling embed or style id.
type MissingReferenceError struct {
	Kind ReferenceKind
	ID   string
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("missing %s reference '%s'", e.Kind, e.ID)
}

// UnsupportedConstructWarning describes an OOXML feature outside the
// modelled subset that was dropped or flattened.
type UnsupportedConstructWarning struct {
	Element string
	Action  string // "dropped" or "flattened"
}

func (e *UnsupportedConstructWarning) Error() string {
	action := e.Action
	if action == "" {
		action = "dropped"
	}
	return fmt.Sprintf("unsupported construct <%s> %s", e.Element, action)
}

// MediaReadWarning reports a media entry that could not be read.
type MediaReadWarning struct {
	Part string
	Err  error
}

func (e *MediaReadWarning) Error() string {
	return fmt.Sprintf("unreadable media entry '%s': %v", e.Part, e.Err)
}

func (e *MediaReadWarning) Unwrap() error {
	return e.Err
}
