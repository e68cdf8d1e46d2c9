package diag

import (
	"fmt"
	"strings"

	"github.com/lumina-note/docxir/internal/logging"
)

// Warning is a recovered, non-fatal condition recorded while decoding,
// importing or exporting a document.
type Warning struct {
	Part  string
	Cause error
}

func (w Warning) String() string {
	if w.Part == "" {
		return w.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", w.Part, w.Cause)
}

// MarshalText renders the warning as its message in JSON and YAML dumps.
func (w Warning) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// Warnings collects warnings. The zero value is ready to use.
type Warnings struct {
	items []Warning
}

// Add records a warning (ignores nil causes) and logs it at warn level.
func (w *Warnings) Add(part string, cause error) {
	if cause == nil {
		return
	}
	w.items = append(w.items, Warning{Part: part, Cause: cause})
	logging.WithFields(logging.Fields{"part": part}).Warn("%v", cause)
}

// Merge appends all warnings from other without logging them again.
func (w *Warnings) Merge(other []Warning) {
	w.items = append(w.items, other...)
}

// Len returns the number of warnings
func (w *Warnings) Len() int {
	return len(w.items)
}

// List returns the recorded warnings in insertion order.
func (w *Warnings) List() []Warning {
	if len(w.items) == 0 {
		return nil
	}
	out := make([]Warning, len(w.items))
	copy(out, w.items)
	return out
}

func (w *Warnings) String() string {
	if len(w.items) == 0 {
		return "no warnings"
	}
	parts := []string{fmt.Sprintf("%d warnings:", len(w.items))}
	for i, item := range w.items {
		parts = append(parts, fmt.Sprintf("  [%d] %s", i+1, item))
	}
	return strings.Join(parts, "\n")
}
