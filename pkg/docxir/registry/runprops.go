package registry

import (
	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

// RunProps is a tri-state view of run formatting: a nil field is absent
// and defers to the next level of the style hierarchy.
type RunProps struct {
	Bold          *bool
	Italic        *bool
	Underline     *bool
	Strikethrough *bool
	Font          *string
	SizePt        *float64
}

func boolPtr(v bool) *bool { return &v }

// Over fills every absent field of p from lower and returns the result.
// Fields are resolved independently.
func (p RunProps) Over(lower RunProps) RunProps {
	if p.Bold == nil {
		p.Bold = lower.Bold
	}
	if p.Italic == nil {
		p.Italic = lower.Italic
	}
	if p.Underline == nil {
		p.Underline = lower.Underline
	}
	if p.Strikethrough == nil {
		p.Strikethrough = lower.Strikethrough
	}
	if p.Font == nil {
		p.Font = lower.Font
	}
	if p.SizePt == nil {
		p.SizePt = lower.SizePt
	}
	return p
}

// Resolve folds levels from highest to lowest precedence.
func Resolve(levels ...RunProps) RunProps {
	var out RunProps
	for _, l := range levels {
		out = out.Over(l)
	}
	return out
}

// IsEmpty reports whether no field is present.
func (p RunProps) IsEmpty() bool {
	return p == RunProps{}
}

// Style collapses the tri-state into the IR style: absent and false both
// become false.
func (p RunProps) Style() ir.RunStyle {
	var s ir.RunStyle
	if p.Bold != nil {
		s.Bold = *p.Bold
	}
	if p.Italic != nil {
		s.Italic = *p.Italic
	}
	if p.Underline != nil {
		s.Underline = *p.Underline
	}
	if p.Strikethrough != nil {
		s.Strikethrough = *p.Strikethrough
	}
	if p.Font != nil {
		s.Font = *p.Font
	}
	if p.SizePt != nil && *p.SizePt > 0 {
		s.SizePt = *p.SizePt
	}
	return s
}

// PropsFromStyle turns an IR style into explicit properties. Flags that
// are false become absent.
func PropsFromStyle(s ir.RunStyle) RunProps {
	var p RunProps
	if s.Bold {
		p.Bold = boolPtr(true)
	}
	if s.Italic {
		p.Italic = boolPtr(true)
	}
	if s.Underline {
		p.Underline = boolPtr(true)
	}
	if s.Strikethrough {
		p.Strikethrough = boolPtr(true)
	}
	if s.Font != "" {
		font := s.Font
		p.Font = &font
	}
	if s.SizePt > 0 {
		size := s.SizePt
		p.SizePt = &size
	}
	return p
}
