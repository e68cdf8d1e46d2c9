// Package docop defines the canonical document mutations an editing surface
// may request, and synthesizes them from browser input events.
//
// An Op is a plain value: synthesizing one never touches a document.
// Applying it is the job of a session applier.
package docop

import (
	"fmt"
	"strings"

	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

// Type names an operation on the wire.
type Type string

const (
	TypeInsertText          Type = "insert_text"
	TypeDeleteContent       Type = "delete_content"
	TypeApplyInlineStyle    Type = "apply_inline_style"
	TypeApplyParagraphStyle Type = "apply_paragraph_style"
)

// Direction is where a deletion extends from the caret.
type Direction string

const (
	Backward  Direction = "backward"
	Forward   Direction = "forward"
	Selection Direction = "selection"
)

// Unit is the extent of a deletion.
type Unit string

const (
	UnitCharacter Unit = "character"
	UnitWord      Unit = "word"
	UnitLine      Unit = "line"
	UnitParagraph Unit = "paragraph"
	UnitSelection Unit = "selection"
)

// ActionType selects the paragraph property an apply_paragraph_style op
// changes.
type ActionType string

const (
	ActionAlign  ActionType = "align"
	ActionIndent ActionType = "indent"
	ActionBlock  ActionType = "block"
)

// Op is one canonical mutation. Which fields are meaningful depends on
// Type:
//
//	insert_text            Text
//	delete_content         Direction, Unit
//	apply_inline_style     Style
//	apply_paragraph_style  Action
type Op struct {
	Type      Type             `json:"type"`
	Text      string           `json:"text,omitempty"`
	Direction Direction        `json:"direction,omitempty"`
	Unit      Unit             `json:"unit,omitempty"`
	Style     *InlineStyle     `json:"style,omitempty"`
	Action    *ParagraphAction `json:"action,omitempty"`
}

// InlineStyle is a partial run style: nil fields are left as they are.
type InlineStyle struct {
	Bold          *bool    `json:"bold,omitempty"`
	Italic        *bool    `json:"italic,omitempty"`
	Underline     *bool    `json:"underline,omitempty"`
	Strikethrough *bool    `json:"strikethrough,omitempty"`
	Font          *string  `json:"font,omitempty"`
	SizePt        *float64 `json:"sizePt,omitempty"`
}

// ParagraphAction is the payload of apply_paragraph_style.
type ParagraphAction struct {
	Type  ActionType `json:"type"`
	Align ir.Align   `json:"align,omitempty"`
	Delta int        `json:"delta,omitempty"`
	Block string     `json:"block,omitempty"`
}

// InsertText builds an insert_text op.
func InsertText(text string) *Op {
	return &Op{Type: TypeInsertText, Text: text}
}

// DeleteContent builds a delete_content op.
func DeleteContent(dir Direction, unit Unit) *Op {
	return &Op{Type: TypeDeleteContent, Direction: dir, Unit: unit}
}

// ApplyInlineStyle builds an apply_inline_style op.
func ApplyInlineStyle(s InlineStyle) *Op {
	return &Op{Type: TypeApplyInlineStyle, Style: &s}
}

// Align builds an apply_paragraph_style op setting the alignment.
func Align(a ir.Align) *Op {
	return &Op{Type: TypeApplyParagraphStyle, Action: &ParagraphAction{Type: ActionAlign, Align: a}}
}

// Indent builds an apply_paragraph_style op moving the indent by delta
// steps.
func Indent(delta int) *Op {
	return &Op{Type: TypeApplyParagraphStyle, Action: &ParagraphAction{Type: ActionIndent, Delta: delta}}
}

// Block builds an apply_paragraph_style op changing the block type, e.g.
// "p", "h2" or "ul".
func Block(name string) *Op {
	return &Op{Type: TypeApplyParagraphStyle, Action: &ParagraphAction{Type: ActionBlock, Block: name}}
}

// IsContentMutation reports whether applying the op changes the document.
// Empty inserts and empty styles change nothing.
func (o *Op) IsContentMutation() bool {
	if o == nil {
		return false
	}
	switch o.Type {
	case TypeInsertText:
		return o.Text != ""
	case TypeDeleteContent:
		return true
	case TypeApplyInlineStyle:
		return o.Style != nil && !o.Style.IsEmpty()
	case TypeApplyParagraphStyle:
		if o.Action == nil {
			return false
		}
		switch o.Action.Type {
		case ActionIndent:
			return o.Action.Delta != 0
		case ActionBlock:
			return o.Action.Block != ""
		}
		return true
	}
	return false
}

// Clone returns a deep copy.
func (o *Op) Clone() *Op {
	if o == nil {
		return nil
	}
	c := *o
	if o.Style != nil {
		s := o.Style.clone()
		c.Style = &s
	}
	if o.Action != nil {
		a := *o.Action
		c.Action = &a
	}
	return &c
}

func (o *Op) String() string {
	if o == nil {
		return "<nil>"
	}
	switch o.Type {
	case TypeInsertText:
		return fmt.Sprintf("%s(%q)", o.Type, o.Text)
	case TypeDeleteContent:
		return fmt.Sprintf("%s(%s, %s)", o.Type, o.Direction, o.Unit)
	case TypeApplyInlineStyle:
		return fmt.Sprintf("%s(%s)", o.Type, o.Style)
	case TypeApplyParagraphStyle:
		if o.Action != nil {
			switch o.Action.Type {
			case ActionAlign:
				return fmt.Sprintf("%s(align=%s)", o.Type, o.Action.Align)
			case ActionIndent:
				return fmt.Sprintf("%s(indent%+d)", o.Type, o.Action.Delta)
			case ActionBlock:
				return fmt.Sprintf("%s(block=%s)", o.Type, o.Action.Block)
			}
		}
	}
	return string(o.Type)
}

// IsEmpty reports whether no field is set.
func (s *InlineStyle) IsEmpty() bool {
	return s == nil || *s == InlineStyle{}
}

// Apply overlays the set fields on a run style.
func (s *InlineStyle) Apply(base ir.RunStyle) ir.RunStyle {
	if s == nil {
		return base
	}
	if s.Bold != nil {
		base.Bold = *s.Bold
	}
	if s.Italic != nil {
		base.Italic = *s.Italic
	}
	if s.Underline != nil {
		base.Underline = *s.Underline
	}
	if s.Strikethrough != nil {
		base.Strikethrough = *s.Strikethrough
	}
	if s.Font != nil {
		base.Font = *s.Font
	}
	if s.SizePt != nil {
		base.SizePt = *s.SizePt
	}
	return base
}

func (s InlineStyle) clone() InlineStyle {
	c := InlineStyle{}
	if s.Bold != nil {
		c.Bold = Bool(*s.Bold)
	}
	if s.Italic != nil {
		c.Italic = Bool(*s.Italic)
	}
	if s.Underline != nil {
		c.Underline = Bool(*s.Underline)
	}
	if s.Strikethrough != nil {
		c.Strikethrough = Bool(*s.Strikethrough)
	}
	if s.Font != nil {
		f := *s.Font
		c.Font = &f
	}
	if s.SizePt != nil {
		v := *s.SizePt
		c.SizePt = &v
	}
	return c
}

func (s *InlineStyle) String() string {
	if s.IsEmpty() {
		return "{}"
	}
	var parts []string
	flag := func(name string, v *bool) {
		if v != nil {
			parts = append(parts, fmt.Sprintf("%s=%t", name, *v))
		}
	}
	flag("bold", s.Bold)
	flag("italic", s.Italic)
	flag("underline", s.Underline)
	flag("strikethrough", s.Strikethrough)
	if s.Font != nil {
		parts = append(parts, fmt.Sprintf("font=%q", *s.Font))
	}
	if s.SizePt != nil {
		parts = append(parts, fmt.Sprintf("size=%gpt", *s.SizePt))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
