package ir

import (
	"encoding/json"
	"fmt"
)

// BlockKind enumerates the closed set of block variants.
type BlockKind int

const (
	KindUnsupported BlockKind = iota
	KindParagraph
	KindHeading
	KindList
	KindTable
	KindImage
)

var blockKindNames = [...]string{
	KindUnsupported: "unsupported",
	KindParagraph:   "paragraph",
	KindHeading:     "heading",
	KindList:        "list",
	KindTable:       "table",
	KindImage:       "image",
}

func (k BlockKind) String() string {
	if k < 0 || int(k) >= len(blockKindNames) {
		return fmt.Sprintf("BlockKind(%d)", int(k))
	}
	return blockKindNames[k]
}

func (k BlockKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Block is one of *Paragraph, *Heading, *List, *Table, *Image or
// *Unsupported. The set is closed: the unexported method keeps other
// packages from adding variants.
type Block interface {
	Kind() BlockKind
	block()
}

// Align is a paragraph alignment. The empty value inherits.
type Align string

const (
	AlignInherit Align = ""
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "justify"
)

// ParseAlign accepts IR names and the OOXML jc values (start, end, both).
func ParseAlign(s string) (Align, bool) {
	switch s {
	case "left", "start":
		return AlignLeft, true
	case "center":
		return AlignCenter, true
	case "right", "end":
		return AlignRight, true
	case "justify", "both", "full":
		return AlignJustify, true
	case "":
		return AlignInherit, true
	}
	return AlignInherit, false
}

type Paragraph struct {
	Runs   []Run `json:"runs"`
	Align  Align `json:"align,omitempty"`
	Indent int   `json:"indent,omitempty"`
}

type Heading struct {
	Level int   `json:"level"`
	Runs  []Run `json:"runs"`
	Align Align `json:"align,omitempty"`
}

// List items are always flat; nested lists are folded into the parent
// item sequence on import.
type List struct {
	Ordered bool       `json:"ordered"`
	Items   []ListItem `json:"items"`
}

type ListItem struct {
	Runs []Run `json:"runs"`
}

type Table struct {
	Rows []TableRow `json:"rows"`
}

type TableRow struct {
	Cells []TableCell `json:"cells"`
}

type TableCell struct {
	Blocks []Block `json:"blocks"`
}

// Image references media by embed id. Sizes are EMU; zero means absent.
type Image struct {
	EmbedID     string `json:"embedId"`
	Description string `json:"description,omitempty"`
	WidthEMU    int64  `json:"widthEmu,omitempty"`
	HeightEMU   int64  `json:"heightEmu,omitempty"`
}

// Unsupported marks an element outside the modelled subset during
// classification. It never appears in an imported document.
type Unsupported struct {
	Element string `json:"element"`
}

func (*Paragraph) Kind() BlockKind   { return KindParagraph }
func (*Heading) Kind() BlockKind     { return KindHeading }
func (*List) Kind() BlockKind        { return KindList }
func (*Table) Kind() BlockKind       { return KindTable }
func (*Image) Kind() BlockKind       { return KindImage }
func (*Unsupported) Kind() BlockKind { return KindUnsupported }

func (*Paragraph) block()   {}
func (*Heading) block()     {}
func (*List) block()        {}
func (*Table) block()       {}
func (*Image) block()       {}
func (*Unsupported) block() {}

// NewParagraph builds a paragraph from runs.
func NewParagraph(runs ...Run) *Paragraph {
	return &Paragraph{Runs: runs}
}

// NewHeading builds a heading, clamping the level into 1..6.
func NewHeading(level int, runs ...Run) *Heading {
	return &Heading{Level: ClampHeadingLevel(level), Runs: runs}
}

// ClampHeadingLevel maps any level into 1..6.
func ClampHeadingLevel(level int) int {
	switch {
	case level < 1:
		return 1
	case level > 6:
		return 6
	}
	return level
}

// Runs returns the runs directly owned by a paragraph or heading.
func Runs(b Block) []Run {
	switch v := b.(type) {
	case *Paragraph:
		return v.Runs
	case *Heading:
		return v.Runs
	}
	return nil
}

func marshalTagged(kind BlockKind, v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	tag, _ := json.Marshal(kind.String())
	if len(body) == 2 { // "{}"
		return []byte(`{"type":` + string(tag) + `}`), nil
	}
	out := make([]byte, 0, len(body)+len(tag)+8)
	out = append(out, `{"type":`...)
	out = append(out, tag...)
	out = append(out, ',')
	out = append(out, body[1:]...)
	return out, nil
}

func (p *Paragraph) MarshalJSON() ([]byte, error) {
	type plain Paragraph
	return marshalTagged(KindParagraph, (*plain)(p))
}

func (h *Heading) MarshalJSON() ([]byte, error) {
	type plain Heading
	return marshalTagged(KindHeading, (*plain)(h))
}

func (l *List) MarshalJSON() ([]byte, error) {
	type plain List
	return marshalTagged(KindList, (*plain)(l))
}

func (t *Table) MarshalJSON() ([]byte, error) {
	type plain Table
	return marshalTagged(KindTable, (*plain)(t))
}

func (i *Image) MarshalJSON() ([]byte, error) {
	type plain Image
	return marshalTagged(KindImage, (*plain)(i))
}

func (u *Unsupported) MarshalJSON() ([]byte, error) {
	type plain Unsupported
	return marshalTagged(KindUnsupported, (*plain)(u))
}
