package session

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lumina-note/docxir/pkg/docxir/docop"
	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

var (
	ErrCaretOutOfRange = errors.New("caret out of range")
	ErrNotTextBlock    = errors.New("caret is not in a paragraph or heading")
	ErrUnknownOp       = errors.New("unknown operation")
)

// Applier applies a canonical operation to a document in place and
// reports whether the document changed. A failed Apply leaves the
// document untouched.
type Applier interface {
	Apply(doc *ir.Document, op *docop.Op) (bool, error)
}

// Caret addresses a position in the top-level body blocks. Offset and
// Length count runes of the block text; Length > 0 is a selection
// starting at Offset.
type Caret struct {
	Block  int `json:"block"`
	Offset int `json:"offset"`
	Length int `json:"length,omitempty"`
}

// CaretApplier applies operations at its caret and moves the caret the
// way an editor would. Text inside lists and tables is not addressable;
// a caret on such a block only accepts block type changes.
type CaretApplier struct {
	Caret Caret
}

func NewCaretApplier() *CaretApplier {
	return &CaretApplier{}
}

func (a *CaretApplier) Apply(doc *ir.Document, op *docop.Op) (bool, error) {
	if op == nil {
		return false, nil
	}
	switch op.Type {
	case docop.TypeInsertText:
		return a.insert(doc, op.Text)
	case docop.TypeDeleteContent:
		return a.delete(doc, op.Direction, op.Unit)
	case docop.TypeApplyInlineStyle:
		return a.style(doc, op.Style)
	case docop.TypeApplyParagraphStyle:
		return a.paragraph(doc, op.Action)
	}
	return false, fmt.Errorf("%w: type %q", ErrUnknownOp, op.Type)
}

func runsOf(b ir.Block) (*[]ir.Run, bool) {
	switch v := b.(type) {
	case *ir.Paragraph:
		return &v.Runs, true
	case *ir.Heading:
		return &v.Runs, true
	}
	return nil, false
}

func (a *CaretApplier) block(doc *ir.Document) (ir.Block, error) {
	if a.Caret.Block < 0 || a.Caret.Block >= len(doc.Blocks) {
		return nil, fmt.Errorf("%w: block %d of %d", ErrCaretOutOfRange, a.Caret.Block, len(doc.Blocks))
	}
	return doc.Blocks[a.Caret.Block], nil
}

// target validates the caret and returns the runs it points into.
func (a *CaretApplier) target(doc *ir.Document) (*[]ir.Run, error) {
	b, err := a.block(doc)
	if err != nil {
		return nil, err
	}
	runs, ok := runsOf(b)
	if !ok {
		return nil, fmt.Errorf("%w: block %d is a %s", ErrNotTextBlock, a.Caret.Block, b.Kind())
	}
	if n := runeLen(*runs); a.Caret.Offset < 0 || a.Caret.Offset > n || a.Caret.Length < 0 {
		return nil, fmt.Errorf("%w: offset %d in block %d of length %d", ErrCaretOutOfRange, a.Caret.Offset, a.Caret.Block, n)
	}
	return runs, nil
}

// selectionEnd clamps the selection to the block text.
func (a *CaretApplier) selectionEnd(runs []ir.Run) int {
	end := a.Caret.Offset + a.Caret.Length
	if n := runeLen(runs); end > n {
		end = n
	}
	return end
}

func (a *CaretApplier) insert(doc *ir.Document, text string) (bool, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return false, nil
	}
	if len(doc.Blocks) == 0 && a.Caret == (Caret{}) {
		doc.Blocks = []ir.Block{ir.NewParagraph()}
	}
	runs, err := a.target(doc)
	if err != nil {
		return false, err
	}
	if a.Caret.Length > 0 {
		*runs = deleteRuns(*runs, a.Caret.Offset, a.selectionEnd(*runs))
		a.Caret.Length = 0
	}

	style := styleBefore(*runs, a.Caret.Offset)
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			runs = a.splitBlock(doc, runs)
		}
		if line != "" {
			*runs = insertRuns(*runs, a.Caret.Offset, line, style)
			a.Caret.Offset += utf8.RuneCountInString(line)
		}
	}
	return true, nil
}

// splitBlock breaks the caret block in two at the caret and moves the
// caret to the start of the new paragraph. The tail of a heading becomes
// a plain paragraph.
func (a *CaretApplier) splitBlock(doc *ir.Document, runs *[]ir.Run) *[]ir.Run {
	left, right := splitRuns(*runs, a.Caret.Offset)
	*runs = normalizeRuns(left)

	next := &ir.Paragraph{Runs: normalizeRuns(right)}
	if p, ok := doc.Blocks[a.Caret.Block].(*ir.Paragraph); ok {
		next.Align, next.Indent = p.Align, p.Indent
	}

	at := a.Caret.Block + 1
	doc.Blocks = append(doc.Blocks, nil)
	copy(doc.Blocks[at+1:], doc.Blocks[at:])
	doc.Blocks[at] = next

	a.Caret = Caret{Block: at}
	return &next.Runs
}

func (a *CaretApplier) delete(doc *ir.Document, dir docop.Direction, unit docop.Unit) (bool, error) {
	runs, err := a.target(doc)
	if err != nil {
		return false, err
	}
	n := runeLen(*runs)
	off := a.Caret.Offset
	from, to := off, off

	switch {
	case dir == docop.Selection && (unit == docop.UnitLine || unit == docop.UnitParagraph):
		from, to = 0, n
	case a.Caret.Length > 0 || dir == docop.Selection || unit == docop.UnitSelection:
		to = a.selectionEnd(*runs)
	case dir == docop.Backward:
		switch unit {
		case docop.UnitCharacter:
			from = off - 1
		case docop.UnitWord:
			from = wordStartBefore([]rune(ir.Text(*runs)), off)
		case docop.UnitLine, docop.UnitParagraph:
			from = 0
		default:
			return false, fmt.Errorf("%w: unit %q", ErrUnknownOp, unit)
		}
	case dir == docop.Forward:
		switch unit {
		case docop.UnitCharacter:
			to = off + 1
		case docop.UnitWord:
			to = wordEndAfter([]rune(ir.Text(*runs)), off)
		case docop.UnitLine, docop.UnitParagraph:
			to = n
		default:
			return false, fmt.Errorf("%w: unit %q", ErrUnknownOp, unit)
		}
	default:
		return false, fmt.Errorf("%w: direction %q", ErrUnknownOp, dir)
	}
	if from < 0 {
		from = 0
	}
	if to > n {
		to = n
	}

	if from == to {
		switch {
		case dir == docop.Backward && off == 0:
			return a.joinPrevious(doc, runs), nil
		case dir == docop.Forward && off == n:
			return a.joinNext(doc, runs), nil
		}
		return false, nil
	}
	*runs = deleteRuns(*runs, from, to)
	a.Caret.Offset, a.Caret.Length = from, 0
	return true, nil
}

// joinPrevious merges the caret block into the text block before it.
func (a *CaretApplier) joinPrevious(doc *ir.Document, runs *[]ir.Run) bool {
	i := a.Caret.Block
	if i == 0 {
		return false
	}
	prev, ok := runsOf(doc.Blocks[i-1])
	if !ok {
		return false
	}
	at := runeLen(*prev)
	*prev = concatRuns(*prev, *runs)
	doc.Blocks = append(doc.Blocks[:i], doc.Blocks[i+1:]...)
	a.Caret = Caret{Block: i - 1, Offset: at}
	return true
}

// joinNext pulls the text block after the caret block into it.
func (a *CaretApplier) joinNext(doc *ir.Document, runs *[]ir.Run) bool {
	i := a.Caret.Block
	if i+1 >= len(doc.Blocks) {
		return false
	}
	next, ok := runsOf(doc.Blocks[i+1])
	if !ok {
		return false
	}
	*runs = concatRuns(*runs, *next)
	doc.Blocks = append(doc.Blocks[:i+1], doc.Blocks[i+2:]...)
	return true
}

// style overlays s on the selection, or on the whole run holding the
// caret when nothing is selected.
func (a *CaretApplier) style(doc *ir.Document, s *docop.InlineStyle) (bool, error) {
	runs, err := a.target(doc)
	if err != nil {
		return false, err
	}
	if s.IsEmpty() {
		return false, nil
	}
	from, to := a.Caret.Offset, a.selectionEnd(*runs)
	if from == to {
		start, end, ok := runSpan(*runs, from)
		if !ok {
			return false, nil
		}
		from, to = start, end
	}

	left, rest := splitRuns(*runs, from)
	mid, right := splitRuns(rest, to-from)
	for i, r := range mid {
		mid[i] = ir.NewRun(r.Text, s.Apply(r.EffectiveStyle()))
	}
	next := concatRuns(left, mid, right)
	if ir.RunsEqual(normalizeRuns(*runs), next) {
		return false, nil
	}
	*runs = next
	return true, nil
}

func (a *CaretApplier) paragraph(doc *ir.Document, action *docop.ParagraphAction) (bool, error) {
	if action == nil {
		return false, nil
	}
	b, err := a.block(doc)
	if err != nil {
		return false, err
	}

	switch action.Type {
	case docop.ActionAlign:
		var align *ir.Align
		switch v := b.(type) {
		case *ir.Paragraph:
			align = &v.Align
		case *ir.Heading:
			align = &v.Align
		default:
			return false, fmt.Errorf("%w: block %d is a %s", ErrNotTextBlock, a.Caret.Block, b.Kind())
		}
		if *align == action.Align {
			return false, nil
		}
		*align = action.Align
		return true, nil

	case docop.ActionIndent:
		switch v := b.(type) {
		case *ir.Paragraph:
			indent := max(v.Indent+action.Delta, 0)
			if indent == v.Indent {
				return false, nil
			}
			v.Indent = indent
			return true, nil
		case *ir.Heading:
			return false, nil
		}
		return false, fmt.Errorf("%w: block %d is a %s", ErrNotTextBlock, a.Caret.Block, b.Kind())

	case docop.ActionBlock:
		return a.changeBlock(doc, strings.ToLower(strings.TrimSpace(action.Block)))
	}
	return false, fmt.Errorf("%w: paragraph action %q", ErrUnknownOp, action.Type)
}

// headingLevel parses "h1" to "h6".
func headingLevel(name string) int {
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return 0
}

// changeBlock converts the caret block to the named type: "p", "h1" to
// "h6", "ul" or "ol". Other names change nothing.
func (a *CaretApplier) changeBlock(doc *ir.Document, name string) (bool, error) {
	i := a.Caret.Block
	level := headingLevel(name)

	switch cur := doc.Blocks[i].(type) {
	case *ir.Paragraph, *ir.Heading:
		runs := ir.Runs(cur)
		align := ir.AlignInherit
		switch v := cur.(type) {
		case *ir.Paragraph:
			align = v.Align
		case *ir.Heading:
			align = v.Align
		}

		var next ir.Block
		switch {
		case name == "p":
			if _, ok := cur.(*ir.Paragraph); ok {
				return false, nil
			}
			next = &ir.Paragraph{Runs: runs, Align: align}
		case level > 0:
			if h, ok := cur.(*ir.Heading); ok && h.Level == level {
				return false, nil
			}
			next = &ir.Heading{Level: level, Runs: runs, Align: align}
		case name == "ul" || name == "ol":
			next = &ir.List{Ordered: name == "ol", Items: []ir.ListItem{{Runs: runs}}}
			a.Caret.Offset, a.Caret.Length = 0, 0
		default:
			return false, nil
		}
		doc.Blocks[i] = next
		return true, nil

	case *ir.List:
		switch {
		case name == "ul" || name == "ol":
			ordered := name == "ol"
			if cur.Ordered == ordered {
				return false, nil
			}
			cur.Ordered = ordered
			return true, nil
		case name == "p" || level > 0:
			blocks := make([]ir.Block, 0, len(cur.Items))
			for _, item := range cur.Items {
				if level > 0 {
					blocks = append(blocks, &ir.Heading{Level: level, Runs: item.Runs})
				} else {
					blocks = append(blocks, &ir.Paragraph{Runs: item.Runs})
				}
			}
			tail := append(blocks, doc.Blocks[i+1:]...)
			doc.Blocks = append(doc.Blocks[:i], tail...)
			a.Caret.Offset, a.Caret.Length = 0, 0
			return true, nil
		}
		return false, nil
	}
	return false, fmt.Errorf("%w: block %d is a %s", ErrNotTextBlock, i, doc.Blocks[i].Kind())
}
