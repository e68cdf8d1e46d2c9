package docop

import (
	"math"
	"strconv"
	"strings"

	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

// pxPerPt is the CSS reference ratio of 96px to 72pt.
const pxPerPt = 96.0 / 72.0

type synthesizer func(data string) *Op

// textInsert kinds carry their text in the event data.
func textInsert(data string) *Op {
	if data == "" {
		return nil
	}
	return InsertText(data)
}

func fixed(op Op) synthesizer {
	return func(string) *Op {
		return op.Clone()
	}
}

func deletion(dir Direction, unit Unit) synthesizer {
	return fixed(Op{Type: TypeDeleteContent, Direction: dir, Unit: unit})
}

func toggle(s InlineStyle) synthesizer {
	return fixed(Op{Type: TypeApplyInlineStyle, Style: &s})
}

var inputEvents = map[string]synthesizer{
	"insertText":            textInsert,
	"insertReplacementText": textInsert,
	"insertFromPaste":       textInsert,
	"insertFromDrop":        textInsert,
	"insertFromYank":        textInsert,
	"insertCompositionText": textInsert,
	"insertLineBreak":       fixed(Op{Type: TypeInsertText, Text: "\n"}),
	"insertParagraph":       fixed(Op{Type: TypeInsertText, Text: "\n"}),

	"deleteContentBackward":  deletion(Backward, UnitCharacter),
	"deleteContentForward":   deletion(Forward, UnitCharacter),
	"deleteWordBackward":     deletion(Backward, UnitWord),
	"deleteWordForward":      deletion(Forward, UnitWord),
	"deleteSoftLineBackward": deletion(Backward, UnitLine),
	"deleteSoftLineForward":  deletion(Forward, UnitLine),
	"deleteHardLineBackward": deletion(Backward, UnitParagraph),
	"deleteHardLineForward":  deletion(Forward, UnitParagraph),
	"deleteEntireSoftLine":   deletion(Selection, UnitLine),
	"deleteByCut":            deletion(Selection, UnitSelection),
	"deleteByDrag":           deletion(Selection, UnitSelection),
	"deleteContent":          deletion(Selection, UnitSelection),

	"formatBold":          toggle(InlineStyle{Bold: Bool(true)}),
	"formatItalic":        toggle(InlineStyle{Italic: Bool(true)}),
	"formatUnderline":     toggle(InlineStyle{Underline: Bool(true)}),
	"formatStrikeThrough": toggle(InlineStyle{Strikethrough: Bool(true)}),
	"formatFontName":      fontName,
	"formatFontSize":      fontSize,

	"formatJustifyLeft":   fixed(*Align(ir.AlignLeft)),
	"formatJustifyCenter": fixed(*Align(ir.AlignCenter)),
	"formatJustifyRight":  fixed(*Align(ir.AlignRight)),
	"formatJustifyFull":   fixed(*Align(ir.AlignJustify)),
	"formatIndent":        fixed(*Indent(1)),
	"formatOutdent":       fixed(*Indent(-1)),
	"formatBlock":         blockType,
}

// FromInputEvent maps an InputEvent inputType and its data to an Op. It
// returns nil for kinds it does not know and for events that would not
// change anything, such as an insert without text.
func FromInputEvent(kind, data string) *Op {
	synth, ok := inputEvents[kind]
	if !ok {
		return nil
	}
	return synth(data)
}

// Kinds lists the input event kinds FromInputEvent recognizes.
func Kinds() []string {
	out := make([]string, 0, len(inputEvents))
	for k := range inputEvents {
		out = append(out, k)
	}
	return out
}

func fontName(data string) *Op {
	name := strings.Trim(strings.TrimSpace(data), `"'`)
	if name == "" {
		return nil
	}
	return ApplyInlineStyle(InlineStyle{Font: &name})
}

func fontSize(data string) *Op {
	pt, ok := parseSize(data)
	if !ok {
		return nil
	}
	return ApplyInlineStyle(InlineStyle{SizePt: &pt})
}

// parseSize reads "12", "12pt" or "16px" as points.
func parseSize(data string) (float64, bool) {
	v := strings.ToLower(strings.TrimSpace(data))
	px := false
	switch {
	case strings.HasSuffix(v, "pt"):
		v = strings.TrimSuffix(v, "pt")
	case strings.HasSuffix(v, "px"):
		v, px = strings.TrimSuffix(v, "px"), true
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return 0, false
	}
	if px {
		n /= pxPerPt
	}
	return n, true
}

// blockType accepts "h2" as well as "<h2>".
func blockType(data string) *Op {
	name := strings.NewReplacer("<", "", ">", "").Replace(data)
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	return Block(name)
}
