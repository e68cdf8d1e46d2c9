package convert

import (
	"strings"

	"github.com/lumina-note/docxir/pkg/docxir/ir"
	"github.com/lumina-note/docxir/pkg/docxir/wml"
)

// markupOnly are body-level elements that carry no content of their own.
// They are skipped without a warning.
var markupOnly = map[string]bool{
	"bookmarkStart":         true,
	"bookmarkEnd":           true,
	"proofErr":              true,
	"permStart":             true,
	"permEnd":               true,
	"commentRangeStart":     true,
	"commentRangeEnd":       true,
	"moveFromRangeStart":    true,
	"moveFromRangeEnd":      true,
	"moveToRangeStart":      true,
	"moveToRangeEnd":        true,
	"lastRenderedPageBreak": true,
}

// classify decides which block variant a body element imports as.
// Heading styles win over list membership, and list membership over
// drawing-only content.
func (im *importer) classify(el wml.BodyElement) ir.BlockKind {
	switch v := el.(type) {
	case *wml.Paragraph:
		if _, ok := im.headingLevel(v); ok {
			return ir.KindHeading
		}
		if numID, _ := im.listRef(v); numID != "" {
			return ir.KindList
		}
		if len(drawingsOf(v)) > 0 && v.Text() == "" {
			return ir.KindImage
		}
		return ir.KindParagraph
	case *wml.Table:
		return ir.KindTable
	}
	return ir.KindUnsupported
}

// headingLevel reports the heading level of a paragraph from its style, or
// from a direct outline level.
func (im *importer) headingLevel(p *wml.Paragraph) (int, bool) {
	if lvl, ok := im.reg.Styles.HeadingLevel(p.Style()); ok {
		return lvl, true
	}
	if p.Props != nil && p.Props.OutlineLvl != nil {
		if lvl := *p.Props.OutlineLvl; lvl >= 0 && lvl < 9 {
			return ir.ClampHeadingLevel(lvl + 1), true
		}
	}
	return 0, false
}

// listRef returns the numbering instance and level of a list paragraph.
// numId "0" switches numbering off, even over a numbered style.
func (im *importer) listRef(p *wml.Paragraph) (numID string, level int) {
	if p.Props != nil && p.Props.NumPr != nil {
		numID, level = p.Props.NumPr.NumID, p.Props.NumPr.Level
	} else {
		numID = im.reg.Styles.NumID(p.Style())
	}
	if numID == "0" {
		return "", 0
	}
	return numID, level
}

// ordered decides whether a list numbers its items. The numbering
// definition decides; list-number styles are the fallback.
func (im *importer) ordered(p *wml.Paragraph, numID string, level int) bool {
	if o, found := im.reg.Numbering.Ordered(numID, level); found {
		return o
	}
	return strings.Contains(p.Style(), "ListNumber")
}

func drawingsOf(p *wml.Paragraph) []*wml.Drawing {
	var out []*wml.Drawing
	for _, r := range p.Runs() {
		for _, c := range r.Content {
			if d, ok := c.(*wml.Drawing); ok {
				out = append(out, d)
			}
		}
	}
	return out
}

func isEmptyParagraph(b ir.Block) bool {
	p, ok := b.(*ir.Paragraph)
	return ok && len(p.Runs) == 0 && p.Align == ir.AlignInherit && p.Indent == 0
}

// trimCell undoes the paragraph OOXML requires at the end of a table cell:
// a cell holding only an empty paragraph is empty, and an empty paragraph
// closing a cell after a nested table is dropped.
func trimCell(blocks []ir.Block) []ir.Block {
	n := len(blocks)
	switch {
	case n == 1 && isEmptyParagraph(blocks[0]):
		return nil
	case n >= 2 && isEmptyParagraph(blocks[n-1]) && blocks[n-2].Kind() == ir.KindTable:
		return blocks[:n-1]
	}
	return blocks
}
