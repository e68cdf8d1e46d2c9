package convert

import (
	"fmt"

	"github.com/lumina-note/docxir/internal/logging"
	"github.com/lumina-note/docxir/pkg/docxir/diag"
	"github.com/lumina-note/docxir/pkg/docxir/ir"
	"github.com/lumina-note/docxir/pkg/docxir/registry"
	"github.com/lumina-note/docxir/pkg/docxir/wml"
)

// ImportResult is the outcome of importing one story part.
type ImportResult struct {
	Blocks []ir.Block
	// Part is the parsed part, usable as an export template.
	Part *wml.Part
	// PageStyle is read from the body's section properties; it is nil for
	// headers and footers and for documents without page setup.
	PageStyle *ir.DocxPageStyle
	Warnings  []diag.Warning
}

// Import parses a document, header or footer part and converts it into
// blocks. Only malformed XML is an error; everything the model cannot
// represent is dropped or flattened and reported as a warning.
func Import(partXML []byte, reg *registry.Registry, opts ...ImportOption) (*ImportResult, error) {
	cfg := newImportConfig(opts)
	part, err := wml.ParsePart(partXML)
	if err != nil {
		return nil, diag.NewFormatError(cfg.partName, "malformed story part", err)
	}
	return ImportPart(part, reg, opts...), nil
}

// ImportPart converts an already parsed part.
func ImportPart(part *wml.Part, reg *registry.Registry, opts ...ImportOption) *ImportResult {
	cfg := newImportConfig(opts)
	if reg == nil {
		reg = registry.Empty()
	}
	if cfg.partName == "" {
		cfg.partName = part.Kind.String()
	}

	im := &importer{reg: reg, cfg: cfg}
	var elements []wml.BodyElement
	var sectPr *wml.SectPr
	if part.Body != nil {
		elements = part.Body.Elements
		sectPr = part.Body.SectPr
	}

	res := &ImportResult{Part: part}
	res.Blocks = im.blocks(elements)
	if part.Kind == wml.PartDocument {
		res.PageStyle = PageStyleFromSectPr(sectPr)
	} else if len(res.Blocks) == 1 && isEmptyParagraph(res.Blocks[0]) {
		// a header or footer must hold a paragraph; a lone empty one is
		// no content
		res.Blocks = nil
	}
	res.Warnings = im.warnings.List()

	logging.WithFields(logging.Fields{
		"part":     cfg.partName,
		"blocks":   len(res.Blocks),
		"warnings": len(res.Warnings),
	}).Debug("imported story part")
	return res
}

func newImportConfig(opts []ImportOption) importConfig {
	var cfg importConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

type importer struct {
	reg      *registry.Registry
	cfg      importConfig
	warnings diag.Warnings
}

func (im *importer) warn(err error) {
	im.warnings.Add(im.cfg.partName, err)
}

// flatten expands block-level content controls and custom XML wrappers
// into their content.
func (im *importer) flatten(elements []wml.BodyElement) []wml.BodyElement {
	var out []wml.BodyElement
	for _, el := range elements {
		if g, ok := el.(*wml.BlockGroup); ok {
			im.warn(&diag.UnsupportedConstructWarning{Element: g.Name, Action: "flattened"})
			out = append(out, im.flatten(g.Content)...)
			continue
		}
		out = append(out, el)
	}
	return out
}

func (im *importer) blocks(elements []wml.BodyElement) []ir.Block {
	var (
		out       []ir.Block
		list      *ir.List
		listNumID string
		nested    bool
	)
	flush := func() {
		if list != nil {
			out = append(out, list)
			list = nil
		}
	}

	for _, el := range im.flatten(elements) {
		switch v := el.(type) {
		case *wml.Paragraph:
			switch im.classify(v) {
			case ir.KindHeading:
				flush()
				out = append(out, im.heading(v))
				out = append(out, im.images(v)...)
			case ir.KindList:
				numID, level := im.listRef(v)
				if list == nil || numID != listNumID {
					flush()
					list = &ir.List{Ordered: im.ordered(v, numID, level)}
					listNumID = numID
					nested = false
				}
				if level > 0 && !nested {
					im.warn(&diag.UnsupportedConstructWarning{Element: "w:ilvl", Action: "flattened"})
					nested = true
				}
				list.Items = append(list.Items, ir.ListItem{Runs: im.runs(v, v.Style())})
				if len(drawingsOf(v)) > 0 {
					im.warn(&diag.UnsupportedConstructWarning{Element: "w:drawing", Action: "dropped"})
				}
			case ir.KindImage:
				flush()
				out = append(out, im.images(v)...)
			default:
				flush()
				out = append(out, im.paragraph(v))
				out = append(out, im.images(v)...)
			}
		case *wml.Table:
			flush()
			out = append(out, im.table(v))
		case *wml.Element:
			if !markupOnly[v.Local()] {
				im.warn(&diag.UnsupportedConstructWarning{Element: v.Name, Action: "dropped"})
			}
		}
	}
	flush()
	return out
}

func (im *importer) paragraph(p *wml.Paragraph) *ir.Paragraph {
	out := &ir.Paragraph{Runs: im.runs(p, p.Style())}
	if p.Props != nil {
		out.Align, _ = ir.ParseAlign(p.Props.Justify)
		if p.Props.IndentLeft != nil && *p.Props.IndentLeft > 0 {
			out.Indent = (*p.Props.IndentLeft + indentStep/2) / indentStep
		}
	}
	return out
}

func (im *importer) heading(p *wml.Paragraph) *ir.Heading {
	level, _ := im.headingLevel(p)
	out := &ir.Heading{Level: level, Runs: im.runs(p, p.Style())}
	if p.Props != nil {
		out.Align, _ = ir.ParseAlign(p.Props.Justify)
	}
	return out
}

// runs converts the text-bearing runs of a paragraph. styleID is the
// paragraph style whose run properties apply; "" means the default
// paragraph style.
func (im *importer) runs(p *wml.Paragraph, styleID string) []ir.Run {
	var mark registry.RunProps
	if p.Props != nil {
		mark = runProps(p.Props.RunProps)
	}
	base := im.reg.ParagraphDefaults(styleID, mark)
	defaults := im.reg.Styles.Defaults()

	var out []ir.Run
	for _, r := range p.Runs() {
		if !r.HasText() {
			continue
		}
		inline := runProps(r.Props)
		if r.Props != nil {
			inline = inline.Over(im.reg.Styles.CharacterRunProps(r.Props.Style))
		}
		style := registry.Resolve(inline, base, defaults).Style()
		out = append(out, ir.NewRun(r.Text(), style))
	}
	return out
}

func (im *importer) images(p *wml.Paragraph) []ir.Block {
	var out []ir.Block
	for _, d := range drawingsOf(p) {
		if b := im.image(d); b != nil {
			out = append(out, b)
		}
	}
	return out
}

func (im *importer) image(d *wml.Drawing) ir.Block {
	if d.EmbedID == "" {
		im.warn(&diag.UnsupportedConstructWarning{Element: "w:drawing", Action: "dropped"})
		return nil
	}
	id := d.EmbedID
	resolved := true
	if im.cfg.embedMap != nil {
		id, resolved = im.cfg.embedMap[d.EmbedID]
	}
	if !resolved || !im.reg.Media.Has(id) {
		im.warn(&diag.MissingReferenceError{Kind: diag.RefEmbed, ID: d.EmbedID})
		return ir.NewParagraph(ir.Plain(fmt.Sprintf("[missing image: %s]", d.EmbedID)))
	}
	return &ir.Image{
		EmbedID:     id,
		Description: d.Description,
		WidthEMU:    d.Cx,
		HeightEMU:   d.Cy,
	}
}

func (im *importer) table(t *wml.Table) *ir.Table {
	out := &ir.Table{}
	for _, row := range t.Rows {
		var r ir.TableRow
		for _, cell := range row.Cells {
			r.Cells = append(r.Cells, ir.TableCell{Blocks: trimCell(im.blocks(cell.Content))})
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// runProps turns parsed w:rPr into the tri-state registry form. The
// character style is resolved separately.
func runProps(p *wml.RunProps) registry.RunProps {
	var out registry.RunProps
	if p == nil {
		return out
	}
	out.Bold = p.Bold
	out.Italic = p.Italic
	out.Underline = p.Underline
	out.Strikethrough = p.Strikethrough
	if name := p.Fonts.Name(); name != "" {
		out.Font = &name
	}
	if pt, ok := wml.ParseHalfPoints(p.SizeHalfPoints); ok {
		out.SizePt = &pt
	}
	return out
}
