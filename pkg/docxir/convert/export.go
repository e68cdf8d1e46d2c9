package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lumina-note/docxir/internal/logging"
	"github.com/lumina-note/docxir/pkg/docxir/container"
	"github.com/lumina-note/docxir/pkg/docxir/diag"
	"github.com/lumina-note/docxir/pkg/docxir/geometry"
	"github.com/lumina-note/docxir/pkg/docxir/ir"
	"github.com/lumina-note/docxir/pkg/docxir/registry"
	"github.com/lumina-note/docxir/pkg/docxir/wml"
)

// indentStep is one IR indent level in twips (0.5in).
const indentStep = 720

// ExportResult is the outcome of exporting one story part.
type ExportResult struct {
	Part *wml.Part
	// Relationships is the complete relationship list of the exported
	// part: the template's non-image relationships and one image
	// relationship per referenced embed.
	Relationships []wml.Relationship
	Warnings      []diag.Warning
}

// Export converts blocks into a serialized document, header or footer
// part. Images without a resolvable embed become "[image: <id>]"
// placeholder paragraphs and a warning; export fails only when the part
// cannot be serialized.
func Export(blocks []ir.Block, reg *registry.Registry, opts ...ExportOption) ([]byte, *ExportResult, error) {
	res := ExportPart(blocks, reg, opts...)
	data, err := wml.MarshalPart(res.Part)
	if err != nil {
		return nil, nil, err
	}
	return data, res, nil
}

// ExportPart is Export without serialization.
func ExportPart(blocks []ir.Block, reg *registry.Registry, opts ...ExportOption) *ExportResult {
	var cfg exportConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if reg == nil {
		reg = registry.Empty()
	}
	if cfg.partName == "" {
		cfg.partName = cfg.kind.String()
	}
	if cfg.rels == nil {
		if cfg.kind == wml.PartDocument {
			cfg.rels = NewDocumentRelAllocator(nil, reg.Media)
		} else {
			cfg.rels = NewPartRelAllocator(nil, reg.Media)
		}
	}
	if cfg.lists == nil {
		cfg.lists = reg.Numbering.NewAllocator()
	}

	ex := &exporter{
		reg:   reg,
		cfg:   cfg,
		bases: make(map[string]registry.RunProps),
	}
	part := ex.newPart()
	ex.tableWidth = geometry.MMToTwips(geometry.Resolve(cfg.pageStyle).Body.WidthMM)
	part.Body.Elements = ex.blocks(blocks)
	if ex.pictures > 0 {
		part.EnsureDrawingNamespaces()
	}

	res := &ExportResult{
		Part:          part,
		Relationships: cfg.rels.Relationships(),
		Warnings:      ex.warnings.List(),
	}
	logging.WithFields(logging.Fields{
		"part":     cfg.partName,
		"blocks":   len(blocks),
		"images":   ex.pictures,
		"warnings": len(res.Warnings),
	}).Debug("exported story part")
	return res
}

type exporter struct {
	reg        *registry.Registry
	cfg        exportConfig
	bases      map[string]registry.RunProps
	warnings   diag.Warnings
	pictures   int
	tableWidth int
}

// base returns what the styles give a run in a paragraph of styleID, the
// same chain the importer resolves against.
func (ex *exporter) base(styleID string) registry.RunProps {
	if b, ok := ex.bases[styleID]; ok {
		return b
	}
	b := registry.Resolve(ex.reg.ParagraphDefaults(styleID, registry.RunProps{}), ex.reg.Styles.Defaults())
	ex.bases[styleID] = b
	return b
}

func (ex *exporter) warn(err error) {
	ex.warnings.Add(ex.cfg.partName, err)
}

// newPart starts from a copy of the template, or from an empty part of the
// configured kind. Document parts always get section properties.
func (ex *exporter) newPart() *wml.Part {
	var part *wml.Part
	if tpl := ex.cfg.template; tpl != nil {
		part = &wml.Part{
			Kind:    tpl.Kind,
			Name:    tpl.Name,
			Attrs:   append([]wml.Attr(nil), tpl.Attrs...),
			Leading: tpl.Leading,
			Body:    &wml.Body{},
		}
		if tpl.Body != nil && tpl.Body.SectPr != nil {
			part.Body.SectPr = &wml.SectPr{El: tpl.Body.SectPr.El.Clone()}
		}
	} else {
		part = wml.NewPart(ex.cfg.kind)
	}

	if part.Kind == wml.PartDocument {
		if part.Body.SectPr == nil {
			part.Body.SectPr = DefaultSectPr()
		}
		ApplyPageStyle(part.Body.SectPr, ex.cfg.pageStyle)
	}
	return part
}

func (ex *exporter) blocks(blocks []ir.Block) []wml.BodyElement {
	var out []wml.BodyElement
	for _, b := range blocks {
		switch v := b.(type) {
		case *ir.Paragraph:
			out = append(out, ex.paragraph(v))
		case *ir.Heading:
			out = append(out, ex.heading(v))
		case *ir.List:
			out = append(out, ex.list(v)...)
		case *ir.Table:
			if t := ex.table(v); t != nil {
				out = append(out, t)
			}
		case *ir.Image:
			out = append(out, ex.image(v))
		default:
			ex.warn(&diag.UnsupportedConstructWarning{Element: b.Kind().String(), Action: "dropped"})
		}
	}
	return out
}

func (ex *exporter) paragraph(p *ir.Paragraph) *wml.Paragraph {
	props := &wml.ParagraphProps{Justify: jcValue(p.Align)}
	if p.Indent > 0 {
		left := p.Indent * indentStep
		props.IndentLeft = &left
	}
	return &wml.Paragraph{Props: props, Content: ex.runs(p.Runs, "")}
}

func (ex *exporter) heading(h *ir.Heading) *wml.Paragraph {
	props := &wml.ParagraphProps{
		Style:   ex.reg.Styles.HeadingStyleID(h.Level),
		Justify: jcValue(h.Align),
	}
	return &wml.Paragraph{Props: props, Content: ex.runs(h.Runs, props.Style)}
}

// list writes one paragraph per item, all attached to a numbering instance
// of their own so adjacent lists stay apart on re-import.
func (ex *exporter) list(l *ir.List) []wml.BodyElement {
	if len(l.Items) == 0 {
		return nil
	}
	numID := ex.cfg.lists.Allocate(l.Ordered)
	style := ex.reg.Styles.ListParagraphStyleID()
	out := make([]wml.BodyElement, 0, len(l.Items))
	for _, item := range l.Items {
		out = append(out, &wml.Paragraph{
			Props:   &wml.ParagraphProps{Style: style, NumPr: &wml.NumPr{Level: 0, NumID: numID}},
			Content: ex.runs(item.Runs, style),
		})
	}
	return out
}

func (ex *exporter) table(t *ir.Table) *wml.Table {
	if len(t.Rows) == 0 {
		return nil
	}
	cols := 0
	for _, row := range t.Rows {
		if len(row.Cells) > cols {
			cols = len(row.Cells)
		}
	}
	out := &wml.Table{Props: wml.DefaultTableProps()}
	colWidth := 0
	if cols > 0 {
		colWidth = ex.tableWidth / cols
		for i := 0; i < cols; i++ {
			out.Grid = append(out.Grid, colWidth)
		}
	}
	for _, row := range t.Rows {
		r := &wml.TableRow{}
		for _, cell := range row.Cells {
			r.Cells = append(r.Cells, &wml.TableCell{
				Props:   wml.NewElement("w:tcPr").Append(wml.NewElement("w:tcW", "w:w", strconv.Itoa(colWidth), "w:type", "dxa")),
				Content: ex.blocks(cell.Blocks),
			})
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

func (ex *exporter) image(img *ir.Image) *wml.Paragraph {
	id, ok := ex.resolveImage(img.EmbedID)
	if !ok {
		ex.warn(&diag.MissingReferenceError{Kind: diag.RefEmbed, ID: img.EmbedID})
		return ex.paragraph(ir.NewParagraph(ir.Plain(fmt.Sprintf("[image: %s]", img.EmbedID))))
	}
	relID, ok := ex.cfg.rels.Allocate(id)
	if !ok {
		ex.warn(&diag.MissingReferenceError{Kind: diag.RefEmbed, ID: img.EmbedID})
		return ex.paragraph(ir.NewParagraph(ir.Plain(fmt.Sprintf("[image: %s]", img.EmbedID))))
	}

	ex.pictures++
	d := wml.NewInlinePicture(relID, img.WidthEMU, img.HeightEMU, ex.pictures,
		fmt.Sprintf("Picture %d", ex.pictures), img.Description)
	run := &wml.Run{Content: []wml.RunContent{d}}
	return &wml.Paragraph{Content: []wml.ParagraphContent{run}}
}

// resolveImage looks an embed up through the resolver and returns the
// registry id to reference. Media the registry lacks is registered under
// the requested id when it is free.
func (ex *exporter) resolveImage(embedID string) (string, bool) {
	if ex.cfg.resolver == nil || embedID == "" {
		return "", false
	}
	if d, ok := ex.reg.Media.Descriptor(embedID); ok && strings.EqualFold(d.TargetMode, wml.TargetModeExternal) {
		return embedID, true
	}
	embed, ok := ex.cfg.resolver.ResolveEmbed(embedID)
	if !ok || embed == nil {
		return "", false
	}
	if ex.reg.Media.Has(embedID) {
		return embedID, true
	}
	mimeType := embed.MIMEType
	if mimeType == "" {
		mimeType = container.DetectMIME("", embed.Data)
		embed = &registry.Embed{Data: embed.Data, MIMEType: mimeType}
	}
	return ex.reg.Media.PutEmbed(embedID, embed, container.ExtensionFor(mimeType)), true
}

func (ex *exporter) runs(runs []ir.Run, styleID string) []wml.ParagraphContent {
	base := ex.base(styleID)
	out := make([]wml.ParagraphContent, 0, len(runs))
	for _, r := range runs {
		run := &wml.Run{Props: styledRunProps(r.EffectiveStyle(), base)}
		run.AppendText(r.Text)
		if len(run.Content) == 0 {
			run.Content = []wml.RunContent{&wml.Text{}}
		}
		if run.Props.IsEmpty() {
			run.Props = nil
		}
		out = append(out, run)
	}
	return out
}

// styledRunProps writes each field of s that differs from base, what the
// paragraph style already supplies. A toggle the styles turn on is
// switched off explicitly; a font or size cannot be removed, only replaced.
func styledRunProps(s ir.RunStyle, base registry.RunProps) *wml.RunProps {
	p := &wml.RunProps{
		Bold:          override(s.Bold, base.Bold),
		Italic:        override(s.Italic, base.Italic),
		Strikethrough: override(s.Strikethrough, base.Strikethrough),
		Underline:     override(s.Underline, base.Underline),
	}
	if p.Underline != nil && *p.Underline {
		p.UnderlineVal = "single"
	}
	if s.Font != "" && (base.Font == nil || *base.Font != s.Font) {
		p.Fonts = &wml.Fonts{ASCII: s.Font, HAnsi: s.Font, CS: s.Font}
	}
	if s.SizePt > 0 && (base.SizePt == nil || *base.SizePt != s.SizePt) {
		p.SizeHalfPoints = wml.FormatHalfPoints(s.SizePt)
	}
	return p
}

func override(want bool, base *bool) *bool {
	have := base != nil && *base
	if want == have {
		return nil
	}
	return &want
}

func jcValue(a ir.Align) string {
	switch a {
	case ir.AlignLeft:
		return "left"
	case ir.AlignCenter:
		return "center"
	case ir.AlignRight:
		return "right"
	case ir.AlignJustify:
		return "both"
	}
	return ""
}
