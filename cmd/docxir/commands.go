package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lumina-note/docxir/pkg/docxir"
	"github.com/lumina-note/docxir/pkg/docxir/convert"
	"github.com/lumina-note/docxir/pkg/docxir/diag"
	"github.com/lumina-note/docxir/pkg/docxir/docop"
	"github.com/lumina-note/docxir/pkg/docxir/geometry"
	"github.com/lumina-note/docxir/pkg/docxir/ir"
	"github.com/lumina-note/docxir/pkg/docxir/layout"
)

// InspectCmd prints the document model of a DOCX file.
type InspectCmd struct {
	File   string `arg:"" help:"DOCX file" type:"existingfile"`
	Format string `short:"f" help:"Output format" enum:"text,json,yaml" default:"text"`
}

type inspection struct {
	Path     string         `json:"path"`
	Document *ir.Document   `json:"document"`
	Warnings []diag.Warning `json:"warnings,omitempty"`
}

func (c *InspectCmd) Run(g *Globals) error {
	s, err := openDocument(context.Background(), c.File)
	if err != nil {
		return err
	}
	report := inspection{Path: c.File, Document: s.Document, Warnings: s.Warnings}
	switch c.Format {
	case "json":
		return writeJSON(g.Out, report)
	case "yaml":
		return writeYAML(g.Out, report)
	}

	doc := s.Document
	section := func(title string, blocks []ir.Block) {
		if len(blocks) == 0 {
			return
		}
		fmt.Fprintf(g.Out, "== %s ==\n%s\n", title, ir.PlainText(blocks))
	}
	section("header", doc.HeaderBlocks)
	section("body", doc.Blocks)
	section("footer", doc.FooterBlocks)
	fmt.Fprintf(g.Out, "blocks: %d, media: %d\n", len(doc.Blocks), len(doc.Media))
	for _, w := range s.Warnings {
		fmt.Fprintf(g.Out, "warning: %s\n", w)
	}
	return nil
}

// RoundtripCmd opens a DOCX file and saves it again.
type RoundtripCmd struct {
	In  string `arg:"" help:"DOCX file to read" type:"existingfile"`
	Out string `arg:"" help:"DOCX file to write" type:"path"`
}

func (c *RoundtripCmd) Run(g *Globals) error {
	ctx := context.Background()
	s, err := openDocument(ctx, c.In)
	if err != nil {
		return err
	}
	if err := docxir.ExportDocx(ctx, s, c.Out, docxir.FileStorage{}); err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "wrote %s (%d blocks, %d warnings)\n", c.Out, len(s.Document.Blocks), len(s.Warnings))
	return nil
}

// GeometryCmd prints the page geometry of a DOCX file, or the default
// geometry without one.
type GeometryCmd struct {
	File   string `arg:"" optional:"" help:"DOCX file" type:"existingfile"`
	Format string `short:"f" help:"Output format" enum:"text,json" default:"text"`
}

type geometryReport struct {
	PageSize string `json:"pageSize"`
	geometry.PageGeometry
}

func (c *GeometryCmd) Run(g *Globals) error {
	var style *ir.DocxPageStyle
	if c.File != "" {
		s, err := openDocument(context.Background(), c.File)
		if err != nil {
			return err
		}
		style = s.Document.PageStyle
	}
	pg := geometry.Resolve(style)
	name := "custom"
	if size, ok := geometry.Detect(pg.Page.WidthMM, pg.Page.HeightMM); ok {
		name = size.Name
	}
	if c.Format == "json" {
		return writeJSON(g.Out, geometryReport{PageSize: name, PageGeometry: pg})
	}

	fmt.Fprintf(g.Out, "page    %s %.2f x %.2f mm\n", name, pg.Page.WidthMM, pg.Page.HeightMM)
	for _, row := range []struct {
		label string
		box   geometry.Box
	}{
		{"body", pg.Body},
		{"header", pg.Header},
		{"footer", pg.Footer},
	} {
		fmt.Fprintf(g.Out, "%-7s x=%.2f y=%.2f w=%.2f h=%.2f\n",
			row.label, row.box.XMM, row.box.YMM, row.box.WidthMM, row.box.HeightMM)
	}
	return nil
}

// LayoutCmd estimates the line layout of a DOCX body.
type LayoutCmd struct {
	File    string  `arg:"" help:"DOCX file" type:"existingfile"`
	Font    string  `help:"Font file handed to the layout backend" type:"path"`
	Size    float64 `help:"Default font size in points" default:"11"`
	Spacing float64 `help:"Line spacing factor" default:"1.15"`
	Format  string  `short:"f" help:"Output format" enum:"text,json" default:"text"`
}

func (c *LayoutCmd) Run(g *Globals) error {
	ctx := context.Background()
	s, err := openDocument(ctx, c.File)
	if err != nil {
		return err
	}
	driver := layout.NewDriver(nil,
		layout.WithFontPath(c.Font),
		layout.WithDefaultSize(c.Size),
		layout.WithLineSpacing(c.Spacing))
	sum, err := driver.Refresh(ctx, s)
	if err != nil {
		return err
	}
	if c.Format == "json" {
		return writeJSON(g.Out, sum)
	}
	for _, p := range sum.Paragraphs {
		at := fmt.Sprint(p.Path)
		if p.Item >= 0 {
			at = fmt.Sprintf("%s item %d", at, p.Item)
		}
		fmt.Fprintf(g.Out, "%-20s %-9s lines=%d height=%.2fmm\n", at, p.Kind, len(p.Lines), p.HeightMM)
	}
	fmt.Fprintf(g.Out, "total lines=%d height=%.2fmm\n", sum.LineCount, sum.HeightMM)
	return nil
}

// OpCmd shows the operation an editor input event maps to.
type OpCmd struct {
	Kind string `arg:"" optional:"" help:"Input event kind, e.g. insertText or formatBold"`
	Data string `arg:"" optional:"" help:"Event data"`
	List bool   `short:"l" help:"List the recognized event kinds"`
}

func (c *OpCmd) Run(g *Globals) error {
	if c.List || c.Kind == "" {
		kinds := docop.Kinds()
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintln(g.Out, k)
		}
		return nil
	}
	op := docop.FromInputEvent(c.Kind, c.Data)
	if op == nil {
		fmt.Fprintf(g.Out, "%s: no operation\n", c.Kind)
		return nil
	}
	return writeJSON(g.Out, op)
}

// EditCmd applies editor input events to a DOCX file. The caret starts at
// the beginning of the body.
type EditCmd struct {
	In     string   `arg:"" help:"DOCX file to edit" type:"existingfile"`
	Out    string   `arg:"" help:"DOCX file to write" type:"path"`
	Events []string `short:"e" name:"event" help:"Input event as kind or kind=data; repeatable"`
}

func (c *EditCmd) Run(g *Globals) error {
	ctx := context.Background()
	s, err := openDocument(ctx, c.In)
	if err != nil {
		return err
	}
	applied := 0
	for _, ev := range c.Events {
		kind, data, _ := strings.Cut(ev, "=")
		op := docop.FromInputEvent(kind, data)
		if op == nil {
			fmt.Fprintf(g.Out, "skipped %s: no operation\n", kind)
			continue
		}
		if _, err := s.Apply(op); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		applied++
	}
	if !s.IsDirty {
		fmt.Fprintln(g.Out, "no changes")
		return nil
	}
	if err := docxir.ExportDocx(ctx, s, c.Out, docxir.FileStorage{}); err != nil {
		return err
	}
	s.MarkSaved()
	fmt.Fprintf(g.Out, "applied %d events, wrote %s\n", applied, c.Out)
	return nil
}

// HTMLCmd converts a DOCX body to the HTML surrogate, or an HTML file to
// a new DOCX. The direction follows the input extension.
type HTMLCmd struct {
	In  string `arg:"" help:"DOCX or HTML file" type:"existingfile"`
	Out string `short:"o" help:"Output file; HTML goes to stdout when empty" type:"path"`
}

func (c *HTMLCmd) Run(g *Globals) error {
	ctx := context.Background()
	switch strings.ToLower(filepath.Ext(c.In)) {
	case ".html", ".htm":
		if c.Out == "" {
			return errors.New("converting HTML needs --out")
		}
		src, err := os.ReadFile(c.In)
		if err != nil {
			return err
		}
		blocks, err := convert.FromHTML(string(src))
		if err != nil {
			return err
		}
		s, err := docxir.OpenBlank(c.Out)
		if err != nil {
			return err
		}
		doc := s.Document.Clone()
		doc.Blocks = blocks
		s.ReplaceDocument(doc)
		if err := docxir.ExportDocx(ctx, s, c.Out, docxir.FileStorage{}); err != nil {
			return err
		}
		fmt.Fprintf(g.Out, "wrote %s (%d blocks)\n", c.Out, len(blocks))
		return nil
	}

	s, err := openDocument(ctx, c.In)
	if err != nil {
		return err
	}
	out := convert.ToHTML(s.Document.Blocks)
	if c.Out == "" {
		_, err := io.WriteString(g.Out, out+"\n")
		return err
	}
	return docxir.FileStorage{}.WriteFile(ctx, c.Out, []byte(out))
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML goes through JSON so the block kind tags and field names match
// the JSON form.
func writeYAML(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var tree interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return err
	}
	return enc.Close()
}
