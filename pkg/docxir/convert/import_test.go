package convert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-note/docxir/pkg/docxir/diag"
	"github.com/lumina-note/docxir/pkg/docxir/ir"
	"github.com/lumina-note/docxir/pkg/docxir/registry"
	"github.com/lumina-note/docxir/pkg/docxir/wml"
)

const testStylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:docDefaults>
    <w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault>
  </w:docDefaults>
  <w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/>
    <w:pPr><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>
  <w:style w:type="paragraph" w:styleId="Titre2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="Quote"><w:name w:val="Quote"/><w:basedOn w:val="Normal"/><w:rPr><w:i/></w:rPr></w:style>
  <w:style w:type="paragraph" w:styleId="Bulleted"><w:name w:val="Bulleted"/><w:pPr><w:numPr><w:numId w:val="1"/></w:numPr></w:pPr></w:style>
  <w:style w:type="paragraph" w:styleId="ListNumber"><w:name w:val="List Number"/></w:style>
  <w:style w:type="character" w:styleId="Strong"><w:name w:val="Strong"/><w:rPr><w:b/></w:rPr></w:style>
</w:styles>`

const testNumberingXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:abstractNum w:abstractNumId="0"><w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/></w:lvl></w:abstractNum>
  <w:abstractNum w:abstractNumId="1"><w:lvl w:ilvl="0"><w:numFmt w:val="decimal"/></w:lvl><w:lvl w:ilvl="1"><w:numFmt w:val="lowerLetter"/></w:lvl></w:abstractNum>
  <w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
  <w:num w:numId="2"><w:abstractNumId w:val="1"/></w:num>
</w:numbering>`

const rootOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
	` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
	` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
	` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
	` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`

func documentXML(body string) []byte {
	return []byte(rootOpen + `<w:body>` + body + `</w:body></w:document>`)
}

func headerXML(content string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
		` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">` + content + `</w:hdr>`)
}

func drawingXML(embedID, descr string) string {
	return `<w:r><w:drawing><wp:inline><wp:extent cx="952500" cy="476250"/>` +
		`<wp:docPr id="1" name="Picture 1" descr="` + descr + `"/>` +
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
		`<pic:pic><pic:blipFill><a:blip r:embed="` + embedID + `"/></pic:blipFill></pic:pic>` +
		`</a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`
}

var testPNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	doc := ir.NewDocument()
	doc.Relationships["rId7"] = ir.MediaDescriptor{
		ID:       "rId7",
		Type:     wml.RelTypeImage,
		Target:   "media/image1.png",
		MIMEType: "image/png",
	}
	doc.Media["rId7"] = testPNG
	reg, err := registry.New(doc, []byte(testStylesXML), []byte(testNumberingXML))
	require.NoError(t, err)
	return reg
}

func importBody(t *testing.T, reg *registry.Registry, body string) *ImportResult {
	t.Helper()
	res, err := Import(documentXML(body), reg)
	require.NoError(t, err)
	return res
}

func styled(text string, s ir.RunStyle) ir.Run {
	return ir.NewRun(text, s)
}

// base is what a run in a Normal paragraph resolves to with the test
// defaults.
func base(s ir.RunStyle) ir.RunStyle {
	if s.Font == "" {
		s.Font = "Calibri"
	}
	if s.SizePt == 0 {
		s.SizePt = 11
	}
	return s
}

func TestImportParagraph(t *testing.T) {
	reg := testRegistry(t)
	res := importBody(t, reg, `<w:p><w:pPr><w:jc w:val="both"/><w:ind w:left="1440"/></w:pPr>`+
		`<w:r><w:t xml:space="preserve">Hello </w:t></w:r><w:r><w:t>world</w:t><w:tab/><w:t>!</w:t><w:br/></w:r></w:p>`)

	require.Len(t, res.Blocks, 1)
	p, ok := res.Blocks[0].(*ir.Paragraph)
	require.True(t, ok)
	assert.Equal(t, ir.AlignJustify, p.Align)
	assert.Equal(t, 2, p.Indent)
	assert.Equal(t, []ir.Run{
		styled("Hello ", base(ir.RunStyle{})),
		styled("world\t!\n", base(ir.RunStyle{})),
	}, p.Runs)
	assert.Empty(t, res.Warnings)
}

func TestImportRunStylePrecedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want ir.RunStyle
	}{
		{
			name: "document defaults",
			body: `<w:p><w:r><w:t>x</w:t></w:r></w:p>`,
			want: base(ir.RunStyle{}),
		},
		{
			name: "paragraph style adds italic",
			body: `<w:p><w:pPr><w:pStyle w:val="Quote"/></w:pPr><w:r><w:t>x</w:t></w:r></w:p>`,
			want: base(ir.RunStyle{Italic: true}),
		},
		{
			name: "inline overrides paragraph style per field",
			body: `<w:p><w:pPr><w:pStyle w:val="Quote"/></w:pPr><w:r><w:rPr><w:b/><w:i w:val="0"/></w:rPr><w:t>x</w:t></w:r></w:p>`,
			want: base(ir.RunStyle{Bold: true}),
		},
		{
			name: "inline font keeps default size",
			body: `<w:p><w:r><w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial"/></w:rPr><w:t>x</w:t></w:r></w:p>`,
			want: base(ir.RunStyle{Font: "Arial"}),
		},
		{
			name: "inline size keeps default font",
			body: `<w:p><w:r><w:rPr><w:sz w:val="28"/></w:rPr><w:t>x</w:t></w:r></w:p>`,
			want: base(ir.RunStyle{SizePt: 14}),
		},
		{
			name: "paragraph mark properties",
			body: `<w:p><w:pPr><w:rPr><w:u w:val="single"/><w:strike/></w:rPr></w:pPr><w:r><w:t>x</w:t></w:r></w:p>`,
			want: base(ir.RunStyle{Underline: true, Strikethrough: true}),
		},
		{
			name: "character style",
			body: `<w:p><w:r><w:rPr><w:rStyle w:val="Strong"/></w:rPr><w:t>x</w:t></w:r></w:p>`,
			want: base(ir.RunStyle{Bold: true}),
		},
		{
			name: "inline beats character style",
			body: `<w:p><w:r><w:rPr><w:rStyle w:val="Strong"/><w:b w:val="0"/></w:rPr><w:t>x</w:t></w:r></w:p>`,
			want: base(ir.RunStyle{}),
		},
		{
			name: "underline none is off",
			body: `<w:p><w:pPr><w:rPr><w:u w:val="single"/></w:rPr></w:pPr><w:r><w:rPr><w:u w:val="none"/></w:rPr><w:t>x</w:t></w:r></w:p>`,
			want: base(ir.RunStyle{}),
		},
		{
			name: "heading inherits its style",
			body: `<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>x</w:t></w:r></w:p>`,
			want: base(ir.RunStyle{Bold: true, SizePt: 16}),
		},
		{
			name: "heading inline beats its style",
			body: `<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:rPr><w:i/><w:sz w:val="20"/></w:rPr><w:t>x</w:t></w:r></w:p>`,
			want: base(ir.RunStyle{Bold: true, Italic: true, SizePt: 10}),
		},
		{
			name: "list item inherits its style",
			body: `<w:p><w:pPr><w:pStyle w:val="Quote"/><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>x</w:t></w:r></w:p>`,
			want: base(ir.RunStyle{Italic: true}),
		},
		{
			name: "list item inline beats its style",
			body: `<w:p><w:pPr><w:pStyle w:val="Quote"/><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:rPr><w:i w:val="0"/><w:b/></w:rPr><w:t>x</w:t></w:r></w:p>`,
			want: base(ir.RunStyle{Bold: true}),
		},
	}

	reg := testRegistry(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := importBody(t, reg, tt.body)
			require.Len(t, res.Blocks, 1)
			runs := ir.Runs(res.Blocks[0])
			if l, ok := res.Blocks[0].(*ir.List); ok {
				require.Len(t, l.Items, 1)
				runs = l.Items[0].Runs
			}
			require.Len(t, runs, 1)
			assert.Equal(t, tt.want, runs[0].EffectiveStyle())
		})
	}
}

func TestImportHeadings(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		level int
		runs  []ir.Run
	}{
		{
			name:  "heading style id",
			body:  `<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>One</w:t></w:r></w:p>`,
			level: 1,
			runs:  []ir.Run{styled("One", base(ir.RunStyle{Bold: true, SizePt: 16}))},
		},
		{
			name:  "localized style found by name",
			body:  `<w:p><w:pPr><w:pStyle w:val="Titre2"/></w:pPr><w:r><w:t>Two</w:t></w:r></w:p>`,
			level: 2,
			runs:  []ir.Run{styled("Two", base(ir.RunStyle{}))},
		},
		{
			name:  "direct outline level",
			body:  `<w:p><w:pPr><w:outlineLvl w:val="3"/></w:pPr><w:r><w:t>Four</w:t></w:r></w:p>`,
			level: 4,
			runs:  []ir.Run{styled("Four", base(ir.RunStyle{}))},
		},
		{
			name:  "deep outline level clamps",
			body:  `<w:p><w:pPr><w:outlineLvl w:val="8"/></w:pPr><w:r><w:t>Deep</w:t></w:r></w:p>`,
			level: 6,
			runs:  []ir.Run{styled("Deep", base(ir.RunStyle{}))},
		},
		{
			name:  "inline turns style bold off",
			body:  `<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:rPr><w:b w:val="0"/></w:rPr><w:t>B</w:t></w:r></w:p>`,
			level: 1,
			runs:  []ir.Run{styled("B", base(ir.RunStyle{SizePt: 16}))},
		},
	}

	reg := testRegistry(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := importBody(t, reg, tt.body)
			require.Len(t, res.Blocks, 1)
			h, ok := res.Blocks[0].(*ir.Heading)
			require.True(t, ok, "got %T", res.Blocks[0])
			assert.Equal(t, tt.level, h.Level)
			assert.True(t, ir.RunsEqual(tt.runs, h.Runs), "runs %+v", h.Runs)
		})
	}
}

func TestImportHeadingWinsOverList(t *testing.T) {
	reg := testRegistry(t)
	res := importBody(t, reg, `<w:p><w:pPr><w:pStyle w:val="Heading1"/><w:numPr><w:ilvl w:val="0"/><w:numId w:val="2"/></w:numPr></w:pPr><w:r><w:t>1. Intro</w:t></w:r></w:p>`)
	require.Len(t, res.Blocks, 1)
	assert.Equal(t, ir.KindHeading, res.Blocks[0].Kind())
}

func TestImportLists(t *testing.T) {
	item := func(text string) string {
		return `<w:r><w:t>` + text + `</w:t></w:r>`
	}
	numbered := func(numID, ilvl, text string) string {
		return `<w:p><w:pPr><w:numPr><w:ilvl w:val="` + ilvl + `"/><w:numId w:val="` + numID + `"/></w:numPr></w:pPr>` + item(text) + `</w:p>`
	}

	t.Run("contiguous items group by instance", func(t *testing.T) {
		reg := testRegistry(t)
		res := importBody(t, reg,
			numbered("1", "0", "a")+numbered("1", "0", "b")+
				numbered("2", "0", "one")+
				`<w:p>`+item("break")+`</w:p>`+
				numbered("2", "0", "two"))

		require.Len(t, res.Blocks, 4)
		l1 := res.Blocks[0].(*ir.List)
		assert.False(t, l1.Ordered)
		require.Len(t, l1.Items, 2)
		assert.Equal(t, "b", ir.Text(l1.Items[1].Runs))

		l2 := res.Blocks[1].(*ir.List)
		assert.True(t, l2.Ordered)
		require.Len(t, l2.Items, 1)

		assert.Equal(t, ir.KindParagraph, res.Blocks[2].Kind())
		assert.Equal(t, ir.KindList, res.Blocks[3].Kind())
		assert.Empty(t, res.Warnings)
	})

	t.Run("nested levels flatten with one warning", func(t *testing.T) {
		reg := testRegistry(t)
		res := importBody(t, reg, numbered("2", "0", "a")+numbered("2", "1", "a.1")+numbered("2", "1", "a.2"))

		require.Len(t, res.Blocks, 1)
		l := res.Blocks[0].(*ir.List)
		assert.Len(t, l.Items, 3)
		require.Len(t, res.Warnings, 1)
		var w *diag.UnsupportedConstructWarning
		require.True(t, errors.As(res.Warnings[0].Cause, &w))
		assert.Equal(t, "flattened", w.Action)
	})

	t.Run("numbering from paragraph style", func(t *testing.T) {
		reg := testRegistry(t)
		res := importBody(t, reg, `<w:p><w:pPr><w:pStyle w:val="Bulleted"/></w:pPr>`+item("x")+`</w:p>`)
		require.Len(t, res.Blocks, 1)
		l, ok := res.Blocks[0].(*ir.List)
		require.True(t, ok)
		assert.False(t, l.Ordered)
	})

	t.Run("numId zero switches numbering off", func(t *testing.T) {
		reg := testRegistry(t)
		res := importBody(t, reg, `<w:p><w:pPr><w:pStyle w:val="Bulleted"/><w:numPr><w:numId w:val="0"/></w:numPr></w:pPr>`+item("x")+`</w:p>`)
		require.Len(t, res.Blocks, 1)
		assert.Equal(t, ir.KindParagraph, res.Blocks[0].Kind())
	})

	t.Run("unknown instance falls back to style name", func(t *testing.T) {
		reg := testRegistry(t)
		res := importBody(t, reg,
			`<w:p><w:pPr><w:pStyle w:val="ListNumber"/><w:numPr><w:ilvl w:val="0"/><w:numId w:val="9"/></w:numPr></w:pPr>`+item("x")+`</w:p>`+
				numbered("8", "0", "y"))
		require.Len(t, res.Blocks, 2)
		assert.True(t, res.Blocks[0].(*ir.List).Ordered)
		assert.False(t, res.Blocks[1].(*ir.List).Ordered)
	})

	t.Run("drawings in items are dropped", func(t *testing.T) {
		reg := testRegistry(t)
		res := importBody(t, reg, `<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr>`+item("x")+drawingXML("rId7", "")+`</w:p>`)
		require.Len(t, res.Blocks, 1)
		assert.Equal(t, ir.KindList, res.Blocks[0].Kind())
		require.Len(t, res.Warnings, 1)
	})
}

func TestImportImages(t *testing.T) {
	t.Run("drawing-only paragraph", func(t *testing.T) {
		reg := testRegistry(t)
		res := importBody(t, reg, `<w:p>`+drawingXML("rId7", "Logo")+`</w:p>`)
		require.Len(t, res.Blocks, 1)
		assert.Equal(t, &ir.Image{EmbedID: "rId7", Description: "Logo", WidthEMU: 952500, HeightEMU: 476250}, res.Blocks[0])
		assert.Empty(t, res.Warnings)
	})

	t.Run("text and drawing", func(t *testing.T) {
		reg := testRegistry(t)
		res := importBody(t, reg, `<w:p><w:r><w:t>See:</w:t></w:r>`+drawingXML("rId7", "")+`</w:p>`)
		require.Len(t, res.Blocks, 2)
		assert.Equal(t, "See:", ir.Text(ir.Runs(res.Blocks[0])))
		assert.Equal(t, ir.KindImage, res.Blocks[1].Kind())
	})

	t.Run("missing embed becomes placeholder", func(t *testing.T) {
		reg := testRegistry(t)
		res := importBody(t, reg, `<w:p>`+drawingXML("rId99", "")+`</w:p>`)
		require.Len(t, res.Blocks, 1)
		assert.Equal(t, "[missing image: rId99]", ir.Text(ir.Runs(res.Blocks[0])))
		require.Len(t, res.Warnings, 1)
		var missing *diag.MissingReferenceError
		require.True(t, errors.As(res.Warnings[0].Cause, &missing))
		assert.Equal(t, "rId99", missing.ID)
	})

	t.Run("header ids are mapped", func(t *testing.T) {
		reg := testRegistry(t)
		res, err := Import(headerXML(`<w:p>`+drawingXML("rId1", "")+`</w:p>`), reg,
			WithPartName("word/header1.xml"),
			WithEmbedMap(map[string]string{"rId1": "rId7"}))
		require.NoError(t, err)
		require.Len(t, res.Blocks, 1)
		assert.Equal(t, "rId7", res.Blocks[0].(*ir.Image).EmbedID)
	})

	t.Run("unmapped header id is missing", func(t *testing.T) {
		reg := testRegistry(t)
		res, err := Import(headerXML(`<w:p>`+drawingXML("rId7", "")+`</w:p>`), reg,
			WithPartName("word/header1.xml"),
			WithEmbedMap(map[string]string{}))
		require.NoError(t, err)
		require.Len(t, res.Blocks, 1)
		assert.Equal(t, ir.KindParagraph, res.Blocks[0].Kind())
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, "word/header1.xml", res.Warnings[0].Part)
	})
}

func TestImportTables(t *testing.T) {
	reg := testRegistry(t)
	res := importBody(t, reg, `<w:tbl><w:tblPr/><w:tblGrid><w:gridCol w:w="4000"/><w:gridCol w:w="4000"/></w:tblGrid>`+
		`<w:tr><w:tc><w:p><w:r><w:t>a</w:t></w:r></w:p></w:tc><w:tc><w:p/></w:tc></w:tr>`+
		`<w:tr><w:tc><w:tbl><w:tr><w:tc><w:p><w:r><w:t>inner</w:t></w:r></w:p></w:tc></w:tr></w:tbl><w:p/></w:tc>`+
		`<w:tc><w:p><w:r><w:t>x</w:t></w:r></w:p><w:p><w:r><w:t>y</w:t></w:r></w:p></w:tc></w:tr>`+
		`</w:tbl>`)

	require.Len(t, res.Blocks, 1)
	tbl, ok := res.Blocks[0].(*ir.Table)
	require.True(t, ok)
	require.Len(t, tbl.Rows, 2)

	assert.Len(t, tbl.Rows[0].Cells[0].Blocks, 1)
	assert.Empty(t, tbl.Rows[0].Cells[1].Blocks)

	nested := tbl.Rows[1].Cells[0].Blocks
	require.Len(t, nested, 1)
	assert.Equal(t, ir.KindTable, nested[0].Kind())
	assert.Len(t, tbl.Rows[1].Cells[1].Blocks, 2)
}

func TestImportUnsupported(t *testing.T) {
	reg := testRegistry(t)
	res := importBody(t, reg,
		`<w:bookmarkStart w:id="0" w:name="top"/>`+
			`<w:sdt><w:sdtPr/><w:sdtContent><w:p><w:r><w:t>inside</w:t></w:r></w:p></w:sdtContent></w:sdt>`+
			`<w:altChunk r:id="rId3"/>`+
			`<w:bookmarkEnd w:id="0"/>`)

	require.Len(t, res.Blocks, 1)
	assert.Equal(t, "inside", ir.Text(ir.Runs(res.Blocks[0])))

	require.Len(t, res.Warnings, 2)
	var w *diag.UnsupportedConstructWarning
	require.True(t, errors.As(res.Warnings[0].Cause, &w))
	assert.Equal(t, "flattened", w.Action)
	require.True(t, errors.As(res.Warnings[1].Cause, &w))
	assert.Equal(t, "dropped", w.Action)
	assert.Equal(t, "w:altChunk", w.Element)
}

func TestImportEmptyHeader(t *testing.T) {
	reg := testRegistry(t)
	res, err := Import(headerXML(`<w:p/>`), reg)
	require.NoError(t, err)
	assert.Empty(t, res.Blocks)
	assert.Nil(t, res.PageStyle)
	assert.Equal(t, wml.PartHeader, res.Part.Kind)
}

func TestImportPageStyle(t *testing.T) {
	reg := testRegistry(t)
	res := importBody(t, reg, `<w:p/><w:sectPr><w:pgSz w:w="12240" w:h="15840"/>`+
		`<w:pgMar w:top="1440" w:right="1080" w:bottom="1440" w:left="1080" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`)

	ps := res.PageStyle
	require.NotNil(t, ps)
	require.NotNil(t, ps.WidthMM)
	assert.InDelta(t, 215.9, *ps.WidthMM, 0.01)
	assert.InDelta(t, 279.4, *ps.HeightMM, 0.01)
	assert.InDelta(t, 25.4, *ps.MarginTopMM, 0.01)
	assert.InDelta(t, 19.05, *ps.MarginLeftMM, 0.01)
	assert.InDelta(t, 12.7, *ps.HeaderMM, 0.01)
	assert.InDelta(t, 12.7, *ps.FooterMM, 0.01)

	t.Run("no section properties", func(t *testing.T) {
		res := importBody(t, reg, `<w:p/>`)
		assert.Nil(t, res.PageStyle)
	})
}

func TestImportMalformed(t *testing.T) {
	_, err := Import([]byte(`<w:document xmlns:w="x"><w:body><w:p>`), registry.Empty(), WithPartName("word/document.xml"))
	require.Error(t, err)
	assert.True(t, diag.IsFormatError(err))
	assert.Contains(t, err.Error(), "word/document.xml")
}
