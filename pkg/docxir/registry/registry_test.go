package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

const testStylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:docDefaults>
    <w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault>
  </w:docDefaults>
  <w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/>
    <w:pPr><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>
  <w:style w:type="paragraph" w:styleId="Kop2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="Outlined"><w:name w:val="Outlined"/><w:pPr><w:outlineLvl w:val="2"/></w:pPr></w:style>
  <w:style w:type="paragraph" w:styleId="Emphatic"><w:name w:val="Emphatic"/><w:basedOn w:val="Strong"/><w:rPr><w:i/></w:rPr></w:style>
  <w:style w:type="paragraph" w:styleId="Strong"><w:name w:val="Strong"/><w:rPr><w:b/><w:i w:val="0"/></w:rPr></w:style>
  <w:style w:type="paragraph" w:styleId="LoopA"><w:name w:val="LoopA"/><w:basedOn w:val="LoopB"/></w:style>
  <w:style w:type="paragraph" w:styleId="LoopB"><w:name w:val="LoopB"/><w:basedOn w:val="LoopA"/><w:rPr><w:u w:val="single"/></w:rPr></w:style>
</w:styles>`

const testNumberingXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:abstractNum w:abstractNumId="0"><w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/></w:lvl></w:abstractNum>
  <w:abstractNum w:abstractNumId="1"><w:lvl w:ilvl="0"><w:numFmt w:val="decimal"/></w:lvl><w:lvl w:ilvl="1"><w:numFmt w:val="lowerLetter"/></w:lvl></w:abstractNum>
  <w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
  <w:num w:numId="2"><w:abstractNumId w:val="1"/></w:num>
</w:numbering>`

func TestParseStyles(t *testing.T) {
	sheet, err := ParseStyles([]byte(testStylesXML))
	require.NoError(t, err)

	assert.Equal(t, 8, sheet.Len())
	assert.Equal(t, "Normal", sheet.DefaultParagraphStyle())
	assert.Empty(t, sheet.DefaultCharacterStyle(), "no character style is marked default")

	defaults := sheet.Defaults()
	require.NotNil(t, defaults.Font)
	assert.Equal(t, "Calibri", *defaults.Font)
	require.NotNil(t, defaults.SizePt)
	assert.Equal(t, 11.0, *defaults.SizePt)

	h1, ok := sheet.Lookup("Heading1")
	require.True(t, ok)
	assert.Equal(t, "Normal", h1.BasedOn)
	assert.Equal(t, 0, h1.OutlineLevel)
}

func TestParseStylesEmptyAndMalformed(t *testing.T) {
	sheet, err := ParseStyles(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, sheet.Len())

	_, err = ParseStyles([]byte("<w:styles><w:style"))
	assert.Error(t, err)
}

func TestHeadingLevel(t *testing.T) {
	sheet, err := ParseStyles([]byte(testStylesXML))
	require.NoError(t, err)

	tests := []struct {
		styleID string
		level   int
		ok      bool
	}{
		{"Heading1", 1, true},
		{"Heading3", 3, true}, // by id, even when undefined
		{"Title", 1, true},
		{"Kop2", 2, true},     // by name
		{"Outlined", 3, true}, // by outline level
		{"Normal", 0, false},
		{"", 0, false},
		{"Missing", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.styleID, func(t *testing.T) {
			level, ok := sheet.HeadingLevel(tt.styleID)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.level, level)
		})
	}
}

func TestParagraphRunPropsFollowsBasedOn(t *testing.T) {
	sheet, err := ParseStyles([]byte(testStylesXML))
	require.NoError(t, err)

	p := sheet.ParagraphRunProps("Emphatic")
	require.NotNil(t, p.Bold)
	require.NotNil(t, p.Italic)
	assert.True(t, *p.Bold, "bold inherited from Strong")
	assert.True(t, *p.Italic, "own italic wins over Strong's explicit off")

	loop := sheet.ParagraphRunProps("LoopA")
	require.NotNil(t, loop.Underline)
	assert.True(t, *loop.Underline)
}

func TestResolveRunPrecedence(t *testing.T) {
	reg, err := New(ir.NewDocument(), []byte(testStylesXML), nil)
	require.NoError(t, err)

	tests := []struct {
		name     string
		inline   RunProps
		styleID  string
		paraMark RunProps
		want     ir.RunStyle
	}{
		{
			name:     "inline bold beats paragraph false",
			inline:   RunProps{Bold: boolPtr(true)},
			paraMark: RunProps{Bold: boolPtr(false)},
			want:     ir.RunStyle{Bold: true, Font: "Calibri", SizePt: 11},
		},
		{
			name:     "absent inline inherits paragraph bold",
			paraMark: RunProps{Bold: boolPtr(true)},
			want:     ir.RunStyle{Bold: true, Font: "Calibri", SizePt: 11},
		},
		{
			name:    "style chain supplies size, defaults supply font",
			styleID: "Heading1",
			want:    ir.RunStyle{Bold: true, Font: "Calibri", SizePt: 16},
		},
		{
			name:    "inline false beats style true",
			inline:  RunProps{Bold: boolPtr(false)},
			styleID: "Heading1",
			want:    ir.RunStyle{Font: "Calibri", SizePt: 16},
		},
		{
			name:   "fields resolve independently",
			inline: RunProps{Italic: boolPtr(true)},
			paraMark: RunProps{
				Italic: boolPtr(false),
				Bold:   boolPtr(true),
			},
			want: ir.RunStyle{Bold: true, Italic: true, Font: "Calibri", SizePt: 11},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reg.ResolveRun(tt.inline, tt.styleID, tt.paraMark))
		})
	}
}

func TestHeadingStyleIDAddsMissingStyle(t *testing.T) {
	sheet, err := ParseStyles([]byte(testStylesXML))
	require.NoError(t, err)

	assert.Equal(t, "Heading1", sheet.HeadingStyleID(1))
	assert.Equal(t, "Kop2", sheet.HeadingStyleID(2))
	assert.False(t, sheet.Modified())

	assert.Equal(t, "Heading4", sheet.HeadingStyleID(4))
	assert.True(t, sheet.Modified())
	bold := sheet.ParagraphRunProps("Heading4").Bold
	require.NotNil(t, bold, "added styles resolve like parsed ones")
	assert.True(t, *bold)

	out := string(sheet.Bytes())
	assert.Contains(t, out, `w:styleId="Heading4"`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</w:styles>"))

	reparsed, err := ParseStyles(sheet.Bytes())
	require.NoError(t, err)
	level, ok := reparsed.HeadingLevel("Heading4")
	assert.True(t, ok)
	assert.Equal(t, 4, level)
}

func TestStyleSheetBytesFromNothing(t *testing.T) {
	sheet, err := ParseStyles(nil)
	require.NoError(t, err)
	assert.Nil(t, sheet.Bytes())

	sheet.ListParagraphStyleID()
	reparsed, err := ParseStyles(sheet.Bytes())
	require.NoError(t, err)
	_, ok := reparsed.Lookup("ListParagraph")
	assert.True(t, ok)
}

func TestNumbering(t *testing.T) {
	num, err := ParseNumbering([]byte(testNumberingXML))
	require.NoError(t, err)

	ordered, found := num.Ordered("1", 0)
	assert.True(t, found)
	assert.False(t, ordered)

	ordered, found = num.Ordered("2", 1)
	assert.True(t, found)
	assert.True(t, ordered)

	_, found = num.Ordered("9", 0)
	assert.False(t, found)
}

func TestAllocatorReusesThenAppends(t *testing.T) {
	num, err := ParseNumbering([]byte(testNumberingXML))
	require.NoError(t, err)

	alloc := num.NewAllocator()
	assert.Equal(t, "2", alloc.Allocate(true))
	assert.Equal(t, "1", alloc.Allocate(false))
	assert.False(t, num.Modified())

	fresh := alloc.Allocate(true)
	assert.Equal(t, "3", fresh)
	assert.True(t, num.Modified())

	out := num.Bytes()
	reparsed, err := ParseNumbering(out)
	require.NoError(t, err)
	ordered, found := reparsed.Ordered(fresh, 0)
	assert.True(t, found)
	assert.True(t, ordered)

	s := string(out)
	assert.Less(t, strings.Index(s, `w:abstractNumId="2"`), strings.Index(s, `<w:num w:numId="1"`),
		"abstract definitions precede instances")

	// a second pass reuses what the first one created
	again := num.NewAllocator()
	again.Allocate(true)
	assert.Equal(t, fresh, again.Allocate(true))
}

func TestNumberingFromNothing(t *testing.T) {
	num, err := ParseNumbering(nil)
	require.NoError(t, err)
	assert.True(t, num.Empty())

	id := num.NewAllocator().Allocate(false)
	assert.Equal(t, "1", id)

	reparsed, err := ParseNumbering(num.Bytes())
	require.NoError(t, err)
	ordered, found := reparsed.Ordered(id, 0)
	assert.True(t, found)
	assert.False(t, ordered)
}

func TestMediaIntern(t *testing.T) {
	doc := ir.NewDocument()
	doc.Relationships["rId4"] = ir.MediaDescriptor{ID: "rId4", Type: ImageRelationshipType, Target: "media/image1.png"}
	doc.Media["rId4"] = []byte("png-bytes")

	m := NewMedia(doc.Relationships, doc.Media)
	m.Reserve("rId1", "rId7")

	assert.Equal(t, "rId4", m.Intern([]byte("png-bytes"), "image/png", ".png"), "identical bytes dedupe")

	id := m.Intern([]byte("gif-bytes"), "image/gif", "gif")
	assert.Equal(t, "rId8", id)
	d, ok := doc.Relationships[id]
	require.True(t, ok, "writes through to the document")
	assert.Equal(t, "media/image2.gif", d.Target)
	assert.Equal(t, Digest([]byte("gif-bytes")), d.Digest)

	embed, ok := m.ResolveEmbed(id)
	require.True(t, ok)
	assert.Equal(t, "image/gif", embed.MIMEType)

	_, ok = m.ResolveEmbed("rId99")
	assert.False(t, ok)

	assert.Equal(t, []string{"rId4", "rId8"}, m.IDs())
}
