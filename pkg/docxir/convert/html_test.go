package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

func TestFromHTML(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []ir.Block
	}{
		{
			name: "empty input",
			html: "",
			want: nil,
		},
		{
			name: "heading and paragraph",
			html: `<h2>Title</h2><p>Hello <b>world</b></p>`,
			want: []ir.Block{
				ir.NewHeading(2, ir.Plain("Title")),
				ir.NewParagraph(ir.Plain("Hello "), styled("world", ir.RunStyle{Bold: true})),
			},
		},
		{
			name: "implicit paragraphs around blocks",
			html: `loose <i>text</i><p>para</p>tail`,
			want: []ir.Block{
				ir.NewParagraph(ir.Plain("loose "), styled("text", ir.RunStyle{Italic: true})),
				ir.NewParagraph(ir.Plain("para")),
				ir.NewParagraph(ir.Plain("tail")),
			},
		},
		{
			name: "whitespace collapses",
			html: "<p>  a \n\t b  </p>",
			want: []ir.Block{ir.NewParagraph(ir.Plain("a b"))},
		},
		{
			name: "line breaks",
			html: `<p>a<br>b</p>`,
			want: []ir.Block{ir.NewParagraph(ir.Plain("a\nb"))},
		},
		{
			name: "script content is removed",
			html: `<p>safe<script>alert(1)</script></p>`,
			want: []ir.Block{ir.NewParagraph(ir.Plain("safe"))},
		},
		{
			name: "nested lists flatten in order",
			html: `<ul><li>a<ul><li>a.1</li></ul></li><li>b</li></ul><ol><li>one</li></ol>`,
			want: []ir.Block{
				&ir.List{Items: []ir.ListItem{
					{Runs: []ir.Run{ir.Plain("a")}},
					{Runs: []ir.Run{ir.Plain("a.1")}},
					{Runs: []ir.Run{ir.Plain("b")}},
				}},
				&ir.List{Ordered: true, Items: []ir.ListItem{{Runs: []ir.Run{ir.Plain("one")}}}},
			},
		},
		{
			name: "table sections",
			html: `<table><thead><tr><th>H</th></tr></thead><tbody><tr><td>v</td><td></td></tr></tbody></table>`,
			want: []ir.Block{&ir.Table{Rows: []ir.TableRow{
				{Cells: []ir.TableCell{cell(ir.NewParagraph(ir.Plain("H")))}},
				{Cells: []ir.TableCell{cell(ir.NewParagraph(ir.Plain("v"))), cell()}},
			}}},
		},
		{
			name: "block alignment and indent",
			html: `<p style="text-align: right; margin-left: 48px">x</p><div style="text-align:center">y</div>`,
			want: []ir.Block{
				&ir.Paragraph{Runs: []ir.Run{ir.Plain("x")}, Align: ir.AlignRight, Indent: 1},
				&ir.Paragraph{Runs: []ir.Run{ir.Plain("y")}, Align: ir.AlignCenter},
			},
		},
		{
			name: "legacy font tag",
			html: `<p><font face="Arial, sans-serif" size="5">big</font></p>`,
			want: []ir.Block{ir.NewParagraph(styled("big", ir.RunStyle{Font: "Arial", SizePt: 18}))},
		},
		{
			name: "images follow their paragraph",
			html: `<p>see <img data-embed-id="e1" alt="chart" width="10"></p><img data-embed-id="e2" data-width-emu="1000" data-height-emu="2000">`,
			want: []ir.Block{
				ir.NewParagraph(ir.Plain("see")),
				&ir.Image{EmbedID: "e1", Description: "chart", WidthEMU: 95250},
				&ir.Image{EmbedID: "e2", WidthEMU: 1000, HeightEMU: 2000},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromHTML(tt.html)
			require.NoError(t, err)
			assert.True(t, ir.Equal(tt.want, got), "got %s", ToHTML(got))
		})
	}
}

func TestFromHTMLRunCSS(t *testing.T) {
	tests := []struct {
		name  string
		style string
		want  ir.RunStyle
	}{
		{name: "numeric bold", style: "font-weight: 700", want: ir.RunStyle{Bold: true}},
		{name: "normal weight", style: "font-weight: 400", want: ir.RunStyle{}},
		{name: "keyword bold", style: "font-weight: bold", want: ir.RunStyle{Bold: true}},
		{name: "italic", style: "font-style: italic", want: ir.RunStyle{Italic: true}},
		{name: "decorations", style: "text-decoration: underline line-through", want: ir.RunStyle{Underline: true, Strikethrough: true}},
		{name: "points", style: "font-size: 10.5pt", want: ir.RunStyle{SizePt: 10.5}},
		{name: "first family", style: "font-family: 'Courier New', monospace", want: ir.RunStyle{Font: "Courier New"}},
		{name: "family with digits", style: "font-family: 'Noto Sans 2'", want: ir.RunStyle{Font: "Noto Sans 2"}},
		{name: "no trailing semicolon", style: "font-style: italic; font-weight: 800", want: ir.RunStyle{Bold: true, Italic: true}},
		{name: "unknown declarations", style: "color: red", want: ir.RunStyle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromHTML(`<p><span style="` + tt.style + `">x</span></p>`)
			require.NoError(t, err)
			require.Len(t, got, 1)
			runs := ir.Runs(got[0])
			require.Len(t, runs, 1)
			assert.Equal(t, tt.want, runs[0].EffectiveStyle())
		})
	}

	t.Run("pixels convert to points", func(t *testing.T) {
		got, err := FromHTML(`<p><span style="font-size:16px">x</span></p>`)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.InDelta(t, 12.0, ir.Runs(got[0])[0].EffectiveStyle().SizePt, 1e-9)
	})
}

func TestToHTML(t *testing.T) {
	got := ToHTML([]ir.Block{
		&ir.Paragraph{Runs: []ir.Run{styled("a<b", ir.RunStyle{Bold: true, Italic: true})}, Align: ir.AlignCenter},
		&ir.Image{EmbedID: "rId7", Description: "Logo", WidthEMU: 952500},
	})
	assert.Equal(t, `<p style="text-align:center"><strong><em>a&lt;b</em></strong></p>`+
		`<img data-embed-id="rId7" alt="Logo" width="100" data-width-emu="952500">`, got)
}

func TestHTMLRoundTrip(t *testing.T) {
	blocks := []ir.Block{
		&ir.Heading{Level: 2, Runs: []ir.Run{ir.Plain("Title")}, Align: ir.AlignCenter},
		ir.NewParagraph(
			ir.Plain("Hello "),
			styled("bold", ir.RunStyle{Bold: true}),
			styled(" and more", ir.RunStyle{Italic: true, Underline: true, Strikethrough: true}),
		),
		&ir.Paragraph{Runs: []ir.Run{styled("line one\nline two", ir.RunStyle{Font: "Times New Roman", SizePt: 10.5})}, Indent: 2, Align: ir.AlignJustify},
		ir.NewParagraph(styled("odd family", ir.RunStyle{Font: "Noto Sans 2"})),
		&ir.List{Ordered: true, Items: []ir.ListItem{
			{Runs: []ir.Run{ir.Plain("one")}},
			{Runs: []ir.Run{styled("two", ir.RunStyle{Bold: true})}},
		}},
		&ir.Table{Rows: []ir.TableRow{
			{Cells: []ir.TableCell{cell(ir.NewParagraph(ir.Plain("a"))), cell()}},
			{Cells: []ir.TableCell{cell(ir.NewHeading(3, ir.Plain("h"))), cell(ir.NewParagraph(ir.Plain("x")), ir.NewParagraph(ir.Plain("y")))}},
		}},
		&ir.Image{EmbedID: "rId7", Description: "Logo", WidthEMU: 952500, HeightEMU: 476250},
	}

	back, err := FromHTML(ToHTML(blocks))
	require.NoError(t, err)
	assert.True(t, ir.Equal(blocks, back), "got %s", ToHTML(back))
}
