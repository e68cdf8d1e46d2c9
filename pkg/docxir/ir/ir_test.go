package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBlocks() []Block {
	return []Block{
		NewHeading(1, Plain("Title")),
		&Paragraph{Runs: []Run{Plain("a "), NewRun("b", RunStyle{Bold: true})}, Align: AlignCenter, Indent: 1},
		&List{Ordered: true, Items: []ListItem{{Runs: []Run{Plain("one")}}, {Runs: []Run{Plain("two")}}}},
		&Table{Rows: []TableRow{{Cells: []TableCell{
			{Blocks: []Block{NewParagraph(Plain("cell")), &Image{EmbedID: "rId2"}}},
		}}}},
		&Image{EmbedID: "rId1", WidthEMU: 100, HeightEMU: 50},
		&Image{EmbedID: "rId2"},
	}
}

func TestClampHeadingLevel(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, 1}, {0, 1}, {1, 1}, {4, 4}, {6, 6}, {7, 6}, {99, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampHeadingLevel(tt.in), "level %d", tt.in)
	}
	assert.Equal(t, 6, NewHeading(9).Level)
}

func TestParseAlign(t *testing.T) {
	tests := []struct {
		in   string
		want Align
		ok   bool
	}{
		{"start", AlignLeft, true},
		{"end", AlignRight, true},
		{"both", AlignJustify, true},
		{"center", AlignCenter, true},
		{"", AlignInherit, true},
		{"distribute", AlignInherit, false},
	}
	for _, tt := range tests {
		got, ok := ParseAlign(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestRunStyles(t *testing.T) {
	assert.Nil(t, NewRun("x", RunStyle{}).Style)
	assert.Nil(t, Run{Text: "x", Style: &RunStyle{}}.Normalize().Style)
	assert.Equal(t, RunStyle{}, Plain("x").EffectiveStyle())
	assert.True(t, RunsEqual([]Run{{Text: "x", Style: &RunStyle{}}}, []Run{Plain("x")}),
		"a nil style equals an empty one")
	assert.False(t, RunsEqual([]Run{NewRun("x", RunStyle{Italic: true})}, []Run{Plain("x")}))
}

func TestCloneIsDeep(t *testing.T) {
	doc := NewDocument()
	doc.Blocks = sampleBlocks()
	doc.PageStyle = &DocxPageStyle{WidthMM: MM(210)}
	doc.Relationships["rId1"] = MediaDescriptor{ID: "rId1", Target: "media/image1.png"}

	c := doc.Clone()
	require.True(t, Equal(doc.Blocks, c.Blocks))

	c.Blocks[1].(*Paragraph).Runs[1].Style.Bold = false
	c.Blocks[2].(*List).Items[0].Runs[0].Text = "changed"
	c.Blocks[3].(*Table).Rows[0].Cells[0].Blocks[0].(*Paragraph).Runs[0].Text = "changed"
	*c.PageStyle.WidthMM = 100
	delete(c.Relationships, "rId1")

	assert.True(t, doc.Blocks[1].(*Paragraph).Runs[1].Style.Bold)
	assert.Equal(t, "one", doc.Blocks[2].(*List).Items[0].Runs[0].Text)
	assert.Equal(t, "cell", PlainText(doc.Blocks[3:4]))
	assert.Equal(t, 210.0, *doc.PageStyle.WidthMM)
	assert.Contains(t, doc.Relationships, "rId1")
	assert.False(t, Equal(doc.Blocks, c.Blocks))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b []Block
		want bool
	}{
		{name: "nil and empty", a: nil, b: []Block{}, want: true},
		{name: "kind differs", a: []Block{NewParagraph(Plain("x"))}, b: []Block{NewHeading(1, Plain("x"))}, want: false},
		{name: "level differs", a: []Block{NewHeading(1)}, b: []Block{NewHeading(2)}, want: false},
		{name: "list order flag", a: []Block{&List{Ordered: true}}, b: []Block{&List{}}, want: false},
		{name: "image size", a: []Block{&Image{EmbedID: "a", WidthEMU: 1}}, b: []Block{&Image{EmbedID: "a"}}, want: false},
		{name: "same tree", a: sampleBlocks(), b: sampleBlocks(), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestWalkHelpers(t *testing.T) {
	blocks := sampleBlocks()
	assert.Equal(t, "Title\na b\none\ntwo\ncell", PlainText(blocks))
	assert.Equal(t, []string{"rId2", "rId1"}, EmbedIDs(blocks))

	visited := 0
	Walk(blocks, func(b Block) bool {
		visited++
		return b.Kind() != KindList
	})
	assert.Equal(t, 3, visited, "walk stops when fn returns false")
}

func TestBlockJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Blocks []Block `json:"blocks"`
	}{Blocks: []Block{
		NewParagraph(NewRun("hi", RunStyle{Bold: true})),
		&Image{EmbedID: "rId1"},
	}})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"blocks":[{"type":"paragraph","runs":[{"text":"hi","style":{"bold":true}}]},{"type":"image","embedId":"rId1"}]}`,
		string(data))
}
