package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lumina-note/docxir/pkg/docxir"
	"github.com/lumina-note/docxir/pkg/docxir/container"
	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

// run parses args and runs the selected command, returning its output.
func run(t *testing.T, args ...string) string {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("docxir"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	cli.Out = &out
	require.NoError(t, ctx.Run(&cli.Globals))
	return out.String()
}

func blankFile(t *testing.T) string {
	t.Helper()
	data, err := container.BlankTemplate()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "blank.docx")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "docxir version "+version+"\n", run(t, "version"))
}

func TestOpCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "insert", args: []string{"op", "insertText", "Hi"}, want: `"type": "insert_text"`},
		{name: "bold", args: []string{"op", "formatBold"}, want: `"bold": true`},
		{name: "unknown kind", args: []string{"op", "historyUndo"}, want: "historyUndo: no operation"},
		{name: "list", args: []string{"op", "--list"}, want: "formatJustifyCenter\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, run(t, tt.args...), tt.want)
		})
	}
}

func TestGeometryCommand(t *testing.T) {
	out := run(t, "geometry", "--format", "json", blankFile(t))
	var report struct {
		PageSize string `json:"pageSize"`
		Page     struct {
			WidthMM float64 `json:"widthMm"`
		} `json:"page"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "A4", report.PageSize)
	assert.InDelta(t, 210, report.Page.WidthMM, 0.1)

	assert.Contains(t, run(t, "geometry"), "page    A4")
}

func TestEditAndInspect(t *testing.T) {
	in := blankFile(t)
	out := filepath.Join(filepath.Dir(in), "edited.docx")

	msg := run(t, "edit", in, out,
		"-e", "insertText=Hello",
		"-e", "formatBlock=h1",
		"-e", "historyUndo")
	assert.Contains(t, msg, "skipped historyUndo")
	assert.Contains(t, msg, "applied 2 events")

	text := run(t, "inspect", out)
	assert.Contains(t, text, "== body ==\nHello")

	var tree map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(run(t, "inspect", "-f", "yaml", out)), &tree))
	assert.Equal(t, out, tree["path"])
	doc, ok := tree["document"].(map[string]interface{})
	require.True(t, ok)
	blocks, ok := doc["blocks"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, blocks)
	first, ok := blocks[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "heading", first["type"])
}

func TestHTMLCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(src, []byte(`<h2>Notes</h2><p>one <b>two</b></p>`), 0o644))
	target := filepath.Join(dir, "page.docx")

	assert.Contains(t, run(t, "html", src, "--out", target), "wrote")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	s, err := docxir.Open(target, data)
	require.NoError(t, err)
	assert.Equal(t, "Notes\none two", ir.PlainText(s.Document.Blocks))

	html := run(t, "html", target)
	assert.Contains(t, html, "<h2")
	assert.Contains(t, html, "Notes")
}

func TestRoundtripCommand(t *testing.T) {
	in := blankFile(t)
	out := filepath.Join(filepath.Dir(in), "copy.docx")
	assert.Contains(t, run(t, "roundtrip", in, out), "wrote "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	_, err = docxir.Open(out, data)
	require.NoError(t, err)
}

func TestLayoutCommand(t *testing.T) {
	out := run(t, "layout", blankFile(t))
	assert.Contains(t, out, "total lines=1")
}
