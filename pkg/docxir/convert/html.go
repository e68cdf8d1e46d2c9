package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

// emuPerPx is the EMU size of one CSS pixel (914400 / 96).
const emuPerPx = 9525

var (
	fontFamilyValue = regexp.MustCompile(`^[\p{L}\p{N} ,'"\-_.]+$`)
	whitespace      = regexp.MustCompile(`[ \t\n\r\f]+`)

	htmlPolicy = newHTMLPolicy()
)

// newHTMLPolicy is the user-generated-content policy plus the inline
// styling and image attributes the surrogate round-trips.
func newHTMLPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("span", "font", "s", "strike", "u", "del", "ins", "b", "i", "strong", "em", "br",
		"p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li",
		"table", "thead", "tbody", "tfoot", "tr", "td", "th", "img")
	p.AllowStyles("font-weight", "font-style", "text-decoration", "text-decoration-line",
		"font-size", "text-align", "margin-left").Globally()
	p.AllowStyles("font-family").MatchingHandler(fontFamilyValue.MatchString).Globally()
	p.AllowAttrs("data-embed-id", "data-width-emu", "data-height-emu").OnElements("img")
	p.AllowAttrs("face", "size").OnElements("font")
	return p
}

// FromHTML converts an HTML fragment into blocks. The markup is sanitized
// first; elements outside the modelled subset contribute their text.
func FromHTML(src string) ([]ir.Block, error) {
	clean := htmlPolicy.Sanitize(src)
	doc, err := html.Parse(strings.NewReader(clean))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	body := findElement(doc, atom.Body)
	if body == nil {
		return nil, nil
	}
	return htmlBlocks(body, ir.RunStyle{}, blockAttrs{}), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func isBlockElement(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Ul, atom.Ol, atom.Li, atom.Table, atom.Blockquote, atom.Section,
		atom.Article, atom.Aside, atom.Header, atom.Footer, atom.Main, atom.Pre,
		atom.Figure, atom.Hr:
		return true
	}
	return false
}

// htmlBlocks converts the children of a container. Loose inline content
// between block elements forms implicit paragraphs.
func htmlBlocks(n *html.Node, style ir.RunStyle, attrs blockAttrs) []ir.Block {
	var out []ir.Block
	var pending inlineContent
	flush := func() {
		if runs := pending.finish(); len(runs) > 0 {
			out = append(out, &ir.Paragraph{Runs: runs, Align: attrs.align, Indent: attrs.indent})
		}
		out = append(out, pending.images...)
		pending = inlineContent{}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isBlockElement(c) {
			flush()
			out = append(out, htmlBlock(c, style, attrs)...)
			continue
		}
		pending.walk(c, style)
	}
	flush()
	return out
}

func htmlBlock(n *html.Node, style ir.RunStyle, attrs blockAttrs) []ir.Block {
	decls := nodeDeclarations(n)
	style = applyRunCSS(style, decls)
	own := applyBlockCSS(blockAttrs{}, decls)

	switch n.DataAtom {
	case atom.P, atom.Li:
		var in inlineContent
		in.walkChildren(n, style)
		runs := in.finish()
		if len(runs) == 0 && len(in.images) > 0 {
			return in.images
		}
		return append([]ir.Block{&ir.Paragraph{Runs: runs, Align: own.align, Indent: own.indent}}, in.images...)
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		var in inlineContent
		in.walkChildren(n, style)
		h := ir.NewHeading(int(n.Data[1]-'0'), in.finish()...)
		h.Align = own.align
		return append([]ir.Block{h}, in.images...)
	case atom.Ul, atom.Ol:
		list := &ir.List{Ordered: n.DataAtom == atom.Ol}
		listItems(n, style, list)
		return []ir.Block{list}
	case atom.Table:
		return []ir.Block{htmlTable(n, style)}
	case atom.Hr:
		return nil
	}
	return htmlBlocks(n, style, applyBlockCSS(attrs, decls))
}

// listItems appends the items of a list element. Nested lists are folded
// into the same item sequence after their parent item.
func listItems(n *html.Node, style ir.RunStyle, list *ir.List) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Li:
			itemStyle := applyRunCSS(style, nodeDeclarations(c))
			var in inlineContent
			var nested []*html.Node
			for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
				if cc.Type == html.ElementNode && (cc.DataAtom == atom.Ul || cc.DataAtom == atom.Ol) {
					nested = append(nested, cc)
					continue
				}
				in.walk(cc, itemStyle)
			}
			list.Items = append(list.Items, ir.ListItem{Runs: in.finish()})
			for _, sub := range nested {
				listItems(sub, itemStyle, list)
			}
		case atom.Ul, atom.Ol:
			listItems(c, style, list)
		}
	}
}

func htmlTable(n *html.Node, style ir.RunStyle) *ir.Table {
	t := &ir.Table{}
	var rows func(*html.Node)
	rows = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Thead, atom.Tbody, atom.Tfoot:
				rows(c)
			case atom.Tr:
				var row ir.TableRow
				for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type == html.ElementNode && (cell.DataAtom == atom.Td || cell.DataAtom == atom.Th) {
						cellStyle := applyRunCSS(style, nodeDeclarations(cell))
						row.Cells = append(row.Cells, ir.TableCell{Blocks: htmlBlocks(cell, cellStyle, blockAttrs{})})
					}
				}
				t.Rows = append(t.Rows, row)
			}
		}
	}
	rows(n)
	return t
}

func nodeDeclarations(n *html.Node) map[string]string {
	v, _ := attrValue(n, "style")
	return declarations(v)
}

// htmlImage reads an <img> carrying a data-embed-id. Exact EMU sizes win
// over pixel width and height.
func htmlImage(n *html.Node) *ir.Image {
	id, ok := attrValue(n, "data-embed-id")
	if !ok || id == "" {
		return nil
	}
	img := &ir.Image{EmbedID: id}
	img.Description, _ = attrValue(n, "alt")
	img.WidthEMU = imageExtent(n, "data-width-emu", "width")
	img.HeightEMU = imageExtent(n, "data-height-emu", "height")
	return img
}

func imageExtent(n *html.Node, emuAttr, pxAttr string) int64 {
	if v, ok := attrValue(n, emuAttr); ok {
		if emu, err := strconv.ParseInt(v, 10, 64); err == nil && emu > 0 {
			return emu
		}
	}
	if v, ok := attrValue(n, pxAttr); ok {
		if px, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64); err == nil && px > 0 {
			return int64(px * emuPerPx)
		}
	}
	return 0
}

// inlineContent accumulates the runs of one paragraph and the images met
// on the way.
type inlineContent struct {
	runs   []ir.Run
	images []ir.Block
}

func (in *inlineContent) walkChildren(n *html.Node, style ir.RunStyle) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		in.walk(c, style)
	}
}

func (in *inlineContent) walk(n *html.Node, style ir.RunStyle) {
	switch n.Type {
	case html.TextNode:
		in.text(whitespace.ReplaceAllString(n.Data, " "), style)
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Br:
			in.runs = append(in.runs, ir.NewRun("\n", style))
			return
		case atom.Img:
			if img := htmlImage(n); img != nil {
				in.images = append(in.images, img)
			}
			return
		case atom.Script, atom.Style:
			return
		}
		in.walkChildren(n, inlineStyle(n, style))
	}
}

// text appends collapsed text, dropping a space that would follow another
// space or a line break.
func (in *inlineContent) text(s string, style ir.RunStyle) {
	if strings.HasPrefix(s, " ") && in.endsWithSpace() {
		s = s[1:]
	}
	if s == "" {
		return
	}
	in.runs = append(in.runs, ir.NewRun(s, style))
}

func (in *inlineContent) endsWithSpace() bool {
	if len(in.runs) == 0 {
		return true
	}
	last := in.runs[len(in.runs)-1].Text
	return strings.HasSuffix(last, " ") || strings.HasSuffix(last, "\n")
}

// finish trims trailing space and merges neighbouring runs of equal style.
func (in *inlineContent) finish() []ir.Run {
	runs := in.runs
	for len(runs) > 0 {
		last := &runs[len(runs)-1]
		last.Text = strings.TrimRight(last.Text, " ")
		if last.Text != "" {
			break
		}
		runs = runs[:len(runs)-1]
	}
	var out []ir.Run
	for _, r := range runs {
		if n := len(out); n > 0 && out[n-1].EffectiveStyle() == r.EffectiveStyle() {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}

func inlineStyle(n *html.Node, s ir.RunStyle) ir.RunStyle {
	switch n.DataAtom {
	case atom.B, atom.Strong:
		s.Bold = true
	case atom.I, atom.Em:
		s.Italic = true
	case atom.U, atom.Ins:
		s.Underline = true
	case atom.S, atom.Strike, atom.Del:
		s.Strikethrough = true
	case atom.Font:
		if face, ok := attrValue(n, "face"); ok {
			if f := firstFamily(face); f != "" {
				s.Font = f
			}
		}
		if size, ok := attrValue(n, "size"); ok {
			if pt, ok := fontTagSizes[strings.TrimSpace(size)]; ok {
				s.SizePt = pt
			}
		}
	}
	return applyRunCSS(s, nodeDeclarations(n))
}

// ToHTML renders blocks as HTML that FromHTML reads back.
func ToHTML(blocks []ir.Block) string {
	var b strings.Builder
	writeHTMLBlocks(&b, blocks)
	return b.String()
}

func writeHTMLBlocks(b *strings.Builder, blocks []ir.Block) {
	for _, block := range blocks {
		switch v := block.(type) {
		case *ir.Paragraph:
			writeOpen(b, "p", blockCSS(v.Align, v.Indent))
			writeHTMLRuns(b, v.Runs)
			b.WriteString("</p>")
		case *ir.Heading:
			tag := "h" + strconv.Itoa(ir.ClampHeadingLevel(v.Level))
			writeOpen(b, tag, blockCSS(v.Align, 0))
			writeHTMLRuns(b, v.Runs)
			b.WriteString("</" + tag + ">")
		case *ir.List:
			tag := "ul"
			if v.Ordered {
				tag = "ol"
			}
			b.WriteString("<" + tag + ">")
			for _, item := range v.Items {
				b.WriteString("<li>")
				writeHTMLRuns(b, item.Runs)
				b.WriteString("</li>")
			}
			b.WriteString("</" + tag + ">")
		case *ir.Table:
			b.WriteString("<table><tbody>")
			for _, row := range v.Rows {
				b.WriteString("<tr>")
				for _, cell := range row.Cells {
					b.WriteString("<td>")
					writeHTMLBlocks(b, cell.Blocks)
					b.WriteString("</td>")
				}
				b.WriteString("</tr>")
			}
			b.WriteString("</tbody></table>")
		case *ir.Image:
			fmt.Fprintf(b, `<img data-embed-id="%s"`, html.EscapeString(v.EmbedID))
			if v.Description != "" {
				fmt.Fprintf(b, ` alt="%s"`, html.EscapeString(v.Description))
			}
			if v.WidthEMU > 0 {
				fmt.Fprintf(b, ` width="%d" data-width-emu="%d"`, v.WidthEMU/emuPerPx, v.WidthEMU)
			}
			if v.HeightEMU > 0 {
				fmt.Fprintf(b, ` height="%d" data-height-emu="%d"`, v.HeightEMU/emuPerPx, v.HeightEMU)
			}
			b.WriteString(">")
		}
	}
}

func writeOpen(b *strings.Builder, tag, css string) {
	b.WriteString("<" + tag)
	if css != "" {
		fmt.Fprintf(b, ` style="%s"`, html.EscapeString(css))
	}
	b.WriteString(">")
}

func writeHTMLRuns(b *strings.Builder, runs []ir.Run) {
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		s := r.EffectiveStyle()
		var closers []string
		open := func(tag, css string) {
			writeOpen(b, tag, css)
			closers = append(closers, "</"+tag+">")
		}
		if css := runCSS(s); css != "" {
			open("span", css)
		}
		if s.Bold {
			open("strong", "")
		}
		if s.Italic {
			open("em", "")
		}
		if s.Underline {
			open("u", "")
		}
		if s.Strikethrough {
			open("s", "")
		}
		for i, line := range strings.Split(r.Text, "\n") {
			if i > 0 {
				b.WriteString("<br>")
			}
			b.WriteString(html.EscapeString(line))
		}
		for i := len(closers) - 1; i >= 0; i-- {
			b.WriteString(closers[i])
		}
	}
}
