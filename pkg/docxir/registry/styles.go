package registry

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/lumina-note/docxir/pkg/docxir/wml"
)

var (
	xpStyles      = xpath.MustCompile(`/*[local-name()='styles']/*[local-name()='style']`)
	xpDocDefaults = xpath.MustCompile(`//*[local-name()='docDefaults']/*[local-name()='rPrDefault']/*[local-name()='rPr']`)
	xpName        = xpath.MustCompile(`*[local-name()='name']`)
	xpBasedOn     = xpath.MustCompile(`*[local-name()='basedOn']`)
	xpStyleRPr    = xpath.MustCompile(`*[local-name()='rPr']`)
	xpOutline     = xpath.MustCompile(`*[local-name()='pPr']/*[local-name()='outlineLvl']`)
	xpStyleNumID  = xpath.MustCompile(`*[local-name()='pPr']/*[local-name()='numPr']/*[local-name()='numId']`)

	headingIDPattern   = regexp.MustCompile(`^(?i)heading\s*([1-9])$`)
	headingNamePattern = regexp.MustCompile(`^(?i)heading\s+([1-9])$`)
)

// Style is one w:style definition, reduced to what import needs.
type Style struct {
	ID      string
	Type    string
	Name    string
	BasedOn string
	Default bool
	Run     RunProps
	// OutlineLevel is the 0-based w:outlineLvl, or -1 when absent.
	OutlineLevel int
	NumID        string
}

// StyleSheet is the parsed styles.xml of a document.
type StyleSheet struct {
	raw      []byte
	styles   map[string]*Style
	order    []string
	defaults RunProps
	added    []string
}

// ParseStyles parses styles.xml. Empty input yields an empty sheet.
func ParseStyles(data []byte) (*StyleSheet, error) {
	sheet := &StyleSheet{raw: data, styles: make(map[string]*Style)}
	if len(bytes.TrimSpace(data)) == 0 {
		return sheet, nil
	}

	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse styles.xml: %w", err)
	}

	if rpr := xmlquery.QuerySelector(root, xpDocDefaults); rpr != nil {
		sheet.defaults = runPropsFromNode(rpr)
	}

	for _, n := range xmlquery.QuerySelectorAll(root, xpStyles) {
		st := &Style{
			ID:           attr(n, "styleId"),
			Type:         attr(n, "type"),
			Default:      ParseOnOffAttr(n, "default"),
			OutlineLevel: -1,
		}
		if st.ID == "" {
			continue
		}
		if v := xmlquery.QuerySelector(n, xpName); v != nil {
			st.Name = attr(v, "val")
		}
		if v := xmlquery.QuerySelector(n, xpBasedOn); v != nil {
			st.BasedOn = attr(v, "val")
		}
		if v := xmlquery.QuerySelector(n, xpStyleRPr); v != nil {
			st.Run = runPropsFromNode(v)
		}
		if v := xmlquery.QuerySelector(n, xpOutline); v != nil {
			if lvl, err := strconv.Atoi(attr(v, "val")); err == nil {
				st.OutlineLevel = lvl
			}
		}
		if v := xmlquery.QuerySelector(n, xpStyleNumID); v != nil {
			st.NumID = attr(v, "val")
		}
		if _, dup := sheet.styles[st.ID]; !dup {
			sheet.order = append(sheet.order, st.ID)
		}
		sheet.styles[st.ID] = st
	}
	return sheet, nil
}

// attr returns the value of the attribute with the given local name.
func attr(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func hasAttr(n *xmlquery.Node, local string) bool {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return true
		}
	}
	return false
}

// ParseOnOffAttr reads a toggle attribute; absent means off.
func ParseOnOffAttr(n *xmlquery.Node, local string) bool {
	return hasAttr(n, local) && wml.ParseOnOff(attr(n, local))
}

func runPropsFromNode(rpr *xmlquery.Node) RunProps {
	var p RunProps
	for c := rpr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch c.Data {
		case "b":
			p.Bold = boolPtr(toggle(c))
		case "i":
			p.Italic = boolPtr(toggle(c))
		case "u":
			p.Underline = boolPtr(toggle(c))
		case "strike":
			p.Strikethrough = boolPtr(toggle(c))
		case "rFonts":
			if font := FirstFont(attr(c, "ascii"), attr(c, "hAnsi"), attr(c, "eastAsia"), attr(c, "cs")); font != "" {
				p.Font = &font
			}
		case "sz":
			if pt, ok := wml.ParseHalfPoints(attr(c, "val")); ok {
				p.SizePt = &pt
			}
		}
	}
	return p
}

func toggle(n *xmlquery.Node) bool {
	if !hasAttr(n, "val") {
		return true
	}
	return wml.ParseOnOff(attr(n, "val"))
}

// FirstFont returns the first non-empty font name.
func FirstFont(names ...string) string {
	for _, n := range names {
		if n != "" {
			return n
		}
	}
	return ""
}

// Defaults returns the document default run properties.
func (s *StyleSheet) Defaults() RunProps {
	return s.defaults
}

// Lookup returns the style with the given id.
func (s *StyleSheet) Lookup(id string) (*Style, bool) {
	st, ok := s.styles[id]
	return st, ok
}

// Len returns the number of styles.
func (s *StyleSheet) Len() int {
	return len(s.styles)
}

// DefaultParagraphStyle returns the id of the paragraph style marked
// w:default, if any.
func (s *StyleSheet) DefaultParagraphStyle() string {
	for _, id := range s.order {
		if st := s.styles[id]; st.Type == "paragraph" && st.Default {
			return id
		}
	}
	return ""
}

// DefaultCharacterStyle returns the id of the character style marked
// w:default, if any.
func (s *StyleSheet) DefaultCharacterStyle() string {
	for _, id := range s.order {
		if st := s.styles[id]; st.Type == "character" && st.Default {
			return id
		}
	}
	return ""
}

// chain returns the style and its basedOn ancestors, nearest first.
// Cycles are cut at the first repeated id.
func (s *StyleSheet) chain(id string) []*Style {
	var out []*Style
	seen := make(map[string]bool)
	for id != "" && !seen[id] {
		seen[id] = true
		st, ok := s.styles[id]
		if !ok {
			break
		}
		out = append(out, st)
		id = st.BasedOn
	}
	return out
}

// ParagraphRunProps resolves the run properties a paragraph style
// contributes, following basedOn. An empty id resolves the default
// paragraph style.
func (s *StyleSheet) ParagraphRunProps(styleID string) RunProps {
	if styleID == "" {
		styleID = s.DefaultParagraphStyle()
	}
	var p RunProps
	for _, st := range s.chain(styleID) {
		p = p.Over(st.Run)
	}
	return p
}

// CharacterRunProps resolves the run properties of a character style
// (w:rStyle), following basedOn. An empty id contributes nothing.
func (s *StyleSheet) CharacterRunProps(styleID string) RunProps {
	if styleID == "" {
		return RunProps{}
	}
	var p RunProps
	for _, st := range s.chain(styleID) {
		p = p.Over(st.Run)
	}
	return p
}

// NumID returns the numbering instance a paragraph style attaches, if any.
func (s *StyleSheet) NumID(styleID string) string {
	for _, st := range s.chain(styleID) {
		if st.NumID != "" {
			return st.NumID
		}
	}
	return ""
}

// HeadingLevel reports the heading level (1..6) implied by a paragraph
// style: a HeadingN or Title id, a "heading N" name, or an outline level
// anywhere along the basedOn chain.
func (s *StyleSheet) HeadingLevel(styleID string) (int, bool) {
	if styleID == "" {
		return 0, false
	}
	if lvl, ok := headingLevelFromID(styleID); ok {
		return lvl, true
	}
	for _, st := range s.chain(styleID) {
		if lvl, ok := headingLevelFromID(st.ID); ok {
			return lvl, true
		}
		if m := headingNamePattern.FindStringSubmatch(strings.TrimSpace(st.Name)); m != nil {
			lvl, _ := strconv.Atoi(m[1])
			return clampLevel(lvl), true
		}
		if strings.EqualFold(st.Name, "title") {
			return 1, true
		}
		if st.OutlineLevel >= 0 && st.OutlineLevel < 9 {
			return clampLevel(st.OutlineLevel + 1), true
		}
	}
	return 0, false
}

func headingLevelFromID(id string) (int, bool) {
	if strings.EqualFold(id, "title") {
		return 1, true
	}
	if m := headingIDPattern.FindStringSubmatch(id); m != nil {
		lvl, _ := strconv.Atoi(m[1])
		return clampLevel(lvl), true
	}
	return 0, false
}

func clampLevel(lvl int) int {
	if lvl < 1 {
		return 1
	}
	if lvl > 6 {
		return 6
	}
	return lvl
}

// HeadingStyleID returns the style id to use when exporting a heading of
// the given level: an existing style that imports back as that level, else
// "HeadingN" (added to the sheet on demand).
func (s *StyleSheet) HeadingStyleID(level int) string {
	level = clampLevel(level)
	want := fmt.Sprintf("Heading%d", level)
	if _, ok := s.styles[want]; ok {
		return want
	}
	for _, id := range s.order {
		st := s.styles[id]
		if st.Type != "paragraph" {
			continue
		}
		if m := headingNamePattern.FindStringSubmatch(strings.TrimSpace(st.Name)); m != nil {
			if n, _ := strconv.Atoi(m[1]); n == level {
				return id
			}
		}
	}
	s.EnsureParagraphStyle(want, fmt.Sprintf("heading %d", level), "",
		fmt.Sprintf(`<w:pPr><w:keepNext/><w:outlineLvl w:val="%d"/></w:pPr><w:rPr><w:b/></w:rPr>`, level-1))
	return want
}

// ListParagraphStyleID returns the id of the list paragraph style, adding
// it when the sheet lacks one.
func (s *StyleSheet) ListParagraphStyleID() string {
	const id = "ListParagraph"
	s.EnsureParagraphStyle(id, "List Paragraph", "", `<w:pPr><w:ind w:left="720"/></w:pPr>`)
	return id
}

// EnsureParagraphStyle adds a paragraph style definition unless a style
// with that id exists. inner is the raw content after w:name/w:basedOn.
func (s *StyleSheet) EnsureParagraphStyle(id, name, basedOn, inner string) {
	if _, ok := s.styles[id]; ok {
		return
	}
	st := &Style{ID: id, Type: "paragraph", Name: name, BasedOn: basedOn, OutlineLevel: -1}
	if m := headingNamePattern.FindStringSubmatch(name); m != nil {
		lvl, _ := strconv.Atoi(m[1])
		st.OutlineLevel = lvl - 1
	}
	s.styles[id] = st
	s.order = append(s.order, id)

	var b strings.Builder
	fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="%s"><w:name w:val="%s"/>`, html.EscapeString(id), html.EscapeString(name))
	if basedOn != "" {
		fmt.Fprintf(&b, `<w:basedOn w:val="%s"/>`, html.EscapeString(basedOn))
	}
	b.WriteString(`<w:qFormat/>`)
	b.WriteString(inner)
	b.WriteString(`</w:style>`)
	s.added = append(s.added, b.String())

	// Added styles take part in lookups like parsed ones.
	wrapped := `<w:styles xmlns:w="` + wml.NamespaceW + `">` + b.String() + `</w:styles>`
	if root, err := xmlquery.Parse(strings.NewReader(wrapped)); err == nil {
		if n := xmlquery.QuerySelector(root, xpStyles); n != nil {
			if v := xmlquery.QuerySelector(n, xpStyleRPr); v != nil {
				st.Run = runPropsFromNode(v)
			}
		}
	}
}

// Modified reports whether styles were added since parsing.
func (s *StyleSheet) Modified() bool {
	return len(s.added) > 0
}

// Bytes returns styles.xml with any added styles spliced in before the
// closing tag. An unmodified sheet returns the original bytes. A sheet
// parsed from nothing is synthesized.
func (s *StyleSheet) Bytes() []byte {
	if len(s.added) == 0 {
		return s.raw
	}
	addition := strings.Join(s.added, "")
	if len(bytes.TrimSpace(s.raw)) == 0 {
		return []byte(xmlHeader + `<w:styles xmlns:w="` + wml.NamespaceW + `">` + addition + `</w:styles>`)
	}
	return spliceBeforeClose(s.raw, "styles", addition)
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// spliceBeforeClose inserts addition before the last closing tag of the
// root element named local, whatever its prefix.
func spliceBeforeClose(raw []byte, local, addition string) []byte {
	idx := bytes.LastIndex(raw, []byte(":"+local+">"))
	if idx >= 0 {
		idx = bytes.LastIndex(raw[:idx], []byte("</"))
	} else {
		idx = bytes.LastIndex(raw, []byte("</"+local+">"))
	}
	if idx < 0 {
		// self-closing root
		end := bytes.LastIndex(raw, []byte("/>"))
		if end < 0 {
			return append(append([]byte{}, raw...), addition...)
		}
		open := bytes.LastIndexByte(raw[:end], '<')
		name := strings.Fields(string(raw[open+1 : end]))[0]
		out := append([]byte{}, raw[:end]...)
		out = append(out, '>')
		out = append(out, addition...)
		out = append(out, "</"+name+">"...)
		return append(out, raw[end+2:]...)
	}
	out := make([]byte, 0, len(raw)+len(addition))
	out = append(out, raw[:idx]...)
	out = append(out, addition...)
	out = append(out, raw[idx:]...)
	return out
}
