package wml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrUnexpectedRoot is returned when a part's root is not w:document,
// w:hdr or w:ftr.
var ErrUnexpectedRoot = errors.New("unexpected root element")

// decoder walks a part with encoding/xml and keeps the prefix each
// namespace was declared with, so captured names keep their spelling.
type decoder struct {
	d        *xml.Decoder
	prefixes map[string]string
}

func newDecoder(r io.Reader) *decoder {
	return &decoder{d: xml.NewDecoder(r), prefixes: make(map[string]string)}
}

// next returns the next token, learning namespace declarations from start
// elements.
func (dec *decoder) next() (xml.Token, error) {
	tok, err := dec.d.Token()
	if err != nil {
		return nil, err
	}
	if start, ok := tok.(xml.StartElement); ok {
		for _, a := range start.Attr {
			switch {
			case a.Name.Space == "xmlns":
				if _, seen := dec.prefixes[a.Value]; !seen {
					dec.prefixes[a.Value] = a.Name.Local
				}
			case a.Name.Space == "" && a.Name.Local == "xmlns":
				if _, seen := dec.prefixes[a.Value]; !seen {
					dec.prefixes[a.Value] = ""
				}
			}
		}
	}
	return tok, nil
}

// qualify turns a resolved name back into prefix:local.
func (dec *decoder) qualify(n xml.Name) string {
	switch n.Space {
	case "":
		return n.Local
	case "xmlns":
		return "xmlns:" + n.Local
	}
	prefix, ok := dec.prefixes[n.Space]
	if !ok {
		if prefix, ok = conventionalPrefixes[n.Space]; !ok {
			// an undeclared prefix is left untranslated by the decoder
			prefix = n.Space
		}
	}
	if prefix == "" {
		return n.Local
	}
	return prefix + ":" + n.Local
}

func (dec *decoder) attrs(in []xml.Attr) []Attr {
	if len(in) == 0 {
		return nil
	}
	out := make([]Attr, len(in))
	for i, a := range in {
		out[i] = Attr{Name: dec.qualify(a.Name), Value: a.Value}
	}
	return out
}

// capture reads the rest of the element opened by start.
func (dec *decoder) capture(start xml.StartElement) (*Element, error) {
	el := &Element{Name: dec.qualify(start.Name), Attrs: dec.attrs(start.Attr)}
	for {
		tok, err := dec.next()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := dec.capture(t)
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, child)
		case xml.CharData:
			el.Children = append(el.Children, CharData(string(t)))
		case xml.EndElement:
			return el, nil
		}
	}
}

// children calls fn for each child start element of the element being
// read and returns at its end tag. fn must consume the child entirely.
func (dec *decoder) children(fn func(xml.StartElement) error) error {
	for {
		tok, err := dec.next()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := fn(t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// ParsePart parses a document, header or footer part.
func ParsePart(data []byte) (*Part, error) {
	dec := newDecoder(bytes.NewReader(data))

	var root xml.StartElement
	for {
		tok, err := dec.next()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("failed to parse part: no root element")
			}
			return nil, fmt.Errorf("failed to parse part: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			root = start
			break
		}
	}

	part := &Part{Name: dec.qualify(root.Name), Attrs: dec.attrs(root.Attr)}
	switch root.Name.Local {
	case "document":
		part.Kind = PartDocument
	case "hdr":
		part.Kind = PartHeader
	case "ftr":
		part.Kind = PartFooter
	default:
		return nil, fmt.Errorf("%w <%s>", ErrUnexpectedRoot, part.Name)
	}

	var err error
	if part.Kind == PartDocument {
		err = dec.children(func(t xml.StartElement) error {
			if t.Name.Local == "body" && part.Body == nil {
				body, err := dec.parseBody()
				part.Body = body
				return err
			}
			el, err := dec.capture(t)
			if err == nil {
				part.Leading = append(part.Leading, el)
			}
			return err
		})
	} else {
		part.Body, err = dec.parseBody()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s part: %w", part.Kind, err)
	}
	if part.Body == nil {
		part.Body = &Body{}
	}
	return part, nil
}

func (dec *decoder) parseBody() (*Body, error) {
	body := &Body{}
	err := dec.children(func(t xml.StartElement) error {
		if t.Name.Local == "sectPr" {
			el, err := dec.capture(t)
			if err != nil {
				return err
			}
			body.SectPr = &SectPr{El: el}
			return nil
		}
		el, err := dec.parseBlock(t)
		if err != nil {
			return err
		}
		body.Elements = append(body.Elements, el)
		return nil
	})
	return body, err
}

func (dec *decoder) parseBlock(t xml.StartElement) (BodyElement, error) {
	switch t.Name.Local {
	case "p":
		return dec.parseParagraph(t)
	case "tbl":
		return dec.parseTable(t)
	case "sdt", "customXml":
		g := &BlockGroup{Name: dec.qualify(t.Name), Attrs: dec.attrs(t.Attr)}
		err := dec.children(func(c xml.StartElement) error {
			switch c.Name.Local {
			case "sdtPr", "customXmlPr":
				props, err := dec.capture(c)
				g.Props = props
				return err
			case "sdtContent":
				return dec.children(func(cc xml.StartElement) error {
					el, err := dec.parseBlock(cc)
					if err == nil {
						g.Content = append(g.Content, el)
					}
					return err
				})
			case "sdtEndPr":
				_, err := dec.capture(c)
				return err
			}
			el, err := dec.parseBlock(c)
			if err == nil {
				g.Content = append(g.Content, el)
			}
			return err
		})
		return g, err
	}
	return dec.capture(t)
}

func (dec *decoder) parseParagraph(start xml.StartElement) (*Paragraph, error) {
	p := &Paragraph{Attrs: dec.attrs(start.Attr)}
	err := dec.children(func(t xml.StartElement) error {
		if t.Name.Local == "pPr" {
			props, err := dec.parseParagraphProps()
			p.Props = props
			return err
		}
		c, err := dec.parseParagraphContent(t)
		if err == nil {
			p.Content = append(p.Content, c)
		}
		return err
	})
	return p, err
}

func (dec *decoder) parseParagraphContent(t xml.StartElement) (ParagraphContent, error) {
	switch t.Name.Local {
	case "r":
		return dec.parseRun(t)
	case "hyperlink":
		h := &Hyperlink{Attrs: dec.attrs(t.Attr)}
		err := dec.children(func(c xml.StartElement) error {
			pc, err := dec.parseParagraphContent(c)
			if err == nil {
				h.Content = append(h.Content, pc)
			}
			return err
		})
		return h, err
	case "sdt", "smartTag", "ins", "customXml", "fldSimple", "dir", "bdo":
		g := &InlineGroup{Name: dec.qualify(t.Name), Attrs: dec.attrs(t.Attr)}
		err := dec.children(func(c xml.StartElement) error {
			switch c.Name.Local {
			case "sdtPr", "smartTagPr", "customXmlPr":
				props, err := dec.capture(c)
				g.Props = props
				return err
			case "sdtEndPr":
				_, err := dec.capture(c)
				return err
			case "sdtContent":
				return dec.children(func(cc xml.StartElement) error {
					pc, err := dec.parseParagraphContent(cc)
					if err == nil {
						g.Content = append(g.Content, pc)
					}
					return err
				})
			}
			pc, err := dec.parseParagraphContent(c)
			if err == nil {
				g.Content = append(g.Content, pc)
			}
			return err
		})
		return g, err
	}
	return dec.capture(t)
}

func (dec *decoder) parseParagraphProps() (*ParagraphProps, error) {
	props := &ParagraphProps{}
	err := dec.children(func(t xml.StartElement) error {
		if t.Name.Local == "rPr" {
			rp, err := dec.parseRunProps()
			props.RunProps = rp
			return err
		}
		el, err := dec.capture(t)
		if err != nil {
			return err
		}
		switch t.Name.Local {
		case "pStyle":
			props.Style = el.Attr("val")
		case "jc":
			props.Justify = el.Attr("val")
		case "numPr":
			np := &NumPr{NumID: el.Child("numId").Attr("val")}
			if lvl, ok := ParseTwips(el.Child("ilvl").Attr("val")); ok {
				np.Level = lvl
			}
			props.NumPr = np
		case "ind":
			v, ok := el.LookupAttr("left")
			if !ok {
				v, ok = el.LookupAttr("start")
			}
			if n, valid := ParseTwips(v); ok && valid {
				props.IndentLeft = &n
			}
		case "outlineLvl":
			if n, err := strconv.Atoi(el.Attr("val")); err == nil {
				props.OutlineLvl = &n
			}
		default:
			props.Other = append(props.Other, el)
		}
		return nil
	})
	return props, err
}

func (dec *decoder) parseRunProps() (*RunProps, error) {
	props := &RunProps{}
	err := dec.children(func(t xml.StartElement) error {
		el, err := dec.capture(t)
		if err != nil {
			return err
		}
		toggle := func() *bool {
			v := true
			if val, ok := el.LookupAttr("val"); ok {
				v = ParseOnOff(val)
			}
			return &v
		}
		switch t.Name.Local {
		case "rStyle":
			props.Style = el.Attr("val")
		case "rFonts":
			props.Fonts = &Fonts{
				ASCII:    el.Attr("ascii"),
				HAnsi:    el.Attr("hAnsi"),
				EastAsia: el.Attr("eastAsia"),
				CS:       el.Attr("cs"),
			}
		case "b":
			props.Bold = toggle()
		case "i":
			props.Italic = toggle()
		case "strike":
			props.Strikethrough = toggle()
		case "sz":
			props.SizeHalfPoints = el.Attr("val")
		case "u":
			props.UnderlineVal = el.Attr("val")
			props.Underline = toggle()
		default:
			props.Other = append(props.Other, el)
		}
		return nil
	})
	return props, err
}

func (dec *decoder) parseRun(start xml.StartElement) (*Run, error) {
	r := &Run{Attrs: dec.attrs(start.Attr)}
	err := dec.children(func(t xml.StartElement) error {
		switch t.Name.Local {
		case "rPr":
			props, err := dec.parseRunProps()
			r.Props = props
			return err
		case "t":
			el, err := dec.capture(t)
			if err == nil {
				r.Content = append(r.Content, &Text{Value: el.Text()})
			}
			return err
		case "tab":
			_, err := dec.capture(t)
			r.Content = append(r.Content, &Tab{})
			return err
		case "br", "cr":
			el, err := dec.capture(t)
			if err == nil {
				r.Content = append(r.Content, &Break{Type: el.Attr("type")})
			}
			return err
		case "drawing":
			el, err := dec.capture(t)
			if err == nil {
				r.Content = append(r.Content, drawingFromElement(el))
			}
			return err
		}
		el, err := dec.capture(t)
		if err == nil {
			r.Content = append(r.Content, el)
		}
		return err
	})
	return r, err
}

func (dec *decoder) parseTable(start xml.StartElement) (*Table, error) {
	tbl := &Table{Attrs: dec.attrs(start.Attr)}
	err := dec.children(func(t xml.StartElement) error {
		switch t.Name.Local {
		case "tblPr":
			el, err := dec.capture(t)
			tbl.Props = el
			return err
		case "tblGrid":
			el, err := dec.capture(t)
			if err != nil {
				return err
			}
			for _, col := range el.Elements() {
				if col.Local() == "gridCol" {
					w, _ := ParseTwips(col.Attr("w"))
					tbl.Grid = append(tbl.Grid, w)
				}
			}
			return nil
		case "tr":
			row, err := dec.parseRow(t)
			if err == nil {
				tbl.Rows = append(tbl.Rows, row)
			}
			return err
		}
		_, err := dec.capture(t)
		return err
	})
	return tbl, err
}

func (dec *decoder) parseRow(start xml.StartElement) (*TableRow, error) {
	row := &TableRow{Attrs: dec.attrs(start.Attr)}
	err := dec.children(func(t xml.StartElement) error {
		switch t.Name.Local {
		case "trPr":
			el, err := dec.capture(t)
			row.Props = el
			return err
		case "tc":
			cell, err := dec.parseCell()
			if err == nil {
				row.Cells = append(row.Cells, cell)
			}
			return err
		case "sdt", "customXml":
			// cell-level content controls: look through to their cells
			return dec.children(func(c xml.StartElement) error {
				if c.Name.Local != "sdtContent" {
					_, err := dec.capture(c)
					return err
				}
				return dec.children(func(cc xml.StartElement) error {
					if cc.Name.Local != "tc" {
						_, err := dec.capture(cc)
						return err
					}
					cell, err := dec.parseCell()
					if err == nil {
						row.Cells = append(row.Cells, cell)
					}
					return err
				})
			})
		}
		_, err := dec.capture(t)
		return err
	})
	return row, err
}

func (dec *decoder) parseCell() (*TableCell, error) {
	cell := &TableCell{}
	err := dec.children(func(t xml.StartElement) error {
		if t.Name.Local == "tcPr" {
			el, err := dec.capture(t)
			cell.Props = el
			return err
		}
		el, err := dec.parseBlock(t)
		if err == nil {
			cell.Content = append(cell.Content, el)
		}
		return err
	})
	return cell, err
}

// ParseStoryName reports the part kind implied by a zip entry name such as
// "word/header2.xml".
func ParseStoryName(name string) (PartKind, bool) {
	base := name[strings.LastIndexByte(name, '/')+1:]
	switch {
	case base == "document.xml":
		return PartDocument, true
	case strings.HasPrefix(base, "header") && strings.HasSuffix(base, ".xml"):
		return PartHeader, true
	case strings.HasPrefix(base, "footer") && strings.HasSuffix(base, ".xml"):
		return PartFooter, true
	}
	return 0, false
}
