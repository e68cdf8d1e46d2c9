package wml

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// BodyElement represents any element that can appear in a document body
type BodyElement interface {
	isBodyElement()
}

// ParagraphContent represents any content that can appear in a paragraph
type ParagraphContent interface {
	isParagraphContent()
}

// Paragraph represents a w:p element
type Paragraph struct {
	Attrs   []Attr
	Props   *ParagraphProps
	Content []ParagraphContent
}

func (*Paragraph) isBodyElement() {}

// ParagraphProps represents w:pPr. Only the properties docxir interprets
// are typed; the rest are kept in Other.
type ParagraphProps struct {
	Style string
	NumPr *NumPr
	// IndentLeft is the left (start) indentation in twips.
	IndentLeft *int
	Justify    string
	OutlineLvl *int
	// RunProps are the paragraph mark run properties (w:pPr/w:rPr).
	RunProps *RunProps
	Other    []*Element
}

// NumPr is a w:numPr list reference.
type NumPr struct {
	Level int
	NumID string
}

// Hyperlink represents a w:hyperlink element
type Hyperlink struct {
	Attrs   []Attr
	Content []ParagraphContent
}

func (*Hyperlink) isParagraphContent() {}

// RelationshipID returns the r:id of an external hyperlink.
func (h *Hyperlink) RelationshipID() string {
	return attrLocal(h.Attrs, "id")
}

// Anchor returns the w:anchor of an internal hyperlink.
func (h *Hyperlink) Anchor() string {
	return attrLocal(h.Attrs, "anchor")
}

// InlineGroup is a run-level wrapper docxir looks through: a content
// control (w:sdt), smart tag, insertion, simple field or custom XML.
type InlineGroup struct {
	Name    string
	Attrs   []Attr
	Props   *Element
	Content []ParagraphContent
}

func (*InlineGroup) isParagraphContent() {}

// Local returns the group element name without prefix.
func (g *InlineGroup) Local() string {
	return localName(g.Name)
}

// BlockGroup is a block-level wrapper: a content control or custom XML
// holding paragraphs and tables.
type BlockGroup struct {
	Name    string
	Attrs   []Attr
	Props   *Element
	Content []BodyElement
}

func (*BlockGroup) isBodyElement() {}

// Local returns the group element name without prefix.
func (g *BlockGroup) Local() string {
	return localName(g.Name)
}

func attrLocal(attrs []Attr, local string) string {
	for _, a := range attrs {
		if localName(a.Name) == local && !strings.HasPrefix(a.Name, "xmlns") {
			return a.Value
		}
	}
	return ""
}

// Style returns the paragraph style id, or "".
func (p *Paragraph) Style() string {
	if p.Props == nil {
		return ""
	}
	return p.Props.Style
}

// Runs returns the runs of the paragraph in order, looking through
// hyperlinks and inline groups.
func (p *Paragraph) Runs() []*Run {
	return collectRuns(p.Content, nil)
}

func collectRuns(content []ParagraphContent, out []*Run) []*Run {
	for _, c := range content {
		switch v := c.(type) {
		case *Run:
			out = append(out, v)
		case *Hyperlink:
			out = collectRuns(v.Content, out)
		case *InlineGroup:
			out = collectRuns(v.Content, out)
		}
	}
	return out
}

// Text returns the plain text of the paragraph.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs() {
		b.WriteString(r.Text())
	}
	return b.String()
}

// MarshalXML implements custom XML marshaling for Paragraph
func (p *Paragraph) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := startElement("w:p", p.Attrs)
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.Props != nil && !p.Props.isEmpty() {
		if err := p.Props.MarshalXML(e, xml.StartElement{}); err != nil {
			return err
		}
	}
	if err := marshalParagraphContent(e, p.Content); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

func marshalParagraphContent(e *xml.Encoder, content []ParagraphContent) error {
	for _, c := range content {
		var err error
		switch v := c.(type) {
		case *Run:
			err = v.MarshalXML(e, xml.StartElement{})
		case *Hyperlink:
			err = v.MarshalXML(e, xml.StartElement{})
		case *InlineGroup:
			err = marshalGroup(e, v.Name, v.Attrs, v.Props, func() error {
				return marshalParagraphContent(e, v.Content)
			})
		case *Element:
			err = v.MarshalXML(e, xml.StartElement{})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// marshalGroup writes a wrapper element. Content controls keep their
// w:sdtPr/w:sdtContent structure.
func marshalGroup(e *xml.Encoder, name string, attrs []Attr, props *Element, body func() error) error {
	start := startElement(name, attrs)
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if props != nil {
		if err := props.MarshalXML(e, xml.StartElement{}); err != nil {
			return err
		}
	}
	if localName(name) == "sdt" {
		content := xml.StartElement{Name: xml.Name{Local: prefixOf(name) + "sdtContent"}}
		if err := e.EncodeToken(content); err != nil {
			return err
		}
		if err := body(); err != nil {
			return err
		}
		if err := e.EncodeToken(content.End()); err != nil {
			return err
		}
	} else if err := body(); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

func prefixOf(qname string) string {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[:i+1]
	}
	return ""
}

// MarshalXML implements custom XML marshaling for Hyperlink
func (h *Hyperlink) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := startElement("w:hyperlink", h.Attrs)
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := marshalParagraphContent(e, h.Content); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

func (p *ParagraphProps) isEmpty() bool {
	return p.Style == "" && p.NumPr == nil && p.IndentLeft == nil && p.Justify == "" &&
		p.OutlineLvl == nil && (p.RunProps == nil || p.RunProps.IsEmpty()) && len(p.Other) == 0
}

// MarshalXML writes w:pPr in schema order for the typed properties.
func (p *ParagraphProps) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: "w:pPr"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Style != "" {
		if err := encodeVal(e, "w:pStyle", p.Style); err != nil {
			return err
		}
	}

	if p.NumPr != nil {
		numPr := NewElement("w:numPr").Append(
			NewElement("w:ilvl", "w:val", strconv.Itoa(p.NumPr.Level)),
			NewElement("w:numId", "w:val", p.NumPr.NumID),
		)
		if err := numPr.MarshalXML(e, xml.StartElement{}); err != nil {
			return err
		}
	}

	for _, other := range p.Other {
		if err := other.MarshalXML(e, xml.StartElement{}); err != nil {
			return err
		}
	}

	if p.IndentLeft != nil {
		if err := encodeEmpty(e, "w:ind", "w:left", strconv.Itoa(*p.IndentLeft)); err != nil {
			return err
		}
	}

	if p.Justify != "" {
		if err := encodeVal(e, "w:jc", p.Justify); err != nil {
			return err
		}
	}

	if p.OutlineLvl != nil {
		if err := encodeVal(e, "w:outlineLvl", strconv.Itoa(*p.OutlineLvl)); err != nil {
			return err
		}
	}

	if p.RunProps != nil && !p.RunProps.IsEmpty() {
		if err := p.RunProps.MarshalXML(e, xml.StartElement{}); err != nil {
			return err
		}
	}

	return e.EncodeToken(start.End())
}
