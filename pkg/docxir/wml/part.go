package wml

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// PartKind distinguishes the three story parts docxir reads.
type PartKind int

const (
	PartDocument PartKind = iota
	PartHeader
	PartFooter
)

func (k PartKind) String() string {
	switch k {
	case PartDocument:
		return "document"
	case PartHeader:
		return "header"
	case PartFooter:
		return "footer"
	}
	return fmt.Sprintf("PartKind(%d)", int(k))
}

func (k PartKind) rootName() string {
	switch k {
	case PartHeader:
		return "w:hdr"
	case PartFooter:
		return "w:ftr"
	}
	return "w:document"
}

// Part is a parsed document.xml, header*.xml or footer*.xml.
type Part struct {
	Kind PartKind
	// Name is the qualified root element name.
	Name string
	// Attrs are the root attributes, namespace declarations included.
	Attrs []Attr
	// Leading holds document-level elements that precede w:body
	// (w:background and the like).
	Leading []*Element
	Body    *Body
}

// Body holds the block content of a part. For headers and footers the
// blocks sit directly under the root element.
type Body struct {
	Elements []BodyElement
	SectPr   *SectPr
}

// NewPart returns an empty part with the standard namespace declarations.
func NewPart(kind PartKind) *Part {
	p := &Part{
		Kind:  kind,
		Name:  kind.rootName(),
		Attrs: []Attr{{Name: "xmlns:w", Value: NamespaceW}},
		Body:  &Body{},
	}
	p.EnsureDrawingNamespaces()
	return p
}

// EnsureNamespace declares prefix on the root unless it already is.
func (p *Part) EnsureNamespace(prefix, uri string) {
	name := "xmlns:" + prefix
	if !hasAttrNamed(p.Attrs, name) {
		p.Attrs = append(p.Attrs, Attr{Name: name, Value: uri})
	}
}

func hasAttrNamed(attrs []Attr, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// EnsureDrawingNamespaces declares the prefixes inline pictures use.
func (p *Part) EnsureDrawingNamespaces() {
	for _, a := range drawingNamespaces {
		p.EnsureNamespace(localName(a.Name), a.Value)
	}
}

// MarshalPart serializes a part with an XML declaration.
func MarshalPart(p *Part) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	enc := xml.NewEncoder(&buf)
	if err := p.MarshalXML(enc, xml.StartElement{}); err != nil {
		return nil, fmt.Errorf("failed to marshal %s part: %w", p.Kind, err)
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalXML implements custom XML marshaling for Part
func (p *Part) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	name := p.Name
	if name == "" {
		name = p.Kind.rootName()
	}
	attrs := p.Attrs
	if !hasAttrNamed(attrs, "xmlns:w") {
		attrs = append([]Attr{{Name: "xmlns:w", Value: NamespaceW}}, attrs...)
	}
	root := startElement(name, attrs)
	if err := e.EncodeToken(root); err != nil {
		return err
	}

	body := p.Body
	if body == nil {
		body = &Body{}
	}

	if p.Kind == PartDocument {
		for _, el := range p.Leading {
			if err := el.MarshalXML(e, xml.StartElement{}); err != nil {
				return err
			}
		}
		start := xml.StartElement{Name: xml.Name{Local: prefixOf(name) + "body"}}
		if err := e.EncodeToken(start); err != nil {
			return err
		}
		if err := marshalBodyElements(e, body.Elements); err != nil {
			return err
		}
		if body.SectPr != nil {
			if err := body.SectPr.MarshalXML(e, xml.StartElement{}); err != nil {
				return err
			}
		}
		if err := e.EncodeToken(start.End()); err != nil {
			return err
		}
	} else {
		if err := marshalBodyElements(e, body.Elements); err != nil {
			return err
		}
		// headers and footers must hold at least one paragraph
		if len(body.Elements) == 0 {
			if err := (&Paragraph{}).MarshalXML(e, xml.StartElement{}); err != nil {
				return err
			}
		}
	}

	return e.EncodeToken(root.End())
}
