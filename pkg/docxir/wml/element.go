package wml

import (
	"encoding/xml"
	"strings"
)

// Attr is an attribute with a qualified name ("w:val", "xmlns:w").
type Attr struct {
	Name  string
	Value string
}

// Node is an *Element or a CharData inside a captured element.
type Node interface {
	isNode()
}

// CharData is character data inside a captured element.
type CharData string

func (CharData) isNode() {}

// Element is an XML element preserved as-is. It is used for everything the
// typed model does not interpret, and as the backing store of section and
// table properties.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []Node
}

func (*Element) isNode()             {}
func (*Element) isBodyElement()      {}
func (*Element) isParagraphContent() {}
func (*Element) isRunContent()       {}

// NewElement creates an element with attributes given as name/value pairs.
func NewElement(name string, attrs ...string) *Element {
	e := &Element{Name: name}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.Attrs = append(e.Attrs, Attr{Name: attrs[i], Value: attrs[i+1]})
	}
	return e
}

// Local returns the name without its prefix.
func (e *Element) Local() string {
	return localName(e.Name)
}

func localName(qname string) string {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[i+1:]
	}
	return qname
}

// Attr returns the value of the first attribute whose local name matches.
func (e *Element) Attr(local string) string {
	v, _ := e.LookupAttr(local)
	return v
}

// LookupAttr is Attr with a presence flag.
func (e *Element) LookupAttr(local string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attrs {
		if localName(a.Name) == local && !strings.HasPrefix(a.Name, "xmlns") {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets (or adds) an attribute by qualified name.
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// Append adds child nodes and returns e.
func (e *Element) Append(children ...Node) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Elements returns the child elements.
func (e *Element) Elements() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// Child returns the first child element with the given local name.
func (e *Element) Child(local string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Local() == local {
			return el
		}
	}
	return nil
}

// Find returns the first descendant (depth-first, excluding e) with the
// given local name.
func (e *Element) Find(local string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		el, ok := c.(*Element)
		if !ok {
			continue
		}
		if el.Local() == local {
			return el
		}
		if found := el.Find(local); found != nil {
			return found
		}
	}
	return nil
}

// RemoveChildren drops every child element with the given local name.
func (e *Element) RemoveChildren(local string) {
	kept := e.Children[:0]
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Local() == local {
			continue
		}
		kept = append(kept, c)
	}
	e.Children = kept
}

// Text concatenates the character data of e and its descendants.
func (e *Element) Text() string {
	var b strings.Builder
	e.writeText(&b)
	return b.String()
}

func (e *Element) writeText(b *strings.Builder) {
	for _, c := range e.Children {
		switch v := c.(type) {
		case CharData:
			b.WriteString(string(v))
		case *Element:
			v.writeText(b)
		}
	}
}

// Clone deep-copies the element.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	out := &Element{Name: e.Name, Attrs: append([]Attr(nil), e.Attrs...)}
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out.Children = append(out.Children, el.Clone())
		} else {
			out.Children = append(out.Children, c)
		}
	}
	return out
}

// MarshalXML writes the element with its qualified names unchanged.
func (e *Element) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	start := startElement(e.Name, e.Attrs)
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range e.Children {
		switch v := c.(type) {
		case CharData:
			if err := enc.EncodeToken(xml.CharData(v)); err != nil {
				return err
			}
		case *Element:
			if err := v.MarshalXML(enc, xml.StartElement{}); err != nil {
				return err
			}
		}
	}
	return enc.EncodeToken(start.End())
}

func startElement(name string, attrs []Attr) xml.StartElement {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	for _, a := range attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	return start
}

// encodeEmpty writes <name attrs.../>.
func encodeEmpty(enc *xml.Encoder, name string, attrs ...string) error {
	return NewElement(name, attrs...).MarshalXML(enc, xml.StartElement{})
}

// encodeVal writes <name w:val="v"/>.
func encodeVal(enc *xml.Encoder, name, val string) error {
	return encodeEmpty(enc, name, "w:val", val)
}
