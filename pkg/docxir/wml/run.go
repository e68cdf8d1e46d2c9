package wml

import (
	"encoding/xml"
	"strings"
)

// RunContent represents any content that can appear in a run
type RunContent interface {
	isRunContent()
}

// Run represents a w:r element
type Run struct {
	Attrs   []Attr
	Props   *RunProps
	Content []RunContent
}

func (*Run) isParagraphContent() {}

// RunProps represents w:rPr. Toggle fields are nil when absent.
type RunProps struct {
	Style         string
	Fonts         *Fonts
	Bold          *bool
	Italic        *bool
	Strikethrough *bool
	// SizeHalfPoints is the raw w:sz value.
	SizeHalfPoints string
	Underline      *bool
	// UnderlineVal keeps the parsed w:u value ("single", "double", ...).
	UnderlineVal string
	Other        []*Element
}

// Fonts represents w:rFonts.
type Fonts struct {
	ASCII    string
	HAnsi    string
	EastAsia string
	CS       string
}

// Name returns the first font set, preferring the ASCII slot.
func (f *Fonts) Name() string {
	if f == nil {
		return ""
	}
	for _, n := range []string{f.ASCII, f.HAnsi, f.EastAsia, f.CS} {
		if n != "" {
			return n
		}
	}
	return ""
}

// IsEmpty reports whether no property is set.
func (p *RunProps) IsEmpty() bool {
	return p == nil || (p.Style == "" && p.Fonts == nil && p.Bold == nil && p.Italic == nil &&
		p.Strikethrough == nil && p.SizeHalfPoints == "" && p.Underline == nil && len(p.Other) == 0)
}

// Text represents a w:t element
type Text struct {
	Value string
}

func (*Text) isRunContent() {}

// Tab represents a w:tab element inside a run
type Tab struct{}

func (*Tab) isRunContent() {}

// Break represents a w:br (or w:cr) element
type Break struct {
	Type string
}

func (*Break) isRunContent() {}

// Text returns the run text with tabs as "\t" and breaks as "\n".
func (r *Run) Text() string {
	var b strings.Builder
	for _, c := range r.Content {
		switch v := c.(type) {
		case *Text:
			b.WriteString(v.Value)
		case *Tab:
			b.WriteByte('\t')
		case *Break:
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// HasText reports whether the run carries text, tabs or breaks.
func (r *Run) HasText() bool {
	for _, c := range r.Content {
		switch c.(type) {
		case *Text, *Tab, *Break:
			return true
		}
	}
	return false
}

// AppendText adds text to the run, turning "\t" into w:tab and "\n" into
// w:br.
func (r *Run) AppendText(s string) {
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			r.Content = append(r.Content, &Text{Value: cur.String()})
			cur.Reset()
		}
	}
	for _, ch := range s {
		switch ch {
		case '\t':
			flush()
			r.Content = append(r.Content, &Tab{})
		case '\n':
			flush()
			r.Content = append(r.Content, &Break{})
		case '\r':
		default:
			cur.WriteRune(ch)
		}
	}
	flush()
}

// MarshalXML implements custom XML marshaling for Run
func (r *Run) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := startElement("w:r", r.Attrs)
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if !r.Props.IsEmpty() {
		if err := r.Props.MarshalXML(e, xml.StartElement{}); err != nil {
			return err
		}
	}
	for _, c := range r.Content {
		var err error
		switch v := c.(type) {
		case *Text:
			err = v.MarshalXML(e, xml.StartElement{})
		case *Tab:
			err = encodeEmpty(e, "w:tab")
		case *Break:
			if v.Type != "" {
				err = encodeEmpty(e, "w:br", "w:type", v.Type)
			} else {
				err = encodeEmpty(e, "w:br")
			}
		case *Drawing:
			err = v.MarshalXML(e, xml.StartElement{})
		case *Element:
			err = v.MarshalXML(e, xml.StartElement{})
		}
		if err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// MarshalXML implements custom XML marshaling for Text
func (t *Text) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: "w:t"}}
	if t.Value != strings.TrimSpace(t.Value) {
		start.Attr = []xml.Attr{{Name: xml.Name{Local: "xml:space"}, Value: "preserve"}}
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.EncodeToken(xml.CharData(t.Value)); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

func encodeToggle(e *xml.Encoder, name string, v *bool) error {
	if v == nil {
		return nil
	}
	if *v {
		return encodeEmpty(e, name)
	}
	return encodeVal(e, name, "0")
}

// MarshalXML writes w:rPr in schema order.
func (p *RunProps) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: "w:rPr"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Style != "" {
		if err := encodeVal(e, "w:rStyle", p.Style); err != nil {
			return err
		}
	}

	if p.Fonts != nil {
		var attrs []string
		for _, kv := range [][2]string{{"w:ascii", p.Fonts.ASCII}, {"w:hAnsi", p.Fonts.HAnsi}, {"w:eastAsia", p.Fonts.EastAsia}, {"w:cs", p.Fonts.CS}} {
			if kv[1] != "" {
				attrs = append(attrs, kv[0], kv[1])
			}
		}
		if err := encodeEmpty(e, "w:rFonts", attrs...); err != nil {
			return err
		}
	}

	if err := encodeToggle(e, "w:b", p.Bold); err != nil {
		return err
	}
	if err := encodeToggle(e, "w:i", p.Italic); err != nil {
		return err
	}
	if err := encodeToggle(e, "w:strike", p.Strikethrough); err != nil {
		return err
	}

	for _, other := range p.Other {
		if err := other.MarshalXML(e, xml.StartElement{}); err != nil {
			return err
		}
	}

	if p.SizeHalfPoints != "" {
		if err := encodeVal(e, "w:sz", p.SizeHalfPoints); err != nil {
			return err
		}
	}

	if p.Underline != nil {
		val := "none"
		if *p.Underline {
			val = p.UnderlineVal
			if val == "" || val == "none" {
				val = "single"
			}
		}
		if err := encodeVal(e, "w:u", val); err != nil {
			return err
		}
	}

	return e.EncodeToken(start.End())
}
