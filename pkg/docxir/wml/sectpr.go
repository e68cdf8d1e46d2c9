package wml

import (
	"encoding/xml"
	"strconv"
)

// SectPr wraps a w:sectPr element. The element is kept whole so page
// setup docxir does not model (columns, line numbering, borders) survives;
// the accessors read and write the attributes it does model.
type SectPr struct {
	El *Element
}

// Reference is a header or footer reference inside w:sectPr.
type Reference struct {
	Type string // default, first, even
	ID   string
}

// NewSectPr returns section properties for a portrait page of the given
// size and margins (all twips).
func NewSectPr(width, height, top, right, bottom, left, header, footer int) *SectPr {
	s := &SectPr{El: NewElement("w:sectPr")}
	s.SetPageSize(width, height)
	margins := []struct {
		side string
		v    int
	}{{"top", top}, {"right", right}, {"bottom", bottom}, {"left", left}, {"header", header}, {"footer", footer}}
	for _, m := range margins {
		s.SetMargin(m.side, m.v)
	}
	s.SetMargin("gutter", 0)
	return s
}

// PageSize returns the w:pgSz width and height when present.
func (s *SectPr) PageSize() (width, height int, hasWidth, hasHeight bool) {
	if s == nil {
		return
	}
	pgSz := s.El.Child("pgSz")
	if pgSz == nil {
		return
	}
	width, hasWidth = ParseTwips(pgSz.Attr("w"))
	height, hasHeight = ParseTwips(pgSz.Attr("h"))
	return
}

// SetPageSize writes w:pgSz.
func (s *SectPr) SetPageSize(width, height int) {
	pgSz := s.child("w:pgSz")
	pgSz.SetAttr("w:w", strconv.Itoa(width))
	pgSz.SetAttr("w:h", strconv.Itoa(height))
}

// Margin reads one w:pgMar attribute (top, bottom, left, right, header,
// footer, gutter). left/right fall back to start/end.
func (s *SectPr) Margin(side string) (int, bool) {
	if s == nil {
		return 0, false
	}
	pgMar := s.El.Child("pgMar")
	if pgMar == nil {
		return 0, false
	}
	v, ok := pgMar.LookupAttr(side)
	if !ok {
		switch side {
		case "left":
			v, ok = pgMar.LookupAttr("start")
		case "right":
			v, ok = pgMar.LookupAttr("end")
		}
	}
	if !ok {
		return 0, false
	}
	return ParseTwips(v)
}

// SetMargin writes one w:pgMar attribute.
func (s *SectPr) SetMargin(side string, twips int) {
	s.child("w:pgMar").SetAttr("w:"+side, strconv.Itoa(twips))
}

// child returns the named child, inserting it in schema order
// (headerReference, footerReference, ..., pgSz, pgMar, ...) when missing.
func (s *SectPr) child(name string) *Element {
	local := localName(name)
	if c := s.El.Child(local); c != nil {
		return c
	}
	c := NewElement(prefixOf(s.El.Name) + local)
	idx := len(s.El.Children)
	for i, n := range s.El.Children {
		el, ok := n.(*Element)
		if !ok {
			continue
		}
		if sectPrOrder(el.Local()) > sectPrOrder(local) {
			idx = i
			break
		}
	}
	s.El.Children = append(s.El.Children, nil)
	copy(s.El.Children[idx+1:], s.El.Children[idx:])
	s.El.Children[idx] = c
	return c
}

func sectPrOrder(local string) int {
	switch local {
	case "headerReference", "footerReference":
		return 0
	case "footnotePr", "endnotePr", "type":
		return 1
	case "pgSz":
		return 2
	case "pgMar":
		return 3
	}
	return 4
}

// References lists w:headerReference (kind "header") or w:footerReference
// (kind "footer") entries in order.
func (s *SectPr) References(kind string) []Reference {
	if s == nil {
		return nil
	}
	var out []Reference
	for _, el := range s.El.Elements() {
		if el.Local() == kind+"Reference" {
			out = append(out, Reference{Type: el.Attr("type"), ID: el.Attr("id")})
		}
	}
	return out
}

// SetReference points the header or footer reference of the given type
// ("default", "first", "even") at relationship id.
func (s *SectPr) SetReference(kind, refType, id string) {
	local := kind + "Reference"
	for _, el := range s.El.Elements() {
		if el.Local() == local && el.Attr("type") == refType {
			el.SetAttr("r:id", id)
			return
		}
	}
	ref := NewElement(prefixOf(s.El.Name)+local, prefixOf(s.El.Name)+"type", refType, "r:id", id)
	idx := 0
	for i, n := range s.El.Children {
		if el, ok := n.(*Element); ok && sectPrOrder(el.Local()) == 0 {
			idx = i + 1
		}
	}
	s.El.Children = append(s.El.Children, nil)
	copy(s.El.Children[idx+1:], s.El.Children[idx:])
	s.El.Children[idx] = ref
}

// MarshalXML implements custom XML marshaling for SectPr
func (s *SectPr) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return s.El.MarshalXML(e, start)
}
