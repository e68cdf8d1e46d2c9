package convert

import (
	"github.com/lumina-note/docxir/pkg/docxir/geometry"
	"github.com/lumina-note/docxir/pkg/docxir/ir"
	"github.com/lumina-note/docxir/pkg/docxir/wml"
)

// PageStyleFromSectPr reads the page size, margins and header/footer
// distances of a section. Attributes the section does not carry stay nil.
// It returns nil when nothing is set.
func PageStyleFromSectPr(s *wml.SectPr) *ir.DocxPageStyle {
	if s == nil || s.El == nil {
		return nil
	}
	mm := func(twips int, ok bool) *float64 {
		if !ok {
			return nil
		}
		return ir.MM(geometry.TwipsToMM(twips))
	}

	ps := &ir.DocxPageStyle{}
	w, h, hasW, hasH := s.PageSize()
	ps.WidthMM = mm(w, hasW)
	ps.HeightMM = mm(h, hasH)
	ps.MarginTopMM = mm(s.Margin("top"))
	ps.MarginBottomMM = mm(s.Margin("bottom"))
	ps.MarginLeftMM = mm(s.Margin("left"))
	ps.MarginRightMM = mm(s.Margin("right"))
	ps.HeaderMM = mm(s.Margin("header"))
	ps.FooterMM = mm(s.Margin("footer"))
	if ps.IsEmpty() {
		return nil
	}
	return ps
}

// ApplyPageStyle writes the set fields of ps into s. A page size given in
// only one dimension keeps the section's other dimension, or A4's.
func ApplyPageStyle(s *wml.SectPr, ps *ir.DocxPageStyle) {
	if s == nil || ps.IsEmpty() {
		return
	}
	if ps.WidthMM != nil || ps.HeightMM != nil {
		w, h, hasW, hasH := s.PageSize()
		if !hasW {
			w = geometry.MMToTwips(geometry.A4.WidthMM)
		}
		if !hasH {
			h = geometry.MMToTwips(geometry.A4.HeightMM)
		}
		if ps.WidthMM != nil {
			w = geometry.MMToTwips(*ps.WidthMM)
		}
		if ps.HeightMM != nil {
			h = geometry.MMToTwips(*ps.HeightMM)
		}
		s.SetPageSize(w, h)
	}

	for _, m := range []struct {
		side string
		v    *float64
	}{
		{"top", ps.MarginTopMM},
		{"right", ps.MarginRightMM},
		{"bottom", ps.MarginBottomMM},
		{"left", ps.MarginLeftMM},
		{"header", ps.HeaderMM},
		{"footer", ps.FooterMM},
	} {
		if m.v != nil {
			s.SetMargin(m.side, geometry.MMToTwips(*m.v))
		}
	}
}

// DefaultSectPr returns section properties matching the default page
// geometry.
func DefaultSectPr() *wml.SectPr {
	g := geometry.Default
	m := g.Margins()
	tw := geometry.MMToTwips
	return wml.NewSectPr(tw(g.Page.WidthMM), tw(g.Page.HeightMM),
		tw(m.Top), tw(m.Right), tw(m.Bottom), tw(m.Left), tw(m.Header), tw(m.Footer))
}
