// Package geometry derives the page, body, header and footer rectangles of
// a page, in millimetres, from a document's page style.
//
// Every field of the page style is resolved on its own: a present, finite
// and in-range value wins, anything else is taken from the fallback
// geometry. Resolution never fails.
package geometry

import (
	"math"

	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

// Box is an axis-aligned rectangle in millimetres, origin at the top-left
// corner of the page.
type Box struct {
	XMM      float64 `json:"xMm" yaml:"xMm"`
	YMM      float64 `json:"yMm" yaml:"yMm"`
	WidthMM  float64 `json:"widthMm" yaml:"widthMm"`
	HeightMM float64 `json:"heightMm" yaml:"heightMm"`
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 {
	return b.XMM + b.WidthMM
}

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 {
	return b.YMM + b.HeightMM
}

// Contains reports whether inner lies within b, allowing eps of rounding.
func (b Box) Contains(inner Box, eps float64) bool {
	return inner.XMM >= b.XMM-eps && inner.YMM >= b.YMM-eps &&
		inner.Right() <= b.Right()+eps && inner.Bottom() <= b.Bottom()+eps &&
		inner.WidthMM >= 0 && inner.HeightMM >= 0
}

// PageGeometry is the resolved layout of one page.
type PageGeometry struct {
	Page   Box `json:"page" yaml:"page"`
	Body   Box `json:"body" yaml:"body"`
	Header Box `json:"header" yaml:"header"`
	Footer Box `json:"footer" yaml:"footer"`
}

// Margins are the page margins plus the header and footer distances, the
// quantities a DOCX section stores.
type Margins struct {
	Top, Right, Bottom, Left float64
	// Header is the header distance from the top edge.
	Header float64
	// Footer is the footer distance from the bottom edge.
	Footer float64
}

// Default is the geometry used when a document carries no page style: an
// A4 page with 25mm margins and 12mm header and footer bands.
var Default = PageGeometry{
	Page:   Box{0, 0, 210, 297},
	Body:   Box{25, 37, 160, 223},
	Header: Box{25, 25, 160, 12},
	Footer: Box{25, 285, 160, 12},
}

// Resolve computes the geometry for style using Default as the fallback.
func Resolve(style *ir.DocxPageStyle) PageGeometry {
	return ResolveWithFallback(style, Default)
}

// ResolveWithFallback computes the geometry for style. Absent or invalid
// fields are implied from fallback.
func ResolveWithFallback(style *ir.DocxPageStyle, fallback PageGeometry) PageGeometry {
	implied := fallback.Margins()
	if style == nil {
		style = &ir.DocxPageStyle{}
	}

	width := dimension(style.WidthMM, fallback.Page.WidthMM)
	height := dimension(style.HeightMM, fallback.Page.HeightMM)
	m := Margins{
		Top:    distance(style.MarginTopMM, implied.Top),
		Right:  distance(style.MarginRightMM, implied.Right),
		Bottom: distance(style.MarginBottomMM, implied.Bottom),
		Left:   distance(style.MarginLeftMM, implied.Left),
		Header: distance(style.HeaderMM, implied.Header),
		Footer: distance(style.FooterMM, implied.Footer),
	}
	return Build(width, height, m)
}

// Build lays out a page of the given size from margins and distances.
func Build(width, height float64, m Margins) PageGeometry {
	page := Box{0, 0, nonNegative(width), nonNegative(height)}
	bodyW := math.Max(0, page.WidthMM-m.Left-m.Right)
	bodyH := math.Max(0, page.HeightMM-m.Top-m.Bottom)

	g := PageGeometry{
		Page:   page,
		Body:   Box{m.Left, m.Top, bodyW, bodyH},
		Header: Box{m.Left, m.Header, bodyW, math.Max(0, m.Top-m.Header)},
		Footer: Box{m.Left, math.Max(0, page.HeightMM-m.Footer), bodyW, math.Max(0, m.Footer)},
	}
	g.Body = clamp(g.Body, page)
	g.Header = clamp(g.Header, page)
	g.Footer = clamp(g.Footer, page)
	return g
}

// Margins recovers the margins and distances a geometry was built from.
func (g PageGeometry) Margins() Margins {
	return Margins{
		Top:    g.Body.YMM,
		Left:   g.Body.XMM,
		Right:  g.Page.WidthMM - g.Body.XMM - g.Body.WidthMM,
		Bottom: g.Page.HeightMM - g.Body.YMM - g.Body.HeightMM,
		Header: g.Header.YMM,
		Footer: g.Page.HeightMM - g.Footer.YMM,
	}
}

// HeaderContentBox returns the part of the header band taken by content
// of the given height, top aligned and clamped to the band.
func (g PageGeometry) HeaderContentBox(contentHeightMM float64) Box {
	h := g.Header
	h.HeightMM = math.Min(nonNegative(contentHeightMM), g.Header.HeightMM)
	return h
}

// FooterContentBox returns the part of the footer band taken by content
// of the given height, bottom aligned and clamped to the band.
func (g PageGeometry) FooterContentBox(contentHeightMM float64) Box {
	f := g.Footer
	f.HeightMM = math.Min(nonNegative(contentHeightMM), g.Footer.HeightMM)
	f.YMM = g.Footer.YMM + g.Footer.HeightMM - f.HeightMM
	return f
}

// dimension also rejects zero: a page with no extent cannot hold a body.
func dimension(v *float64, fallback float64) float64 {
	if v == nil || !finite(*v) || *v <= 0 {
		return fallback
	}
	return *v
}

func distance(v *float64, fallback float64) float64 {
	if v == nil || !finite(*v) || *v < 0 {
		return nonNegative(fallback)
	}
	return *v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nonNegative(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}

// clamp moves and shrinks b so it lies inside page.
func clamp(b, page Box) Box {
	b.XMM = math.Min(math.Max(b.XMM, page.XMM), page.Right())
	b.YMM = math.Min(math.Max(b.YMM, page.YMM), page.Bottom())
	b.WidthMM = math.Max(0, math.Min(b.WidthMM, page.Right()-b.XMM))
	b.HeightMM = math.Max(0, math.Min(b.HeightMM, page.Bottom()-b.YMM))
	return b
}
