package geometry

import (
	"math"

	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

const (
	mmPerInch    = 25.4
	twipsPerInch = 1440
	emuPerInch   = 914400
	// EMUPerMM is the number of English Metric Units in a millimetre.
	EMUPerMM = emuPerInch / mmPerInch
)

// TwipsToMM converts twentieths of a point to millimetres, rounded to
// 0.01mm.
func TwipsToMM(twips int) float64 {
	return round2(float64(twips) * mmPerInch / twipsPerInch)
}

// MMToTwips converts millimetres to the nearest twip.
func MMToTwips(mm float64) int {
	return int(math.Round(mm * twipsPerInch / mmPerInch))
}

// EMUToMM converts English Metric Units to millimetres, rounded to 0.01mm.
func EMUToMM(emu int64) float64 {
	return round2(float64(emu) / EMUPerMM)
}

// MMToEMU converts millimetres to the nearest EMU.
func MMToEMU(mm float64) int64 {
	return int64(math.Round(mm * EMUPerMM))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PageSize is a named paper size.
type PageSize struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

var (
	A4     = PageSize{Name: "A4", WidthMM: 210, HeightMM: 297}
	Letter = PageSize{Name: "Letter", WidthMM: 215.9, HeightMM: 279.4}
)

// CustomPageSize returns an unnamed size; negative dimensions become zero.
func CustomPageSize(widthMM, heightMM float64) PageSize {
	return PageSize{WidthMM: nonNegative(widthMM), HeightMM: nonNegative(heightMM)}
}

// Box returns the page rectangle of the size.
func (s PageSize) Box() Box {
	return Box{0, 0, nonNegative(s.WidthMM), nonNegative(s.HeightMM)}
}

// Style returns a page style with this size and the given margins and
// distances.
func (s PageSize) Style(m Margins) *ir.DocxPageStyle {
	return &ir.DocxPageStyle{
		WidthMM:        ir.MM(s.WidthMM),
		HeightMM:       ir.MM(s.HeightMM),
		MarginTopMM:    ir.MM(m.Top),
		MarginBottomMM: ir.MM(m.Bottom),
		MarginLeftMM:   ir.MM(m.Left),
		MarginRightMM:  ir.MM(m.Right),
		HeaderMM:       ir.MM(m.Header),
		FooterMM:       ir.MM(m.Footer),
	}
}

// Detect names the preset a width and height match within 0.5mm, in
// either orientation.
func Detect(widthMM, heightMM float64) (PageSize, bool) {
	for _, s := range []PageSize{A4, Letter} {
		if near(s.WidthMM, widthMM) && near(s.HeightMM, heightMM) ||
			near(s.WidthMM, heightMM) && near(s.HeightMM, widthMM) {
			return s, true
		}
	}
	return CustomPageSize(widthMM, heightMM), false
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= 0.5
}
