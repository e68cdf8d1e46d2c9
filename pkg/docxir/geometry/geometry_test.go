package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

const eps = 0.01

func assertBox(t *testing.T, want, got Box) {
	t.Helper()
	assert.InDelta(t, want.XMM, got.XMM, eps, "x")
	assert.InDelta(t, want.YMM, got.YMM, eps, "y")
	assert.InDelta(t, want.WidthMM, got.WidthMM, eps, "width")
	assert.InDelta(t, want.HeightMM, got.HeightMM, eps, "height")
}

func TestResolveDefault(t *testing.T) {
	for name, style := range map[string]*ir.DocxPageStyle{
		"nil":   nil,
		"empty": {},
	} {
		t.Run(name, func(t *testing.T) {
			g := Resolve(style)
			assertBox(t, Box{0, 0, 210, 297}, g.Page)
			assertBox(t, Box{25, 37, 160, 223}, g.Body)
			assert.InDelta(t, 12, g.Header.HeightMM, eps)
			assert.InDelta(t, 12, g.Footer.HeightMM, eps)
			assert.Equal(t, Default, g)
		})
	}
}

func TestResolveFullStyle(t *testing.T) {
	style := Letter.Style(Margins{Top: 25.4, Right: 19.05, Bottom: 25.4, Left: 19.05, Header: 12.7, Footer: 12.7})
	g := Resolve(style)

	assertBox(t, Box{0, 0, 215.9, 279.4}, g.Page)
	assertBox(t, Box{19.05, 25.4, 177.8, 228.6}, g.Body)
	assertBox(t, Box{19.05, 12.7, 177.8, 12.7}, g.Header)
	assertBox(t, Box{19.05, 266.7, 177.8, 12.7}, g.Footer)
}

func TestPartialOverrideIndependence(t *testing.T) {
	tests := []struct {
		name  string
		style *ir.DocxPageStyle
		check func(t *testing.T, g PageGeometry)
	}{
		{
			name:  "left margin only",
			style: &ir.DocxPageStyle{MarginLeftMM: ir.MM(40)},
			check: func(t *testing.T, g PageGeometry) {
				assertBox(t, Box{40, 37, 145, 223}, g.Body)
				assertBox(t, Box{40, 25, 145, 12}, g.Header)
				assertBox(t, Box{40, 285, 145, 12}, g.Footer)
			},
		},
		{
			name:  "width only",
			style: &ir.DocxPageStyle{WidthMM: ir.MM(300)},
			check: func(t *testing.T, g PageGeometry) {
				assertBox(t, Box{0, 0, 300, 297}, g.Page)
				assertBox(t, Box{25, 37, 250, 223}, g.Body)
			},
		},
		{
			name:  "header distance only",
			style: &ir.DocxPageStyle{HeaderMM: ir.MM(10)},
			check: func(t *testing.T, g PageGeometry) {
				assertBox(t, Box{25, 10, 160, 27}, g.Header)
				assertBox(t, Default.Body, g.Body)
				assertBox(t, Default.Footer, g.Footer)
			},
		},
		{
			name:  "footer distance only",
			style: &ir.DocxPageStyle{FooterMM: ir.MM(20)},
			check: func(t *testing.T, g PageGeometry) {
				assertBox(t, Box{25, 277, 160, 20}, g.Footer)
				assertBox(t, Default.Header, g.Header)
			},
		},
		{
			name:  "zero margins are honoured",
			style: &ir.DocxPageStyle{MarginTopMM: ir.MM(0), MarginBottomMM: ir.MM(0)},
			check: func(t *testing.T, g PageGeometry) {
				assertBox(t, Box{25, 0, 160, 297}, g.Body)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Resolve(tt.style))
		})
	}
}

func TestResolveInvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name  string
		style *ir.DocxPageStyle
	}{
		{"zero width", &ir.DocxPageStyle{WidthMM: ir.MM(0)}},
		{"negative height", &ir.DocxPageStyle{HeightMM: ir.MM(-1)}},
		{"NaN margin", &ir.DocxPageStyle{MarginTopMM: ir.MM(math.NaN())}},
		{"infinite margin", &ir.DocxPageStyle{MarginRightMM: ir.MM(math.Inf(1))}},
		{"negative distance", &ir.DocxPageStyle{FooterMM: ir.MM(-5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Default, Resolve(tt.style))
		})
	}
}

func TestGeometryContainment(t *testing.T) {
	styles := []*ir.DocxPageStyle{
		{MarginLeftMM: ir.MM(500)},
		{MarginTopMM: ir.MM(400), MarginBottomMM: ir.MM(400)},
		{WidthMM: ir.MM(10), HeightMM: ir.MM(10)},
		{HeaderMM: ir.MM(1000), FooterMM: ir.MM(1000)},
		{HeaderMM: ir.MM(60)},
		{WidthMM: ir.MM(1e-6), HeightMM: ir.MM(1e-6)},
		A4.Style(Margins{Top: 300, Right: 300, Bottom: 300, Left: 300, Header: 300, Footer: 300}),
	}

	for i, style := range styles {
		g := Resolve(style)
		for name, b := range map[string]Box{"body": g.Body, "header": g.Header, "footer": g.Footer} {
			assert.GreaterOrEqual(t, b.WidthMM, 0.0, "style %d %s width", i, name)
			assert.GreaterOrEqual(t, b.HeightMM, 0.0, "style %d %s height", i, name)
			assert.True(t, g.Page.Contains(b, 1e-9), "style %d %s %+v outside %+v", i, name, b, g.Page)
		}
	}
}

func TestResolveWithFallback(t *testing.T) {
	fallback := Resolve(Letter.Style(Margins{Top: 20, Right: 15, Bottom: 30, Left: 15, Header: 8, Footer: 10}))

	g := ResolveWithFallback(&ir.DocxPageStyle{MarginTopMM: ir.MM(40)}, fallback)

	assert.Equal(t, fallback.Page, g.Page)
	assertBox(t, Box{15, 40, 185.9, 209.4}, g.Body)
	assertBox(t, Box{15, 8, 185.9, 32}, g.Header)
	assertBox(t, fallback.Footer, g.Footer)
}

func TestMarginsRecoverBuildInput(t *testing.T) {
	m := Margins{Top: 12, Right: 10, Bottom: 10, Left: 8, Header: 6, Footer: 4}
	got := Build(210, 297, m).Margins()

	assert.InDelta(t, m.Top, got.Top, eps)
	assert.InDelta(t, m.Right, got.Right, eps)
	assert.InDelta(t, m.Bottom, got.Bottom, eps)
	assert.InDelta(t, m.Left, got.Left, eps)
	assert.InDelta(t, m.Header, got.Header, eps)
	assert.InDelta(t, m.Footer, got.Footer, eps)
}

func TestHeaderContentBox(t *testing.T) {
	g := Build(210, 297, Margins{Top: 12, Right: 10, Bottom: 10, Left: 8, Header: 6, Footer: 4})

	assertBox(t, Box{8, 6, 192, 6}, g.HeaderContentBox(10))
	assertBox(t, Box{8, 6, 192, 3}, g.HeaderContentBox(3))

	empty := g.HeaderContentBox(-2)
	assert.Zero(t, empty.HeightMM)
	assert.InDelta(t, 6, empty.YMM, eps)
}

func TestFooterContentBox(t *testing.T) {
	g := Build(210, 297, Margins{Top: 10, Right: 10, Bottom: 20, Left: 10, Header: 6, Footer: 12})

	footer := g.FooterContentBox(4)
	assertBox(t, Box{10, 297 - 4, 190, 4}, footer)

	clamped := g.FooterContentBox(30)
	assertBox(t, Box{10, 297 - 12, 190, 12}, clamped)
}

func TestUnitConversions(t *testing.T) {
	assert.InDelta(t, 25.4, TwipsToMM(1440), eps)
	assert.InDelta(t, 210.01, TwipsToMM(11906), eps)
	assert.Equal(t, 1440, MMToTwips(25.4))
	assert.Equal(t, 11906, MMToTwips(TwipsToMM(11906)))
	assert.Equal(t, int64(914400), MMToEMU(25.4))
	assert.InDelta(t, 25.4, EMUToMM(914400), eps)
}

func TestPageSizes(t *testing.T) {
	assertBox(t, Box{0, 0, 210, 297}, A4.Box())
	assertBox(t, Box{0, 0, 215.9, 279.4}, Letter.Box())
	assertBox(t, Box{0, 0, 0, 100}, CustomPageSize(-5, 100).Box())

	tests := []struct {
		w, h  float64
		name  string
		found bool
	}{
		{210, 297, "A4", true},
		{297, 210, "A4", true},
		{215.9, 279.4, "Letter", true},
		{210.01, 297.03, "A4", true},
		{100, 100, "", false},
	}
	for _, tt := range tests {
		s, ok := Detect(tt.w, tt.h)
		assert.Equal(t, tt.found, ok)
		assert.Equal(t, tt.name, s.Name)
	}
}
