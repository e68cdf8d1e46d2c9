package convert

import (
	"math"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/parser"

	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

// pxPerPt is the CSS reference ratio of 96px to 72pt.
const pxPerPt = 96.0 / 72.0

// indentStepPt is one IR indent level as a CSS margin.
const indentStepPt = 36.0

// blockAttrs are the paragraph properties carried by CSS.
type blockAttrs struct {
	align  ir.Align
	indent int
}

// declarations parses an inline style attribute. Parsing stops at the
// first malformed declaration; what was read before it is kept.
func declarations(style string) map[string]string {
	style = strings.TrimSpace(style)
	if style == "" {
		return nil
	}
	// the parser only completes a declaration at ';' or '}'
	if !strings.HasSuffix(style, ";") {
		style += ";"
	}
	decls, _ := parser.ParseDeclarations(style)
	out := make(map[string]string, len(decls))
	for _, d := range decls {
		if d.Property == "" {
			continue
		}
		out[strings.ToLower(d.Property)] = strings.TrimSpace(d.Value)
	}
	return out
}

// applyRunCSS folds character formatting declarations into s.
// font-weight below 600 and font-style normal leave s unchanged, so an
// explicit 400 and an absent weight read the same.
func applyRunCSS(s ir.RunStyle, decls map[string]string) ir.RunStyle {
	if v, ok := decls["font-weight"]; ok && isBoldWeight(v) {
		s.Bold = true
	}
	if v, ok := decls["font-style"]; ok {
		switch strings.ToLower(v) {
		case "italic", "oblique":
			s.Italic = true
		}
	}
	for _, prop := range []string{"text-decoration", "text-decoration-line"} {
		v := strings.ToLower(decls[prop])
		if strings.Contains(v, "underline") {
			s.Underline = true
		}
		if strings.Contains(v, "line-through") {
			s.Strikethrough = true
		}
	}
	if v, ok := decls["font-size"]; ok {
		if pt, ok := parseFontSize(v); ok {
			s.SizePt = pt
		}
	}
	if v, ok := decls["font-family"]; ok {
		if f := firstFamily(v); f != "" {
			s.Font = f
		}
	}
	return s
}

// applyBlockCSS reads text-align and margin-left.
func applyBlockCSS(a blockAttrs, decls map[string]string) blockAttrs {
	if v, ok := decls["text-align"]; ok {
		if align, ok := ir.ParseAlign(strings.ToLower(v)); ok {
			a.align = align
		}
	}
	if v, ok := decls["margin-left"]; ok {
		if pt, ok := parseLengthPt(v); ok && pt > 0 {
			a.indent = int(math.Round(pt / indentStepPt))
		}
	}
	return a
}

func isBoldWeight(v string) bool {
	switch strings.ToLower(v) {
	case "bold", "bolder":
		return true
	}
	n, err := strconv.Atoi(v)
	return err == nil && n >= 600
}

// parseFontSize accepts px and pt lengths and returns points.
func parseFontSize(v string) (float64, bool) {
	pt, ok := parseLengthPt(v)
	if !ok || pt <= 0 {
		return 0, false
	}
	return pt, true
}

// parseLengthPt converts a px or pt length to points. A bare number is
// taken as px, as browsers do in quirks mode.
func parseLengthPt(v string) (float64, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	unit := "px"
	switch {
	case strings.HasSuffix(v, "pt"):
		unit, v = "pt", strings.TrimSuffix(v, "pt")
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSuffix(v, "px")
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	if unit == "px" {
		n /= pxPerPt
	}
	return n, true
}

func firstFamily(v string) string {
	first := strings.SplitN(v, ",", 2)[0]
	return strings.Trim(strings.TrimSpace(first), `"'`)
}

// fontTagSizes maps the legacy <font size> scale to points.
var fontTagSizes = map[string]float64{
	"1": 7.5, "2": 10, "3": 12, "4": 13.5, "5": 18, "6": 24, "7": 36,
}

// runCSS renders the font declarations of a run style. Flags are written
// as elements, not CSS.
func runCSS(s ir.RunStyle) string {
	var decls []string
	if s.Font != "" {
		decls = append(decls, "font-family:"+cssFamily(s.Font))
	}
	if s.SizePt > 0 {
		decls = append(decls, "font-size:"+strconv.FormatFloat(s.SizePt, 'f', -1, 64)+"pt")
	}
	return strings.Join(decls, ";")
}

func blockCSS(align ir.Align, indent int) string {
	var decls []string
	if align != ir.AlignInherit {
		decls = append(decls, "text-align:"+string(align))
	}
	if indent > 0 {
		decls = append(decls, "margin-left:"+strconv.FormatFloat(float64(indent)*indentStepPt, 'f', -1, 64)+"pt")
	}
	return strings.Join(decls, ";")
}

// cssFamily quotes a family name unless it is a plain identifier sequence.
func cssFamily(name string) string {
	for _, r := range name {
		if !(r == ' ' || r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return "'" + strings.ReplaceAll(name, "'", "") + "'"
		}
	}
	return name
}
