package layout

import (
	"context"
	"unicode"
	"unicode/utf8"

	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

const (
	mmPerPoint = 25.4 / 72

	// DefaultFontSizePt applies when neither the request nor the runs
	// carry a size.
	DefaultFontSizePt = 11.0
)

// EstimateBackend breaks lines with average glyph advances instead of
// shaping a font: half an em for most characters, a full em for wide
// East Asian ones. It needs no font file, so FontPath is ignored.
type EstimateBackend struct{}

// segment is a candidate line in rune indices.
type segment struct {
	start, end int
	width      float64
}

func (EstimateBackend) LayoutText(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Text == "" {
		return &Result{}, nil
	}
	size := req.FontSizePt
	if size == 0 {
		size = DefaultFontSizePt
	}
	em := size * mmPerPoint

	runes := []rune(req.Text)
	advance := make([]float64, len(runes))
	breakAfter := make([]bool, len(runes))
	for i, r := range runes {
		switch {
		case r == '\n':
		case isWide(r):
			advance[i] = em
		default:
			advance[i] = em / 2
		}
		breakAfter[i] = unicode.IsSpace(r)
	}

	segs := breakLines(runes, advance, breakAfter, req)
	return &Result{Lines: place(segs, runes, breakAfter, req)}, nil
}

func isWide(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}

// breakLines is a greedy breaker: a line ends at a hard newline, or at the
// last whitespace that still fits. A word longer than the line is cut
// where it overflows.
func breakLines(runes []rune, advance []float64, breakAfter []bool, req Request) []segment {
	var segs []segment
	start := 0
	for start < len(runes) {
		avail := req.MaxWidth
		if len(segs) == 0 {
			avail -= req.FirstLineIndent
		}
		width, lastBreak := 0.0, -1
		end := start
		for end < len(runes) {
			if runes[end] == '\n' {
				break
			}
			if width+advance[end] > avail && end > start && !unicode.IsSpace(runes[end]) {
				break
			}
			width += advance[end]
			if breakAfter[end] {
				lastBreak = end
			}
			end++
		}

		switch {
		case end < len(runes) && runes[end] == '\n':
			segs = append(segs, segment{start, end, trimmedWidth(runes, advance, start, end)})
			start = end + 1
			if start == len(runes) {
				segs = append(segs, segment{start, start, 0})
			}
			continue
		case end < len(runes) && lastBreak >= start:
			end = lastBreak + 1
		}
		segs = append(segs, segment{start, end, trimmedWidth(runes, advance, start, end)})
		start = end
	}
	return segs
}

// trimmedWidth ignores trailing whitespace, which hangs past the margin.
func trimmedWidth(runes []rune, advance []float64, start, end int) float64 {
	for end > start && unicode.IsSpace(runes[end-1]) {
		end--
	}
	w := 0.0
	for i := start; i < end; i++ {
		w += advance[i]
	}
	return w
}

// place positions the lines: alignment offsets, the first-line indent,
// the justify gap and the vertical stacking.
func place(segs []segment, runes []rune, breakAfter []bool, req Request) []LineBox {
	if len(segs) == 0 {
		return nil
	}
	spaceBefore := max(req.SpaceBefore, 0)
	byteAt := runeByteOffsets(runes)

	lines := make([]LineBox, 0, len(segs))
	for i, s := range segs {
		indent := 0.0
		if i == 0 {
			indent = req.FirstLineIndent
		}
		avail := max(req.MaxWidth-indent, 0)
		line := LineBox{
			Start:     s.start,
			End:       s.end,
			Width:     s.width,
			XOffset:   indent,
			YOffset:   spaceBefore + float64(i)*req.LineHeight,
			StartByte: byteAt[s.start],
			EndByte:   byteAt[s.end],
		}
		switch req.Align {
		case ir.AlignRight:
			line.XOffset += max(avail-s.width, 0)
		case ir.AlignCenter:
			line.XOffset += max((avail-s.width)/2, 0)
		case ir.AlignJustify:
			if i+1 < len(segs) && s.width < avail {
				if gaps := countGaps(breakAfter, runes, s); gaps > 0 {
					line.JustifyGap = (avail - s.width) / float64(gaps)
				}
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// countGaps counts the break opportunities inside a line, trailing
// whitespace excluded.
func countGaps(breakAfter []bool, runes []rune, s segment) int {
	end := s.end
	for end > s.start && unicode.IsSpace(runes[end-1]) {
		end--
	}
	n := 0
	for i := s.start; i < end; i++ {
		if breakAfter[i] {
			n++
		}
	}
	return n
}

func runeByteOffsets(runes []rune) []int {
	offsets := make([]int, len(runes)+1)
	for i, r := range runes {
		offsets[i+1] = offsets[i] + utf8.RuneLen(r)
	}
	return offsets
}
