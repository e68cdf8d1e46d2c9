package session

import (
	"unicode"
	"unicode/utf8"

	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

// Offsets in this file count runes across the concatenated run text.

func runeLen(runs []ir.Run) int {
	n := 0
	for _, r := range runs {
		n += utf8.RuneCountInString(r.Text)
	}
	return n
}

// splitRuns cuts runs at off. Both halves are fresh slices; styles are
// copied so edits on one half never leak into the other.
func splitRuns(runs []ir.Run, off int) (left, right []ir.Run) {
	pos := 0
	for _, r := range runs {
		n := utf8.RuneCountInString(r.Text)
		switch {
		case pos+n <= off:
			left = append(left, copyRun(r))
		case pos >= off:
			right = append(right, copyRun(r))
		default:
			cut := byteIndex(r.Text, off-pos)
			head, tail := copyRun(r), copyRun(r)
			head.Text, tail.Text = r.Text[:cut], r.Text[cut:]
			left = append(left, head)
			right = append(right, tail)
		}
		pos += n
	}
	return left, right
}

func copyRun(r ir.Run) ir.Run {
	if r.Style != nil {
		s := *r.Style
		r.Style = &s
	}
	return r
}

// byteIndex converts a rune offset into a byte offset of s.
func byteIndex(s string, runes int) int {
	i := 0
	for n := 0; n < runes && i < len(s); n++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}

// normalizeRuns drops empty runs and merges neighbours of equal style.
func normalizeRuns(runs []ir.Run) []ir.Run {
	var out []ir.Run
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		r = r.Normalize()
		if n := len(out); n > 0 && out[n-1].EffectiveStyle() == r.EffectiveStyle() {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}

func concatRuns(parts ...[]ir.Run) []ir.Run {
	var out []ir.Run
	for _, p := range parts {
		out = append(out, p...)
	}
	return normalizeRuns(out)
}

// styleBefore is the style text typed at off inherits: the style of the
// rune before off, or of the first rune at the start of the block.
func styleBefore(runs []ir.Run, off int) ir.RunStyle {
	pos := 0
	for _, r := range runs {
		n := utf8.RuneCountInString(r.Text)
		if n == 0 {
			continue
		}
		if off <= pos+n {
			return r.EffectiveStyle()
		}
		pos += n
	}
	if len(runs) > 0 {
		return runs[len(runs)-1].EffectiveStyle()
	}
	return ir.RunStyle{}
}

// runSpan returns the rune range of the run the caret at off sits in.
// A caret on a run boundary belongs to the run on its left.
func runSpan(runs []ir.Run, off int) (start, end int, ok bool) {
	pos := 0
	for _, r := range runs {
		n := utf8.RuneCountInString(r.Text)
		if n == 0 {
			continue
		}
		if off <= pos+n {
			return pos, pos + n, true
		}
		pos += n
	}
	return 0, 0, false
}

func insertRuns(runs []ir.Run, off int, text string, style ir.RunStyle) []ir.Run {
	left, right := splitRuns(runs, off)
	return concatRuns(left, []ir.Run{ir.NewRun(text, style)}, right)
}

func deleteRuns(runs []ir.Run, from, to int) []ir.Run {
	left, rest := splitRuns(runs, from)
	_, right := splitRuns(rest, to-from)
	return concatRuns(left, right)
}

// wordStartBefore returns the offset deleteWordBackward removes back to:
// trailing spaces first, then the word before them.
func wordStartBefore(text []rune, off int) int {
	i := off
	for i > 0 && unicode.IsSpace(text[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(text[i-1]) {
		i--
	}
	return i
}

// wordEndAfter mirrors wordStartBefore for forward deletion.
func wordEndAfter(text []rune, off int) int {
	i := off
	for i < len(text) && unicode.IsSpace(text[i]) {
		i++
	}
	for i < len(text) && !unicode.IsSpace(text[i]) {
		i++
	}
	return i
}
