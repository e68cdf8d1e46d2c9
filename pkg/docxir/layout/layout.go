// Package layout breaks document text into lines against the page
// geometry. The line breaking itself is done by a Backend; the Driver
// walks the blocks, derives one Request per text-bearing block and sums
// the results for the editor's layout summary.
//
// All lengths are millimetres.
package layout

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

var ErrInvalidRequest = errors.New("invalid layout request")

// Request describes one paragraph to lay out.
type Request struct {
	Text     string
	FontPath string
	// FontSizePt is the font size in points. 0 leaves the backend default.
	FontSizePt      float64
	MaxWidth        float64
	LineHeight      float64
	Align           ir.Align
	FirstLineIndent float64
	SpaceBefore     float64
	SpaceAfter      float64
}

// Validate rejects non-positive widths and line heights.
func (r Request) Validate() error {
	if !(r.MaxWidth > 0) {
		return fmt.Errorf("%w: max width %.2fmm must be positive", ErrInvalidRequest, r.MaxWidth)
	}
	if !(r.LineHeight > 0) {
		return fmt.Errorf("%w: line height %.2fmm must be positive", ErrInvalidRequest, r.LineHeight)
	}
	if r.FontSizePt < 0 {
		return fmt.Errorf("%w: font size %.1fpt is negative", ErrInvalidRequest, r.FontSizePt)
	}
	return nil
}

// LineBox is one laid-out line. Start and End index runes of the request
// text; StartByte and EndByte are the same range in bytes.
type LineBox struct {
	Start     int     `json:"start"`
	End       int     `json:"end"`
	Width     float64 `json:"width"`
	XOffset   float64 `json:"xOffset"`
	YOffset   float64 `json:"yOffset"`
	StartByte int     `json:"startByte"`
	EndByte   int     `json:"endByte"`
	// JustifyGap is the extra space added at every break opportunity of a
	// justified line.
	JustifyGap float64 `json:"justifyGap,omitempty"`
}

type Result struct {
	Lines []LineBox `json:"lines"`
}

// Height is the vertical extent of the result, spacing included.
func (r *Result) Height(req Request) float64 {
	if r == nil || len(r.Lines) == 0 {
		return 0
	}
	last := r.Lines[len(r.Lines)-1]
	return last.YOffset + req.LineHeight + max(req.SpaceAfter, 0)
}

// Backend lays out a single paragraph of text.
type Backend interface {
	LayoutText(ctx context.Context, req Request) (*Result, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, req Request) (*Result, error)

func (f BackendFunc) LayoutText(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}
