package layout

import (
	"context"
	"fmt"
	"time"

	"github.com/lumina-note/docxir/internal/logging"
	"github.com/lumina-note/docxir/pkg/docxir/geometry"
	"github.com/lumina-note/docxir/pkg/docxir/ir"
	"github.com/lumina-note/docxir/pkg/docxir/session"
)

// Options tune how the driver turns blocks into requests.
type Options struct {
	FontPath      string
	DefaultSizePt float64
	// LineSpacing multiplies the font size into the line height.
	LineSpacing float64
	// IndentStepMM is the width of one paragraph indent step.
	IndentStepMM float64
	// SpaceAfterMM separates consecutive blocks.
	SpaceAfterMM float64
	// HeadingSizesPt maps heading levels 1..6 to font sizes when the
	// heading runs carry none.
	HeadingSizesPt [6]float64
}

// DefaultOptions mirror Word's Normal and heading styles.
func DefaultOptions() Options {
	return Options{
		DefaultSizePt:  DefaultFontSizePt,
		LineSpacing:    1.15,
		IndentStepMM:   12.7,
		SpaceAfterMM:   2.82,
		HeadingSizesPt: [6]float64{16, 13, 12, 11, 11, 11},
	}
}

// Option adjusts the Options of a Driver.
type Option func(*Options)

// WithFontPath sets the font file handed to the backend.
func WithFontPath(path string) Option {
	return func(o *Options) { o.FontPath = path }
}

// WithDefaultSize sets the font size of runs that carry none.
func WithDefaultSize(pt float64) Option {
	return func(o *Options) { o.DefaultSizePt = pt }
}

// WithLineSpacing sets the line height as a multiple of the font size.
func WithLineSpacing(factor float64) Option {
	return func(o *Options) { o.LineSpacing = factor }
}

// Driver lays out whole block trees through a Backend.
type Driver struct {
	backend Backend
	opts    Options
}

// NewDriver returns a driver over backend, or over EstimateBackend when
// backend is nil.
func NewDriver(backend Backend, opts ...Option) *Driver {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if backend == nil {
		backend = EstimateBackend{}
	}
	return &Driver{backend: backend, opts: o}
}

// Paragraph is the layout of one text-bearing block. Path locates the
// block: the top-level index, then row, cell and block indices for table
// content. Item is the list item index, or -1.
type Paragraph struct {
	Path     []int     `json:"path"`
	Item     int       `json:"item"`
	Kind     string    `json:"kind"`
	WidthMM  float64   `json:"widthMm"`
	HeightMM float64   `json:"heightMm"`
	Lines    []LineBox `json:"lines"`
}

type Summary struct {
	LineCount  int         `json:"lineCount"`
	Paragraphs []Paragraph `json:"paragraphs"`
	// HeightMM is the stacked height of all top-level blocks.
	HeightMM float64 `json:"heightMm"`
}

// Layout lays out every paragraph, heading, list item and table cell
// paragraph against the body box of g. Images take no lines.
func (d *Driver) Layout(ctx context.Context, blocks []ir.Block, g geometry.PageGeometry) (*Summary, error) {
	sum := &Summary{}
	height, err := d.layoutBlocks(ctx, blocks, g.Body.WidthMM, nil, sum)
	if err != nil {
		return nil, err
	}
	sum.HeightMM = height
	return sum, nil
}

// Refresh lays out the session's body against its page style and stores
// the line count in the session's layout cache.
func (d *Driver) Refresh(ctx context.Context, s *session.Session) (*Summary, error) {
	g := geometry.Resolve(s.Document.PageStyle)
	start := time.Now()
	sum, err := d.Layout(ctx, s.Document.Blocks, g)
	if err != nil {
		return nil, err
	}
	s.SetLayoutCache(sum.LineCount, time.Now())
	logging.WithFields(logging.Fields{
		"session": s.ID,
		"lines":   sum.LineCount,
		"elapsed": time.Since(start).String(),
	}).Debug("layout refreshed")
	return sum, nil
}

func (d *Driver) layoutBlocks(ctx context.Context, blocks []ir.Block, width float64, path []int, sum *Summary) (float64, error) {
	total := 0.0
	for i, b := range blocks {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		at := append(append([]int(nil), path...), i)

		switch v := b.(type) {
		case *ir.Paragraph:
			req := d.request(v.Runs, 0, v.Align, width, float64(v.Indent)*d.opts.IndentStepMM)
			h, err := d.layoutOne(ctx, req, at, -1, b.Kind(), sum)
			if err != nil {
				return 0, err
			}
			total += h
		case *ir.Heading:
			req := d.request(v.Runs, d.opts.HeadingSizesPt[ir.ClampHeadingLevel(v.Level)-1], v.Align, width, 0)
			h, err := d.layoutOne(ctx, req, at, -1, b.Kind(), sum)
			if err != nil {
				return 0, err
			}
			total += h
		case *ir.List:
			for j, item := range v.Items {
				req := d.request(item.Runs, 0, ir.AlignInherit, width, d.opts.IndentStepMM)
				req.SpaceAfter = 0
				h, err := d.layoutOne(ctx, req, at, j, b.Kind(), sum)
				if err != nil {
					return 0, err
				}
				total += h
			}
			total += d.opts.SpaceAfterMM
		case *ir.Table:
			h, err := d.layoutTable(ctx, v, width, at, sum)
			if err != nil {
				return 0, err
			}
			total += h
		case *ir.Image:
			total += geometry.EMUToMM(v.HeightEMU)
		}
	}
	return total, nil
}

// layoutTable splits the width evenly between the columns of the widest
// row. A row is as tall as its tallest cell.
func (d *Driver) layoutTable(ctx context.Context, t *ir.Table, width float64, path []int, sum *Summary) (float64, error) {
	cols := 0
	for _, row := range t.Rows {
		cols = max(cols, len(row.Cells))
	}
	if cols == 0 {
		return 0, nil
	}
	cellWidth := width / float64(cols)

	total := 0.0
	for r, row := range t.Rows {
		tallest := 0.0
		for c, cell := range row.Cells {
			h, err := d.layoutBlocks(ctx, cell.Blocks, cellWidth, append(append([]int(nil), path...), r, c), sum)
			if err != nil {
				return 0, err
			}
			tallest = max(tallest, h)
		}
		total += tallest
	}
	return total, nil
}

func (d *Driver) request(runs []ir.Run, sizePt float64, align ir.Align, width, indent float64) Request {
	if sizePt == 0 {
		sizePt = d.opts.DefaultSizePt
	}
	for _, r := range runs {
		if s := r.EffectiveStyle().SizePt; s > sizePt {
			sizePt = s
		}
	}
	return Request{
		Text:       ir.Text(runs),
		FontPath:   d.opts.FontPath,
		FontSizePt: sizePt,
		// indented paragraphs shift every line, not just the first
		MaxWidth:   max(width-indent, 1),
		LineHeight: sizePt * mmPerPoint * d.opts.LineSpacing,
		Align:      align,
		SpaceAfter: d.opts.SpaceAfterMM,
	}
}

func (d *Driver) layoutOne(ctx context.Context, req Request, path []int, item int, kind ir.BlockKind, sum *Summary) (float64, error) {
	res, err := d.backend.LayoutText(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("layout block %v: %w", path, err)
	}
	p := Paragraph{
		Path:    path,
		Item:    item,
		Kind:    kind.String(),
		WidthMM: req.MaxWidth,
	}
	if res != nil {
		p.Lines = res.Lines
		p.HeightMM = res.Height(req)
	}
	// an empty paragraph still takes one line
	if len(p.Lines) == 0 {
		p.HeightMM = req.LineHeight + req.SpaceAfter
		sum.LineCount++
	}
	sum.LineCount += len(p.Lines)
	sum.Paragraphs = append(sum.Paragraphs, p)
	return p.HeightMM, nil
}
