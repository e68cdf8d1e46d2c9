package ir

// RunStyle holds the character formatting modelled by the IR. Every field is
// an independent override; the zero value means "no override".
//
// Absence and explicit false are not distinguished: a run that was
// explicitly un-bolded and a run that never mentioned bold both carry
// Bold == false.
type RunStyle struct {
	Bold          bool    `json:"bold,omitempty"`
	Italic        bool    `json:"italic,omitempty"`
	Underline     bool    `json:"underline,omitempty"`
	Strikethrough bool    `json:"strikethrough,omitempty"`
	Font          string  `json:"font,omitempty"`
	SizePt        float64 `json:"sizePt,omitempty"`
}

// IsZero reports whether the style carries no override at all.
func (s RunStyle) IsZero() bool {
	return s == RunStyle{}
}

// Ptr returns nil for an empty style and a pointer to a copy otherwise.
func (s RunStyle) Ptr() *RunStyle {
	if s.IsZero() {
		return nil
	}
	return &s
}

// Run is the smallest styled text unit.
type Run struct {
	Text  string    `json:"text"`
	Style *RunStyle `json:"style,omitempty"`
}

// NewRun builds a run, dropping the style when it is empty.
func NewRun(text string, style RunStyle) Run {
	return Run{Text: text, Style: style.Ptr()}
}

// Plain builds an unstyled run.
func Plain(text string) Run {
	return Run{Text: text}
}

// EffectiveStyle returns the run style by value (zero when absent).
func (r Run) EffectiveStyle() RunStyle {
	if r.Style == nil {
		return RunStyle{}
	}
	return *r.Style
}

// Normalize collapses a non-nil empty style to nil.
func (r Run) Normalize() Run {
	if r.Style != nil && r.Style.IsZero() {
		r.Style = nil
	}
	return r
}

func (r Run) clone() Run {
	if r.Style != nil {
		s := *r.Style
		r.Style = &s
	}
	return r
}

func runsText(runs []Run) string {
	n := 0
	for _, r := range runs {
		n += len(r.Text)
	}
	b := make([]byte, 0, n)
	for _, r := range runs {
		b = append(b, r.Text...)
	}
	return string(b)
}

func cloneRuns(runs []Run) []Run {
	if runs == nil {
		return nil
	}
	out := make([]Run, len(runs))
	for i, r := range runs {
		out[i] = r.clone()
	}
	return out
}
