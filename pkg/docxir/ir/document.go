package ir

// MediaDescriptor describes one relationship target owned by a Document.
type MediaDescriptor struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Target     string `json:"target"`
	TargetMode string `json:"targetMode,omitempty"`
	MIMEType   string `json:"mimeType,omitempty"`
	Digest     string `json:"digest,omitempty"`
}

// StyleRefs carries the document-level style identifiers. Empty = absent.
type StyleRefs struct {
	ParagraphStyleID string `json:"paragraphStyleId,omitempty"`
	FontStyleID      string `json:"fontStyleId,omitempty"`
	PageStyleID      string `json:"pageStyleId,omitempty"`
}

// DocxPageStyle is the page setup of a document in millimetres. A nil field
// is absent and resolves through the geometry fallback, never as zero.
type DocxPageStyle struct {
	WidthMM        *float64 `json:"widthMm,omitempty"`
	HeightMM       *float64 `json:"heightMm,omitempty"`
	MarginTopMM    *float64 `json:"marginTopMm,omitempty"`
	MarginBottomMM *float64 `json:"marginBottomMm,omitempty"`
	MarginLeftMM   *float64 `json:"marginLeftMm,omitempty"`
	MarginRightMM  *float64 `json:"marginRightMm,omitempty"`
	// HeaderMM is the header distance from the top edge.
	HeaderMM *float64 `json:"headerMm,omitempty"`
	// FooterMM is the footer distance from the bottom edge.
	FooterMM *float64 `json:"footerMm,omitempty"`
}

// MM returns a pointer to v, for filling DocxPageStyle literals.
func MM(v float64) *float64 {
	return &v
}

// IsEmpty reports whether no field is set.
func (s *DocxPageStyle) IsEmpty() bool {
	return s == nil || (s.WidthMM == nil && s.HeightMM == nil &&
		s.MarginTopMM == nil && s.MarginBottomMM == nil &&
		s.MarginLeftMM == nil && s.MarginRightMM == nil &&
		s.HeaderMM == nil && s.FooterMM == nil)
}

// Document is the IR of one open DOCX. Relationships and Media are owned
// here; blocks refer to them only by embed id.
type Document struct {
	Blocks        []Block                    `json:"blocks"`
	HeaderBlocks  []Block                    `json:"headerBlocks,omitempty"`
	FooterBlocks  []Block                    `json:"footerBlocks,omitempty"`
	Relationships map[string]MediaDescriptor `json:"relationships,omitempty"`
	Media         map[string][]byte          `json:"-"`
	StyleRefs     StyleRefs                  `json:"styleRefs"`
	PageStyle     *DocxPageStyle             `json:"pageStyle,omitempty"`
}

// NewDocument returns an empty document with initialised maps.
func NewDocument() *Document {
	return &Document{
		Relationships: make(map[string]MediaDescriptor),
		Media:         make(map[string][]byte),
	}
}

// EnsureMaps initialises nil maps.
func (d *Document) EnsureMaps() {
	if d.Relationships == nil {
		d.Relationships = make(map[string]MediaDescriptor)
	}
	if d.Media == nil {
		d.Media = make(map[string][]byte)
	}
}

// Clone returns a deep copy of the document. Media bytes are shared; they
// are treated as immutable once stored.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Blocks:       CloneBlocks(d.Blocks),
		HeaderBlocks: CloneBlocks(d.HeaderBlocks),
		FooterBlocks: CloneBlocks(d.FooterBlocks),
		StyleRefs:    d.StyleRefs,
	}
	if d.Relationships != nil {
		out.Relationships = make(map[string]MediaDescriptor, len(d.Relationships))
		for k, v := range d.Relationships {
			out.Relationships[k] = v
		}
	}
	if d.Media != nil {
		out.Media = make(map[string][]byte, len(d.Media))
		for k, v := range d.Media {
			out.Media[k] = v
		}
	}
	out.PageStyle = d.PageStyle.Clone()
	return out
}

// Clone returns a copy that shares no pointers with s.
func (s *DocxPageStyle) Clone() *DocxPageStyle {
	if s == nil {
		return nil
	}
	dup := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		return MM(*v)
	}
	return &DocxPageStyle{
		WidthMM:        dup(s.WidthMM),
		HeightMM:       dup(s.HeightMM),
		MarginTopMM:    dup(s.MarginTopMM),
		MarginBottomMM: dup(s.MarginBottomMM),
		MarginLeftMM:   dup(s.MarginLeftMM),
		MarginRightMM:  dup(s.MarginRightMM),
		HeaderMM:       dup(s.HeaderMM),
		FooterMM:       dup(s.FooterMM),
	}
}
