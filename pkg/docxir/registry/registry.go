// Package registry resolves style identifiers and media embed ids for the
// converters. A Registry belongs to one Document and is passed explicitly
// to import and export; there is no process-wide style cache.
package registry

import (
	"github.com/lumina-note/docxir/pkg/docxir/ir"
)

type Registry struct {
	Styles    *StyleSheet
	Numbering *Numbering
	Media     *Media
}

// New builds a registry over doc's media maps and the given styles.xml and
// numbering.xml (either may be empty).
func New(doc *ir.Document, stylesXML, numberingXML []byte) (*Registry, error) {
	styles, err := ParseStyles(stylesXML)
	if err != nil {
		return nil, err
	}
	numbering, err := ParseNumbering(numberingXML)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = ir.NewDocument()
	}
	doc.EnsureMaps()
	return &Registry{
		Styles:    styles,
		Numbering: numbering,
		Media:     NewMedia(doc.Relationships, doc.Media),
	}, nil
}

// Empty returns a registry with no styles, numbering or media.
func Empty() *Registry {
	reg, _ := New(nil, nil, nil)
	return reg
}

// ParagraphDefaults resolves the run properties a paragraph contributes:
// its own pPr/rPr mark first, then its style chain.
func (r *Registry) ParagraphDefaults(styleID string, paraMark RunProps) RunProps {
	return paraMark.Over(r.Styles.ParagraphRunProps(styleID))
}

// ResolveRun applies the full precedence: inline run properties, then the
// paragraph level (pPr/rPr and paragraph style chain), then document
// defaults. Each field is resolved on its own.
func (r *Registry) ResolveRun(inline RunProps, styleID string, paraMark RunProps) ir.RunStyle {
	return Resolve(inline, r.ParagraphDefaults(styleID, paraMark), r.Styles.Defaults()).Style()
}
