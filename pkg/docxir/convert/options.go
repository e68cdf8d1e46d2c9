package convert

import (
	"github.com/lumina-note/docxir/pkg/docxir/ir"
	"github.com/lumina-note/docxir/pkg/docxir/registry"
	"github.com/lumina-note/docxir/pkg/docxir/wml"
)

type importConfig struct {
	partName string
	embedMap map[string]string
}

// ImportOption configures Import.
type ImportOption func(*importConfig)

// WithPartName names the part in warnings.
func WithPartName(name string) ImportOption {
	return func(c *importConfig) {
		c.partName = name
	}
}

// WithEmbedMap translates part-local relationship ids to document embed
// ids. Header and footer parts carry their own relationship ids; the
// blocks must refer to the document's.
func WithEmbedMap(m map[string]string) ImportOption {
	return func(c *importConfig) {
		c.embedMap = m
	}
}

type exportConfig struct {
	partName  string
	kind      wml.PartKind
	resolver  registry.EmbedResolver
	template  *wml.Part
	rels      *RelAllocator
	pageStyle *ir.DocxPageStyle
	lists     *registry.Allocator
}

// ExportOption configures Export.
type ExportOption func(*exportConfig)

// WithResolver supplies the media lookup for image blocks. Without one,
// every image exports as a placeholder.
func WithResolver(r registry.EmbedResolver) ExportOption {
	return func(c *exportConfig) {
		c.resolver = r
	}
}

// WithTemplate exports into a copy of a previously parsed part, keeping
// its root namespace declarations, leading elements and section
// properties. The template itself is not modified.
func WithTemplate(p *wml.Part) ExportOption {
	return func(c *exportConfig) {
		c.template = p
		if p != nil {
			c.kind = p.Kind
		}
	}
}

// WithRelAllocator sets the relationship allocator of the target part.
func WithRelAllocator(a *RelAllocator) ExportOption {
	return func(c *exportConfig) {
		c.rels = a
	}
}

// WithPageStyle writes the page setup into the section properties.
func WithPageStyle(s *ir.DocxPageStyle) ExportOption {
	return func(c *exportConfig) {
		c.pageStyle = s
	}
}

// WithPartKind selects the root element when no template is given.
func WithPartKind(k wml.PartKind) ExportOption {
	return func(c *exportConfig) {
		c.kind = k
	}
}

// WithListAllocator shares one numbering allocation pass across several
// parts, so lists in a header and in the body never share an instance.
func WithListAllocator(a *registry.Allocator) ExportOption {
	return func(c *exportConfig) {
		c.lists = a
	}
}

// WithExportPartName names the part in warnings.
func WithExportPartName(name string) ExportOption {
	return func(c *exportConfig) {
		c.partName = name
	}
}
