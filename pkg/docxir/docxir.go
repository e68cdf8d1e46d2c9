package docxir

import (
	"bytes"
	"errors"
	"fmt"
	"path"

	"github.com/lumina-note/docxir/internal/config"
	"github.com/lumina-note/docxir/internal/logging"
	"github.com/lumina-note/docxir/pkg/docxir/container"
	"github.com/lumina-note/docxir/pkg/docxir/convert"
	"github.com/lumina-note/docxir/pkg/docxir/diag"
	"github.com/lumina-note/docxir/pkg/docxir/ir"
	"github.com/lumina-note/docxir/pkg/docxir/registry"
	"github.com/lumina-note/docxir/pkg/docxir/session"
	"github.com/lumina-note/docxir/pkg/docxir/wml"
)

// ErrNoDocument is returned when saving a session without a document.
var ErrNoDocument = errors.New("session has no document")

type openConfig struct {
	limits      container.Limits
	strictMedia bool
}

// Option configures Open.
type Option func(*openConfig)

// WithLimits overrides the archive limits from the global configuration.
func WithLimits(l container.Limits) Option {
	return func(c *openConfig) {
		c.limits = l
	}
}

// WithStrictMedia makes an unreadable media entry fail the open.
func WithStrictMedia(strict bool) Option {
	return func(c *openConfig) {
		c.strictMedia = strict
	}
}

func newOpenConfig(opts []Option) openConfig {
	cfg := config.GetGlobalConfig()
	c := openConfig{
		limits: container.Limits{
			MaxParts:     cfg.MaxParts,
			MaxPartSize:  uint64(cfg.MaxPartSize),
			MaxTotalSize: uint64(cfg.MaxTotalSize),
		},
		strictMedia: cfg.StrictMedia,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Open decodes a DOCX archive into a new session. The body, the default
// header and footer, the page setup and the images become the session's
// document; recovered problems are listed in the session's Warnings.
// Only a package that cannot be read at all is an error.
func Open(path string, data []byte, opts ...Option) (*session.Session, error) {
	cfg := newOpenConfig(opts)
	pkg, err := container.Decode(data,
		container.WithReadLimits(cfg.limits),
		container.WithStrictMedia(cfg.strictMedia))
	if err != nil {
		return nil, err
	}
	return openPackage(path, pkg)
}

// OpenBlank starts a session on an empty A4 document.
func OpenBlank(path string) (*session.Session, error) {
	pkg, err := container.NewBlank()
	if err != nil {
		return nil, fmt.Errorf("failed to build blank document: %w", err)
	}
	return openPackage(path, pkg)
}

func openPackage(name string, pkg *container.Package) (*session.Session, error) {
	var warnings diag.Warnings
	warnings.Merge(pkg.Warnings)

	doc := ir.NewDocument()
	reg, err := registry.New(doc, pkg.StylesXML, pkg.NumberingXML)
	if err != nil {
		return nil, diag.NewFormatError(pkg.StylesPath, "malformed styles or numbering", err)
	}
	byPath := loadMedia(pkg, reg.Media)

	body, err := convert.Import(pkg.DocumentXML, reg, convert.WithPartName(pkg.DocumentPath))
	if err != nil {
		return nil, err
	}
	warnings.Merge(body.Warnings)
	doc.Blocks = body.Blocks
	doc.PageStyle = body.PageStyle

	sectPr := sectionOf(body.Part)
	if doc.HeaderBlocks, err = importStory(pkg, reg, sectPr, wml.PartHeader, byPath, &warnings); err != nil {
		return nil, err
	}
	if doc.FooterBlocks, err = importStory(pkg, reg, sectPr, wml.PartFooter, byPath, &warnings); err != nil {
		return nil, err
	}
	doc.StyleRefs = ir.StyleRefs{
		ParagraphStyleID: reg.Styles.DefaultParagraphStyle(),
		FontStyleID:      reg.Styles.DefaultCharacterStyle(),
	}

	s := session.New(name, doc)
	s.Package = pkg
	s.Warnings = warnings.List()
	logging.WithFields(logging.Fields{
		"session":  s.ID,
		"path":     name,
		"blocks":   len(doc.Blocks),
		"media":    reg.Media.Len(),
		"warnings": len(s.Warnings),
	}).Debug("opened document")
	return s, nil
}

func sectionOf(part *wml.Part) *wml.SectPr {
	if part == nil || part.Body == nil {
		return nil
	}
	return part.Body.SectPr
}

// loadMedia registers the document's image relationships with their bytes
// and reserves every other relationship id. It returns the media ids by
// package path.
func loadMedia(pkg *container.Package, media *registry.Media) map[string]string {
	byPath := make(map[string]string)
	for _, rel := range pkg.Relationships {
		if rel.Type != wml.RelTypeImage {
			media.Reserve(rel.ID)
			continue
		}
		if rel.IsExternal() {
			media.Put(ir.MediaDescriptor{ID: rel.ID, Type: rel.Type, Target: rel.Target, TargetMode: rel.TargetMode}, nil)
			continue
		}
		name := wml.ResolveTarget(pkg.DocumentPath, rel.Target)
		data, ok := pkg.Media[name]
		if !ok {
			// import reports the dangling embed
			continue
		}
		media.Put(ir.MediaDescriptor{
			ID:       rel.ID,
			Type:     rel.Type,
			Target:   rel.Target,
			MIMEType: container.DetectMIME(name, data),
		}, data)
		byPath[name] = rel.ID
	}
	return byPath
}

// storyPart finds the header or footer part the section shows on ordinary
// pages: its "default" reference, else its first one.
func storyPart(pkg *container.Package, sectPr *wml.SectPr, kind wml.PartKind) (*container.Part, bool) {
	refs := sectPr.References(kind.String())
	if len(refs) == 0 {
		return nil, false
	}
	id := refs[0].ID
	for _, ref := range refs {
		if ref.Type == "default" {
			id = ref.ID
			break
		}
	}
	name, ok := pkg.PartForRelationship(id)
	if !ok {
		return nil, false
	}
	if kind == wml.PartFooter {
		return pkg.Footer(name)
	}
	return pkg.Header(name)
}

func importStory(pkg *container.Package, reg *registry.Registry, sectPr *wml.SectPr, kind wml.PartKind, byPath map[string]string, w *diag.Warnings) ([]ir.Block, error) {
	part, ok := storyPart(pkg, sectPr, kind)
	if !ok {
		return nil, nil
	}
	embeds := storyEmbeds(pkg, part.Name, reg.Media, byPath)
	res, err := convert.Import(part.Data, reg,
		convert.WithPartName(part.Name),
		convert.WithEmbedMap(embeds))
	if err != nil {
		return nil, err
	}
	w.Merge(res.Warnings)
	return res.Blocks, nil
}

// storyEmbeds maps the image relationship ids of a header or footer to
// document media ids. Media the body already uses is shared; the rest is
// registered under fresh ids.
func storyEmbeds(pkg *container.Package, partName string, media *registry.Media, byPath map[string]string) map[string]string {
	embeds := make(map[string]string)
	for _, rel := range pkg.PartRels[partName] {
		if rel.Type != wml.RelTypeImage {
			continue
		}
		if rel.IsExternal() {
			id := media.NextID()
			media.Put(ir.MediaDescriptor{ID: id, Type: rel.Type, Target: rel.Target, TargetMode: rel.TargetMode}, nil)
			embeds[rel.ID] = id
			continue
		}
		name := wml.ResolveTarget(partName, rel.Target)
		if id, ok := byPath[name]; ok {
			embeds[rel.ID] = id
			continue
		}
		data, ok := pkg.Media[name]
		if !ok {
			continue
		}
		id := media.NextID()
		media.Put(ir.MediaDescriptor{
			ID:       id,
			Type:     rel.Type,
			Target:   wml.RelativeTarget(pkg.DocumentPath, name),
			MIMEType: container.DetectMIME(name, data),
		}, data)
		byPath[name] = id
		embeds[rel.ID] = id
	}
	return embeds
}

// Save encodes the session's document into DOCX bytes. The session's
// package is updated in place, so parts outside the model are written
// back unchanged. Save leaves IsDirty alone; call MarkSaved once the
// bytes are persisted.
func Save(s *session.Session) ([]byte, error) {
	if s == nil || s.Document == nil {
		return nil, ErrNoDocument
	}
	if s.Package == nil {
		pkg, err := container.NewBlank()
		if err != nil {
			return nil, fmt.Errorf("failed to build blank document: %w", err)
		}
		s.Package = pkg
	}
	pkg := s.Package
	doc := s.Document
	doc.EnsureMaps()

	reg, err := registry.New(doc, pkg.StylesXML, pkg.NumberingXML)
	if err != nil {
		return nil, diag.NewFormatError(pkg.StylesPath, "malformed styles or numbering", err)
	}
	for _, rel := range pkg.Relationships {
		if rel.Type != wml.RelTypeImage {
			reg.Media.Reserve(rel.ID)
		}
	}
	tpl, err := wml.ParsePart(pkg.DocumentXML)
	if err != nil {
		return nil, diag.NewFormatError(pkg.DocumentPath, "malformed document part", err)
	}
	if tpl.Body == nil {
		tpl.Body = &wml.Body{}
	}
	if tpl.Body.SectPr == nil {
		tpl.Body.SectPr = convert.DefaultSectPr()
	}

	before := mediaInUse(pkg)
	w := &saver{pkg: pkg, reg: reg, lists: reg.Numbering.NewAllocator()}
	if err := w.story(tpl, wml.PartHeader, doc.HeaderBlocks); err != nil {
		return nil, err
	}
	if err := w.story(tpl, wml.PartFooter, doc.FooterBlocks); err != nil {
		return nil, err
	}

	rels := convert.NewDocumentRelAllocator(pkg.Relationships, reg.Media)
	data, res, err := convert.Export(doc.Blocks, reg,
		convert.WithTemplate(tpl),
		convert.WithResolver(reg.Media),
		convert.WithRelAllocator(rels),
		convert.WithPageStyle(doc.PageStyle),
		convert.WithListAllocator(w.lists),
		convert.WithExportPartName(pkg.DocumentPath))
	if err != nil {
		return nil, fmt.Errorf("failed to export document: %w", err)
	}
	w.warnings.Merge(res.Warnings)
	pkg.DocumentXML = data
	pkg.Relationships = res.Relationships
	w.used = append(w.used, rels)

	w.syncMedia(before)
	w.syncDefinitions()

	var buf bytes.Buffer
	if err := container.Encode(&buf, pkg); err != nil {
		return nil, err
	}
	logging.WithFields(logging.Fields{
		"session":  s.ID,
		"bytes":    buf.Len(),
		"warnings": w.warnings.Len(),
	}).Debug("saved document")
	return buf.Bytes(), nil
}

// saver carries the state shared by the parts exported in one Save.
type saver struct {
	pkg      *container.Package
	reg      *registry.Registry
	lists    *registry.Allocator
	used     []*convert.RelAllocator
	warnings diag.Warnings
}

// story writes header or footer blocks into the part the section shows.
// Without such a part, non-empty blocks get a new part referenced as the
// section's default.
func (w *saver) story(tpl *wml.Part, kind wml.PartKind, blocks []ir.Block) error {
	if len(blocks) == 0 {
		// a story part must hold a paragraph
		blocks = []ir.Block{ir.NewParagraph()}
	}
	sectPr := tpl.Body.SectPr
	part, ok := storyPart(w.pkg, sectPr, kind)
	if !ok {
		if len(blocks) == 1 && isBlank(blocks[0]) {
			return nil
		}
		name := w.pkg.NextStoryName(kind)
		rels := convert.NewPartRelAllocator(nil, w.reg.Media)
		data, res, err := convert.Export(blocks, w.reg,
			convert.WithPartKind(kind),
			convert.WithResolver(w.reg.Media),
			convert.WithRelAllocator(rels),
			convert.WithListAllocator(w.lists),
			convert.WithExportPartName(name))
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", kind, err)
		}
		w.warnings.Merge(res.Warnings)
		name, relID := w.pkg.AddStory(kind, data)
		w.pkg.PartRels[name] = w.partRelationships(name, res.Relationships)
		sectPr.SetReference(kind.String(), "default", relID)
		w.used = append(w.used, rels)
		return nil
	}

	partTpl, err := wml.ParsePart(part.Data)
	if err != nil {
		return diag.NewFormatError(part.Name, "malformed story part", err)
	}
	rels := convert.NewPartRelAllocator(w.pkg.PartRels[part.Name], w.reg.Media)
	data, res, err := convert.Export(blocks, w.reg,
		convert.WithTemplate(partTpl),
		convert.WithResolver(w.reg.Media),
		convert.WithRelAllocator(rels),
		convert.WithListAllocator(w.lists),
		convert.WithExportPartName(part.Name))
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", part.Name, err)
	}
	w.warnings.Merge(res.Warnings)
	part.Data = data
	w.pkg.PartRels[part.Name] = w.partRelationships(part.Name, res.Relationships)
	w.used = append(w.used, rels)
	return nil
}

func isBlank(b ir.Block) bool {
	p, ok := b.(*ir.Paragraph)
	return ok && ir.Text(p.Runs) == ""
}

// partRelationships rewrites image targets, which media descriptors keep
// relative to the document part, relative to the story part.
func (w *saver) partRelationships(partName string, rels []wml.Relationship) []wml.Relationship {
	out := make([]wml.Relationship, len(rels))
	for i, rel := range rels {
		if rel.Type == wml.RelTypeImage && !rel.IsExternal() {
			rel.Target = wml.RelativeTarget(partName, wml.ResolveTarget(w.pkg.DocumentPath, rel.Target))
		}
		out[i] = rel
	}
	return out
}

// mediaInUse lists the package paths internal image relationships point
// at, across the document and every story part.
func mediaInUse(pkg *container.Package) map[string]bool {
	used := make(map[string]bool)
	collect := func(owner string, rels []wml.Relationship) {
		for _, rel := range rels {
			if rel.Type == wml.RelTypeImage && !rel.IsExternal() {
				used[wml.ResolveTarget(owner, rel.Target)] = true
			}
		}
	}
	collect(pkg.DocumentPath, pkg.Relationships)
	for name, rels := range pkg.PartRels {
		collect(name, rels)
	}
	return used
}

// syncMedia stores the bytes of every exported image and drops media that
// only the replaced image relationships referenced.
func (w *saver) syncMedia(before map[string]bool) {
	for _, rels := range w.used {
		for _, id := range rels.EmbedIDs() {
			d, ok := w.reg.Media.Descriptor(id)
			if !ok || isExternal(d) {
				continue
			}
			if data, ok := w.reg.Media.Bytes(id); ok {
				w.pkg.Media[wml.ResolveTarget(w.pkg.DocumentPath, d.Target)] = data
			}
		}
	}
	after := mediaInUse(w.pkg)
	for name := range before {
		if !after[name] {
			delete(w.pkg.Media, name)
		}
	}
}

func isExternal(d ir.MediaDescriptor) bool {
	return wml.Relationship{TargetMode: d.TargetMode}.IsExternal()
}

// syncDefinitions writes back styles and numbering the export extended,
// adding the parts when the package had none.
func (w *saver) syncDefinitions() {
	pkg := w.pkg
	dir := path.Dir(pkg.DocumentPath)
	if w.reg.Styles.Modified() {
		pkg.StylesXML = w.reg.Styles.Bytes()
		if pkg.StylesPath == "" {
			pkg.StylesPath = path.Join(dir, "styles.xml")
			w.addRelationship(wml.RelTypeStyles, pkg.StylesPath)
		}
	}
	if w.reg.Numbering.Modified() {
		pkg.NumberingXML = w.reg.Numbering.Bytes()
		if pkg.NumberingPath == "" {
			pkg.NumberingPath = path.Join(dir, "numbering.xml")
			w.addRelationship(wml.RelTypeNumbering, pkg.NumberingPath)
		}
	}
}

func (w *saver) addRelationship(relType, partName string) {
	pkg := w.pkg
	pkg.Relationships = append(pkg.Relationships, wml.Relationship{
		ID:     wml.NextRelationshipID(pkg.Relationships),
		Type:   relType,
		Target: wml.RelativeTarget(pkg.DocumentPath, partName),
	})
}
