package container

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/klauspost/compress/flate"
	"github.com/zeebo/blake3"

	"github.com/lumina-note/docxir/internal/logging"
	"github.com/lumina-note/docxir/pkg/docxir/wml"
)

// Encode writes pkg as a DOCX archive.
//
// Entries are written in their decoded order; parts that did not exist in
// the decoded archive follow. Before writing, Encode registers content
// types for the main document, headers, footers, styles, numbering and
// the media extensions in use.
func Encode(w io.Writer, pkg *Package, opts ...WriteOption) error {
	cfg := defaultWriteConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if pkg == nil || pkg.DocumentXML == nil {
		return errors.New("package has no main document")
	}
	pkg.ensureContentTypes()

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, cfg.level)
	})

	current := pkg.knownParts()
	pending := make(map[string][]byte, len(current))
	for _, part := range current {
		pending[part.Name] = part.Data
	}
	extra := make(map[string][]byte, len(pkg.Extra))
	for _, part := range pkg.Extra {
		extra[part.Name] = part.Data
	}

	copied, rewritten := 0, 0
	for _, e := range pkg.entries {
		name := e.file.Name
		if data, ok := extra[name]; ok {
			delete(extra, name)
			if err := writeEntry(zw, name, data, &e.file.FileHeader, cfg); err != nil {
				return err
			}
			rewritten++
			continue
		}
		if !e.known {
			if err := copyRaw(zw, e.file); err != nil {
				return err
			}
			copied++
			continue
		}
		data, ok := pending[name]
		if !ok {
			// removed since decode
			continue
		}
		delete(pending, name)
		if blake3.Sum256(data) == e.digest {
			if err := copyRaw(zw, e.file); err != nil {
				return err
			}
			copied++
			continue
		}
		if err := writeEntry(zw, name, data, &e.file.FileHeader, cfg); err != nil {
			return err
		}
		rewritten++
	}

	for _, part := range current {
		data, ok := pending[part.Name]
		if !ok {
			continue
		}
		if err := writeEntry(zw, part.Name, data, nil, cfg); err != nil {
			return err
		}
		rewritten++
	}
	for _, part := range pkg.Extra {
		if data, ok := extra[part.Name]; ok {
			if err := writeEntry(zw, part.Name, data, nil, cfg); err != nil {
				return err
			}
			rewritten++
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	logging.WithFields(logging.Fields{"copied": copied, "written": rewritten}).Debug("encoded package")
	return nil
}

// copyRaw copies an entry with its original header and compressed stream.
func copyRaw(zw *zip.Writer, f *zip.File) error {
	fh := f.FileHeader
	fw, err := zw.CreateRaw(&fh)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", f.Name, err)
	}
	fr, err := f.OpenRaw()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	if _, err := io.Copy(fw, fr); err != nil {
		return fmt.Errorf("failed to copy %s: %w", f.Name, err)
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, data []byte, orig *zip.FileHeader, cfg writeConfig) error {
	fh := &zip.FileHeader{Name: name, Method: zip.Deflate}
	if orig != nil {
		fh.Modified = orig.Modified
		fh.Comment = orig.Comment
	} else if !cfg.modTime.IsZero() {
		fh.Modified = cfg.modTime
	}
	fw, err := zw.CreateHeader(fh)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// ensureContentTypes registers content types for parts added since
// decode. Parts that came from the archive keep whatever it declared.
func (p *Package) ensureContentTypes() {
	if p.ContentTypes == nil {
		p.ContentTypes = NewContentTypes()
	}
	existing := make(map[string]bool, len(p.entries))
	for _, e := range p.entries {
		existing[e.file.Name] = true
	}
	if !existing[ContentTypesPart] {
		// nothing was declared; cover every part
		existing = nil
	}
	ct := p.ContentTypes
	ct.EnsureDefault("rels", TypeRelationships)
	ct.EnsureDefault("xml", TypeXML)
	override := func(name, contentType string) {
		if !existing[name] {
			ct.EnsureOverride(name, contentType)
		}
	}
	override(p.DocumentPath, TypeDocument)
	for _, h := range p.Headers {
		override(h.Name, TypeHeader)
	}
	for _, f := range p.Footers {
		override(f.Name, TypeFooter)
	}
	if p.StylesXML != nil && p.StylesPath != "" {
		override(p.StylesPath, TypeStyles)
	}
	if p.NumberingXML != nil && p.NumberingPath != "" {
		override(p.NumberingPath, TypeNumbering)
	}
	names := make([]string, 0, len(p.Media))
	for name := range p.Media {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if existing[name] {
			continue
		}
		if _, ok := ct.Default(path.Ext(name)); !ok {
			ct.EnsureDefault(path.Ext(name), DetectMIME(name, p.Media[name]))
		}
	}
}

// AddStory appends a header or footer part and registers it in the
// document relationships. It returns the new relationship id.
func (p *Package) AddStory(kind wml.PartKind, data []byte) (name, relID string) {
	name = p.NextStoryName(kind)
	relType := wml.RelTypeHeader
	part := Part{Name: name, Data: data}
	if kind == wml.PartFooter {
		relType = wml.RelTypeFooter
		p.Footers = append(p.Footers, part)
	} else {
		p.Headers = append(p.Headers, part)
	}
	relID = wml.NextRelationshipID(p.Relationships)
	p.Relationships = append(p.Relationships, wml.Relationship{
		ID:     relID,
		Type:   relType,
		Target: wml.RelativeTarget(p.DocumentPath, name),
	})
	return name, relID
}
