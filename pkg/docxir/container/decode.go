package container

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/zeebo/blake3"

	"github.com/lumina-note/docxir/internal/logging"
	"github.com/lumina-note/docxir/pkg/docxir/diag"
	"github.com/lumina-note/docxir/pkg/docxir/wml"
)

// Decode reads a DOCX package from data.
//
// Decode applies safe default size limits (see [DefaultLimits]); use
// WithReadLimits to change them. A malformed archive, a malformed
// relationships or content types part, or a missing main document yields
// a *diag.FormatError. Unreadable media entries are dropped with a
// warning unless WithStrictMedia is set.
func Decode(data []byte, opts ...ReadOption) (*Package, error) {
	cfg := readConfig{limits: defaultLimits()}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, diag.NewFormatError("", "not a zip archive", err)
	}
	zr.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})

	if err := checkLimits(zr.File, cfg.limits); err != nil {
		return nil, err
	}

	d := &decoder{cfg: cfg, pkg: New(), files: make(map[string]*entry)}
	for _, f := range zr.File {
		if _, dup := d.files[f.Name]; dup {
			d.warn(f.Name, errors.New("duplicate entry ignored"))
			continue
		}
		e := &entry{file: f}
		d.pkg.entries = append(d.pkg.entries, e)
		d.files[f.Name] = e
	}

	if err := d.decode(); err != nil {
		return nil, err
	}
	logging.WithFields(logging.Fields{
		"entries": len(d.pkg.entries),
		"headers": len(d.pkg.Headers),
		"footers": len(d.pkg.Footers),
		"media":   len(d.pkg.Media),
	}).Debug("decoded package")
	return d.pkg, nil
}

func checkLimits(files []*zip.File, l Limits) error {
	if len(files) > l.MaxParts {
		return diag.NewFormatError("", fmt.Sprintf("%d entries", len(files)), diag.ErrLimitExceeded)
	}
	var total uint64
	for _, f := range files {
		if f.UncompressedSize64 > l.MaxPartSize {
			return diag.NewFormatError(f.Name, fmt.Sprintf("%d bytes", f.UncompressedSize64), diag.ErrLimitExceeded)
		}
		total += f.UncompressedSize64
		if total > l.MaxTotalSize {
			return diag.NewFormatError("", "total uncompressed size", diag.ErrLimitExceeded)
		}
	}
	return nil
}

type decoder struct {
	cfg   readConfig
	pkg   *Package
	files map[string]*entry
}

func (d *decoder) warn(part string, cause error) {
	var w diag.Warnings
	w.Add(part, cause)
	d.pkg.Warnings = append(d.pkg.Warnings, w.List()...)
}

// read returns the bytes of a known entry and records its digest.
func (d *decoder) read(name string) ([]byte, bool, error) {
	e, ok := d.files[name]
	if !ok {
		return nil, false, nil
	}
	data, err := readAll(e.file, d.cfg.limits)
	if err != nil {
		if errors.Is(err, diag.ErrLimitExceeded) {
			return nil, true, diag.NewFormatError(name, "entry too large", err)
		}
		return nil, true, err
	}
	e.known = true
	e.digest = blake3.Sum256(data)
	return data, true, nil
}

func (d *decoder) readRequired(name string) ([]byte, bool, error) {
	data, ok, err := d.read(name)
	if err != nil && !diag.IsFormatError(err) {
		err = diag.NewFormatError(name, "unreadable entry", err)
	}
	return data, ok, err
}

// readRels reads and parses the relationships part of owner.
func (d *decoder) readRels(owner string) ([]wml.Relationship, bool, error) {
	name := wml.RelsPathFor(owner)
	data, ok, err := d.readRequired(name)
	if err != nil || !ok {
		return nil, ok, err
	}
	rels, err := wml.ParseRelationships(data)
	if err != nil {
		return nil, true, diag.NewFormatError(name, "malformed relationships", err)
	}
	d.pkg.relsRaw[name] = data
	d.pkg.origRels[name] = append([]wml.Relationship(nil), rels...)
	return rels, true, nil
}

func (d *decoder) decode() error {
	pkg := d.pkg

	ctData, ok, err := d.readRequired(ContentTypesPart)
	if err != nil {
		return err
	}
	if ok {
		if pkg.ContentTypes, err = ParseContentTypes(ctData); err != nil {
			return diag.NewFormatError(ContentTypesPart, "malformed content types", err)
		}
	} else {
		d.warn(ContentTypesPart, errors.New("missing content types; a default set is written on save"))
	}

	pkg.DocumentPath = d.documentPath()
	doc, ok, err := d.readRequired(pkg.DocumentPath)
	if err != nil {
		return err
	}
	if !ok {
		return diag.NewFormatError(pkg.DocumentPath, "", diag.ErrMissingDocumentPart)
	}
	pkg.DocumentXML = doc

	rels, _, err := d.readRels(pkg.DocumentPath)
	if err != nil {
		return err
	}
	pkg.Relationships = rels

	media := make(map[string]bool)
	for _, rel := range rels {
		if rel.IsExternal() {
			continue
		}
		target := wml.ResolveTarget(pkg.DocumentPath, rel.Target)
		switch rel.Type {
		case wml.RelTypeHeader, wml.RelTypeFooter:
			if err := d.readStory(rel.Type, target, media); err != nil {
				return err
			}
		case wml.RelTypeStyles:
			if pkg.StylesXML, _, err = d.readRequired(target); err != nil {
				return err
			}
			if pkg.StylesXML != nil {
				pkg.StylesPath = target
			}
		case wml.RelTypeNumbering:
			if pkg.NumberingXML, _, err = d.readRequired(target); err != nil {
				return err
			}
			if pkg.NumberingXML != nil {
				pkg.NumberingPath = target
			}
		case wml.RelTypeImage:
			media[target] = true
		}
	}

	for _, e := range pkg.entries {
		name := e.file.Name
		if isMediaPath(name) && !strings.HasSuffix(name, "/") {
			media[name] = true
		}
	}
	for _, e := range pkg.entries {
		if media[e.file.Name] {
			if err := d.readMedia(e.file.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// documentPath finds the main document through the package relationships.
func (d *decoder) documentPath() string {
	e, ok := d.files[PackageRelsPart]
	if !ok {
		return DefaultDocumentPath
	}
	data, err := readAll(e.file, d.cfg.limits)
	if err != nil {
		return DefaultDocumentPath
	}
	rels, err := wml.ParseRelationships(data)
	if err != nil {
		d.warn(PackageRelsPart, err)
		return DefaultDocumentPath
	}
	for _, rel := range rels {
		if rel.Type == wml.RelTypeOfficeDocument && !rel.IsExternal() {
			return wml.ResolveTarget("", rel.Target)
		}
	}
	return DefaultDocumentPath
}

func (d *decoder) readStory(relType, name string, media map[string]bool) error {
	data, ok, err := d.readRequired(name)
	if err != nil {
		return err
	}
	if !ok {
		d.warn(name, errors.New("relationship target not in package"))
		return nil
	}
	part := Part{Name: name, Data: data}
	if relType == wml.RelTypeHeader {
		if _, dup := d.pkg.Header(name); dup {
			return nil
		}
		d.pkg.Headers = append(d.pkg.Headers, part)
	} else {
		if _, dup := d.pkg.Footer(name); dup {
			return nil
		}
		d.pkg.Footers = append(d.pkg.Footers, part)
	}

	rels, ok, err := d.readRels(name)
	if err != nil {
		return err
	}
	if ok {
		d.pkg.PartRels[name] = rels
		for _, rel := range rels {
			if rel.Type == wml.RelTypeImage && !rel.IsExternal() {
				media[wml.ResolveTarget(name, rel.Target)] = true
			}
		}
	}
	return nil
}

func (d *decoder) readMedia(name string) error {
	data, ok, err := d.read(name)
	if !ok {
		return nil
	}
	if err != nil {
		if d.cfg.strictMedia {
			return diag.NewFormatError(name, "unreadable media entry", err)
		}
		// the entry is left out of Media and is not written back
		d.files[name].known = true
		d.warn(name, &diag.MediaReadWarning{Part: name, Err: err})
		return nil
	}
	d.pkg.Media[name] = data
	return nil
}
