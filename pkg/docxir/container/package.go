package container

import (
	"archive/zip"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lumina-note/docxir/pkg/docxir/diag"
	"github.com/lumina-note/docxir/pkg/docxir/wml"
)

const (
	PackageRelsPart     = "_rels/.rels"
	DefaultDocumentPath = "word/document.xml"
)

// Part is a named package part.
type Part struct {
	Name string
	Data []byte
}

// Package is a decoded DOCX container. The exported fields hold the parts
// docxir reads and writes; everything else is kept as pass-through entries
// and copied unchanged by Encode.
type Package struct {
	ContentTypes *ContentTypes

	DocumentPath  string
	DocumentXML   []byte
	Relationships []wml.Relationship

	// Headers and Footers are listed in document relationship order.
	Headers []Part
	Footers []Part
	// PartRels holds the relationships of header and footer parts, keyed
	// by part name.
	PartRels map[string][]wml.Relationship

	StylesPath    string
	StylesXML     []byte
	NumberingPath string
	NumberingXML  []byte

	// Media maps package paths ("word/media/image1.png") to bytes.
	Media map[string][]byte

	// Extra holds added or replaced pass-through parts.
	Extra []Part

	Warnings []diag.Warning

	entries []*entry
	relsRaw map[string][]byte
	// origRels are the relationships as decoded, to detect changes.
	origRels map[string][]wml.Relationship
}

type entry struct {
	file *zip.File
	// known entries are rebuilt from the exported fields on Encode.
	known  bool
	digest [32]byte
}

// New returns an empty package with a main document part.
func New() *Package {
	return &Package{
		ContentTypes: NewContentTypes(),
		DocumentPath: DefaultDocumentPath,
		PartRels:     make(map[string][]wml.Relationship),
		Media:        make(map[string][]byte),
		relsRaw:      make(map[string][]byte),
		origRels:     make(map[string][]wml.Relationship),
	}
}

// Names lists the entry names of the decoded archive in order.
func (p *Package) Names() []string {
	names := make([]string, 0, len(p.entries))
	for _, e := range p.entries {
		names = append(names, e.file.Name)
	}
	return names
}

// ReadPart returns the bytes of any part: an Extra part, a known part or
// a pass-through entry.
func (p *Package) ReadPart(name string) ([]byte, error) {
	for _, part := range p.Extra {
		if part.Name == name {
			return part.Data, nil
		}
	}
	for _, part := range p.knownParts() {
		if part.Name == name {
			return part.Data, nil
		}
	}
	for _, e := range p.entries {
		if e.file.Name == name {
			return readAll(e.file, defaultLimits())
		}
	}
	return nil, fmt.Errorf("part '%s' not found", name)
}

// SetExtra adds or replaces a pass-through part.
func (p *Package) SetExtra(name string, data []byte) {
	for i := range p.Extra {
		if p.Extra[i].Name == name {
			p.Extra[i].Data = data
			return
		}
	}
	p.Extra = append(p.Extra, Part{Name: name, Data: data})
}

// Header returns the header part with the given name.
func (p *Package) Header(name string) (*Part, bool) {
	return findPart(p.Headers, name)
}

// Footer returns the footer part with the given name.
func (p *Package) Footer(name string) (*Part, bool) {
	return findPart(p.Footers, name)
}

func findPart(parts []Part, name string) (*Part, bool) {
	for i := range parts {
		if parts[i].Name == name {
			return &parts[i], true
		}
	}
	return nil, false
}

// PartForRelationship resolves a document relationship id to the package
// path of its internal target.
func (p *Package) PartForRelationship(id string) (string, bool) {
	rel, ok := wml.FindRelationship(p.Relationships, id)
	if !ok || rel.IsExternal() {
		return "", false
	}
	return wml.ResolveTarget(p.DocumentPath, rel.Target), true
}

// NextStoryName returns an unused part name such as "word/header2.xml".
func (p *Package) NextStoryName(kind wml.PartKind) string {
	prefix := "header"
	if kind == wml.PartFooter {
		prefix = "footer"
	}
	dir := p.DocumentPath[:strings.LastIndexByte(p.DocumentPath, '/')+1]
	taken := make(map[string]bool)
	for _, part := range append(append([]Part{}, p.Headers...), p.Footers...) {
		taken[part.Name] = true
	}
	for _, name := range p.Names() {
		taken[name] = true
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s%s%d.xml", dir, prefix, i)
		if !taken[name] {
			return name
		}
	}
}

// knownParts lists the parts rebuilt from the exported fields, in the
// order new entries are written.
func (p *Package) knownParts() []Part {
	var parts []Part
	if p.ContentTypes != nil {
		if data, err := p.ContentTypes.Bytes(); err == nil {
			parts = append(parts, Part{Name: ContentTypesPart, Data: data})
		}
	}
	if p.DocumentXML != nil {
		parts = append(parts, Part{Name: p.DocumentPath, Data: p.DocumentXML})
		parts = append(parts, p.relsPart(p.DocumentPath, p.Relationships))
	}
	if p.StylesXML != nil && p.StylesPath != "" {
		parts = append(parts, Part{Name: p.StylesPath, Data: p.StylesXML})
	}
	if p.NumberingXML != nil && p.NumberingPath != "" {
		parts = append(parts, Part{Name: p.NumberingPath, Data: p.NumberingXML})
	}
	for _, story := range append(append([]Part{}, p.Headers...), p.Footers...) {
		parts = append(parts, story)
		if rels, ok := p.PartRels[story.Name]; ok {
			parts = append(parts, p.relsPart(story.Name, rels))
		}
	}
	names := make([]string, 0, len(p.Media))
	for name := range p.Media {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, Part{Name: name, Data: p.Media[name]})
	}
	return parts
}

// relsPart returns the relationships part of owner, reusing the decoded
// bytes while the relationships are unchanged.
func (p *Package) relsPart(owner string, rels []wml.Relationship) Part {
	name := wml.RelsPathFor(owner)
	if raw, ok := p.relsRaw[name]; ok && relationshipsEqual(rels, p.origRels[name]) {
		return Part{Name: name, Data: raw}
	}
	data, err := wml.MarshalRelationships(rels)
	if err != nil {
		data = nil
	}
	return Part{Name: name, Data: data}
}

func relationshipsEqual(a, b []wml.Relationship) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Function variables for testing injection.
var (
	openEntry = func(f *zip.File) (io.ReadCloser, error) { return f.Open() }
)

func readAll(f *zip.File, limits Limits) ([]byte, error) {
	if f.UncompressedSize64 > limits.MaxPartSize {
		return nil, fmt.Errorf("%w: entry is %d bytes", diag.ErrLimitExceeded, f.UncompressedSize64)
	}
	rc, err := openEntry(f)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, int64(limits.MaxPartSize)+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) > limits.MaxPartSize {
		return nil, fmt.Errorf("%w: entry exceeds %d bytes", diag.ErrLimitExceeded, limits.MaxPartSize)
	}
	return data, nil
}
