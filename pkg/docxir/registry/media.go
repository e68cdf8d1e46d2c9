package registry

import (
	"encoding/hex"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/lumina-note/docxir/pkg/docxir/ir"
	"github.com/lumina-note/docxir/pkg/docxir/wml"
)

const ImageRelationshipType = wml.RelTypeImage

// Embed is the payload an EmbedResolver returns for an embed id.
type Embed struct {
	Data     []byte
	MIMEType string
}

// EmbedResolver looks up media by embed id during export.
type EmbedResolver interface {
	ResolveEmbed(id string) (*Embed, bool)
}

// EmbedResolverFunc adapts a function to EmbedResolver.
type EmbedResolverFunc func(id string) (*Embed, bool)

func (f EmbedResolverFunc) ResolveEmbed(id string) (*Embed, bool) {
	return f(id)
}

// Digest returns the hex blake3 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Media indexes the relationships and media bytes owned by a Document. It
// writes through to the Document's maps.
type Media struct {
	rels     map[string]ir.MediaDescriptor
	data     map[string][]byte
	byDigest map[string]string
	reserved map[string]bool
}

// NewMedia wraps the given maps; nil maps are allocated.
func NewMedia(rels map[string]ir.MediaDescriptor, data map[string][]byte) *Media {
	if rels == nil {
		rels = make(map[string]ir.MediaDescriptor)
	}
	if data == nil {
		data = make(map[string][]byte)
	}
	m := &Media{
		rels:     rels,
		data:     data,
		byDigest: make(map[string]string),
		reserved: make(map[string]bool),
	}
	for _, id := range m.IDs() {
		d := rels[id]
		if b, ok := data[id]; ok {
			if d.Digest == "" {
				d.Digest = Digest(b)
				rels[id] = d
			}
			if _, seen := m.byDigest[d.Digest]; !seen {
				m.byDigest[d.Digest] = id
			}
		}
	}
	return m
}

// Reserve marks relationship ids as taken by non-media relationships so
// new media never collides with them.
func (m *Media) Reserve(ids ...string) {
	for _, id := range ids {
		m.reserved[id] = true
	}
}

// Has reports whether id is a known media relationship.
func (m *Media) Has(id string) bool {
	_, ok := m.rels[id]
	return ok
}

// Descriptor returns the relationship descriptor for id.
func (m *Media) Descriptor(id string) (ir.MediaDescriptor, bool) {
	d, ok := m.rels[id]
	return d, ok
}

// Bytes returns the media bytes for id.
func (m *Media) Bytes(id string) ([]byte, bool) {
	b, ok := m.data[id]
	return b, ok
}

// ResolveEmbed implements EmbedResolver over the document's own media.
func (m *Media) ResolveEmbed(id string) (*Embed, bool) {
	b, ok := m.data[id]
	if !ok {
		return nil, false
	}
	return &Embed{Data: b, MIMEType: m.rels[id].MIMEType}, true
}

// IDs lists the known media ids in a stable order.
func (m *Media) IDs() []string {
	ids := make([]string, 0, len(m.rels))
	for id := range m.rels {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return lessRelID(ids[i], ids[j]) })
	return ids
}

// Len returns the number of media relationships.
func (m *Media) Len() int {
	return len(m.rels)
}

// Put stores a descriptor and (optionally) its bytes under d.ID.
func (m *Media) Put(d ir.MediaDescriptor, data []byte) {
	if d.Type == "" {
		d.Type = ImageRelationshipType
	}
	if data != nil {
		m.data[d.ID] = data
		if d.Digest == "" {
			d.Digest = Digest(data)
		}
		if _, ok := m.byDigest[d.Digest]; !ok {
			m.byDigest[d.Digest] = d.ID
		}
	}
	m.rels[d.ID] = d
}

// Intern returns the id of media with identical bytes, or registers the
// bytes under a new id with a word/media target named after ext.
func (m *Media) Intern(data []byte, mimeType, ext string) string {
	digest := Digest(data)
	if id, ok := m.byDigest[digest]; ok {
		return id
	}
	id := m.NextID()
	if ext == "" {
		ext = ".bin"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	m.Put(ir.MediaDescriptor{
		ID:       id,
		Type:     ImageRelationshipType,
		Target:   m.nextTarget(ext),
		MIMEType: mimeType,
		Digest:   digest,
	}, data)
	return id
}

// PutEmbed registers resolver-provided media under id when the id is free
// and returns the id actually used. Bytes already known under another id
// are shared instead, and an id taken by a non-media relationship gets a
// fresh one.
func (m *Media) PutEmbed(id string, e *Embed, ext string) string {
	if m.Has(id) {
		return id
	}
	digest := Digest(e.Data)
	if known, ok := m.byDigest[digest]; ok {
		return known
	}
	if id == "" || m.reserved[id] {
		id = m.NextID()
	}
	if ext == "" {
		ext = ".bin"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	m.Put(ir.MediaDescriptor{
		ID:       id,
		Type:     ImageRelationshipType,
		Target:   m.nextTarget(ext),
		MIMEType: e.MIMEType,
		Digest:   digest,
	}, e.Data)
	return id
}

// NextID returns an unused "rIdN" id, one past the highest numeric id seen.
func (m *Media) NextID() string {
	maxID := 0
	scan := func(id string) {
		if n, ok := wml.RelationshipNumber(id); ok && n > maxID {
			maxID = n
		}
	}
	for id := range m.rels {
		scan(id)
	}
	for id := range m.reserved {
		scan(id)
	}
	return fmt.Sprintf("rId%d", maxID+1)
}

func (m *Media) nextTarget(ext string) string {
	taken := make(map[string]bool, len(m.rels))
	for _, d := range m.rels {
		taken[path.Base(d.Target)] = true
	}
	for i := len(m.rels) + 1; ; i++ {
		name := fmt.Sprintf("image%d%s", i, ext)
		if !taken[name] {
			return "media/" + name
		}
	}
}

func lessRelID(a, b string) bool {
	na, oka := wml.RelationshipNumber(a)
	nb, okb := wml.RelationshipNumber(b)
	if oka && okb {
		return na < nb
	}
	if oka != okb {
		return oka
	}
	return a < b
}
