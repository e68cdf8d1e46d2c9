package convert

import (
	"github.com/lumina-note/docxir/pkg/docxir/registry"
	"github.com/lumina-note/docxir/pkg/docxir/wml"
)

// RelAllocator assigns the relationship ids an exported part uses for its
// images. The document part reuses embed ids as relationship ids; header
// and footer parts hand out ids local to the part.
//
// Image relationships of the original part are replaced: only images the
// exported blocks reference are written. Other relationships (headers,
// styles, hyperlinks) are kept as they were.
type RelAllocator struct {
	media  *registry.Media
	local  bool
	base   []wml.Relationship
	images []wml.Relationship
	ids    map[string]string
	embeds []string
}

// NewDocumentRelAllocator allocates for the main document part.
func NewDocumentRelAllocator(base []wml.Relationship, media *registry.Media) *RelAllocator {
	return newRelAllocator(base, media, false)
}

// NewPartRelAllocator allocates part-local ids for a header or footer.
func NewPartRelAllocator(base []wml.Relationship, media *registry.Media) *RelAllocator {
	return newRelAllocator(base, media, true)
}

func newRelAllocator(base []wml.Relationship, media *registry.Media, local bool) *RelAllocator {
	a := &RelAllocator{media: media, local: local, ids: make(map[string]string)}
	for _, r := range base {
		if r.Type != wml.RelTypeImage {
			a.base = append(a.base, r)
		}
	}
	return a
}

// Allocate returns the relationship id for a document embed id. ok is
// false when the media registry does not know the id.
func (a *RelAllocator) Allocate(embedID string) (string, bool) {
	if id, ok := a.ids[embedID]; ok {
		return id, true
	}
	d, ok := a.media.Descriptor(embedID)
	if !ok {
		return "", false
	}
	id := embedID
	if a.local || a.taken(id) {
		id = wml.NextRelationshipID(a.all())
	}
	rel := wml.Relationship{ID: id, Type: wml.RelTypeImage, Target: d.Target}
	if d.TargetMode != "" {
		rel.TargetMode = d.TargetMode
	}
	a.images = append(a.images, rel)
	a.ids[embedID] = id
	a.embeds = append(a.embeds, embedID)
	return id, true
}

func (a *RelAllocator) taken(id string) bool {
	_, ok := wml.FindRelationship(a.all(), id)
	return ok
}

func (a *RelAllocator) all() []wml.Relationship {
	out := make([]wml.Relationship, 0, len(a.base)+len(a.images))
	out = append(out, a.base...)
	return append(out, a.images...)
}

// Relationships returns the kept relationships followed by the allocated
// image relationships.
func (a *RelAllocator) Relationships() []wml.Relationship {
	return a.all()
}

// EmbedIDs lists the document embed ids allocated so far, in order.
func (a *RelAllocator) EmbedIDs() []string {
	return append([]string(nil), a.embeds...)
}
