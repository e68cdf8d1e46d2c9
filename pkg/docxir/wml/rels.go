package wml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"
)

const (
	NamespaceRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"

	relTypeBase           = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	RelTypeOfficeDocument = relTypeBase + "officeDocument"
	RelTypeImage          = relTypeBase + "image"
	RelTypeHeader         = relTypeBase + "header"
	RelTypeFooter         = relTypeBase + "footer"
	RelTypeStyles         = relTypeBase + "styles"
	RelTypeNumbering      = relTypeBase + "numbering"
	RelTypeHyperlink      = relTypeBase + "hyperlink"
	RelTypeSettings       = relTypeBase + "settings"
	RelTypeFontTable      = relTypeBase + "fontTable"
	RelTypeCoreProperties = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	TargetModeExternal    = "External"
)

// Relationship represents a relationship in the DOCX package
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// IsExternal reports whether the target lives outside the package.
func (r Relationship) IsExternal() bool {
	return strings.EqualFold(r.TargetMode, TargetModeExternal)
}

// Relationships represents the collection of relationships
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Namespace    string         `xml:"xmlns,attr"`
	Relationship []Relationship `xml:"Relationship"`
}

// ParseRelationships parses a .rels part. Empty input yields no
// relationships.
func ParseRelationships(data []byte) ([]Relationship, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var rels Relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships: %w", err)
	}
	return rels.Relationship, nil
}

// MarshalRelationships writes a .rels part.
func MarshalRelationships(rels []Relationship) ([]byte, error) {
	doc := Relationships{Namespace: NamespaceRelationships, Relationship: rels}
	if doc.Relationship == nil {
		doc.Relationship = []Relationship{}
	}
	out, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal relationships: %w", err)
	}
	return append([]byte(xmlHeader), out...), nil
}

// NextRelationshipID generates the next available relationship ID
func NextRelationshipID(rels []Relationship) string {
	maxID := 0
	for _, rel := range rels {
		if n, ok := RelationshipNumber(rel.ID); ok && n > maxID {
			maxID = n
		}
	}
	return fmt.Sprintf("rId%d", maxID+1)
}

// RelationshipNumber returns N for an id of the form "rIdN".
func RelationshipNumber(id string) (int, bool) {
	if !strings.HasPrefix(id, "rId") {
		return 0, false
	}
	n, err := strconv.Atoi(id[3:])
	return n, err == nil
}

// FindRelationship returns the relationship with the given id.
func FindRelationship(rels []Relationship, id string) (Relationship, bool) {
	for _, r := range rels {
		if r.ID == id {
			return r, true
		}
	}
	return Relationship{}, false
}

// RelsPathFor converts a part name to its relationships part name, e.g.
// "word/document.xml" -> "word/_rels/document.xml.rels".
func RelsPathFor(partName string) string {
	dir, file := path.Split(partName)
	return dir + "_rels/" + file + ".rels"
}

// ResolveTarget returns the package path of an internal target relative to
// the part that owns the relationship.
func ResolveTarget(partName, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(partName), target)
}

// RelativeTarget is the inverse of ResolveTarget for targets under the
// owning part's directory.
func RelativeTarget(partName, packagePath string) string {
	dir := path.Dir(partName) + "/"
	if strings.HasPrefix(packagePath, dir) {
		return strings.TrimPrefix(packagePath, dir)
	}
	return "/" + packagePath
}
