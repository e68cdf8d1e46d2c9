package container

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

const (
	NamespaceContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"
	ContentTypesPart      = "[Content_Types].xml"

	TypeRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	TypeXML           = "application/xml"
	TypeDocument      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	TypeHeader        = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	TypeFooter        = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
	TypeStyles        = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	TypeNumbering     = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	TypeSettings      = "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"
)

// ContentTypeDefault maps a file extension to a content type
type ContentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypeOverride maps a part name to a content type
type ContentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypes represents [Content_Types].xml
type ContentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Namespace string                `xml:"xmlns,attr"`
	Defaults  []ContentTypeDefault  `xml:"Default"`
	Overrides []ContentTypeOverride `xml:"Override"`

	raw      []byte
	modified bool
}

// NewContentTypes returns the content types of a minimal package.
func NewContentTypes() *ContentTypes {
	return &ContentTypes{
		Namespace: NamespaceContentTypes,
		Defaults: []ContentTypeDefault{
			{Extension: "rels", ContentType: TypeRelationships},
			{Extension: "xml", ContentType: TypeXML},
		},
		modified: true,
	}
}

// ParseContentTypes parses [Content_Types].xml.
func ParseContentTypes(data []byte) (*ContentTypes, error) {
	ct := &ContentTypes{}
	if err := xml.Unmarshal(data, ct); err != nil {
		return nil, fmt.Errorf("failed to parse content types: %w", err)
	}
	ct.raw = data
	return ct, nil
}

// Default returns the content type registered for ext (without dot).
func (ct *ContentTypes) Default(ext string) (string, bool) {
	ext = strings.TrimPrefix(ext, ".")
	for _, d := range ct.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return d.ContentType, true
		}
	}
	return "", false
}

// Lookup resolves the content type of a package part: an override first,
// then the default for its extension.
func (ct *ContentTypes) Lookup(partName string) (string, bool) {
	name := "/" + strings.TrimPrefix(partName, "/")
	for _, o := range ct.Overrides {
		if strings.EqualFold(o.PartName, name) {
			return o.ContentType, true
		}
	}
	return ct.Default(path.Ext(partName))
}

// EnsureDefault registers ext unless a default already covers it.
func (ct *ContentTypes) EnsureDefault(ext, contentType string) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return
	}
	if _, ok := ct.Default(ext); ok {
		return
	}
	ct.Defaults = append(ct.Defaults, ContentTypeDefault{Extension: ext, ContentType: contentType})
	ct.modified = true
}

// EnsureOverride sets the override for partName.
func (ct *ContentTypes) EnsureOverride(partName, contentType string) {
	name := "/" + strings.TrimPrefix(partName, "/")
	for i, o := range ct.Overrides {
		if strings.EqualFold(o.PartName, name) {
			if o.ContentType != contentType {
				ct.Overrides[i].ContentType = contentType
				ct.modified = true
			}
			return
		}
	}
	ct.Overrides = append(ct.Overrides, ContentTypeOverride{PartName: name, ContentType: contentType})
	ct.modified = true
}

// RemoveOverride drops the override for partName, if any.
func (ct *ContentTypes) RemoveOverride(partName string) {
	name := "/" + strings.TrimPrefix(partName, "/")
	kept := ct.Overrides[:0]
	for _, o := range ct.Overrides {
		if strings.EqualFold(o.PartName, name) {
			ct.modified = true
			continue
		}
		kept = append(kept, o)
	}
	ct.Overrides = kept
}

// Modified reports whether the set changed since it was parsed.
func (ct *ContentTypes) Modified() bool {
	return ct.modified
}

// Bytes returns the serialized part; an unmodified set returns the bytes
// it was parsed from.
func (ct *ContentTypes) Bytes() ([]byte, error) {
	if !ct.modified && ct.raw != nil {
		return ct.raw, nil
	}
	if ct.Namespace == "" {
		ct.Namespace = NamespaceContentTypes
	}
	output, err := xml.Marshal(ct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content types: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	buf.Write(output)
	return buf.Bytes(), nil
}
