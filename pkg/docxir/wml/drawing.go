package wml

import (
	"encoding/xml"
	"strconv"
)

const pictureGraphicURI = "http://schemas.openxmlformats.org/drawingml/2006/picture"

// Drawing represents a w:drawing holding a picture. Extents are EMU.
type Drawing struct {
	Anchor      bool
	Cx, Cy      int64
	DocPrID     int
	Name        string
	Description string
	EmbedID     string
	// Raw is the element as parsed; it is written back unchanged when set.
	Raw *Element
}

func (*Drawing) isRunContent() {}

// drawingFromElement interprets a captured w:drawing.
func drawingFromElement(el *Element) *Drawing {
	d := &Drawing{Raw: el}
	frame := el.Child("inline")
	if frame == nil {
		frame = el.Child("anchor")
		d.Anchor = frame != nil
	}
	if frame != nil {
		if ext := frame.Child("extent"); ext != nil {
			d.Cx, _ = strconv.ParseInt(ext.Attr("cx"), 10, 64)
			d.Cy, _ = strconv.ParseInt(ext.Attr("cy"), 10, 64)
		}
		if docPr := frame.Child("docPr"); docPr != nil {
			d.DocPrID, _ = strconv.Atoi(docPr.Attr("id"))
			d.Name = docPr.Attr("name")
			d.Description = docPr.Attr("descr")
		}
	}
	if blip := el.Find("blip"); blip != nil {
		d.EmbedID = blip.Attr("embed")
	}
	return d
}

// NewInlinePicture builds an inline picture drawing.
func NewInlinePicture(embedID string, cx, cy int64, id int, name, descr string) *Drawing {
	return &Drawing{Cx: cx, Cy: cy, DocPrID: id, Name: name, Description: descr, EmbedID: embedID}
}

// Element renders the drawing as an element tree.
func (d *Drawing) Element() *Element {
	if d.Raw != nil {
		return d.Raw
	}
	cx := strconv.FormatInt(d.Cx, 10)
	cy := strconv.FormatInt(d.Cy, 10)
	id := strconv.Itoa(d.DocPrID)

	docPr := NewElement("wp:docPr", "id", id, "name", d.Name)
	if d.Description != "" {
		docPr.SetAttr("descr", d.Description)
	}

	pic := NewElement("pic:pic", "xmlns:pic", NamespacePic).Append(
		NewElement("pic:nvPicPr").Append(
			NewElement("pic:cNvPr", "id", "0", "name", d.Name),
			NewElement("pic:cNvPicPr"),
		),
		NewElement("pic:blipFill").Append(
			NewElement("a:blip", "r:embed", d.EmbedID),
			NewElement("a:stretch").Append(NewElement("a:fillRect")),
		),
		NewElement("pic:spPr").Append(
			NewElement("a:xfrm").Append(
				NewElement("a:off", "x", "0", "y", "0"),
				NewElement("a:ext", "cx", cx, "cy", cy),
			),
			NewElement("a:prstGeom", "prst", "rect").Append(NewElement("a:avLst")),
		),
	)

	inline := NewElement("wp:inline", "distT", "0", "distB", "0", "distL", "0", "distR", "0").Append(
		NewElement("wp:extent", "cx", cx, "cy", cy),
		NewElement("wp:effectExtent", "l", "0", "t", "0", "r", "0", "b", "0"),
		docPr,
		NewElement("wp:cNvGraphicFramePr").Append(
			NewElement("a:graphicFrameLocks", "xmlns:a", NamespaceA, "noChangeAspect", "1"),
		),
		NewElement("a:graphic", "xmlns:a", NamespaceA).Append(
			NewElement("a:graphicData", "uri", pictureGraphicURI).Append(pic),
		),
	)
	return NewElement("w:drawing").Append(inline)
}

// MarshalXML implements custom XML marshaling for Drawing
func (d *Drawing) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return d.Element().MarshalXML(e, start)
}
