package wml

import (
	"encoding/xml"
	"strconv"
)

// Table represents a w:tbl element
type Table struct {
	Attrs []Attr
	// Props is the w:tblPr element, kept whole.
	Props *Element
	// Grid holds the w:gridCol widths in twips.
	Grid []int
	Rows []*TableRow
}

func (*Table) isBodyElement() {}

// TableRow represents a w:tr element
type TableRow struct {
	Attrs []Attr
	Props *Element
	Cells []*TableCell
}

// TableCell represents a w:tc element
type TableCell struct {
	Props   *Element
	Content []BodyElement
}

// DefaultTableProps returns a w:tblPr with auto width and single borders.
func DefaultTableProps() *Element {
	borders := NewElement("w:tblBorders")
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		borders.Append(NewElement("w:"+side, "w:val", "single", "w:sz", "4", "w:space", "0", "w:color", "auto"))
	}
	return NewElement("w:tblPr").Append(
		NewElement("w:tblW", "w:w", "0", "w:type", "auto"),
		borders,
		NewElement("w:tblLook", "w:val", "04A0"),
	)
}

// MarshalXML implements custom XML marshaling for Table
func (t *Table) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := startElement("w:tbl", t.Attrs)
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	props := t.Props
	if props == nil {
		props = DefaultTableProps()
	}
	if err := props.MarshalXML(e, xml.StartElement{}); err != nil {
		return err
	}

	grid := NewElement("w:tblGrid")
	for _, w := range t.Grid {
		grid.Append(NewElement("w:gridCol", "w:w", strconv.Itoa(w)))
	}
	if err := grid.MarshalXML(e, xml.StartElement{}); err != nil {
		return err
	}

	for _, row := range t.Rows {
		if err := row.MarshalXML(e, xml.StartElement{}); err != nil {
			return err
		}
	}

	return e.EncodeToken(start.End())
}

// MarshalXML implements custom XML marshaling for TableRow
func (r *TableRow) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := startElement("w:tr", r.Attrs)
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if r.Props != nil {
		if err := r.Props.MarshalXML(e, xml.StartElement{}); err != nil {
			return err
		}
	}
	for _, cell := range r.Cells {
		if err := cell.MarshalXML(e, xml.StartElement{}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// MarshalXML implements custom XML marshaling for TableCell. A cell must
// end with a paragraph; an empty one is appended when needed.
func (c *TableCell) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: "w:tc"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if c.Props != nil {
		if err := c.Props.MarshalXML(e, xml.StartElement{}); err != nil {
			return err
		}
	}
	if err := marshalBodyElements(e, c.Content); err != nil {
		return err
	}
	if !endsWithParagraph(c.Content) {
		if err := (&Paragraph{}).MarshalXML(e, xml.StartElement{}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func endsWithParagraph(content []BodyElement) bool {
	if len(content) == 0 {
		return false
	}
	_, ok := content[len(content)-1].(*Paragraph)
	return ok
}

func marshalBodyElements(e *xml.Encoder, elements []BodyElement) error {
	for _, el := range elements {
		var err error
		switch v := el.(type) {
		case *Paragraph:
			err = v.MarshalXML(e, xml.StartElement{})
		case *Table:
			err = v.MarshalXML(e, xml.StartElement{})
		case *BlockGroup:
			err = marshalGroup(e, v.Name, v.Attrs, v.Props, func() error {
				return marshalBodyElements(e, v.Content)
			})
		case *Element:
			err = v.MarshalXML(e, xml.StartElement{})
		}
		if err != nil {
			return err
		}
	}
	return nil
}
