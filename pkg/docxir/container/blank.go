package container

import (
	"bytes"
	"fmt"

	"github.com/lumina-note/docxir/pkg/docxir/geometry"
	"github.com/lumina-note/docxir/pkg/docxir/wml"
)

var blankStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>` +
	`<w:style w:type="character" w:default="1" w:styleId="DefaultParagraphFont"><w:name w:val="Default Paragraph Font"/><w:uiPriority w:val="1"/><w:semiHidden/></w:style>` +
	blankHeadingStyles +
	`<w:style w:type="paragraph" w:styleId="ListParagraph"><w:name w:val="List Paragraph"/><w:basedOn w:val="Normal"/><w:uiPriority w:val="34"/><w:qFormat/><w:pPr><w:ind w:left="720"/><w:contextualSpacing/></w:pPr></w:style>` +
	`<w:style w:type="table" w:default="1" w:styleId="TableNormal"><w:name w:val="Normal Table"/><w:uiPriority w:val="99"/><w:semiHidden/><w:tblPr><w:tblInd w:w="0" w:type="dxa"/><w:tblCellMar><w:top w:w="0" w:type="dxa"/><w:left w:w="108" w:type="dxa"/><w:bottom w:w="0" w:type="dxa"/><w:right w:w="108" w:type="dxa"/></w:tblCellMar></w:tblPr></w:style>` +
	`</w:styles>`

var blankHeadingStyles = func() string {
	var b bytes.Buffer
	for level := 1; level <= 6; level++ {
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="Heading%d"><w:name w:val="heading %d"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:uiPriority w:val="9"/><w:qFormat/><w:pPr><w:keepNext/><w:outlineLvl w:val="%d"/></w:pPr><w:rPr><w:b/></w:rPr></w:style>`,
			level, level, level-1)
	}
	return b.String()
}()

const blankNumbering = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"></w:numbering>`

const blankPackageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

// NewBlank builds the package of an empty A4 document with one default
// header and footer, heading and list styles, and an empty numbering part.
func NewBlank() (*Package, error) {
	pkg := New()
	pkg.SetExtra(PackageRelsPart, []byte(blankPackageRels))

	pkg.StylesPath = "word/styles.xml"
	pkg.StylesXML = []byte(blankStyles)
	pkg.NumberingPath = "word/numbering.xml"
	pkg.NumberingXML = []byte(blankNumbering)
	pkg.Relationships = []wml.Relationship{
		{ID: "rId1", Type: wml.RelTypeStyles, Target: "styles.xml"},
		{ID: "rId2", Type: wml.RelTypeNumbering, Target: "numbering.xml"},
	}

	sectPr := blankSectPr()

	for _, kind := range []wml.PartKind{wml.PartHeader, wml.PartFooter} {
		data, err := wml.MarshalPart(wml.NewPart(kind))
		if err != nil {
			return nil, err
		}
		_, relID := pkg.AddStory(kind, data)
		sectPr.SetReference(kind.String(), "default", relID)
	}

	doc := wml.NewPart(wml.PartDocument)
	doc.Body.Elements = []wml.BodyElement{&wml.Paragraph{}}
	doc.Body.SectPr = sectPr
	data, err := wml.MarshalPart(doc)
	if err != nil {
		return nil, err
	}
	pkg.DocumentXML = data
	return pkg, nil
}

// blankSectPr is the default page geometry expressed in twips, so a blank
// document resolves to geometry.Default.
func blankSectPr() *wml.SectPr {
	g := geometry.Default
	m := g.Margins()
	tw := geometry.MMToTwips
	return wml.NewSectPr(tw(g.Page.WidthMM), tw(g.Page.HeightMM),
		tw(m.Top), tw(m.Right), tw(m.Bottom), tw(m.Left),
		tw(m.Header), tw(m.Footer))
}

// BlankTemplate returns the archive bytes of NewBlank.
func BlankTemplate() ([]byte, error) {
	pkg, err := NewBlank()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, pkg); err != nil {
		return nil, fmt.Errorf("failed to encode blank template: %w", err)
	}
	return buf.Bytes(), nil
}
