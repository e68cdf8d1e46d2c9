package wml

const (
	NamespaceW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NamespaceR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NamespaceWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	NamespaceA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NamespacePic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	NamespaceXML = "http://www.w3.org/XML/1998/namespace"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// conventionalPrefixes maps namespace URIs to the prefixes Office uses.
// Parsing consults it only when a part uses a URI without declaring it on
// an element we have seen.
var conventionalPrefixes = map[string]string{
	NamespaceW:   "w",
	NamespaceR:   "r",
	NamespaceWP:  "wp",
	NamespaceA:   "a",
	NamespacePic: "pic",
	NamespaceXML: "xml",

	"http://schemas.openxmlformats.org/officeDocument/2006/math":          "m",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing": "wp14",
	"http://schemas.microsoft.com/office/drawing/2010/main":               "a14",
	"urn:schemas-microsoft-com:vml":                                      "v",
	"urn:schemas-microsoft-com:office:office":                            "o",
	"urn:schemas-microsoft-com:office:word":                              "w10",
	"http://schemas.openxmlformats.org/markup-compatibility/2006":        "mc",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingShape":  "wps",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingCanvas": "wpc",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingGroup":  "wpg",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingInk":    "wpi",
	"http://schemas.microsoft.com/office/word/2010/wordml":               "w14",
	"http://schemas.microsoft.com/office/word/2012/wordml":               "w15",
	"http://schemas.microsoft.com/office/word/2015/wordml/symex":         "w16se",
	"http://schemas.microsoft.com/office/word/2016/wordml/cid":           "w16cid",
	"http://schemas.microsoft.com/office/word/2018/wordml":               "w16",
	"http://schemas.microsoft.com/office/word/2018/wordml/cex":           "w16cex",
	"http://schemas.microsoft.com/office/word/2006/wordml":               "wne",
}

// drawingNamespaces are the declarations an exported inline picture needs
// on the part root.
var drawingNamespaces = []Attr{
	{Name: "xmlns:wp", Value: NamespaceWP},
	{Name: "xmlns:a", Value: NamespaceA},
	{Name: "xmlns:pic", Value: NamespacePic},
	{Name: "xmlns:r", Value: NamespaceR},
}
