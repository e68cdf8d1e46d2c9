// Package wml is a typed model of the WordprocessingML subset docxir reads
// and writes: document, header and footer parts with their paragraphs,
// runs, tables, drawings and section properties.
//
// Names are kept in their prefixed form ("w:p", "r:embed"). Parsing maps
// namespace URIs back to the prefixes declared by the part (falling back to
// the conventional Office prefixes), so marshalling reproduces the same
// qualified names without namespace rewriting. Anything outside the typed
// subset is captured as an *Element and written back verbatim.
//
// Basic usage:
//
//	part, err := wml.ParsePart(data)
//	if err != nil {
//	    return err
//	}
//	for _, el := range part.Body.Elements {
//	    if p, ok := el.(*wml.Paragraph); ok {
//	        fmt.Println(p.Text())
//	    }
//	}
//	out, err := wml.MarshalPart(part)
package wml
