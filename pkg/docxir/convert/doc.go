// Package convert maps WordprocessingML story parts to the docxir block
// model and back, and renders blocks to and from an HTML surrogate used by
// editing surfaces.
//
// Import is lossy only where the model is: unsupported constructs are
// dropped or flattened with a warning, never with an error. Export is the
// inverse mapping, so that for any block slice b the model can represent,
// importing the exported part yields b again.
//
// Basic usage:
//
//	reg, err := registry.New(doc, stylesXML, numberingXML)
//	if err != nil {
//	    return err
//	}
//	res, err := convert.Import(documentXML, reg)
//	if err != nil {
//	    return err
//	}
//	out, exp, err := convert.Export(res.Blocks, reg,
//	    convert.WithTemplate(res.Part),
//	    convert.WithResolver(reg.Media))
package convert
