// Package container reads and writes the DOCX zip package.
//
// Decode indexes every entry of the archive and reads the parts docxir
// understands: the main document, its headers and footers, their
// relationships, styles, numbering, content types and media. All other
// entries are carried as opaque pass-through entries.
//
// Encode writes the package back in the original entry order. Entries whose
// bytes did not change, and every pass-through entry, are copied with their
// original compressed stream, so a decode/encode cycle of an untouched
// package reproduces each entry bit for bit.
//
// Basic usage:
//
//	pkg, err := container.Decode(data)
//	if err != nil {
//	    return err
//	}
//	pkg.DocumentXML = newDocumentXML
//	var buf bytes.Buffer
//	err = container.Encode(&buf, pkg)
//
// Size limits protect against zip bombs; see [Limits].
package container
