// Package docxir opens DOCX files into an editable document model and
// writes that model back as DOCX.
//
// Basic Usage:
//
//	data, err := os.ReadFile("report.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s, err := docxir.Open("report.docx", data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range s.Warnings {
//	    log.Println(w)
//	}
//
//	// Edit through operations synthesized from editor input
//	op := docop.FromInputEvent("insertText", "Hello")
//	if _, err := s.Apply(op); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Write the result, then clear the dirty flag
//	if err := docxir.ExportDocx(ctx, s, "report.docx", docxir.FileStorage{}); err != nil {
//	    log.Fatal(err)
//	}
//	s.MarkSaved()
//
// Parts the model does not cover (comments, settings, themes, custom XML)
// are carried over from the opened file unchanged.
//
// Long-lived editors keep their sessions in an Engine, which bounds the
// number of open documents and resolves paths through a Storage.
package docxir
