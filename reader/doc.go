// Package reader loads a PDF file into an in-memory Document.
//
// Loading reads the whole file, locates the header, startxref offset and
// trailer, and then scans the buffer linearly for every "N G obj" span.
// The cross-reference table is recorded but never consulted.
//
//	doc, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(doc.Version(), doc.Root(), doc.Pages())
//
// Or use [Load] with bytes already in memory.
//
// # Options
//
//   - [WithMaxSize] - reject oversized input with [ErrTooLarge]
//   - [WithObjectStreams] - add objects packed in /Type /ObjStm streams
//   - [WithLogger] - debug output for one load
//
// # Errors
//
// Load fails fast with one of [ErrMissingVersion], [ErrMissingStartXref],
// [ErrMissingTrailer], [ErrNoObjectsFound] or [ErrUnresolvedReference],
// possibly wrapped; test with errors.Is.
//
// # Object Resolution
//
// A Document satisfies resolver.ObjectReader, so indirect references can be
// followed with package resolver.
package reader
