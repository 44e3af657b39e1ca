// Package ripper provides a fluent API for pulling structure and text out
// of PDF files.
//
// Basic usage:
//
//	text, warnings, err := ripper.Open("document.pdf").Text()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", ripper.FormatWarnings(warnings))
//	}
//
// With options:
//
//	text, _, err := ripper.Open("report.pdf").
//	    MaxSize(50 << 20).
//	    ObjectStreams().
//	    Normalize().
//	    Text()
//
// For advanced use cases the lower-level reader, core, contentstream and
// font packages are also available.
package ripper

import (
	"github.com/tsawler/ripper/reader"
)

// Open returns an Extractor for the named file. The file is read by the
// first terminal operation (Document, TextRuns or Text).
//
// Example:
//
//	text, warnings, err := ripper.Open("document.pdf").Text()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns an Extractor for a PDF already held in memory.
// The slice is not copied and must not be modified while in use.
func FromBytes(data []byte) *Extractor {
	return &Extractor{
		data:    data,
		options: defaultOptions(),
	}
}

// FromDocument returns an Extractor for an already loaded document.
// Loading options such as MaxSize have no effect on it. A nil doc makes
// every terminal operation return ErrNilDocument.
//
// Example:
//
//	doc, err := reader.Load(data)
//	if err != nil {
//	    // handle error
//	}
//	text, warnings, err := ripper.FromDocument(doc).Text()
func FromDocument(doc *reader.Document) *Extractor {
	e := &Extractor{
		doc:     doc,
		options: defaultOptions(),
	}
	if doc == nil {
		e.err = ErrNilDocument
	}
	return e
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	doc := ripper.Must(ripper.Open("document.pdf").Document())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText is a helper that wraps a call to Text() or TextRuns() and panics
// if the error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	text := ripper.MustText(ripper.Open("document.pdf").Text())
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
