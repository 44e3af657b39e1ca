package ripper

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/ripper/contentstream"
	"github.com/tsawler/ripper/core"
	"github.com/tsawler/ripper/font"
	"github.com/tsawler/ripper/logging"
	"github.com/tsawler/ripper/reader"
	"github.com/tsawler/ripper/resolver"
)

// ErrNoPage reports a document whose /Pages object neither is a page nor
// has a page as its first kid.
var ErrNoPage = errors.New("ripper: no page object")

// ErrNilDocument is returned by the terminal operations of an Extractor
// created with FromDocument(nil).
var ErrNilDocument = errors.New("ripper: nil document")

// Extractor provides a fluent interface for extracting content from a PDF.
// Each configuration method returns a new Extractor instance, allowing
// method chaining. Terminal operations run on a private copy and never
// modify the receiver, so one Extractor may be used from several
// goroutines. Each terminal call on a file or byte source loads the
// document again; use FromDocument to share one loaded document.
type Extractor struct {
	// Source, exactly one is set
	filename string
	data     []byte
	doc      *reader.Document

	// Configuration
	options ExtractOptions

	// Set at construction when the source is unusable
	err error

	// Warnings of the terminal operation in progress
	warnings []Warning
}

// clone copies the source and options. Warnings are not carried over.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		data:     e.data,
		doc:      e.doc,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// start returns the copy a terminal operation works on, with its document
// loaded.
func (e *Extractor) start() (*Extractor, error) {
	if e.err != nil {
		return nil, e.err
	}
	run := e.clone()
	if err := run.ensureDocument(); err != nil {
		return nil, err
	}
	return run, nil
}

// ensureDocument loads the document if it is not loaded yet.
func (e *Extractor) ensureDocument() error {
	if e.doc != nil {
		return nil
	}

	opts := []reader.Option{
		reader.WithMaxSize(e.options.maxSize),
		reader.WithObjectStreams(e.options.objectStreams),
	}

	var (
		doc *reader.Document
		err error
	)
	switch {
	case e.data != nil:
		doc, err = reader.Load(e.data, opts...)
	case e.filename != "":
		doc, err = reader.Open(e.filename, opts...)
	default:
		return fmt.Errorf("no filename or data specified")
	}
	if err != nil {
		return fmt.Errorf("failed to load PDF: %w", err)
	}

	e.doc = doc
	return nil
}

// warn records a warning and logs it at debug level.
func (e *Extractor) warn(object int, format string, args ...any) {
	w := Warning{Message: fmt.Sprintf(format, args...), Object: object}
	logging.Logger().Debug("extraction warning",
		slog.String("message", w.Message), slog.Int("object", object))
	e.warnings = append(e.warnings, w)
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// MaxSize rejects input larger than n bytes (reader.ErrTooLarge).
// Zero means no limit.
//
// Example:
//
//	text, _, err := ripper.Open("doc.pdf").MaxSize(10 << 20).Text()
func (e *Extractor) MaxSize(n int64) *Extractor {
	newExt := e.clone()
	newExt.options.maxSize = n
	return newExt
}

// ObjectStreams also reads objects packed in /Type /ObjStm streams, which
// PDF 1.5 and later files use for most of their dictionaries.
//
// Example:
//
//	doc, err := ripper.Open("doc.pdf").ObjectStreams().Document()
func (e *Extractor) ObjectStreams() *Extractor {
	newExt := e.clone()
	newExt.options.objectStreams = true
	return newExt
}

// Normalize applies Unicode NFKC normalization to extracted text, which
// splits ligatures such as "ﬁ" and folds compatibility characters.
//
// Example:
//
//	text, _, err := ripper.Open("doc.pdf").Normalize().Text()
func (e *Extractor) Normalize() *Extractor {
	newExt := e.clone()
	newExt.options.normalize = true
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Document loads and returns the document.
//
// Example:
//
//	doc, err := ripper.Open("document.pdf").Document()
//	fmt.Println(doc.Version(), doc.NumObjects())
func (e *Extractor) Document() (*reader.Document, error) {
	run, err := e.start()
	if err != nil {
		return nil, err
	}
	return run.doc, nil
}

// TextRuns returns one TextRun per BT ... ET block of the page's content
// streams. Only one page is read: the /Pages object itself when it is a
// page, otherwise its first kid.
func (e *Extractor) TextRuns() ([]contentstream.TextRun, []Warning, error) {
	run, err := e.start()
	if err != nil {
		return nil, nil, err
	}

	page, err := run.page()
	if err != nil {
		return nil, run.warnings, err
	}
	return contentstream.ExtractTextRuns(run.pageContent(page)), run.warnings, nil
}

// Text extracts the text of the page that TextRuns reads, one line per run.
// Show-text payloads are mapped to Unicode with the ToUnicode CMap of the
// font selected by Tf. Runs whose font has no CMap are copied byte for
// byte and reported in the warnings.
//
// Example:
//
//	text, warnings, err := ripper.Open("document.pdf").Text()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", ripper.FormatWarnings(warnings))
//	}
func (e *Extractor) Text() (string, []Warning, error) {
	run, err := e.start()
	if err != nil {
		return "", nil, err
	}

	page, err := run.page()
	if err != nil {
		return "", run.warnings, err
	}
	runs := contentstream.ExtractTextRuns(run.pageContent(page))

	fonts := newFontCache(run, page)
	var lines []string
	for _, tr := range runs {
		if tr.Tj == nil {
			continue
		}

		var cmap *font.UnicodeCMap
		if tr.Tf != nil {
			cmap = fonts.cmap(tr.Tf.Name)
		}
		if cmap == nil {
			lines = append(lines, *tr.Tj)
			continue
		}
		lines = append(lines, cmap.Translate(tr))
	}

	text := strings.Join(lines, "\n")
	if run.options.normalize {
		text = norm.NFKC.String(text)
	}
	return text, run.warnings, nil
}

// ============================================================================
// Page helpers
// ============================================================================

// page returns the single page object text is read from.
func (e *Extractor) page() (*core.IndirectObject, error) {
	pages := e.doc.Pages()
	if t, _ := pages.Dict.GetName("Type"); t == "Page" {
		return pages, nil
	}

	kids, ok := pages.Dict.GetArray("Kids")
	if !ok || len(kids) == 0 {
		return nil, fmt.Errorf("%w: object %d has no /Kids", ErrNoPage, pages.Number)
	}
	if len(kids) > 1 {
		e.warn(pages.Number, "only the first of %d kids is read", len(kids))
	}

	ref, ok := kids[0].(core.IndirectRef)
	if !ok {
		return nil, fmt.Errorf("%w: first kid of object %d is not a reference", ErrNoPage, pages.Number)
	}
	page, ok := e.doc.GetObject(ref.Number)
	if !ok {
		return nil, fmt.Errorf("%w: %w: %s", ErrNoPage, reader.ErrUnresolvedReference, ref)
	}
	return page, nil
}

// pageContent concatenates the decoded /Contents streams of page.
// Streams that cannot be decoded are skipped with a warning.
func (e *Extractor) pageContent(page *core.IndirectObject) []byte {
	var refs []core.IndirectRef
	switch c := page.Dict.Get("Contents").(type) {
	case core.IndirectRef:
		refs = append(refs, c)
	case core.Array:
		for _, item := range c {
			if ref, ok := item.(core.IndirectRef); ok {
				refs = append(refs, ref)
			}
		}
	}
	if len(refs) == 0 {
		e.warn(page.Number, "page has no content stream")
		return nil
	}

	var content []byte
	for _, ref := range refs {
		obj, ok := e.doc.GetObject(ref.Number)
		if !ok {
			e.warn(ref.Number, "content stream not found")
			continue
		}
		data, ok := e.streamData(obj)
		if !ok {
			continue
		}
		content = append(content, data...)
		content = append(content, '\n')
	}
	return content
}

// streamData returns the decoded bytes of a stream that is unfiltered or
// Flate-encoded.
func (e *Extractor) streamData(obj *core.IndirectObject) ([]byte, bool) {
	if !obj.HasStream() {
		e.warn(obj.Number, "object has no stream")
		return nil, false
	}

	filters := obj.Filters()
	switch {
	case len(filters) == 0:
		return obj.Stream, true
	case obj.HasFlateFilter():
		data, err := core.DecodeStream(obj)
		if err != nil {
			e.warn(obj.Number, "stream not decoded: %v", err)
			return nil, false
		}
		return data, true
	}

	e.warn(obj.Number, "unsupported filter %s", strings.Join(filters, " "))
	return nil, false
}

// fontCache parses each font's ToUnicode CMap once per extraction.
type fontCache struct {
	e       *Extractor
	res     *resolver.ObjectResolver
	fonts   core.Dict
	entries map[string]*font.UnicodeCMap
}

// newFontCache finds the page's /Resources /Font dictionary, falling back
// to resources inherited from the /Pages object.
func newFontCache(e *Extractor, page *core.IndirectObject) *fontCache {
	fc := &fontCache{
		e:       e,
		res:     resolver.NewResolver(e.doc),
		entries: make(map[string]*font.UnicodeCMap),
	}

	for _, holder := range []core.Dict{page.Dict, e.doc.Pages().Dict} {
		resources, ok := fc.res.ResolveDictValue(holder, "Resources")
		if !ok {
			continue
		}
		resDict, _ := resources.(core.Dict)
		if fonts, ok := fc.res.ResolveDictValue(resDict, "Font"); ok {
			fc.fonts, _ = fonts.(core.Dict)
			break
		}
	}
	return fc
}

// cmap returns the ToUnicode CMap of the named font resource, or nil when
// there is none. Failures are reported once per font.
func (fc *fontCache) cmap(name string) *font.UnicodeCMap {
	if cm, ok := fc.entries[name]; ok {
		return cm
	}
	cm := fc.load(name)
	fc.entries[name] = cm
	return cm
}

func (fc *fontCache) load(name string) *font.UnicodeCMap {
	v, ok := fc.res.ResolveDictValue(fc.fonts, name)
	if !ok {
		fc.e.warn(0, "font /%s not found in page resources", name)
		return nil
	}
	fontDict, _ := v.(core.Dict)

	ref, ok := fontDict.GetIndirectRef("ToUnicode")
	if !ok {
		fc.e.warn(0, "font /%s has no ToUnicode CMap, text copied as is", name)
		return nil
	}
	obj, ok := fc.e.doc.GetObject(ref.Number)
	if !ok {
		fc.e.warn(ref.Number, "ToUnicode CMap of font /%s not found", name)
		return nil
	}
	data, ok := fc.e.streamData(obj)
	if !ok {
		return nil
	}

	cm := font.ParseUnicodeCMap(data)
	if cm.Len() == 0 {
		fc.e.warn(obj.Number, "ToUnicode CMap of font /%s is empty", name)
		return nil
	}
	return cm
}
