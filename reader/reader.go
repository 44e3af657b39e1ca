package reader

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"strconv"

	"github.com/tsawler/ripper/core"
	"github.com/tsawler/ripper/logging"
)

// headerWindow is how far into the buffer the %PDF- header may start.
const headerWindow = 1024

var (
	versionPattern   = regexp.MustCompile(`%PDF-(\d+\.\d+)(?:\r\n|\r|\n)`)
	startXrefPattern = regexp.MustCompile(`startxref[\s\x00]+(\d+)`)
	kwTrailer        = []byte("trailer")
)

// Document is the result of a successful load. It is immutable and safe
// for concurrent reads.
type Document struct {
	version   string
	startXref int64
	trailer   core.Dict
	objects   map[int]*core.IndirectObject
	root      *core.IndirectObject
	pages     *core.IndirectObject
}

// Open reads filename and loads it. WithMaxSize is checked against the file
// size before the file is read.
func Open(filename string, opts ...Option) (*Document, error) {
	cfg := newConfig(opts)

	if cfg.maxSize > 0 {
		info, err := os.Stat(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to stat file: %w", err)
		}
		if info.Size() > cfg.maxSize {
			return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, info.Size(), cfg.maxSize)
		}
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return load(data, cfg)
}

// Load parses a whole PDF held in memory. Steps run in order and the first
// failure is returned; there is no partial Document:
//
//  1. the version from a %PDF-X.Y header line in the first 1024 bytes
//  2. the offset after the first "startxref"
//  3. the dictionary after the first "trailer"
//  4. every indirect object, by a linear scan
//  5. the /Root object named by the trailer
//  6. the /Pages object named by the root
//
// The cross-reference table is not used. Objects are keyed by number only;
// when a number repeats, the object scanned last wins.
func Load(data []byte, opts ...Option) (*Document, error) {
	return load(data, newConfig(opts))
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.Logger()
	}
	return cfg
}

func load(data []byte, cfg *config) (*Document, error) {
	log := cfg.logger.With(slog.String("func", "Load"))

	if cfg.maxSize > 0 && int64(len(data)) > cfg.maxSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), cfg.maxSize)
	}

	doc := &Document{}

	version, err := findVersion(data)
	if err != nil {
		return nil, err
	}
	doc.version = version

	doc.startXref, err = findStartXref(data)
	if err != nil {
		return nil, err
	}

	doc.trailer, err = findTrailer(data)
	if err != nil {
		return nil, err
	}

	scanned, err := core.ScanObjects(data)
	if err != nil {
		return nil, err
	}
	doc.objects = make(map[int]*core.IndirectObject, len(scanned))
	for _, obj := range scanned {
		if prev, ok := doc.objects[obj.Number]; ok {
			log.Debug("object number collision, keeping the later object",
				slog.Int("object", obj.Number),
				slog.Int("replaced_generation", prev.Generation),
				slog.Int("generation", obj.Generation))
		}
		doc.objects[obj.Number] = obj
	}

	if cfg.objectStreams {
		doc.expandObjectStreams(scanned, log)
	}

	doc.root, err = doc.follow(doc.trailer, "Root")
	if err != nil {
		return nil, err
	}
	doc.pages, err = doc.follow(doc.root.Dict, "Pages")
	if err != nil {
		return nil, err
	}

	log.Debug("document loaded",
		slog.String("version", doc.version),
		slog.Int("objects", len(doc.objects)),
		slog.Int("root", doc.root.Number),
		slog.Int("pages", doc.pages.Number))
	return doc, nil
}

// findVersion reads X.Y from a %PDF-X.Y header near the start of data.
// The header must end the line.
func findVersion(data []byte) (string, error) {
	window := data[:min(len(data), headerWindow)]
	m := versionPattern.FindSubmatch(window)
	if m == nil {
		return "", ErrMissingVersion
	}
	return string(m[1]), nil
}

// findStartXref returns the byte offset written after the first startxref.
// The offset is recorded but never followed.
func findStartXref(data []byte) (int64, error) {
	m := startXrefPattern.FindSubmatch(data)
	if m == nil {
		return 0, ErrMissingStartXref
	}
	offset, err := strconv.ParseInt(string(m[1]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMissingStartXref, err)
	}
	return offset, nil
}

// findTrailer parses the dictionary after the first "trailer" keyword.
// TODO: fall back to the /Type /XRef stream dictionary for PDF 1.5+ files
// that have no trailer keyword.
func findTrailer(data []byte) (core.Dict, error) {
	idx := bytes.Index(data, kwTrailer)
	if idx < 0 {
		return nil, ErrMissingTrailer
	}

	rest := data[idx+len(kwTrailer):]
	start := bytes.Index(rest, []byte("<<"))
	if start < 0 {
		return nil, fmt.Errorf("%w: no dictionary after trailer keyword", ErrMissingTrailer)
	}
	dict, ok := core.ParseDict(rest[start:core.SpanEnd(rest, start)])
	if !ok {
		return nil, fmt.Errorf("%w: unterminated trailer dictionary", ErrMissingTrailer)
	}
	return dict, nil
}

// follow looks up the object that dict[key] refers to.
func (d *Document) follow(dict core.Dict, key string) (*core.IndirectObject, error) {
	ref, ok := dict.GetIndirectRef(key)
	if !ok {
		return nil, fmt.Errorf("%w: /%s is missing or not a reference", ErrUnresolvedReference, key)
	}
	obj, ok := d.objects[ref.Number]
	if !ok {
		return nil, fmt.Errorf("%w: /%s %s", ErrUnresolvedReference, key, ref)
	}
	return obj, nil
}

// expandObjectStreams adds the objects packed in /Type /ObjStm streams.
// Streams that fail to decode are skipped.
func (d *Document) expandObjectStreams(scanned []*core.IndirectObject, log *slog.Logger) {
	for _, container := range scanned {
		if !core.IsObjectStream(container) {
			continue
		}

		stm, err := core.NewObjectStream(container)
		if err != nil {
			log.Debug("skipping object stream", slog.Int("object", container.Number), slog.String("error", err.Error()))
			continue
		}
		embedded, err := stm.Objects()
		if err != nil {
			log.Debug("skipping object stream", slog.Int("object", container.Number), slog.String("error", err.Error()))
			continue
		}

		added := 0
		for _, obj := range embedded {
			if _, exists := d.objects[obj.Number]; exists {
				continue
			}
			d.objects[obj.Number] = obj
			added++
		}
		log.Debug("expanded object stream",
			slog.Int("object", container.Number),
			slog.Int("embedded", len(embedded)),
			slog.Int("added", added))
	}
}

// Version returns the header version, e.g. "1.4".
func (d *Document) Version() string {
	return d.version
}

// StartXref returns the offset written after startxref.
func (d *Document) StartXref() int64 {
	return d.startXref
}

// Trailer returns the trailer dictionary.
func (d *Document) Trailer() core.Dict {
	return d.trailer
}

// Root returns the document catalog object.
func (d *Document) Root() *core.IndirectObject {
	return d.root
}

// Pages returns the object the catalog's /Pages entry refers to. Only this
// one object is kept; /Kids is not traversed.
func (d *Document) Pages() *core.IndirectObject {
	return d.pages
}

// GetObject returns the object with number n.
func (d *Document) GetObject(n int) (*core.IndirectObject, bool) {
	obj, ok := d.objects[n]
	return obj, ok
}

// ObjectNumbers returns the numbers in the object table in ascending order.
func (d *Document) ObjectNumbers() []int {
	nums := make([]int, 0, len(d.objects))
	for n := range d.objects {
		nums = append(nums, n)
	}
	slices.Sort(nums)
	return nums
}

// NumObjects returns the size of the object table.
func (d *Document) NumObjects() int {
	return len(d.objects)
}

// ResolveReference returns the value of the object ref points to. The
// generation number is ignored. It fails with ErrUnresolvedReference when
// the object is not in the table.
func (d *Document) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	obj, ok := d.objects[ref.Number]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedReference, ref)
	}
	return obj.Value, nil
}
