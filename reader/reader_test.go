package reader

import (
	"bytes"
	"compress/zlib"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tsawler/ripper/core"
	"github.com/tsawler/ripper/logging"
	"github.com/tsawler/ripper/resolver"
)

// minimalPDF is a minimal valid PDF for testing
const minimalPDF = `%PDF-1.4
1 0 obj
<< /Type /Catalog /Pages 2 0 R >>
endobj
2 0 obj
<< /Type /Pages /Kids [3 0 R] /Count 1 >>
endobj
3 0 obj
<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>
endobj
xref
0 4
0000000000 65535 f
0000000009 00000 n
0000000058 00000 n
0000000115 00000 n
trailer
<< /Size 4 /Root 1 0 R >>
startxref
190
%%EOF`

// createTempPDF creates a temporary PDF file with the given content
func createTempPDF(t *testing.T, content []byte) string {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), "test.pdf")
	if err := os.WriteFile(tmpFile, content, 0644); err != nil {
		t.Fatalf("failed to create temp PDF: %v", err)
	}
	return tmpFile
}

// TestLoad tests loading a well-formed document
func TestLoad(t *testing.T) {
	doc, err := Load([]byte(minimalPDF))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if doc.Version() != "1.4" {
		t.Errorf("Version() = %q, want 1.4", doc.Version())
	}
	if doc.StartXref() != 190 {
		t.Errorf("StartXref() = %d, want 190", doc.StartXref())
	}
	if size, ok := doc.Trailer().GetInt("Size"); !ok || size != 4 {
		t.Errorf("trailer /Size = %v", size)
	}
	if doc.Root().Number != 1 {
		t.Errorf("Root() = %d, want 1", doc.Root().Number)
	}
	if typ, _ := doc.Pages().Dict.GetName("Type"); typ != "Pages" {
		t.Errorf("Pages() type = %q, want Pages", typ)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, doc.ObjectNumbers()); diff != "" {
		t.Errorf("ObjectNumbers mismatch (-want +got):\n%s", diff)
	}
	if doc.NumObjects() != 3 {
		t.Errorf("NumObjects() = %d, want 3", doc.NumObjects())
	}

	page, ok := doc.GetObject(3)
	if !ok {
		t.Fatal("GetObject(3) not found")
	}
	if typ, _ := page.Dict.GetName("Type"); typ != "Page" {
		t.Errorf("object 3 type = %q, want Page", typ)
	}
	if _, ok := doc.GetObject(99); ok {
		t.Error("GetObject(99) should not be found")
	}
}

// TestLoadTrailerRoot tests that the trailer's /Root resolves to its object
func TestLoadTrailerRoot(t *testing.T) {
	input := "%PDF-1.7\n" +
		"3 0 obj << /Type /Catalog /Pages 4 0 R >> endobj\n" +
		"4 0 obj << /Type /Page >> endobj\n" +
		"trailer\n<< /Root 3 0 R >>\nstartxref\n0\n%%EOF"

	doc, err := Load([]byte(input))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	ref, _ := doc.Trailer().GetIndirectRef("Root")
	if ref.Number != 3 || doc.Root().Number != 3 {
		t.Errorf("Root = %v / %d, want 3", ref, doc.Root().Number)
	}
	if doc.Pages().Number != 4 {
		t.Errorf("Pages = %d, want 4", doc.Pages().Number)
	}
}

// TestLoadErrors tests each fail-fast step
func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{
			name:  "no header",
			input: strings.Replace(minimalPDF, "%PDF-1.4", "%XYZ-1.4", 1),
			want:  ErrMissingVersion,
		},
		{
			name:  "header without line break",
			input: strings.Replace(minimalPDF, "%PDF-1.4\n", "%PDF-1.4 ", 1),
			want:  ErrMissingVersion,
		},
		{
			name:  "header too late",
			input: strings.Repeat(" ", 1100) + minimalPDF,
			want:  ErrMissingVersion,
		},
		{
			name:  "no startxref",
			input: strings.Replace(minimalPDF, "startxref", "startx", 1),
			want:  ErrMissingStartXref,
		},
		{
			name:  "startxref without offset",
			input: strings.Replace(minimalPDF, "startxref\n190", "startxref\n", 1),
			want:  ErrMissingStartXref,
		},
		{
			name:  "no trailer",
			input: strings.Replace(minimalPDF, "trailer", "", 1),
			want:  ErrMissingTrailer,
		},
		{
			name:  "unterminated trailer",
			input: "%PDF-1.4\n1 0 obj 1 endobj\nstartxref\n0\ntrailer\n<< /Root 1 0 R",
			want:  ErrMissingTrailer,
		},
		{
			name:  "no objects",
			input: "%PDF-1.4\ntrailer\n<< /Root 1 0 R >>\nstartxref\n0\n%%EOF",
			want:  ErrNoObjectsFound,
		},
		{
			name:  "dangling root",
			input: strings.Replace(minimalPDF, "/Root 1 0 R", "/Root 9 0 R", 1),
			want:  ErrUnresolvedReference,
		},
		{
			name:  "root not a reference",
			input: strings.Replace(minimalPDF, "/Root 1 0 R", "/Root 1", 1),
			want:  ErrUnresolvedReference,
		},
		{
			name:  "dangling pages",
			input: strings.Replace(minimalPDF, "/Pages 2 0 R", "/Pages 8 0 R", 1),
			want:  ErrUnresolvedReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Load([]byte(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
			if doc != nil {
				t.Error("a failed load must not return a Document")
			}
		})
	}
}

// TestLoadFirstTrailerWins tests that an incremental update's trailer is ignored
func TestLoadFirstTrailerWins(t *testing.T) {
	input := minimalPDF + "\n4 0 obj << /Type /Catalog /Pages 2 0 R >> endobj\n" +
		"trailer\n<< /Size 5 /Root 4 0 R /Prev 190 >>\nstartxref\n400\n%%EOF"

	doc, err := Load([]byte(input))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Root().Number != 1 {
		t.Errorf("Root = %d, want 1 from the first trailer", doc.Root().Number)
	}
	if doc.StartXref() != 190 {
		t.Errorf("StartXref = %d, want the first offset 190", doc.StartXref())
	}
}

// TestLoadDuplicateObjects tests that the last object with a number wins
func TestLoadDuplicateObjects(t *testing.T) {
	input := minimalPDF + "\n3 1 obj << /Type /Page /Rotate 90 >> endobj\n"

	h := logging.NewCaptureHandler(nil)
	doc, err := Load([]byte(input), WithLogger(slog.New(h)))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	page, _ := doc.GetObject(3)
	if page.Generation != 1 || !page.Dict.Has("Rotate") {
		t.Errorf("object 3 = %v, want the later generation 1 object", page)
	}
	if doc.NumObjects() != 3 {
		t.Errorf("NumObjects() = %d, want 3", doc.NumObjects())
	}
	if !h.Contains("object number collision") {
		t.Errorf("expected collision to be logged, got:\n%s", h.String())
	}
}

// TestLoadIdempotent tests that loading the same bytes twice gives equal documents
func TestLoadIdempotent(t *testing.T) {
	data := []byte(minimalPDF)
	a, err := Load(data)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Load(data)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(a, b, cmp.AllowUnexported(Document{})); diff != "" {
		t.Errorf("documents differ (-first +second):\n%s", diff)
	}
	if a.Root() == b.Root() {
		t.Error("documents should not share objects")
	}
}

// TestLoadMaxSize tests the size limit for Load and Open
func TestLoadMaxSize(t *testing.T) {
	data := []byte(minimalPDF)

	if _, err := Load(data, WithMaxSize(10)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Load error = %v, want ErrTooLarge", err)
	}
	if _, err := Load(data, WithMaxSize(int64(len(data)))); err != nil {
		t.Errorf("Load at the limit failed: %v", err)
	}

	path := createTempPDF(t, data)
	if _, err := Open(path, WithMaxSize(10)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Open error = %v, want ErrTooLarge", err)
	}
}

// TestOpen tests opening a PDF file
func TestOpen(t *testing.T) {
	doc, err := Open(createTempPDF(t, []byte(minimalPDF)))
	if err != nil {
		t.Fatalf("failed to open PDF: %v", err)
	}
	if doc.Version() != "1.4" {
		t.Errorf("Version() = %q, want 1.4", doc.Version())
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func deflate(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write([]byte(data))
	w.Close()
	return buf.Bytes()
}

// TestLoadObjectStreams tests the opt-in expansion of /Type /ObjStm
func TestLoadObjectStreams(t *testing.T) {
	header := "2 0 5 37 "
	body := "<< /Type /Pages /Kids [] /Count 0 >> << /Embedded true >>"
	stream := deflate(t, header+body)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.5\n1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj\n")
	buf.WriteString("5 0 obj << /Top true >> endobj\n")
	buf.WriteString("9 0 obj << /Type /ObjStm /N 2 /First 9 /Filter /FlateDecode /Length ")
	buf.WriteString(strconv.Itoa(len(stream)) + " >>\nstream\n")
	buf.Write(stream)
	buf.WriteString("\nendstream\nendobj\ntrailer\n<< /Root 1 0 R >>\nstartxref\n0\n%%EOF")
	data := buf.Bytes()

	if _, err := Load(data); !errors.Is(err, ErrUnresolvedReference) {
		t.Errorf("without object streams /Pages should not resolve, got %v", err)
	}

	doc, err := Load(data, WithObjectStreams(true))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Pages().Number != 2 {
		t.Errorf("Pages = %d, want 2", doc.Pages().Number)
	}
	five, _ := doc.GetObject(5)
	if !five.Dict.Has("Top") {
		t.Error("embedded object must not replace a top-level object")
	}
}

// TestDocumentAsObjectReader tests resolving references through a Document
func TestDocumentAsObjectReader(t *testing.T) {
	doc, err := Load([]byte(minimalPDF))
	if err != nil {
		t.Fatal(err)
	}

	var _ resolver.ObjectReader = doc

	obj, err := resolver.NewResolver(doc).ResolveDeep(core.IndirectRef{Number: 2})
	if err == nil {
		t.Fatalf("expected a cycle through /Parent, got %v", obj)
	}

	kids, err := resolver.NewResolver(doc).ResolveArray(core.Array{core.IndirectRef{Number: 3}})
	if err == nil {
		t.Errorf("expected a cycle through /Parent, got %v", kids)
	}

	catalog, err := resolver.NewResolver(doc).GetObjectResolved(1)
	if err != nil {
		t.Fatalf("GetObjectResolved(1) failed: %v", err)
	}
	if d, _ := catalog.(core.Dict); d.Get("Type") != core.Name("Catalog") {
		t.Errorf("catalog = %v", catalog)
	}

	if _, err := doc.ResolveReference(core.IndirectRef{Number: 42}); !errors.Is(err, ErrUnresolvedReference) {
		t.Errorf("ResolveReference(42) error = %v, want ErrUnresolvedReference", err)
	}
}
