package contentstream

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func strPtr(s string) *string { return &s }

// TestExtractText tests each operator pattern independently
func TestExtractText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  TextRun
	}{
		{
			name:  "position only",
			input: "100 200 Td",
			want:  TextRun{Td: &Point{X: 100, Y: 200}},
		},
		{
			name:  "full run",
			input: "BT /F1 12 Tf 1 0 0 1 72 712 Tm 10 -14.5 Td (Hello\\nWorld)Tj ET",
			want: TextRun{
				Td: &Point{X: 10, Y: -14.5},
				Tm: &Matrix{A: 1, D: 1, E: 72, F: 712},
				Tf: &FontSpec{Name: "F1", Size: 12},
				Tj: strPtr("Hello\nWorld"),
			},
		},
		{
			name:  "first occurrence wins",
			input: "1 2 Td (first) Tj 3 4 Td (second) Tj",
			want:  TextRun{Td: &Point{X: 1, Y: 2}, Tj: strPtr("first")},
		},
		{
			name:  "font with any name",
			input: "/TT0 9.5 Tf",
			want:  TextRun{Tf: &FontSpec{Name: "TT0", Size: 9.5}},
		},
		{
			name:  "hex payload",
			input: "<4142> Tj",
			want:  TextRun{Tj: strPtr("AB")},
		},
		{
			name:  "malformed operands skipped",
			input: "1 Td /F1 Tf (x) 1 Tj 1 2 Td",
			want:  TextRun{Td: &Point{X: 1, Y: 2}},
		},
		{
			name:  "nothing recognized",
			input: "q 1 0 0 RG Q",
			want:  TextRun{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractText([]byte(tt.input))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractText(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

// TestExtractTextNoFont tests that a fragment without Tf leaves Tf unset
func TestExtractTextNoFont(t *testing.T) {
	run := ExtractText([]byte("100 200 Td (x) Tj"))
	if run.Tf != nil {
		t.Errorf("Tf = %+v, want nil", run.Tf)
	}
	if run.Empty() {
		t.Error("run should not be empty")
	}
	if !(TextRun{}).Empty() {
		t.Error("zero TextRun should be empty")
	}
}

// TestExtractTextRuns tests splitting a page stream into BT/ET runs
func TestExtractTextRuns(t *testing.T) {
	content := `1 0 0 RG 5 5 Td (outside) Tj
BT /F1 10 Tf 50 700 Td (one) Tj ET
q 0.5 g Q
BT /F2 8 Tf (two) Tj
ET
BT 1 2 Td (open)`

	want := []TextRun{
		{Td: &Point{X: 50, Y: 700}, Tf: &FontSpec{Name: "F1", Size: 10}, Tj: strPtr("one")},
		{Tf: &FontSpec{Name: "F2", Size: 8}, Tj: strPtr("two")},
		{Td: &Point{X: 1, Y: 2}},
	}

	got := ExtractTextRuns([]byte(content))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractTextRuns mismatch (-want +got):\n%s", diff)
	}
}
