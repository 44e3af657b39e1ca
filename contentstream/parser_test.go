package contentstream

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tsawler/ripper/core"
)

// TestParseOperands tests operand typing for each kind of operand
func TestParseOperands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Operation
	}{
		{
			name:  "no operands",
			input: "q",
			want:  []Operation{{Operator: "q"}},
		},
		{
			name:  "integer",
			input: "100 Tz",
			want:  []Operation{{Operator: "Tz", Operands: []core.Object{core.Int(100)}}},
		},
		{
			name:  "reals",
			input: "1.5 w -.25 .5 Td",
			want: []Operation{
				{Operator: "w", Operands: []core.Object{core.Real(1.5)}},
				{Operator: "Td", Operands: []core.Object{core.Real(-0.25), core.Real(0.5)}},
			},
		},
		{
			name:  "name and size",
			input: "/F1 12 Tf",
			want:  []Operation{{Operator: "Tf", Operands: []core.Object{core.Name("F1"), core.Int(12)}}},
		},
		{
			name:  "literal string without space",
			input: "(Hello \\(world\\))Tj",
			want: []Operation{{Operator: "Tj", Operands: []core.Object{
				core.String{Kind: core.Literal, Value: []byte("Hello (world)")},
			}}},
		},
		{
			name:  "hex string",
			input: "<00410042> Tj",
			want: []Operation{{Operator: "Tj", Operands: []core.Object{
				core.String{Kind: core.Hex, Value: []byte{0x00, 0x41, 0x00, 0x42}},
			}}},
		},
		{
			name:  "array",
			input: "[(A) -120 (B)] TJ",
			want: []Operation{{Operator: "TJ", Operands: []core.Object{core.Array{
				core.String{Kind: core.Literal, Value: []byte("A")},
				core.RawToken("-120"),
				core.String{Kind: core.Literal, Value: []byte("B")},
			}}}},
		},
		{
			name:  "keywords",
			input: "true false null x",
			want: []Operation{{Operator: "x", Operands: []core.Object{
				core.Bool(true), core.Bool(false), core.Null{},
			}}},
		},
		{
			name:  "quote operators",
			input: "(a) ' 1 2 (b) \"",
			want: []Operation{
				{Operator: "'", Operands: []core.Object{core.String{Kind: core.Literal, Value: []byte("a")}}},
				{Operator: "\"", Operands: []core.Object{core.Int(1), core.Int(2), core.String{Kind: core.Literal, Value: []byte("b")}}},
			},
		},
		{
			name:  "dictionary",
			input: "/OC << /MCID 0 >> BDC",
			want: []Operation{{Operator: "BDC", Operands: []core.Object{
				core.Name("OC"),
				core.Dict{{Key: "MCID", Value: core.RawToken("0")}},
			}}},
		},
		{
			name:  "comments",
			input: "q % save\nQ",
			want:  []Operation{{Operator: "q"}, {Operator: "Q"}},
		},
		{
			name:  "trailing operands dropped",
			input: "q 1 2",
			want:  []Operation{{Operator: "q"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewParser([]byte(tt.input)).Parse()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

// TestParseEmptyInput tests that empty and blank streams yield no operations
func TestParseEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n\t ", "% only a comment"} {
		if ops := NewParser([]byte(input)).Parse(); len(ops) != 0 {
			t.Errorf("Parse(%q) = %v, want no operations", input, ops)
		}
	}
}

// TestParseTolerant tests that malformed input never stops the parser
func TestParseTolerant(t *testing.T) {
	input := "1 0 0 1 10 10 cm ) } 1.2.3 w (unterminated Tj"
	ops := NewParser([]byte(input)).Parse()

	if len(ops) != 2 {
		t.Fatalf("expected 2 operations, got %d: %v", len(ops), ops)
	}
	if ops[0].Operator != "cm" || len(ops[0].Operands) != 6 {
		t.Errorf("first operation = %v", ops[0])
	}
	if ops[1].Operator != "w" {
		t.Errorf("second operator = %q, want w", ops[1].Operator)
	}
	if last := ops[1].Operands[len(ops[1].Operands)-1]; last != core.RawToken("1.2.3") {
		t.Errorf("malformed number should stay raw, got %#v", last)
	}
}

// TestParseInlineImage tests that image data between ID and EI is skipped
func TestParseInlineImage(t *testing.T) {
	input := []byte("q BI /W 2 /H 2 /BPC 8 /CS /G ID \x00Tj\xffEIx\x10 EI Q BT (after) Tj ET")
	ops := NewParser(input).Parse()

	var names []string
	for _, op := range ops {
		names = append(names, op.Operator)
	}
	want := []string{"q", "BI", "Q", "BT", "Tj", "ET"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("operators mismatch (-want +got):\n%s", diff)
	}
}
