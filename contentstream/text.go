package contentstream

import (
	"log/slog"

	"github.com/tsawler/ripper/core"
	"github.com/tsawler/ripper/logging"
)

// Point is a position set by the Td operator.
type Point struct {
	X, Y float64
}

// Matrix is a text matrix set by the Tm operator.
type Matrix struct {
	A, B, C, D, E, F float64
}

// FontSpec is the font resource name and size set by the Tf operator.
type FontSpec struct {
	Name string
	Size float64
}

// TextRun collects the text state of a fragment. A nil field means the
// operator did not occur with well-formed operands.
type TextRun struct {
	Td *Point
	Tm *Matrix
	Tf *FontSpec
	// Tj is the unescaped string payload of the Tj operator.
	Tj *string
}

// Empty reports whether no operator was recognized.
func (r TextRun) Empty() bool {
	return r.Td == nil && r.Tm == nil && r.Tf == nil && r.Tj == nil
}

// ExtractText scans a content fragment for Td, Tm, Tf and Tj. Each field is
// filled independently from the first well-formed occurrence of its
// operator; a missing operator leaves the field nil. It never fails.
func ExtractText(fragment []byte) TextRun {
	var run TextRun
	for _, op := range NewParser(fragment).Parse() {
		run.apply(op)
	}
	return run
}

// ExtractTextRuns returns one TextRun per BT ... ET text object in a page
// content stream, in stream order. Operators outside a text object are
// ignored. A text object left open at the end of the stream still yields
// its run.
func ExtractTextRuns(content []byte) []TextRun {
	var (
		runs   []TextRun
		cur    TextRun
		inText bool
	)

	for _, op := range NewParser(content).Parse() {
		switch op.Operator {
		case "BT":
			cur = TextRun{}
			inText = true
		case "ET":
			if inText {
				runs = append(runs, cur)
			}
			inText = false
		default:
			if inText {
				cur.apply(op)
			}
		}
	}

	if inText {
		logging.Logger().Debug("text object not closed",
			slog.String("func", "ExtractTextRuns"))
		runs = append(runs, cur)
	}
	return runs
}

// apply records op in r unless its field is already set.
func (r *TextRun) apply(op Operation) {
	switch op.Operator {
	case "Td":
		if r.Td != nil {
			return
		}
		if n, ok := lastNumbers(op.Operands, 2); ok {
			r.Td = &Point{X: n[0], Y: n[1]}
		}

	case "Tm":
		if r.Tm != nil {
			return
		}
		if n, ok := lastNumbers(op.Operands, 6); ok {
			r.Tm = &Matrix{A: n[0], B: n[1], C: n[2], D: n[3], E: n[4], F: n[5]}
		}

	case "Tf":
		if r.Tf != nil || len(op.Operands) < 2 {
			return
		}
		name, ok := op.Operands[len(op.Operands)-2].(core.Name)
		if !ok {
			return
		}
		if size, ok := number(op.Operands[len(op.Operands)-1]); ok {
			r.Tf = &FontSpec{Name: string(name), Size: size}
		}

	case "Tj":
		if r.Tj != nil || len(op.Operands) == 0 {
			return
		}
		if s, ok := op.Operands[len(op.Operands)-1].(core.String); ok {
			payload := s.Text()
			r.Tj = &payload
		}
	}
}

// lastNumbers returns the last n operands as numbers.
func lastNumbers(operands []core.Object, n int) ([]float64, bool) {
	if len(operands) < n {
		return nil, false
	}
	out := make([]float64, n)
	for i, obj := range operands[len(operands)-n:] {
		v, ok := number(obj)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func number(obj core.Object) (float64, bool) {
	switch v := core.Interpret(obj).(type) {
	case core.Int:
		return float64(v), true
	case core.Real:
		return float64(v), true
	}
	return 0, false
}
