// Package contentstream tokenizes PDF content streams and pulls text state
// out of them.
//
// # Content Stream Operations
//
// PDF content streams consist of operators and their operands:
//
//	ops := contentstream.NewParser(streamData).Parse()
//	for _, op := range ops {
//	    fmt.Printf("Operator: %s, Operands: %v\n", op.Operator, op.Operands)
//	}
//
// The parser is tolerant. It never returns an error; malformed operands are
// kept as core.RawToken values and inline image data is skipped.
//
// # Text Runs
//
// [ExtractText] fills a [TextRun] from the first Td, Tm, Tf and Tj found in
// a fragment. [ExtractTextRuns] does the same once per BT ... ET block of a
// page content stream:
//
//	for _, run := range contentstream.ExtractTextRuns(content) {
//	    if run.Tj != nil {
//	        fmt.Println(*run.Tj)
//	    }
//	}
//
// Tj payloads are raw string bytes; map them to Unicode with the font's
// ToUnicode CMap (see package font).
package contentstream
