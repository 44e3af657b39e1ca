package contentstream

import (
	"github.com/tsawler/ripper/core"
)

// Operation represents a single content stream operation consisting of an
// operator and its operands. Operands are PDF objects that precede the operator.
type Operation struct {
	Operator string        // The operator (e.g., "Tj", "Tm", "q")
	Operands []core.Object // The operands
}

// Parser tokenizes a content stream into operations. It never fails:
// unknown or malformed input is kept as raw operands and parsing continues.
type Parser struct {
	data []byte
	pos  int
	ops  []Operation
}

// NewParser creates a new content stream parser for the given data.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Parse parses the content stream and returns all operations in order.
// Numeric and keyword operands are interpreted (core.Int, core.Real,
// core.Bool, core.Null); strings, names, arrays and dictionaries are parsed
// with core.ParseValue. Operands left over at the end of the stream are
// discarded. An inline image (BI ... ID ... EI) becomes one "BI" operation
// without operands; its data is skipped.
func (p *Parser) Parse() []Operation {
	var operands []core.Object

	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			break
		}

		c := p.data[p.pos]
		if isDelimiter(c) {
			end := core.SpanEnd(p.data, p.pos)
			operands = append(operands, core.ParseValue(p.data[p.pos:end]))
			p.pos = end
			continue
		}

		token := p.token()
		if !isOperator(token) {
			operands = append(operands, core.Interpret(core.RawToken(token)))
			continue
		}

		if token == "BI" {
			p.skipInlineImage()
		}
		p.ops = append(p.ops, Operation{Operator: token, Operands: operands})
		operands = nil
	}

	return p.ops
}

// token consumes a bare token: everything up to whitespace or a delimiter.
func (p *Parser) token() string {
	start := p.pos
	for p.pos < len(p.data) && !isWhitespace(p.data[p.pos]) && !isDelimiter(p.data[p.pos]) {
		p.pos++
	}
	return string(p.data[start:p.pos])
}

// skipInlineImage moves past the key/value pairs after BI, the ID operator
// and the image data up to the EI operator.
func (p *Parser) skipInlineImage() {
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return
		}
		if isDelimiter(p.data[p.pos]) {
			p.pos = core.SpanEnd(p.data, p.pos)
			continue
		}
		if p.token() == "ID" {
			break
		}
	}

	// a single whitespace byte separates ID from the data
	if p.pos < len(p.data) && isWhitespace(p.data[p.pos]) {
		p.pos++
	}
	for i := p.pos; i+1 < len(p.data); i++ {
		if p.data[i] != 'E' || p.data[i+1] != 'I' {
			continue
		}
		before := i == 0 || isWhitespace(p.data[i-1])
		after := i+2 == len(p.data) || isWhitespace(p.data[i+2]) || isDelimiter(p.data[i+2])
		if before && after {
			p.pos = i + 2
			return
		}
	}
	p.pos = len(p.data)
}

// skipSpace advances past PDF whitespace and % comments.
func (p *Parser) skipSpace() {
	for p.pos < len(p.data) {
		switch c := p.data[p.pos]; {
		case isWhitespace(c):
			p.pos++
		case c == '%':
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
		default:
			return
		}
	}
}

// isOperator reports whether a bare token names an operator rather than a
// number or keyword operand.
func isOperator(token string) bool {
	switch token {
	case "", "true", "false", "null":
		return false
	}
	c := token[0]
	return isLetter(c) || c == '\'' || c == '"'
}

// Helper functions

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

// isLetter reports whether c is an ASCII letter.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isDelimiter reports whether c is a PDF delimiter character.
func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}
