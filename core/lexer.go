package core

import "bytes"

// The scanner works on spans of an in-memory buffer. Each skip function
// takes the index of an opening delimiter and returns the index just past
// the matching closer, or len(data) when the construct is unterminated.

// SpanEnd returns the end (exclusive) of the single value that starts at
// data[pos]. Dictionaries and arrays are delimiter-balanced, strings are
// skipped escape- and paren-aware, and a bare token ends at whitespace or
// a delimiter. The result is always greater than pos when pos < len(data),
// so callers looping on SpanEnd always advance.
func SpanEnd(data []byte, pos int) int {
	return spanEnd(data, pos, false)
}

// spanEnd implements SpanEnd. In dict-value mode a bare token runs across
// whitespace up to the next delimiter, which lets "2 0 R" form one span.
func spanEnd(data []byte, pos int, dictValue bool) int {
	if pos >= len(data) {
		return len(data)
	}
	switch b := data[pos]; {
	case b == '<' && pos+1 < len(data) && data[pos+1] == '<':
		return skipDict(data, pos)
	case b == '<':
		return skipHex(data, pos)
	case b == '[':
		return skipArray(data, pos)
	case b == '(':
		return skipLiteral(data, pos)
	case b == '/':
		return skipName(data, pos)
	case isDelimiter(b):
		// stray closer or brace: consume it alone
		return pos + 1
	}

	end := pos
	for end < len(data) {
		b := data[end]
		if isDelimiter(b) {
			break
		}
		if !dictValue && isWhitespace(b) {
			break
		}
		end++
	}
	return end
}

// skipLiteral skips a literal string, honouring backslash escapes and
// nested balanced parentheses.
func skipLiteral(data []byte, pos int) int {
	depth := 0
	for i := pos; i < len(data); i++ {
		switch data[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(data)
}

// skipHex skips a hexadecimal string <...>.
func skipHex(data []byte, pos int) int {
	idx := bytes.IndexByte(data[pos+1:], '>')
	if idx < 0 {
		return len(data)
	}
	return pos + 1 + idx + 1
}

// skipName skips a name: the slash and everything up to whitespace or a delimiter.
func skipName(data []byte, pos int) int {
	i := pos + 1
	for i < len(data) && !isWhitespace(data[i]) && !isDelimiter(data[i]) {
		i++
	}
	return i
}

// skipDict skips a dictionary, counting nested << >> pairs.
func skipDict(data []byte, pos int) int {
	depth := 0
	i := pos
	for i < len(data) {
		switch {
		case data[i] == '(':
			i = skipLiteral(data, i)
		case hasPrefixAt(data, i, "<<"):
			depth++
			i += 2
		case hasPrefixAt(data, i, ">>"):
			depth--
			i += 2
			if depth == 0 {
				return i
			}
		case data[i] == '<':
			i = skipHex(data, i)
		default:
			i++
		}
	}
	return len(data)
}

// skipArray skips an array, counting nested [ ] pairs.
func skipArray(data []byte, pos int) int {
	depth := 0
	i := pos
	for i < len(data) {
		switch {
		case data[i] == '(':
			i = skipLiteral(data, i)
		case hasPrefixAt(data, i, "<<"):
			i += 2
		case data[i] == '<':
			i = skipHex(data, i)
		case data[i] == '[':
			depth++
			i++
		case data[i] == ']':
			depth--
			i++
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return len(data)
}

// skipSpace skips whitespace and % comments.
func skipSpace(data []byte, pos int) int {
	for pos < len(data) {
		switch {
		case isWhitespace(data[pos]):
			pos++
		case data[pos] == '%':
			for pos < len(data) && data[pos] != '\n' && data[pos] != '\r' {
				pos++
			}
		default:
			return pos
		}
	}
	return pos
}

// tokenAt returns the bare token starting at pos (no whitespace or delimiters).
func tokenAt(data []byte, pos int) []byte {
	end := pos
	for end < len(data) && !isWhitespace(data[end]) && !isDelimiter(data[end]) {
		end++
	}
	return data[pos:end]
}

func hasPrefixAt(data []byte, pos int, prefix string) bool {
	return len(data)-pos >= len(prefix) && string(data[pos:pos+len(prefix)]) == prefix
}

// trimSpace trims PDF whitespace (which includes NUL) from both ends.
func trimSpace(data []byte) []byte {
	return bytes.TrimFunc(data, func(r rune) bool {
		return r < 0x80 && isWhitespace(byte(r))
	})
}

// Helper functions

func isWhitespace(b byte) bool {
	// PDF whitespace: space, tab, LF, CR, FF, null
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isDigits(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if !isDigit(c) {
			return false
		}
	}
	return true
}

func hexValue(b byte) byte {
	if b >= '0' && b <= '9' {
		return b - '0'
	}
	if b >= 'a' && b <= 'f' {
		return b - 'a' + 10
	}
	if b >= 'A' && b <= 'F' {
		return b - 'A' + 10
	}
	return 0
}
