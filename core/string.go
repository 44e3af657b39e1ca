package core

import (
	"bytes"
	"fmt"
)

// DecodeString decodes a literal "(...)" or hexadecimal "<...>" string span.
// The span must end with the matching delimiter. A span opening with "<<"
// is a dictionary and yields ErrNotString.
func DecodeString(data []byte) (String, error) {
	data = trimSpace(data)
	if len(data) == 0 {
		return String{}, ErrNotString
	}

	switch data[0] {
	case '(':
		if len(data) < 2 || data[len(data)-1] != ')' || escapedAt(data, len(data)-1) {
			return String{}, fmt.Errorf("%w: missing \")\"", ErrMalformedString)
		}
		return String{Kind: Literal, Value: unescapeLiteral(data[1 : len(data)-1])}, nil

	case '<':
		if bytes.HasPrefix(data, []byte("<<")) {
			return String{}, fmt.Errorf("%w: dictionary, not a string", ErrNotString)
		}
		if len(data) < 2 || data[len(data)-1] != '>' {
			return String{}, fmt.Errorf("%w: missing \">\"", ErrMalformedString)
		}
		value, err := decodeHex(data[1 : len(data)-1])
		if err != nil {
			return String{}, err
		}
		return String{Kind: Hex, Value: value}, nil
	}

	return String{}, ErrNotString
}

// escapedAt reports whether data[i] follows an odd run of backslashes.
func escapedAt(data []byte, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && data[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// unescapeLiteral resolves the backslash escapes of a literal string payload.
func unescapeLiteral(payload []byte) []byte {
	buf := make([]byte, 0, len(payload))
	for i := 0; i < len(payload); i++ {
		b := payload[i]
		if b != '\\' {
			buf = append(buf, b)
			continue
		}
		i++
		if i >= len(payload) {
			// lone trailing backslash
			break
		}
		next := payload[i]
		switch next {
		case 'n':
			buf = append(buf, '\n')
		case 'r':
			buf = append(buf, '\r')
		case 't':
			buf = append(buf, '\t')
		case 'b':
			buf = append(buf, '\b')
		case 'f':
			buf = append(buf, '\f')
		case '(', ')', '\\':
			buf = append(buf, next)
		case '\r':
			// line continuation, CR LF counts as one end of line
			if i+1 < len(payload) && payload[i+1] == '\n' {
				i++
			}
		case '\n':
			// line continuation
		case '0', '1', '2', '3', '4', '5', '6', '7':
			val := next - '0'
			for n := 0; n < 2 && i+1 < len(payload) && isOctalDigit(payload[i+1]); n++ {
				i++
				val = val*8 + (payload[i] - '0')
			}
			buf = append(buf, val)
		default:
			// unknown escape: keep the character
			buf = append(buf, next)
		}
	}
	return buf
}

// decodeHex turns hex digit pairs into bytes. Whitespace is ignored and an
// odd trailing digit is padded with 0.
func decodeHex(payload []byte) ([]byte, error) {
	digits := make([]byte, 0, len(payload)+1)
	for _, b := range payload {
		if isWhitespace(b) {
			continue
		}
		if !isHexDigit(b) {
			return nil, fmt.Errorf("%w: invalid hex digit %q", ErrMalformedString, b)
		}
		digits = append(digits, b)
	}
	if len(digits)%2 != 0 {
		digits = append(digits, '0')
	}

	result := make([]byte, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		result[i/2] = hexValue(digits[i])<<4 | hexValue(digits[i+1])
	}
	return result, nil
}
