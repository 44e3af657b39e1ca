package core

import (
	"bytes"
	"log/slog"
	"strconv"

	"github.com/tsawler/ripper/logging"
)

// ParseValue parses one value span. The leading character decides the type:
// "<<" dictionary, "[" array, "<" or "(" string, "/" name, "N G R" indirect
// reference; anything else is returned as a RawToken.
//
// ParseValue never fails. A dictionary, array or string that does not parse
// degrades to a RawToken holding the trimmed span.
func ParseValue(data []byte) Object {
	data = trimSpace(data)
	if len(data) == 0 {
		return RawToken("")
	}

	switch data[0] {
	case '<':
		if bytes.HasPrefix(data, []byte("<<")) {
			if dict, ok := ParseDict(data); ok {
				return dict
			}
			break
		}
		fallthrough
	case '(':
		s, err := DecodeString(data)
		if err == nil {
			return s
		}
		logging.Logger().Debug("value degraded to raw token",
			slog.String("func", "ParseValue"), slog.String("error", err.Error()))
	case '[':
		if arr, ok := ParseArray(data); ok {
			return arr
		}
	case '/':
		return Name(decodeName(data[1:]))
	default:
		if ref, ok := parseReference(data); ok {
			return ref
		}
	}
	return RawToken(data)
}

// ParseDict parses a "<< ... >>" span into an ordered list of entries.
// It reports false when the span is not delimited by << and >>.
func ParseDict(data []byte) (Dict, bool) {
	data = trimSpace(data)
	if len(data) < 4 || !bytes.HasPrefix(data, []byte("<<")) || !bytes.HasSuffix(data, []byte(">>")) {
		return nil, false
	}
	inner := data[2 : len(data)-2]

	dict := Dict{}
	pos := 0
	for {
		pos = skipSpace(inner, pos)
		if pos >= len(inner) {
			break
		}
		if inner[pos] != '/' {
			// junk between entries: skip to the next key
			next := bytes.IndexByte(inner[pos:], '/')
			if next < 0 {
				break
			}
			pos += next
		}

		keyEnd := skipName(inner, pos)
		key := Name(decodeName(inner[pos+1 : keyEnd]))
		pos = skipSpace(inner, keyEnd)

		if pos >= len(inner) {
			dict = append(dict, DictEntry{Key: key, Value: Null{}})
			break
		}

		end := spanEnd(inner, pos, true)
		dict = append(dict, DictEntry{Key: key, Value: ParseValue(inner[pos:end])})
		pos = end
	}
	return dict, true
}

// ParseArray parses a "[ ... ]" span into its elements, in order. Three
// consecutive items "N G R" form one IndirectRef. It reports false when the
// span is not delimited by [ and ].
func ParseArray(data []byte) (Array, bool) {
	data = trimSpace(data)
	if len(data) < 2 || data[0] != '[' || data[len(data)-1] != ']' {
		return nil, false
	}
	inner := data[1 : len(data)-1]

	arr := Array{}
	pos := 0
	for {
		pos = skipSpace(inner, pos)
		if pos >= len(inner) {
			break
		}
		if ref, end, ok := referenceAt(inner, pos); ok {
			arr = append(arr, ref)
			pos = end
			continue
		}
		end := SpanEnd(inner, pos)
		arr = append(arr, ParseValue(inner[pos:end]))
		pos = end
	}
	return arr, true
}

// referenceAt recognizes "N G R" starting at pos and returns the reference
// and the index just past the R.
func referenceAt(data []byte, pos int) (IndirectRef, int, bool) {
	num := tokenAt(data, pos)
	if !isDigits(num) {
		return IndirectRef{}, 0, false
	}
	p := skipSpace(data, pos+len(num))
	gen := tokenAt(data, p)
	if !isDigits(gen) || p == pos+len(num) {
		return IndirectRef{}, 0, false
	}
	q := skipSpace(data, p+len(gen))
	if q == p+len(gen) || !bytes.Equal(tokenAt(data, q), []byte("R")) {
		return IndirectRef{}, 0, false
	}

	n, err1 := strconv.Atoi(string(num))
	g, err2 := strconv.Atoi(string(gen))
	if err1 != nil || err2 != nil {
		return IndirectRef{}, 0, false
	}
	return IndirectRef{Number: n, Generation: g}, q + 1, true
}

// parseReference reports whether the whole span is exactly "N G R".
func parseReference(data []byte) (IndirectRef, bool) {
	ref, end, ok := referenceAt(data, 0)
	if !ok || end != len(data) {
		return IndirectRef{}, false
	}
	return ref, true
}

// decodeName resolves #xx escapes in a name body.
func decodeName(b []byte) string {
	if bytes.IndexByte(b, '#') < 0 {
		return string(b)
	}
	buf := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == '#' && i+2 < len(b) && isHexDigit(b[i+1]) && isHexDigit(b[i+2]) {
			buf = append(buf, hexValue(b[i+1])<<4|hexValue(b[i+2]))
			i += 2
			continue
		}
		buf = append(buf, b[i])
	}
	return string(buf)
}
