package core

import (
	"bytes"
	"regexp"
	"strconv"
)

// objHeader matches "N G obj". NUL counts as whitespace, as in the lexer.
var objHeader = regexp.MustCompile(`(\d+)[\s\x00]+(\d+)[\s\x00]+obj\b`)

var (
	kwEndobj    = []byte("endobj")
	kwStream    = []byte("stream")
	kwEndstream = []byte("endstream")
)

// ScanObjects finds every "N G obj ... endobj" span in data, in file order,
// and parses each into an IndirectObject. Spans do not overlap; a span ends
// at the nearest "endobj" (searched after "endstream" when the object
// carries a stream). Byte offsets from the cross-reference table are not
// consulted.
//
// Object numbers may repeat in the result; it is up to the caller to decide
// which one wins.
func ScanObjects(data []byte) ([]*IndirectObject, error) {
	var objects []*IndirectObject

	pos := 0
	for pos < len(data) {
		loc := objHeader.FindSubmatchIndex(data[pos:])
		if loc == nil {
			break
		}
		bodyStart := pos + loc[1]

		num, err1 := strconv.Atoi(string(data[pos+loc[2] : pos+loc[3]]))
		gen, err2 := strconv.Atoi(string(data[pos+loc[4] : pos+loc[5]]))
		if err1 != nil || err2 != nil {
			pos = bodyStart
			continue
		}

		obj, end, ok := scanObjectBody(data, bodyStart)
		if !ok {
			break
		}
		obj.Number = num
		obj.Generation = gen
		objects = append(objects, obj)
		pos = end
	}

	if len(objects) == 0 {
		return nil, ErrNoObjectsFound
	}
	return objects, nil
}

// scanObjectBody parses the body that follows "N G obj" and returns the
// object and the index just past its "endobj".
func scanObjectBody(data []byte, bodyStart int) (*IndirectObject, int, bool) {
	idx := bytes.Index(data[bodyStart:], kwEndobj)
	if idx < 0 {
		return nil, 0, false
	}
	bodyEnd := bodyStart + idx
	body := data[:bodyEnd]

	p := skipSpace(body, bodyStart)
	vEnd := SpanEnd(body, p)
	obj := &IndirectObject{Value: ParseValue(body[p:vEnd])}
	obj.Dict = findDict(obj.Value, data[bodyStart:bodyEnd])
	end := bodyEnd + len(kwEndobj)

	q := skipSpace(body, vEnd)
	if hasPrefixAt(body, q, "stream") {
		if stream, streamEnd, ok := readStream(data, q+len(kwStream), obj.Dict); ok {
			obj.Stream = stream
			if eo := bytes.Index(data[streamEnd:], kwEndobj); eo >= 0 {
				end = streamEnd + eo + len(kwEndobj)
			}
		}
	}
	return obj, end, true
}

// findDict returns the body value if it is a dictionary, otherwise the first
// balanced << >> span embedded in the body.
func findDict(value Object, body []byte) Dict {
	if d, ok := value.(Dict); ok {
		return d
	}
	start := bytes.Index(body, []byte("<<"))
	if start < 0 {
		return nil
	}
	d, _ := ParseDict(body[start:skipDict(body, start)])
	return d
}

// readStream captures the bytes between the end of line after "stream" and
// "endstream". A direct /Length that fits is used as is; otherwise the
// end-of-line marker before "endstream" is dropped. It returns the stream
// bytes and the index just past "endstream".
func readStream(data []byte, pos int, dict Dict) ([]byte, int, bool) {
	switch {
	case hasPrefixAt(data, pos, "\r\n"):
		pos += 2
	case hasPrefixAt(data, pos, "\n"), hasPrefixAt(data, pos, "\r"):
		pos++
	}

	idx := bytes.Index(data[pos:], kwEndstream)
	if idx < 0 {
		return nil, 0, false
	}
	streamEnd := pos + idx

	raw := data[pos:streamEnd]
	if length, ok := dict.GetInt("Length"); ok && length >= 0 && int(length) <= len(raw) {
		raw = raw[:length]
	} else {
		raw = trimEOL(raw)
	}

	stream := make([]byte, len(raw))
	copy(stream, raw)
	return stream, streamEnd + len(kwEndstream), true
}

func trimEOL(b []byte) []byte {
	switch {
	case bytes.HasSuffix(b, []byte("\r\n")):
		return b[:len(b)-2]
	case bytes.HasSuffix(b, []byte("\n")), bytes.HasSuffix(b, []byte("\r")):
		return b[:len(b)-1]
	}
	return b
}
