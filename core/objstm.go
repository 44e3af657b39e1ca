package core

import (
	"fmt"
)

// ObjectStream is a decoded /Type /ObjStm object (PDF 1.5+). Such streams
// pack several objects behind one Flate stream, so a linear scan of the
// file never sees them.
type ObjectStream struct {
	container *IndirectObject
	n         int
	first     int
	offsets   []objectStreamOffset
	decoded   []byte
}

// objectStreamOffset pairs an object number with its offset relative to /First.
type objectStreamOffset struct {
	objNum int
	offset int
}

// IsObjectStream reports whether obj is a stream with /Type /ObjStm.
func IsObjectStream(obj *IndirectObject) bool {
	if obj == nil || !obj.HasStream() {
		return false
	}
	t, _ := obj.Dict.GetName("Type")
	return t == "ObjStm"
}

// NewObjectStream decodes an object stream and reads its header of
// "objNum offset" pairs.
func NewObjectStream(obj *IndirectObject) (*ObjectStream, error) {
	if !IsObjectStream(obj) {
		return nil, fmt.Errorf("not an object stream")
	}

	n, ok := obj.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, fmt.Errorf("object stream %d: missing or invalid /N", obj.Number)
	}
	first, ok := obj.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("object stream %d: missing or invalid /First", obj.Number)
	}

	decoded, err := DecodeStream(obj)
	if err != nil {
		return nil, err
	}
	if int(first) > len(decoded) {
		return nil, fmt.Errorf("object stream %d: /First %d exceeds decoded length %d", obj.Number, first, len(decoded))
	}

	os := &ObjectStream{
		container: obj,
		n:         int(n),
		first:     int(first),
		decoded:   decoded,
	}
	if err := os.parseHeader(); err != nil {
		return nil, fmt.Errorf("object stream %d: %w", obj.Number, err)
	}
	return os, nil
}

// parseHeader reads N pairs of integers that precede /First.
func (os *ObjectStream) parseHeader() error {
	header := os.decoded[:os.first]
	os.offsets = make([]objectStreamOffset, 0, os.n)

	pos := 0
	next := func() (int, bool) {
		pos = skipSpace(header, pos)
		tok := tokenAt(header, pos)
		pos += len(tok)
		i, ok := RawToken(tok).Int()
		return int(i), ok && len(tok) > 0
	}

	for i := 0; i < os.n; i++ {
		objNum, ok1 := next()
		offset, ok2 := next()
		if !ok1 || !ok2 {
			return fmt.Errorf("header pair %d is not two integers", i)
		}
		os.offsets = append(os.offsets, objectStreamOffset{objNum: objNum, offset: offset})
	}
	return nil
}

// N returns the number of objects stored in the stream.
func (os *ObjectStream) N() int {
	return os.n
}

// ObjectNumbers returns the numbers of the embedded objects in header order.
func (os *ObjectStream) ObjectNumbers() []int {
	nums := make([]int, len(os.offsets))
	for i, e := range os.offsets {
		nums[i] = e.objNum
	}
	return nums
}

// Object parses the embedded object at index (header order). Embedded
// objects always have generation 0 and never carry streams.
func (os *ObjectStream) Object(index int) (*IndirectObject, error) {
	if index < 0 || index >= len(os.offsets) {
		return nil, fmt.Errorf("index %d out of range [0, %d)", index, len(os.offsets))
	}

	start := os.first + os.offsets[index].offset
	end := len(os.decoded)
	if index+1 < len(os.offsets) {
		end = os.first + os.offsets[index+1].offset
	}
	if start > len(os.decoded) || end > len(os.decoded) || start > end {
		return nil, fmt.Errorf("object %d: offsets [%d, %d) outside decoded data of %d bytes",
			os.offsets[index].objNum, start, end, len(os.decoded))
	}

	value := ParseValue(os.decoded[start:end])
	obj := &IndirectObject{Number: os.offsets[index].objNum, Value: value}
	if d, ok := value.(Dict); ok {
		obj.Dict = d
	}
	return obj, nil
}

// Objects parses every embedded object.
func (os *ObjectStream) Objects() ([]*IndirectObject, error) {
	objs := make([]*IndirectObject, 0, len(os.offsets))
	for i := range os.offsets {
		obj, err := os.Object(i)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}
