package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Object represents a PDF object
type Object interface {
	Type() ObjectType
	String() string
}

// ObjectType represents the type of PDF object
type ObjectType int

const (
	ObjNull ObjectType = iota
	ObjBool
	ObjInt
	ObjReal
	ObjRaw
	ObjString
	ObjName
	ObjArray
	ObjDict
	ObjIndirect
)

// String returns the string representation of the object type
func (t ObjectType) String() string {
	switch t {
	case ObjNull:
		return "Null"
	case ObjBool:
		return "Bool"
	case ObjInt:
		return "Int"
	case ObjReal:
		return "Real"
	case ObjRaw:
		return "RawToken"
	case ObjString:
		return "String"
	case ObjName:
		return "Name"
	case ObjArray:
		return "Array"
	case ObjDict:
		return "Dict"
	case ObjIndirect:
		return "IndirectRef"
	default:
		return "Unknown"
	}
}

// Null represents a PDF null object
type Null struct{}

func (n Null) Type() ObjectType { return ObjNull }
func (n Null) String() string   { return "null" }

// Bool represents a PDF boolean
type Bool bool

func (b Bool) Type() ObjectType { return ObjBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Int represents a PDF integer
type Int int64

func (i Int) Type() ObjectType { return ObjInt }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }

// Real represents a PDF real number
type Real float64

func (r Real) Type() ObjectType { return ObjReal }
func (r Real) String() string   { return strconv.FormatFloat(float64(r), 'f', -1, 64) }

// RawToken is scalar text the value parser did not type. Numbers, booleans
// and null arrive as raw tokens; use Interpret or the typed accessors to
// read them.
type RawToken string

func (t RawToken) Type() ObjectType { return ObjRaw }
func (t RawToken) String() string   { return string(t) }

// Int parses the token as a decimal integer.
func (t RawToken) Int() (int64, bool) {
	i, err := strconv.ParseInt(string(t), 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Real parses the token as a number. Integers are accepted.
func (t RawToken) Real() (float64, bool) {
	s := string(t)
	if s == "" || strings.ContainsAny(s, "eExXnN") {
		// PDF numbers have no exponent, hex or inf/nan forms
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool reports the token's value if it is the keyword true or false.
func (t RawToken) Bool() (bool, bool) {
	switch t {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// IsNull reports whether the token is the keyword null.
func (t RawToken) IsNull() bool {
	return t == "null"
}

// Interpret converts a RawToken into Null, Bool, Int or Real when it spells
// one of those. Any other object, or a token that is none of them, is
// returned unchanged.
func Interpret(obj Object) Object {
	t, ok := obj.(RawToken)
	if !ok {
		return obj
	}
	if t.IsNull() {
		return Null{}
	}
	if b, ok := t.Bool(); ok {
		return Bool(b)
	}
	if i, ok := t.Int(); ok {
		return Int(i)
	}
	if f, ok := t.Real(); ok {
		return Real(f)
	}
	return t
}

// StringKind distinguishes literal (parenthesized) from hexadecimal strings.
type StringKind int

const (
	Literal StringKind = iota
	Hex
)

func (k StringKind) String() string {
	if k == Hex {
		return "Hex"
	}
	return "Literal"
}

// String represents a PDF string. Value holds the decoded bytes.
type String struct {
	Kind  StringKind
	Value []byte
}

func (s String) Type() ObjectType { return ObjString }
func (s String) String() string {
	if s.Kind == Hex {
		return fmt.Sprintf("<%X>", s.Value)
	}
	return "(" + escapeLiteral(s.Value) + ")"
}

// Text returns the decoded bytes as a Go string.
func (s String) Text() string { return string(s.Value) }

func escapeLiteral(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		switch c {
		case '(', ')', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// Name represents a PDF name
type Name string

func (n Name) Type() ObjectType { return ObjName }
func (n Name) String() string   { return "/" + string(n) }

// Array represents a PDF array
type Array []Object

func (a Array) Type() ObjectType { return ObjArray }
func (a Array) String() string {
	var parts []string
	for _, obj := range a {
		parts = append(parts, obj.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Len returns the length of the array
func (a Array) Len() int {
	return len(a)
}

// Get retrieves an element at the given index
func (a Array) Get(index int) Object {
	if index < 0 || index >= len(a) {
		return nil
	}
	return a[index]
}

// GetInt retrieves an integer at the given index
func (a Array) GetInt(index int) (Int, bool) {
	i, ok := Interpret(a.Get(index)).(Int)
	return i, ok
}

// GetReal retrieves a number at the given index. Integers are widened.
func (a Array) GetReal(index int) (Real, bool) {
	return asReal(a.Get(index))
}

// GetName retrieves a name at the given index
func (a Array) GetName(index int) (Name, bool) {
	n, ok := a.Get(index).(Name)
	return n, ok
}

// DictEntry is one key/value pair of a dictionary.
type DictEntry struct {
	Key   Name
	Value Object
}

// Dict represents a PDF dictionary. Entries keep their source order and
// duplicate keys are preserved; lookups return the first match.
type Dict []DictEntry

func (d Dict) Type() ObjectType { return ObjDict }
func (d Dict) String() string {
	var parts []string
	for _, e := range d {
		parts = append(parts, e.Key.String()+" "+e.Value.String())
	}
	return "<<" + strings.Join(parts, " ") + ">>"
}

// Lookup returns the value of the first entry with the given key.
func (d Dict) Lookup(key string) (Object, bool) {
	for _, e := range d {
		if string(e.Key) == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Get retrieves a value from the dictionary, or nil
func (d Dict) Get(key string) Object {
	obj, _ := d.Lookup(key)
	return obj
}

// GetName retrieves a name value
func (d Dict) GetName(key string) (Name, bool) {
	name, ok := d.Get(key).(Name)
	return name, ok
}

// GetInt retrieves an integer value
func (d Dict) GetInt(key string) (Int, bool) {
	i, ok := Interpret(d.Get(key)).(Int)
	return i, ok
}

// GetReal retrieves a numeric value. Integers are widened.
func (d Dict) GetReal(key string) (Real, bool) {
	return asReal(d.Get(key))
}

// GetBool retrieves a boolean value
func (d Dict) GetBool(key string) (Bool, bool) {
	b, ok := Interpret(d.Get(key)).(Bool)
	return b, ok
}

// GetDict retrieves a dictionary value
func (d Dict) GetDict(key string) (Dict, bool) {
	dict, ok := d.Get(key).(Dict)
	return dict, ok
}

// GetArray retrieves an array value
func (d Dict) GetArray(key string) (Array, bool) {
	arr, ok := d.Get(key).(Array)
	return arr, ok
}

// GetString retrieves a string value
func (d Dict) GetString(key string) (String, bool) {
	s, ok := d.Get(key).(String)
	return s, ok
}

// GetIndirectRef retrieves an indirect reference
func (d Dict) GetIndirectRef(key string) (IndirectRef, bool) {
	ref, ok := d.Get(key).(IndirectRef)
	return ref, ok
}

// Has checks if a key exists in the dictionary
func (d Dict) Has(key string) bool {
	_, ok := d.Lookup(key)
	return ok
}

// Len returns the number of entries, duplicates included.
func (d Dict) Len() int {
	return len(d)
}

// Keys returns all keys in source order, duplicates included.
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for _, e := range d {
		keys = append(keys, string(e.Key))
	}
	return keys
}

func asReal(obj Object) (Real, bool) {
	switch v := Interpret(obj).(type) {
	case Int:
		return Real(v), true
	case Real:
		return v, true
	}
	return 0, false
}

// IndirectRef represents an indirect object reference. It is never resolved
// eagerly; resolution is a lookup against a document's object table.
type IndirectRef struct {
	Number     int
	Generation int
}

func (r IndirectRef) Type() ObjectType { return ObjIndirect }
func (r IndirectRef) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}

// IndirectObject is one "N G obj ... endobj" unit found in the file.
type IndirectObject struct {
	Number     int
	Generation int

	// Dict is the object's dictionary, or nil when the body has none.
	Dict Dict

	// Value is the parsed object body. For dictionary objects it equals Dict.
	Value Object

	// Stream holds the raw (still encoded) stream bytes, or nil.
	Stream []byte
}

// Ref returns the reference addressing this object.
func (o *IndirectObject) Ref() IndirectRef {
	return IndirectRef{Number: o.Number, Generation: o.Generation}
}

// HasStream reports whether the object carries stream data.
func (o *IndirectObject) HasStream() bool {
	return o.Stream != nil
}

// Filters returns the names listed in the object's /Filter entry, in order.
func (o *IndirectObject) Filters() []string {
	switch f := o.Dict.Get("Filter").(type) {
	case Name:
		return []string{string(f)}
	case Array:
		var names []string
		for _, item := range f {
			if n, ok := item.(Name); ok {
				names = append(names, string(n))
			}
		}
		return names
	}
	return nil
}

// HasFlateFilter reports whether /Filter is exactly FlateDecode, the only
// filter DecodeStream understands.
func (o *IndirectObject) HasFlateFilter() bool {
	f := o.Filters()
	return len(f) == 1 && (f[0] == "FlateDecode" || f[0] == "Fl")
}

func (o *IndirectObject) String() string {
	s := fmt.Sprintf("%d %d obj %s", o.Number, o.Generation, objString(o.Value))
	if o.Stream != nil {
		s += fmt.Sprintf(" stream (%d bytes)", len(o.Stream))
	}
	return s
}

func objString(obj Object) string {
	if obj == nil {
		return "null"
	}
	return obj.String()
}
