package resolver

import (
	"fmt"

	"github.com/tsawler/ripper/core"
)

// ObjectResolver resolves indirect references in PDF objects.
// It can follow chains of references and expand dictionaries and arrays.
type ObjectResolver struct {
	reader       ObjectReader
	visited      map[int]bool // cycle detection
	maxDepth     int
	currentDepth int
}

// ObjectReader is the object table a resolver looks references up in.
// *reader.Document satisfies it.
type ObjectReader interface {
	ResolveReference(ref core.IndirectRef) (core.Object, error)
}

// Option configures the resolver
type Option func(*ObjectResolver)

// WithMaxDepth sets the maximum recursion depth (default: 100)
func WithMaxDepth(depth int) Option {
	return func(r *ObjectResolver) {
		r.maxDepth = depth
	}
}

// NewResolver creates a new object resolver
func NewResolver(reader ObjectReader, opts ...Option) *ObjectResolver {
	r := &ObjectResolver{
		reader:   reader,
		visited:  make(map[int]bool),
		maxDepth: 100,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve follows obj while it is an indirect reference and returns the
// first direct object. Dictionaries and arrays are returned as they are.
func (r *ObjectResolver) Resolve(obj core.Object) (core.Object, error) {
	defer r.Reset()
	return r.resolve(obj, false)
}

// ResolveDeep resolves every indirect reference reachable from obj,
// expanding dictionaries and arrays into new values. The input is not
// modified.
func (r *ObjectResolver) ResolveDeep(obj core.Object) (core.Object, error) {
	defer r.Reset()
	return r.resolve(obj, true)
}

func (r *ObjectResolver) resolve(obj core.Object, deep bool) (core.Object, error) {
	if r.currentDepth >= r.maxDepth {
		return nil, fmt.Errorf("maximum recursion depth (%d) exceeded", r.maxDepth)
	}

	switch v := obj.(type) {
	case core.IndirectRef:
		if r.visited[v.Number] {
			return nil, fmt.Errorf("circular reference detected for object %d", v.Number)
		}

		// unmarked on return so sibling branches may share an object
		r.visited[v.Number] = true
		defer delete(r.visited, v.Number)

		resolved, err := r.reader.ResolveReference(v)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve reference %d %d R: %w", v.Number, v.Generation, err)
		}

		r.currentDepth++
		defer func() { r.currentDepth-- }()
		return r.resolve(resolved, deep)

	case core.Dict:
		if !deep {
			return v, nil
		}

		resolved := make(core.Dict, 0, len(v))
		for _, e := range v {
			r.currentDepth++
			value, err := r.resolve(e.Value, deep)
			r.currentDepth--
			if err != nil {
				return nil, fmt.Errorf("failed to resolve dict key %s: %w", e.Key, err)
			}
			resolved = append(resolved, core.DictEntry{Key: e.Key, Value: value})
		}
		return resolved, nil

	case core.Array:
		if !deep {
			return v, nil
		}

		resolved := make(core.Array, len(v))
		for i, elem := range v {
			r.currentDepth++
			value, err := r.resolve(elem, deep)
			r.currentDepth--
			if err != nil {
				return nil, fmt.Errorf("failed to resolve array element %d: %w", i, err)
			}
			resolved[i] = value
		}
		return resolved, nil

	default:
		return obj, nil
	}
}

// Reset clears the visited map and depth counter
func (r *ObjectResolver) Reset() {
	r.visited = make(map[int]bool)
	r.currentDepth = 0
}

// ResolveDict is a convenience method for resolving dictionaries
// It resolves the dictionary and all its values (deep resolution)
func (r *ObjectResolver) ResolveDict(dict core.Dict) (core.Dict, error) {
	resolved, err := r.ResolveDeep(dict)
	if err != nil {
		return nil, err
	}
	return resolved.(core.Dict), nil
}

// ResolveArray is a convenience method for resolving arrays
// It resolves all elements in the array (deep resolution)
func (r *ObjectResolver) ResolveArray(arr core.Array) (core.Array, error) {
	resolved, err := r.ResolveDeep(arr)
	if err != nil {
		return nil, err
	}
	return resolved.(core.Array), nil
}

// ResolveReference looks up a single indirect reference without following
// what it points to.
func (r *ObjectResolver) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.reader.ResolveReference(ref)
}

// ResolveReferenceDeep resolves a reference and all nested references
func (r *ObjectResolver) ResolveReferenceDeep(ref core.IndirectRef) (core.Object, error) {
	return r.ResolveDeep(ref)
}

// GetObjectResolved loads object objNum and follows it to a direct object.
// Generation numbers are not checked.
func (r *ObjectResolver) GetObjectResolved(objNum int) (core.Object, error) {
	return r.Resolve(core.IndirectRef{Number: objNum})
}

// GetObjectResolvedDeep loads and fully resolves an object by number (deep)
func (r *ObjectResolver) GetObjectResolvedDeep(objNum int) (core.Object, error) {
	return r.ResolveDeep(core.IndirectRef{Number: objNum})
}

// ResolveDictValue returns dict[key] followed to a direct object, or nil
// and false when the key is missing or does not resolve.
func (r *ObjectResolver) ResolveDictValue(dict core.Dict, key string) (core.Object, bool) {
	v, ok := dict.Lookup(key)
	if !ok {
		return nil, false
	}
	resolved, err := r.Resolve(v)
	if err != nil {
		return nil, false
	}
	return resolved, true
}
