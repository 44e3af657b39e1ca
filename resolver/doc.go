// Package resolver follows PDF indirect references against a document's
// object table.
//
// Objects such as "5 0 R" are never resolved while a file is loaded. This
// package resolves them on demand, following chains of references and
// detecting circular dependencies.
//
// # Basic Usage
//
//	r := resolver.NewResolver(doc) // doc is a *reader.Document
//	obj, err := r.Resolve(ref)
//
// # Deep Resolution
//
// For complete expansion of nested references in dictionaries and arrays:
//
//	resolved, err := r.ResolveDeep(obj)
//
// Dictionary order and duplicate keys are preserved.
//
// # Cycle Detection
//
// A reference that leads back to itself is reported as an error. The
// maximum recursion depth is configurable:
//
//	r := resolver.NewResolver(doc, resolver.WithMaxDepth(50))
package resolver
