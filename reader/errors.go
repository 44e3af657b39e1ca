package reader

import (
	"errors"

	"github.com/tsawler/ripper/core"
)

var (
	// ErrMissingVersion reports a buffer without a %PDF-X.Y header near its start.
	ErrMissingVersion = errors.New("reader: missing %PDF version header")

	// ErrMissingStartXref reports a buffer without "startxref" and its offset.
	ErrMissingStartXref = errors.New("reader: missing startxref")

	// ErrMissingTrailer reports a buffer without a "trailer" dictionary.
	ErrMissingTrailer = errors.New("reader: missing trailer")

	// ErrUnresolvedReference reports a reference to an object number that is
	// not in the object table.
	ErrUnresolvedReference = errors.New("reader: unresolved reference")

	// ErrTooLarge reports input over the WithMaxSize limit.
	ErrTooLarge = errors.New("reader: input too large")

	// ErrNoObjectsFound reports a buffer without any indirect object.
	ErrNoObjectsFound = core.ErrNoObjectsFound
)
