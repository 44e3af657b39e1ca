package ripper

// ExtractOptions holds configuration for loading and text extraction.
type ExtractOptions struct {
	// Loading
	maxSize       int64
	objectStreams bool

	// Text post-processing
	normalize bool
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		maxSize:       0, // no limit
		objectStreams: false,
		normalize:     false,
	}
}

// clone creates a copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	return ExtractOptions{
		maxSize:       o.maxSize,
		objectStreams: o.objectStreams,
		normalize:     o.normalize,
	}
}
