package ripper

import (
	"fmt"
	"strings"
)

// Warning describes a non-fatal problem met during extraction. The result
// is still returned but may be incomplete.
type Warning struct {
	Message string
	// Object is the number of the object concerned, or 0.
	Object int
}

func (w Warning) String() string {
	if w.Object == 0 {
		return w.Message
	}
	return fmt.Sprintf("%s (object %d)", w.Message, w.Object)
}

// FormatWarnings joins warnings into one line for logging.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
