package match

import (
	"errors"
	"fmt"
)

// ErrFormat indicates a malformed IP, CIDR or MAC value.
var ErrFormat = errors.New("format error")

// FormatError reports a value that could not be parsed while evaluating the
// criterion named by Key. Observed is true when the bad value came from the
// observed network state rather than from the definition.
type FormatError struct {
	Err      error
	Key      string
	Value    string
	Observed bool
}

func (e *FormatError) Error() string {
	source := "configured"
	if e.Observed {
		source = "observed"
	}

	return fmt.Sprintf("%s: invalid %s value %q: %v", e.Key, source, e.Value, e.Err)
}

func (e *FormatError) Unwrap() []error {
	return []error{ErrFormat, e.Err}
}
