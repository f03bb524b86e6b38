package classify

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions is returned by New for unusable classifier options.
var ErrInvalidOptions = errors.New("invalid classifier options")

// ParseError reports a segment of a color list that is not a decimal
// integer.
type ParseError struct {
	Segment string // the offending text, trimmed
	Index   int    // position of the segment in the list, counting empty ones
	Err     error  // underlying strconv error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("segment %d %q is not a packed color: %v", e.Index, e.Segment, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
