package colorspace

import "fmt"

// RangeError reports a color component outside its valid range.
type RangeError struct {
	Component string // "r", "g", "b" or "packed"
	Value     int
	Max       int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s value %d out of range [0,%d]", e.Component, e.Value, e.Max)
}
