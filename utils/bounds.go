// Package utils holds small numeric helpers for annotation values.
package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// IsInRange checks if a value is within the specified range, both inclusive.
func IsInRange[T number](min T, value T, max T) bool {
	return min <= value && value <= max
}

// ErrMalformedRange is returned by ParseRange for text not of the form "lo..hi".
var ErrMalformedRange = errors.New(`range must be written as "lo..hi"`)

// Range is an inclusive interval parsed from an annotation value like "0..100".
type Range struct {
	Min, Max float64
}

// ParseRange parses "lo..hi". Both bounds are required and lo must not exceed hi.
func ParseRange(s string) (Range, error) {
	lo, hi, ok := strings.Cut(s, "..")
	if !ok {
		return Range{}, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}

	minV, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}

	maxV, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil || minV > maxV {
		return Range{}, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}

	return Range{Min: minV, Max: maxV}, nil
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return IsInRange(r.Min, v, r.Max)
}

// String returns "lo..hi".
func (r Range) String() string {
	return strconv.FormatFloat(r.Min, 'g', -1, 64) + ".." + strconv.FormatFloat(r.Max, 'g', -1, 64)
}
