package syntax

import "fmt"

// Range is a half-open byte range [Start, End) into a source text.
type Range struct {
	Start int
	End   int
}

// NewRange constructs a range, panicking on a reversed span.
func NewRange(start, end int) Range {
	if end < start {
		panic(fmt.Sprintf("reversed range: %d..%d", start, end))
	}
	return Range{Start: start, End: end}
}

// Len returns the number of bytes the range covers.
func (r Range) Len() int { return r.End - r.Start }

// Empty reports whether the range covers no bytes.
func (r Range) Empty() bool { return r.Start == r.End }

func (r Range) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}
