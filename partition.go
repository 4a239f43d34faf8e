package mandel

import (
	"fmt"
	"strconv"
	"strings"
)

// FrameRange is the half-open index interval [Start, End).
type FrameRange struct {
	Start, End int
}

// Len returns the number of indices in the range.
func (r FrameRange) Len() int { return r.End - r.Start }

// Contains reports whether i lies within the range.
func (r FrameRange) Contains(i int) bool { return i >= r.Start && i < r.End }

func (r FrameRange) String() string { return fmt.Sprintf("[%d, %d)", r.Start, r.End) }

// Split partitions [0, n) into parts contiguous ranges of n/parts indices
// each, the last range absorbing the remainder. When parts > n the leading
// ranges are empty and the last one covers everything. parts < 1 is treated
// as 1.
func Split(n, parts int) []FrameRange {
	if parts < 1 {
		parts = 1
	}
	if n < 0 {
		n = 0
	}
	per := n / parts
	ranges := make([]FrameRange, parts)
	for p := range parts {
		start := p * per
		end := start + per
		if p == parts-1 {
			end = n
		}
		ranges[p] = FrameRange{Start: start, End: end}
	}
	return ranges
}

// ParseFrameRange parses the "start:end" form produced by FrameRange.Flag.
func ParseFrameRange(s string) (FrameRange, error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return FrameRange{}, fmt.Errorf("mandel: frame range %q: want start:end", s)
	}
	start, err := strconv.Atoi(a)
	if err != nil {
		return FrameRange{}, fmt.Errorf("mandel: frame range %q: %w", s, err)
	}
	end, err := strconv.Atoi(b)
	if err != nil {
		return FrameRange{}, fmt.Errorf("mandel: frame range %q: %w", s, err)
	}
	if start < 0 || end < start {
		return FrameRange{}, fmt.Errorf("mandel: frame range %q is negative", s)
	}
	return FrameRange{Start: start, End: end}, nil
}

// Flag formats r as "start:end".
func (r FrameRange) Flag() string { return fmt.Sprintf("%d:%d", r.Start, r.End) }
