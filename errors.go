package mandel

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyViewport is returned for a viewport without positive extent.
	ErrEmptyViewport = errors.New("mandel: viewport has no extent")

	// ErrInvalidSize is returned when an image dimension is not positive.
	ErrInvalidSize = errors.New("mandel: image dimensions must be positive")

	// ErrInvalidIterations is returned when the iteration cap is not positive.
	ErrInvalidIterations = errors.New("mandel: max iterations must be positive")

	// ErrInvalidWorkers is returned when a worker count is outside its allowed range.
	ErrInvalidWorkers = errors.New("mandel: worker count out of range")

	// ErrInvalidSchedule is returned for a zoom schedule that cannot be interpolated.
	ErrInvalidSchedule = errors.New("mandel: invalid zoom schedule")

	// ErrUnknownPalette is returned by ParsePalette for an unregistered name.
	ErrUnknownPalette = errors.New("mandel: unknown palette")

	// ErrIncomplete is matched by *IncompleteError.
	ErrIncomplete = errors.New("mandel: frames missing")
)

// RangeFailure records a frame range whose worker terminated abnormally.
type RangeFailure struct {
	Range FrameRange
	// Done lists the frames of Range that were stored before the failure.
	Done []int
	Err  error
}

// Missing returns the frame indices of the range that were never stored.
func (f RangeFailure) Missing() []int {
	done := make(map[int]struct{}, len(f.Done))
	for _, i := range f.Done {
		done[i] = struct{}{}
	}
	var missing []int
	for i := f.Range.Start; i < f.Range.End; i++ {
		if _, ok := done[i]; !ok {
			missing = append(missing, i)
		}
	}
	return missing
}

// IncompleteError is returned by Dispatch when one or more ranges failed.
type IncompleteError struct {
	Failures []RangeFailure
}

func (e *IncompleteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mandel: %d frame range(s) incomplete:", len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&b, " %s (%d missing): %v;", f.Range, len(f.Missing()), f.Err)
	}
	return strings.TrimSuffix(b.String(), ";")
}

func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}

func (e *IncompleteError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Missing returns every frame index that was not stored, in ascending order.
func (e *IncompleteError) Missing() []int {
	var missing []int
	for _, f := range e.Failures {
		missing = append(missing, f.Missing()...)
	}
	return missing
}
