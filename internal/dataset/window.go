package dataset

import (
	"fmt"

	"epitrend/internal/errors"
)

// Window selection. Reports label the window they display ("first N days",
// "day B to day E"), so out-of-bounds requests are rejected outright instead
// of being clamped: a silently truncated window would mislabel the data.

// Head returns a new series holding the first k rows.
func (s *Series) Head(k int) (*Series, error) {
	if k <= 0 {
		return nil, errors.NewInvalidRangeError(
			fmt.Sprintf("head quantity must be positive, got %d", k))
	}
	if k > s.Len() {
		return nil, errors.NewInvalidRangeError(
			fmt.Sprintf("head quantity %d exceeds %d rows", k, s.Len()))
	}
	return &Series{Points: append([]Point(nil), s.Points[:k]...)}, nil
}

// Tail returns a new series holding the last k rows.
func (s *Series) Tail(k int) (*Series, error) {
	if k <= 0 {
		return nil, errors.NewInvalidRangeError(
			fmt.Sprintf("tail quantity must be positive, got %d", k))
	}
	if k > s.Len() {
		return nil, errors.NewInvalidRangeError(
			fmt.Sprintf("tail quantity %d exceeds %d rows", k, s.Len()))
	}
	return &Series{Points: append([]Point(nil), s.Points[s.Len()-k:]...)}, nil
}

// Range returns a new series holding rows begin through end, 1-indexed and
// inclusive on both ends.
func (s *Series) Range(begin, end int) (*Series, error) {
	if begin <= 0 {
		return nil, errors.NewInvalidRangeError(
			fmt.Sprintf("range begin must be positive, got %d", begin))
	}
	if end > s.Len() {
		return nil, errors.NewInvalidRangeError(
			fmt.Sprintf("range end %d exceeds %d rows", end, s.Len()))
	}
	if end <= begin {
		return nil, errors.NewInvalidRangeError(
			fmt.Sprintf("range end %d not after begin %d", end, begin))
	}
	return &Series{Points: append([]Point(nil), s.Points[begin-1:end]...)}, nil
}
