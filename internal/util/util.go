// Package util provides small parsing helpers shared by the console commands.
package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotIndex is returned when an argument is not a whole number.
	ErrNotIndex = errors.New("not a point index")
	// ErrOutOfRange is returned when an index falls outside the board.
	ErrOutOfRange = errors.New("point index out of range")
	// ErrSamePoint is returned when both ends of an edge are the same point.
	ErrSamePoint = errors.New("edge endpoints must differ")
)

// ParseIndex parses s as a point index in [0, n).
func ParseIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotIndex, s)
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, i, n)
	}
	return i, nil
}

// ParseEdge parses two point indices in [0, n) that name distinct points.
func ParseEdge(a, b string, n int) (u, v int, err error) {
	if u, err = ParseIndex(a, n); err != nil {
		return 0, 0, err
	}
	if v, err = ParseIndex(b, n); err != nil {
		return 0, 0, err
	}
	if u == v {
		return 0, 0, fmt.Errorf("%w: %d", ErrSamePoint, u)
	}
	return u, v, nil
}

// FormatScore renders a score line such as "A 4 : 2 B".
func FormatScore(a, b int) string {
	return fmt.Sprintf("A %d : %d B", a, b)
}
