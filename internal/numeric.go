// Package internal holds small helpers shared by the omnisketch package
// that don't belong on the public API surface.
package internal

import "golang.org/x/exp/constraints"

// Min returns the smaller of a and b, ported from count/utils.go's Min[T]
// in this repository's teacher package.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
