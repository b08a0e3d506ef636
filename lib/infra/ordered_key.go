package infra

import (
	"cmp"

	"golang.org/x/exp/constraints"
)

// OrderedKey
// byte => ~uint8
// Complex numbers have no total order, so they are not allowed here.
type OrderedKey interface {
	constraints.Integer | constraints.Float | ~string
}

// Comparator
// Assume i is the new key.
//  1. i == j, return 0.
//  2. i > j, return positive, turn to right part.
//  3. i < j, return negative, turn to left part.
//
// It must be a strict total order over the key domain.
type Comparator[K any] func(i, j K) int64

// OrderedKeyCompare orders NaN before any other float, the same as cmp.Compare.
func OrderedKeyCompare[K OrderedKey](i, j K) int64 {
	return int64(cmp.Compare(i, j))
}

// ReverseComparator flips the sign convention of fn.
func ReverseComparator[K any](fn Comparator[K]) Comparator[K] {
	if fn == nil {
		return nil
	}
	return func(i, j K) int64 {
		return fn(j, i)
	}
}
