package collection

import "cmp"

// Less is a LessFunc over the identifier type of a collection. The order it
// defines is the only order the collection maintains.
type Less[K any] func(a, b K) bool

// Ordered builds a Less for any natively ordered identifier type (ints,
// strings, floats).
func Ordered[K cmp.Ordered]() Less[K] {
	return func(a, b K) bool {
		return a < b
	}
}
