// Package idgen provides identifier generation strategies for stores that
// admit values without an explicit id. Generators never touch storage: a
// reopened store must reseed its generator from the tail id to keep the
// sequence monotonic across restarts.
package idgen

// Generator produces unique, monotonically non-decreasing identifiers
// within one store lifetime. Next reports false when the strategy cannot
// produce more identifiers.
type Generator[K any] interface {
	Next() (K, bool)
	Reseed(last K)
}
