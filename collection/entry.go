package collection

import (
	"time"
)

// Entry is the unit of storage: an identifier, an opaque value and the
// moment the entry was created. CreatedAt is always kept in UTC, no matter
// the location of the time the caller (or the journal) supplies.
type Entry[K comparable, V any] struct {
	ID        K         `json:"id"`
	Value     V         `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

func NewEntry[K comparable, V any](id K, value V) *Entry[K, V] {
	return &Entry[K, V]{
		ID:        id,
		Value:     value,
		CreatedAt: time.Now().UTC(),
	}
}

// normalize repairs entries coming from callers or from journal replay:
// timestamps move to UTC and a never-initialized timestamp becomes "now"
// instead of the zero epoch.
func (e *Entry[K, V]) normalize() {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
		return
	}
	e.CreatedAt = e.CreatedAt.UTC()
}
