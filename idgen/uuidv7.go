package idgen

import (
	"bytes"

	"github.com/google/uuid"
)

// UUIDv7 issues 128-bit time-ordered identifiers: the high bits carry a
// millisecond timestamp so ids sort by creation time even though the low
// bits are random.
type UUIDv7 struct{}

func NewUUIDv7() *UUIDv7 {
	return &UUIDv7{}
}

func (g *UUIDv7) Next() (uuid.UUID, bool) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Reseed is a no-op, v7 identifiers are ordered by construction.
func (g *UUIDv7) Reseed(last uuid.UUID) {}

// UUIDLess orders uuids bytewise, which for v7 matches creation order.
func UUIDLess(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
