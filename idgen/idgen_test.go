package idgen

import (
	"math"
	"testing"

	. "github.com/fulldump/biff"
	"github.com/google/uuid"
)

func TestSequential(t *testing.T) {

	// Setup
	g := NewSequential[int64]()

	// Run
	a, okA := g.Next()
	b, okB := g.Next()
	c, okC := g.Next()

	// Check
	AssertTrue(okA && okB && okC)
	AssertEqual(a, int64(1))
	AssertEqual(b, int64(2))
	AssertEqual(c, int64(3))
}

func TestSequential_Reseed(t *testing.T) {

	// Setup
	g := NewSequential[int64]()
	g.Reseed(41)

	// Run
	id, ok := g.Next()

	// Check
	AssertTrue(ok)
	AssertEqual(id, int64(42))
}

func TestSequential_ReseedBackwardsIsIgnored(t *testing.T) {

	// Setup
	g := NewSequential[int64]()
	g.Reseed(100)
	g.Reseed(10)

	// Run
	id, _ := g.Next()

	// Check
	AssertEqual(id, int64(101))
}

func TestSequential_Exhaustion(t *testing.T) {

	// Setup
	g := NewSequential[int8]()
	g.Reseed(math.MaxInt8)

	// Run
	_, ok := g.Next()

	// Check
	AssertFalse(ok)
}

func TestUUIDv7_Ordered(t *testing.T) {

	// Setup
	g := NewUUIDv7()

	// Run
	previous, ok := g.Next()
	AssertTrue(ok)

	// Check
	for i := 0; i < 1000; i++ {
		id, ok := g.Next()
		AssertTrue(ok)
		AssertFalse(UUIDLess(id, previous))
		previous = id
	}
}

func TestUUIDLess(t *testing.T) {
	a := uuid.MustParse("00000000-0000-7000-8000-000000000001")
	b := uuid.MustParse("00000000-0000-7000-8000-000000000002")

	AssertTrue(UUIDLess(a, b))
	AssertFalse(UUIDLess(b, a))
	AssertFalse(UUIDLess(a, a))
}
