package store

import (
	"math/rand"
	"sync"
	"testing"

	. "github.com/fulldump/biff"

	"github.com/fulldump/tailstore/capacity"
	"github.com/fulldump/tailstore/collection"
	"github.com/fulldump/tailstore/database"
	"github.com/fulldump/tailstore/idgen"
)

func openStore(t *testing.T, opts Options[int64]) *Store[int64, string] {
	s, err := Open[int64, string](t.TempDir(), "entries", collection.Ordered[int64](), opts)
	AssertNil(err)
	return s
}

func TestScenario(t *testing.T) {

	// Setup
	s := openStore(t, Options[int64]{})
	defer s.Dispose()

	// Run / Check
	_, reject, err := s.AddWithID(1, "a")
	AssertNil(err)
	AssertEqual(reject, RejectNone)

	_, reject, _ = s.AddWithID(2, "b")
	AssertEqual(reject, RejectNone)

	_, reject, _ = s.AddWithID(1, "c") // duplicate
	AssertEqual(reject, RejectDuplicate)

	head, _ := s.HeadID()
	tail, _ := s.TailID()
	AssertEqual(head, int64(1))
	AssertEqual(tail, int64(2))

	removed, ok, _ := s.Remove(1)
	AssertTrue(ok)
	AssertEqual(removed.Value, "a")

	head, _ = s.HeadID()
	tail, _ = s.TailID()
	AssertEqual(head, int64(2))
	AssertEqual(tail, int64(2))

	_, ok, _ = s.Remove(2)
	AssertTrue(ok)

	_, hasHead := s.HeadID()
	_, hasTail := s.TailID()
	AssertFalse(hasHead)
	AssertFalse(hasTail)
}

func TestCapacityAdmission(t *testing.T) {

	// Setup
	pol, _ := capacity.New(2, 2)
	s := openStore(t, Options[int64]{Capacity: pol})
	defer s.Dispose()

	// Run
	_, r1, _ := s.AddWithID(1, "a")
	_, r2, _ := s.AddWithID(2, "b")
	_, r3, _ := s.AddWithID(3, "c")

	// Check: the refusal carries its cause
	AssertEqual(r1, RejectNone)
	AssertEqual(r2, RejectNone)
	AssertEqual(r3, RejectCapacity)
	AssertFalse(s.HasCapacity())

	count, _ := s.Count()
	AssertEqual(count, 2)
}

func TestCapacityGrowShrink(t *testing.T) {

	// Setup
	pol, _ := capacity.New(1, 3)
	pol.CutCapacity(2) // target = 1
	s := openStore(t, Options[int64]{Capacity: pol})
	defer s.Dispose()

	_, reject, _ := s.AddWithID(1, "a")
	AssertEqual(reject, RejectNone)
	_, reject, _ = s.AddWithID(2, "b")
	AssertEqual(reject, RejectCapacity)

	// Run
	s.AddCapacity(10) // clamped to max=3

	// Check
	_, reject, _ = s.AddWithID(2, "b")
	AssertEqual(reject, RejectNone)
	_, reject, _ = s.AddWithID(3, "c")
	AssertEqual(reject, RejectNone)
	_, reject, _ = s.AddWithID(4, "d")
	AssertEqual(reject, RejectCapacity)
}

func TestAutoIds_Monotonic(t *testing.T) {

	// Setup
	s := openStore(t, Options[int64]{Generator: idgen.NewSequential[int64]()})
	defer s.Dispose()

	// Run
	a, rA, _ := s.AddValue("a")
	b, rB, _ := s.AddValue("b")
	c, rC, _ := s.AddValue("c")

	// Check
	AssertEqual(rA, RejectNone)
	AssertEqual(rB, RejectNone)
	AssertEqual(rC, RejectNone)
	AssertEqual(a.ID, int64(1))
	AssertEqual(b.ID, int64(2))
	AssertEqual(c.ID, int64(3))
}

func TestAutoIds_MonotonicAcrossReopen(t *testing.T) {

	// Setup
	dir := t.TempDir()
	s, _ := Open[int64, string](dir, "entries", collection.Ordered[int64](), Options[int64]{
		Generator: idgen.NewSequential[int64](),
	})
	s.AddValue("a")
	s.AddValue("b")
	s.Dispose()

	// Run: a fresh generator is reseeded from tail at open
	s, err := Open[int64, string](dir, "entries", collection.Ordered[int64](), Options[int64]{
		Generator: idgen.NewSequential[int64](),
	})
	defer s.Dispose()
	AssertNil(err)

	entry, reject, _ := s.AddValue("c")

	// Check
	AssertEqual(reject, RejectNone)
	AssertEqual(entry.ID, int64(3))
}

func TestAddValue_NoGenerator(t *testing.T) {

	// Setup
	s := openStore(t, Options[int64]{})
	defer s.Dispose()

	// Run
	entry, _, err := s.AddValue("a")

	// Check
	AssertNil(entry)
	AssertEqual(err, ErrNoGenerator)
}

type exhaustedGenerator struct{}

func (exhaustedGenerator) Next() (int64, bool) { return 0, false }
func (exhaustedGenerator) Reseed(int64)        {}

func TestAddValue_GeneratorExhausted(t *testing.T) {

	// Setup
	s := openStore(t, Options[int64]{Generator: exhaustedGenerator{}})
	defer s.Dispose()

	// Run
	entry, reject, err := s.AddValue("a")

	// Check: a routine negative outcome, not an error
	AssertNil(err)
	AssertEqual(reject, RejectExhausted)
	AssertNil(entry)
}

func TestGetEntry_NilId(t *testing.T) {

	// Setup
	s := openStore(t, Options[int64]{})
	defer s.Dispose()
	s.AddWithID(1, "a")

	// Run
	entry, found, err := s.GetEntry(nil)

	// Check
	AssertNil(err)
	AssertFalse(found)
	AssertNil(entry)
}

func TestGetValue_Default(t *testing.T) {

	// Setup
	s := openStore(t, Options[int64]{})
	defer s.Dispose()

	// Run
	missing := int64(7)
	value, found, err := s.GetValue(&missing)

	// Check
	AssertNil(err)
	AssertFalse(found)
	AssertEqual(value, "")
}

func TestUpdate_Immutability(t *testing.T) {

	// Setup
	s := openStore(t, Options[int64]{})
	defer s.Dispose()
	original, _, _ := s.AddWithID(1, "before")

	// Run
	ok, err := s.Update(1, "after")

	// Check
	AssertNil(err)
	AssertTrue(ok)

	id := int64(1)
	entry, _, _ := s.GetEntry(&id)
	AssertEqual(entry.Value, "after")
	AssertEqual(entry.ID, original.ID)
	AssertEqual(entry.CreatedAt, original.CreatedAt)

	// head/tail untouched
	head, _ := s.HeadID()
	tail, _ := s.TailID()
	AssertEqual(head, int64(1))
	AssertEqual(tail, int64(1))
}

func TestUpdate_Missing(t *testing.T) {

	// Setup
	s := openStore(t, Options[int64]{})
	defer s.Dispose()

	// Run
	ok, err := s.Update(1, "x")

	// Check
	AssertNil(err)
	AssertFalse(ok)
}

func TestUpdate_ConcurrentWithGet(t *testing.T) {

	// Setup
	s := openStore(t, Options[int64]{})
	defer s.Dispose()
	s.AddWithID(1, "a")

	// Run: readers keep dereferencing entries while a writer overwrites the
	// same id, the race detector must stay silent
	id := int64(1)
	wg := &sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.Update(1, "b")
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			entry, found, _ := s.GetEntry(&id)
			if found {
				_ = len(entry.Value)
			}
		}
	}()

	wg.Wait()

	// Check
	entry, found, _ := s.GetEntry(&id)
	AssertTrue(found)
	AssertEqual(entry.Value, "b")
}

func TestNext(t *testing.T) {

	// Setup
	s := openStore(t, Options[int64]{})
	defer s.Dispose()
	s.AddWithID(10, "a")
	s.AddWithID(20, "b")
	s.AddWithID(30, "c")

	// Run / Check: nil cursor yields the head
	entry, found, _ := s.Next(nil)
	AssertTrue(found)
	AssertEqual(entry.ID, int64(10))

	after := int64(10)
	entry, found, _ = s.Next(&after)
	AssertTrue(found)
	AssertEqual(entry.ID, int64(20))

	// a cursor between resident ids still lands on the next one
	after = int64(25)
	entry, found, _ = s.Next(&after)
	AssertTrue(found)
	AssertEqual(entry.ID, int64(30))

	after = int64(30)
	_, found, _ = s.Next(&after)
	AssertFalse(found)
}

func TestRoundTripPersistence(t *testing.T) {

	// Setup
	dir := t.TempDir()
	s, _ := Open[int64, string](dir, "entries", collection.Ordered[int64](), Options[int64]{})
	s.AddWithID(2, "b")
	s.AddWithID(1, "a")
	s.AddWithID(3, "c")
	s.Remove(3)
	AssertNil(s.Dispose())

	// Run
	s, err := Open[int64, string](dir, "entries", collection.Ordered[int64](), Options[int64]{})
	defer s.Dispose()
	AssertNil(err)

	// Check
	id := int64(1)
	value, found, _ := s.GetValue(&id)
	AssertTrue(found)
	AssertEqual(value, "a")

	head, _ := s.HeadID()
	tail, _ := s.TailID()
	AssertEqual(head, int64(1))
	AssertEqual(tail, int64(2))

	count, _ := s.Count()
	AssertEqual(count, 2)
}

func TestHeadTail_Property(t *testing.T) {

	// Setup
	s := openStore(t, Options[int64]{})
	defer s.Dispose()

	r := rand.New(rand.NewSource(42))
	resident := map[int64]bool{}

	check := func() {
		head, hasHead := s.HeadID()
		tail, hasTail := s.TailID()

		if len(resident) == 0 {
			AssertFalse(hasHead)
			AssertFalse(hasTail)
			return
		}

		var min, max int64
		first := true
		for id := range resident {
			if first || id < min {
				min = id
			}
			if first || id > max {
				max = id
			}
			first = false
		}

		AssertTrue(hasHead)
		AssertTrue(hasTail)
		AssertEqual(head, min)
		AssertEqual(tail, max)
	}

	// Run: random adds and removes, verifying the invariant after every
	// mutation against an independent full scan
	for i := 0; i < 2000; i++ {
		id := int64(r.Intn(100))
		if r.Intn(2) == 0 {
			_, reject, err := s.AddWithID(id, "x")
			AssertNil(err)
			AssertEqual(reject == RejectNone, !resident[id])
			resident[id] = true
		} else {
			_, ok, err := s.Remove(id)
			AssertNil(err)
			AssertEqual(ok, resident[id])
			delete(resident, id)
		}
		check()
	}
}

func TestDispose_Idempotent(t *testing.T) {

	// Setup
	s := openStore(t, Options[int64]{})
	s.AddWithID(1, "a")

	// Run
	AssertNil(s.Dispose())
	AssertNil(s.Dispose())

	// Check: every operation fails predictably
	_, _, err := s.AddWithID(2, "b")
	AssertEqual(err, ErrDisposed)

	id := int64(1)
	_, _, err = s.GetEntry(&id)
	AssertEqual(err, ErrDisposed)

	_, _, err = s.Remove(1)
	AssertEqual(err, ErrDisposed)

	_, err = s.Count()
	AssertEqual(err, ErrDisposed)

	_, hasHead := s.HeadID()
	AssertFalse(hasHead)
}

func TestBorrowedDatabase_SurvivesDispose(t *testing.T) {

	// Setup
	db := database.NewDatabase[int64, string](&database.Config{Dir: t.TempDir()}, collection.Ordered[int64]())

	one, err := New(db, "one", Options[int64]{})
	AssertNil(err)
	two, err := New(db, "two", Options[int64]{})
	AssertNil(err)

	one.AddWithID(1, "a")
	two.AddWithID(1, "b")

	// Run
	AssertNil(one.Dispose())

	// Check: the shared database and the sibling store keep working
	_, reject, err := two.AddWithID(2, "c")
	AssertNil(err)
	AssertEqual(reject, RejectNone)

	col, exists := db.Collection("one")
	AssertTrue(exists)
	AssertNil(col.Insert(collection.NewEntry[int64](2, "still open")))

	db.Stop()
}

func TestOpenSyncsCapacityUsage(t *testing.T) {

	// Setup
	dir := t.TempDir()
	s, _ := Open[int64, string](dir, "entries", collection.Ordered[int64](), Options[int64]{})
	s.AddWithID(1, "a")
	s.AddWithID(2, "b")
	s.Dispose()

	// Run: reopen bounded at the current size
	pol, _ := capacity.New(2, 2)
	s, _ = Open[int64, string](dir, "entries", collection.Ordered[int64](), Options[int64]{Capacity: pol})
	defer s.Dispose()

	// Check
	AssertFalse(s.HasCapacity())
	_, reject, _ := s.AddWithID(3, "c")
	AssertEqual(reject, RejectCapacity)
}
