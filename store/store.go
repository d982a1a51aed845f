// Package store implements an ordered, capacity-bounded persistent store
// over one named collection. It keeps the minimum (head) and maximum (tail)
// resident identifiers cached for ordered traversal and consults a capacity
// policy before every insert.
package store

import (
	"errors"
	"sync"

	"github.com/fulldump/tailstore/capacity"
	"github.com/fulldump/tailstore/collection"
	"github.com/fulldump/tailstore/database"
	"github.com/fulldump/tailstore/idgen"
)

var (
	// ErrDisposed is returned by every operation on a disposed store.
	ErrDisposed = errors.New("store is disposed")

	// ErrNoGenerator is returned by AddValue on a store configured without
	// an id generator. This is a programming error, not a routine miss.
	ErrNoGenerator = errors.New("store has no id generator")
)

// Reject is the routine reason an Add was refused. Refusals are expected
// outcomes, not errors, and the cause is reported by the store itself so
// callers never have to infer it from state that may have moved on.
type Reject int

const (
	RejectNone      Reject = iota
	RejectDuplicate        // the id is already taken
	RejectCapacity         // no headroom toward the capacity target
	RejectExhausted        // the id generator cannot produce more ids
)

type Options[K comparable] struct {
	// Capacity gates inserts; nil means unbounded.
	Capacity *capacity.Policy

	// Generator enables AddValue; nil disables auto ids.
	Generator idgen.Generator[K]
}

// Store owns head/tail bookkeeping and capacity accounting over one
// collection. The collection is the source of truth for uniqueness; head
// and tail are advisory ordering hints and may be momentarily stale under
// concurrent writers.
type Store[K comparable, V any] struct {
	name      string
	col       *collection.Collection[K, V]
	db        *database.Database[K, V]
	ownsDB    bool
	capacity  *capacity.Policy
	generator idgen.Generator[K]

	mutex    sync.RWMutex
	head     *K
	tail     *K
	disposed bool
}

// New builds a store over a collection of a caller-owned database. The
// database lifetime belongs to the caller: Dispose will never close it.
func New[K comparable, V any](db *database.Database[K, V], name string, opts Options[K]) (*Store[K, V], error) {
	return open(db, name, false, opts)
}

// Open builds a store over its own single-collection database rooted at
// dir. The store owns the handle and closes it on Dispose.
func Open[K comparable, V any](dir, name string, less collection.Less[K], opts Options[K]) (*Store[K, V], error) {
	db := database.NewDatabase[K, V](&database.Config{Dir: dir}, less)
	return open(db, name, true, opts)
}

func open[K comparable, V any](db *database.Database[K, V], name string, ownsDB bool, opts Options[K]) (*Store[K, V], error) {

	col, err := db.OpenCollection(name)
	if err != nil {
		return nil, err
	}

	pol := opts.Capacity
	if pol == nil {
		pol = capacity.Unbounded()
	}
	pol.SetUsed(col.Count())

	s := &Store[K, V]{
		name:      name,
		col:       col,
		db:        db,
		ownsDB:    ownsDB,
		capacity:  pol,
		generator: opts.Generator,
	}

	// The only full scans: min and max, once, at open time.
	if min, ok := col.Min(); ok {
		id := min.ID
		s.head = &id
	}
	if max, ok := col.Max(); ok {
		id := max.ID
		s.tail = &id
		if s.generator != nil {
			s.generator.Reseed(id)
		}
	}

	return s, nil
}

func (s *Store[K, V]) Name() string {
	return s.name
}

func (s *Store[K, V]) alive() error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.disposed {
		return ErrDisposed
	}
	return nil
}

// Add persists the entry. A duplicate id or a full store is reported as a
// Reject, with no error.
func (s *Store[K, V]) Add(entry *collection.Entry[K, V]) (Reject, error) {

	if err := s.alive(); err != nil {
		return RejectNone, err
	}

	if !s.capacity.Reserve() {
		return RejectCapacity, nil
	}

	err := s.col.Insert(entry)
	if err != nil {
		s.capacity.Release()
		if errors.Is(err, collection.ErrConflict) {
			return RejectDuplicate, nil
		}
		return RejectNone, err
	}

	s.advance(entry.ID)

	return RejectNone, nil
}

// AddWithID builds an entry with the current timestamp and adds it.
func (s *Store[K, V]) AddWithID(id K, value V) (*collection.Entry[K, V], Reject, error) {

	entry := collection.NewEntry(id, value)

	reject, err := s.Add(entry)
	if err != nil || reject != RejectNone {
		return nil, reject, err
	}
	return entry, RejectNone, nil
}

// AddValue generates an identifier and adds the value. It fails loudly
// with ErrNoGenerator when the store has no generator, and reports
// RejectExhausted when the generator cannot continue.
func (s *Store[K, V]) AddValue(value V) (*collection.Entry[K, V], Reject, error) {

	if err := s.alive(); err != nil {
		return nil, RejectNone, err
	}

	if s.generator == nil {
		return nil, RejectNone, ErrNoGenerator
	}

	id, ok := s.generator.Next()
	if !ok {
		return nil, RejectExhausted, nil
	}

	return s.AddWithID(id, value)
}

// GetEntry is a point lookup. A nil id is a routine miss, not an error, so
// callers can pass through optional identifiers.
func (s *Store[K, V]) GetEntry(id *K) (*collection.Entry[K, V], bool, error) {

	if err := s.alive(); err != nil {
		return nil, false, err
	}

	if id == nil {
		return nil, false, nil
	}

	entry, found := s.col.Get(*id)
	if !found {
		return nil, false, nil
	}
	return entry, true, nil
}

// GetValue unwraps GetEntry, returning the value type's zero value on a
// miss.
func (s *Store[K, V]) GetValue(id *K) (V, bool, error) {

	var zero V

	entry, found, err := s.GetEntry(id)
	if err != nil || !found {
		return zero, found, err
	}
	return entry.Value, true, nil
}

// Update overwrites the value of an existing entry. The id and creation
// timestamp never change, so head and tail are untouched.
func (s *Store[K, V]) Update(id K, value V) (bool, error) {

	if err := s.alive(); err != nil {
		return false, err
	}

	err := s.col.Update(id, value)
	if errors.Is(err, collection.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store[K, V]) UpdateEntry(entry *collection.Entry[K, V]) (bool, error) {
	return s.Update(entry.ID, entry.Value)
}

// Remove deletes the entry and returns it. Head and tail are rescanned
// only when the removed id was exactly the cached head or tail.
func (s *Store[K, V]) Remove(id K) (*collection.Entry[K, V], bool, error) {

	if err := s.alive(); err != nil {
		return nil, false, err
	}

	entry, err := s.col.Remove(id)
	if errors.Is(err, collection.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	s.capacity.Release()
	s.retreat(id)

	return entry, true, nil
}

// Next returns the first entry with id strictly greater than after, or the
// head entry when after is nil.
func (s *Store[K, V]) Next(after *K) (*collection.Entry[K, V], bool, error) {

	if err := s.alive(); err != nil {
		return nil, false, err
	}

	if after == nil {
		entry, found := s.col.Min()
		return entry, found, nil
	}

	var next *collection.Entry[K, V]
	s.col.AscendAfter(*after, func(entry *collection.Entry[K, V]) bool {
		next = entry
		return false
	})
	if next == nil {
		return nil, false, nil
	}
	return next, true, nil
}

// Ascend traverses resident entries in id order while f returns true.
func (s *Store[K, V]) Ascend(f func(entry *collection.Entry[K, V]) bool) error {
	if err := s.alive(); err != nil {
		return err
	}
	s.col.Ascend(f)
	return nil
}

// Descend traverses resident entries in reverse id order while f returns
// true.
func (s *Store[K, V]) Descend(f func(entry *collection.Entry[K, V]) bool) error {
	if err := s.alive(); err != nil {
		return err
	}
	s.col.Descend(f)
	return nil
}

// Filename is the journal file backing the store's collection.
func (s *Store[K, V]) Filename() string {
	return s.col.Filename
}

func (s *Store[K, V]) Count() (int, error) {
	if err := s.alive(); err != nil {
		return 0, err
	}
	return s.col.Count(), nil
}

func (s *Store[K, V]) HeadID() (K, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var zero K
	if s.head == nil {
		return zero, false
	}
	return *s.head, true
}

func (s *Store[K, V]) TailID() (K, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var zero K
	if s.tail == nil {
		return zero, false
	}
	return *s.tail, true
}

func (s *Store[K, V]) HasCapacity() bool {
	return s.capacity.HasCapacity()
}

func (s *Store[K, V]) AddCapacity(n int) {
	s.capacity.AddCapacity(n)
}

func (s *Store[K, V]) CutCapacity(n int) {
	s.capacity.CutCapacity(n)
}

func (s *Store[K, V]) Capacity() *capacity.Policy {
	return s.capacity
}

// advance folds a just-inserted id into head/tail, O(1) by comparison.
func (s *Store[K, V]) advance(id K) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	less := s.db.Less()

	if s.head == nil || less(id, *s.head) {
		head := id
		s.head = &head
	}
	if s.tail == nil || less(*s.tail, id) {
		tail := id
		s.tail = &tail
	}
}

// retreat recomputes head/tail after removing id. Removals that are not at
// the head or tail keep the cache untouched.
func (s *Store[K, V]) retreat(id K) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.col.Count() == 0 {
		s.head = nil
		s.tail = nil
		return
	}

	if s.head != nil && *s.head == id {
		if min, ok := s.col.Min(); ok {
			head := min.ID
			s.head = &head
		}
	}
	if s.tail != nil && *s.tail == id {
		if max, ok := s.col.Max(); ok {
			tail := max.ID
			s.tail = &tail
		}
	}
}

// Dispose tears the store down. It is idempotent: the first call clears
// head/tail and, only when the store opened its own database, closes it.
// Every operation afterwards returns ErrDisposed.
func (s *Store[K, V]) Dispose() error {

	s.mutex.Lock()
	if s.disposed {
		s.mutex.Unlock()
		return nil
	}
	s.disposed = true
	s.head = nil
	s.tail = nil
	s.mutex.Unlock()

	if s.ownsDB {
		return s.db.Stop()
	}

	return nil
}
