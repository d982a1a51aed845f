package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/google/uuid"
)

var (
	ErrConflict = errors.New("id already exists")
	ErrNotFound = errors.New("id not found")
	ErrClosed   = errors.New("collection is closed")
)

// Collection is one named set of entries persisted as an append-only journal
// of commands and held in memory ordered by id. The btree is also the
// uniqueness constraint: an insert checks and writes under the same lock, so
// a duplicate id can never win a race.
type Collection[K comparable, V any] struct {
	Filename string // Just informative...
	file     *os.File
	mutex    sync.RWMutex
	rows     *btree.BTreeG[*Entry[K, V]]
	less     Less[K]
}

func OpenCollection[K comparable, V any](filename string, less Less[K]) (*Collection[K, V], error) {

	f, err := os.OpenFile(filename, os.O_RDONLY|os.O_CREATE, 0666)
	if err != nil {
		return nil, fmt.Errorf("open file for read: %w", err)
	}
	defer f.Close()

	c := &Collection[K, V]{
		Filename: filename,
		less:     less,
		rows: btree.NewG(32, func(a, b *Entry[K, V]) bool {
			return less(a.ID, b.ID)
		}),
	}

	j := json.NewDecoder(f)
	for {
		command := &Command{}
		err := j.Decode(&command)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}

		switch command.Name {
		case commandInsert:
			entry := &Entry[K, V]{}
			err := json.Unmarshal(command.Payload, entry)
			if err != nil {
				return nil, fmt.Errorf("decode insert: %w", err)
			}
			err = c.addEntry(entry)
			if err != nil {
				return nil, fmt.Errorf("replay insert: %w", err)
			}
		case commandRemove:
			params := struct {
				ID K `json:"id"`
			}{}
			err := json.Unmarshal(command.Payload, &params)
			if err != nil {
				return nil, fmt.Errorf("decode remove: %w", err)
			}
			if _, removed := c.rows.Delete(&Entry[K, V]{ID: params.ID}); !removed {
				fmt.Printf("WARNING: remove id %v: not found\n", params.ID)
			}
		case commandUpdate:
			params := struct {
				ID    K `json:"id"`
				Value V `json:"value"`
			}{}
			err := json.Unmarshal(command.Payload, &params)
			if err != nil {
				return nil, fmt.Errorf("decode update: %w", err)
			}
			old, exists := c.rows.Get(&Entry[K, V]{ID: params.ID})
			if !exists {
				fmt.Printf("WARNING: update id %v: not found\n", params.ID)
				continue
			}
			c.rows.ReplaceOrInsert(&Entry[K, V]{
				ID:        old.ID,
				Value:     params.Value,
				CreatedAt: old.CreatedAt,
			})
		}
	}

	// Reopen for append only
	c.file, err = os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("open file for write: %w", err)
	}

	return c, nil
}

func (c *Collection[K, V]) addEntry(entry *Entry[K, V]) error {
	entry.normalize()
	if c.rows.Has(entry) {
		return fmt.Errorf("%w: %v", ErrConflict, entry.ID)
	}
	c.rows.ReplaceOrInsert(entry)
	return nil
}

// Insert adds a new entry. It fails with ErrConflict if the id is already
// taken and ErrClosed after Close.
func (c *Collection[K, V]) Insert(entry *Entry[K, V]) error {

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return ErrClosed
	}

	err := c.addEntry(entry)
	if err != nil {
		return err
	}

	err = c.persist(commandInsert, entry)
	if err != nil {
		c.rows.Delete(entry)
		return err
	}

	return nil
}

func (c *Collection[K, V]) Get(id K) (*Entry[K, V], bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.rows.Get(&Entry[K, V]{ID: id})
}

// Update overwrites the value of an existing entry. The id and the creation
// timestamp never change once stored. The row is replaced, never mutated:
// pointers handed out by Get and the traversals are stable snapshots, so
// readers holding them do not race with a concurrent Update.
func (c *Collection[K, V]) Update(id K, value V) error {

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return ErrClosed
	}

	old, exists := c.rows.Get(&Entry[K, V]{ID: id})
	if !exists {
		return fmt.Errorf("%w: %v", ErrNotFound, id)
	}

	c.rows.ReplaceOrInsert(&Entry[K, V]{
		ID:        old.ID,
		Value:     value,
		CreatedAt: old.CreatedAt,
	})

	err := c.persist(commandUpdate, map[string]interface{}{
		"id":    id,
		"value": value,
	})
	if err != nil {
		c.rows.ReplaceOrInsert(old)
		return err
	}

	return nil
}

func (c *Collection[K, V]) Remove(id K) (*Entry[K, V], error) {

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return nil, ErrClosed
	}

	entry, removed := c.rows.Delete(&Entry[K, V]{ID: id})
	if !removed {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, id)
	}

	err := c.persist(commandRemove, map[string]interface{}{
		"id": id,
	})
	if err != nil {
		c.rows.ReplaceOrInsert(entry)
		return nil, err
	}

	return entry, nil
}

func (c *Collection[K, V]) Count() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.rows.Len()
}

// Min returns the entry with the smallest id.
func (c *Collection[K, V]) Min() (*Entry[K, V], bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.rows.Min()
}

// Max returns the entry with the biggest id.
func (c *Collection[K, V]) Max() (*Entry[K, V], bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.rows.Max()
}

// Ascend traverses entries in id order while f returns true.
func (c *Collection[K, V]) Ascend(f func(entry *Entry[K, V]) bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	c.rows.Ascend(f)
}

// Descend traverses entries in reverse id order while f returns true.
func (c *Collection[K, V]) Descend(f func(entry *Entry[K, V]) bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	c.rows.Descend(f)
}

// AscendAfter traverses entries with id strictly greater than after, in id
// order, while f returns true.
func (c *Collection[K, V]) AscendAfter(after K, f func(entry *Entry[K, V]) bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	c.rows.AscendGreaterOrEqual(&Entry[K, V]{ID: after}, func(entry *Entry[K, V]) bool {
		if entry.ID == after {
			return true
		}
		return f(entry)
	})
}

func (c *Collection[K, V]) persist(name string, payload interface{}) error {

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json encode payload: %w", err)
	}

	command := &Command{
		Name:      name,
		Uuid:      uuid.New().String(),
		Timestamp: time.Now().UnixNano(),
		Payload:   data,
	}

	err = json.NewEncoder(c.file).Encode(command)
	if err != nil {
		return fmt.Errorf("json encode command: %w", err)
	}

	return nil
}

func (c *Collection[K, V]) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.file == nil {
		return nil
	}

	err := c.file.Close()
	c.file = nil
	return err
}

func (c *Collection[K, V]) Drop() error {
	err := c.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	err = os.Remove(c.Filename)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}

	return nil
}
