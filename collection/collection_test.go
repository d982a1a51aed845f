package collection

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	. "github.com/fulldump/biff"
)

func TestInsert(t *testing.T) {
	Environment(func(filename string) {

		// Setup
		c, _ := OpenCollection[int64, string](filename, Ordered[int64]())
		defer c.Close()

		// Run
		err := c.Insert(NewEntry[int64](1, "hello"))

		// Check
		AssertNil(err)
		fileContent, _ := os.ReadFile(filename)
		command := &Command{}
		json.Unmarshal(fileContent, command)
		AssertEqual(command.Name, "insert")

		entry := &Entry[int64, string]{}
		json.Unmarshal(command.Payload, entry)
		AssertEqual(entry.ID, int64(1))
		AssertEqual(entry.Value, "hello")
	})
}

func TestInsert_Conflict(t *testing.T) {
	Environment(func(filename string) {

		// Setup
		c, _ := OpenCollection[int64, string](filename, Ordered[int64]())
		defer c.Close()
		c.Insert(NewEntry[int64](1, "a"))

		// Run
		err := c.Insert(NewEntry[int64](1, "b"))

		// Check
		AssertNotNil(err)
		AssertTrue(errors.Is(err, ErrConflict))
		AssertEqual(c.Count(), 1)

		entry, found := c.Get(1)
		AssertTrue(found)
		AssertEqual(entry.Value, "a")
	})
}

func TestInsert_Concurrency(t *testing.T) {
	Environment(func(filename string) {

		c, _ := OpenCollection[int, string](filename, Ordered[int]())
		defer c.Close()

		n := 100

		wg := &sync.WaitGroup{}
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				c.Insert(NewEntry(i, "world"))
			}(i)
		}

		wg.Wait()

		AssertEqual(c.Count(), n)
	})
}

func TestGet_Missing(t *testing.T) {
	Environment(func(filename string) {

		// Setup
		c, _ := OpenCollection[int64, string](filename, Ordered[int64]())
		defer c.Close()

		// Run
		entry, found := c.Get(42)

		// Check
		AssertFalse(found)
		AssertNil(entry)
	})
}

func TestUpdate(t *testing.T) {
	Environment(func(filename string) {

		// Setup
		c, _ := OpenCollection[int64, string](filename, Ordered[int64]())
		defer c.Close()
		c.Insert(NewEntry[int64](1, "before"))

		// Run
		err := c.Update(1, "after")

		// Check
		AssertNil(err)
		entry, _ := c.Get(1)
		AssertEqual(entry.Value, "after")
	})
}

func TestUpdate_KeepsIdAndCreatedAt(t *testing.T) {
	Environment(func(filename string) {

		// Setup
		c, _ := OpenCollection[int64, string](filename, Ordered[int64]())
		defer c.Close()
		original := NewEntry[int64](1, "before")
		c.Insert(original)

		// Run
		c.Update(1, "after")

		// Check
		entry, _ := c.Get(1)
		AssertEqual(entry.ID, int64(1))
		AssertEqual(entry.CreatedAt, original.CreatedAt)
	})
}

func TestUpdate_LeavesReadersUntouched(t *testing.T) {
	Environment(func(filename string) {

		// Setup
		c, _ := OpenCollection[int64, string](filename, Ordered[int64]())
		defer c.Close()
		c.Insert(NewEntry[int64](1, "before"))
		snapshot, _ := c.Get(1)

		// Run
		c.Update(1, "after")

		// Check: the pointer handed out earlier is a stable snapshot
		AssertEqual(snapshot.Value, "before")

		fresh, _ := c.Get(1)
		AssertEqual(fresh.Value, "after")
	})
}

func TestUpdate_Missing(t *testing.T) {
	Environment(func(filename string) {

		// Setup
		c, _ := OpenCollection[int64, string](filename, Ordered[int64]())
		defer c.Close()

		// Run
		err := c.Update(1, "nope")

		// Check
		AssertTrue(errors.Is(err, ErrNotFound))
	})
}

func TestRemove(t *testing.T) {
	Environment(func(filename string) {

		// Setup
		c, _ := OpenCollection[int64, string](filename, Ordered[int64]())
		defer c.Close()
		c.Insert(NewEntry[int64](1, "a"))

		// Run
		entry, err := c.Remove(1)

		// Check
		AssertNil(err)
		AssertEqual(entry.Value, "a")
		AssertEqual(c.Count(), 0)

		_, err = c.Remove(1)
		AssertTrue(errors.Is(err, ErrNotFound))
	})
}

func TestMinMax(t *testing.T) {
	Environment(func(filename string) {

		// Setup
		c, _ := OpenCollection[int64, string](filename, Ordered[int64]())
		defer c.Close()
		c.Insert(NewEntry[int64](5, "e"))
		c.Insert(NewEntry[int64](2, "b"))
		c.Insert(NewEntry[int64](9, "i"))

		// Run
		min, okMin := c.Min()
		max, okMax := c.Max()

		// Check
		AssertTrue(okMin)
		AssertTrue(okMax)
		AssertEqual(min.ID, int64(2))
		AssertEqual(max.ID, int64(9))
	})
}

func TestAscendAfter(t *testing.T) {
	Environment(func(filename string) {

		// Setup
		c, _ := OpenCollection[int64, string](filename, Ordered[int64]())
		defer c.Close()
		c.Insert(NewEntry[int64](1, "a"))
		c.Insert(NewEntry[int64](2, "b"))
		c.Insert(NewEntry[int64](3, "c"))

		// Run
		ids := []int64{}
		c.AscendAfter(1, func(entry *Entry[int64, string]) bool {
			ids = append(ids, entry.ID)
			return true
		})

		// Check
		AssertEqualJson(ids, []int64{2, 3})
	})
}

func TestPersistence_Reopen(t *testing.T) {
	Environment(func(filename string) {

		// Setup
		c, _ := OpenCollection[int64, string](filename, Ordered[int64]())
		c.Insert(NewEntry[int64](1, "a"))
		c.Insert(NewEntry[int64](3, "c"))
		c.Insert(NewEntry[int64](2, "b"))
		c.Remove(3)
		c.Update(2, "B")
		c.Close()

		// Run
		c, err := OpenCollection[int64, string](filename, Ordered[int64]())
		defer c.Close()

		// Check
		AssertNil(err)
		AssertEqual(c.Count(), 2)

		entry, found := c.Get(2)
		AssertTrue(found)
		AssertEqual(entry.Value, "B")

		max, _ := c.Max()
		AssertEqual(max.ID, int64(2))
	})
}

func TestPersistence_CreatedAtUTC(t *testing.T) {
	Environment(func(filename string) {

		// Setup
		madrid, _ := time.LoadLocation("Europe/Madrid")
		c, _ := OpenCollection[int64, string](filename, Ordered[int64]())
		c.Insert(&Entry[int64, string]{
			ID:        1,
			Value:     "a",
			CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, madrid),
		})
		c.Close()

		// Run
		c, _ = OpenCollection[int64, string](filename, Ordered[int64]())
		defer c.Close()

		// Check
		entry, _ := c.Get(1)
		AssertEqual(entry.CreatedAt.Location(), time.UTC)
		AssertEqual(entry.CreatedAt, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	})
}

func TestClosed_Operations(t *testing.T) {
	Environment(func(filename string) {

		// Setup
		c, _ := OpenCollection[int64, string](filename, Ordered[int64]())
		c.Insert(NewEntry[int64](1, "a"))
		c.Close()

		// Run / Check
		AssertEqual(c.Insert(NewEntry[int64](2, "b")), ErrClosed)
		AssertEqual(c.Update(1, "x"), ErrClosed)

		_, err := c.Remove(1)
		AssertEqual(err, ErrClosed)

		AssertNil(c.Close()) // closing twice is fine
	})
}
