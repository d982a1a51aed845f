package database

import (
	"testing"

	. "github.com/fulldump/biff"

	"github.com/fulldump/tailstore/collection"
)

func TestCreateCollection_AlreadyExists(t *testing.T) {

	// Setup
	db := NewDatabase[int64, string](&Config{Dir: t.TempDir()}, collection.Ordered[int64]())
	defer db.Stop()

	_, err := db.CreateCollection("letters")
	AssertNil(err)

	// Run
	_, err = db.CreateCollection("letters")

	// Check
	AssertNotNil(err)
}

func TestOpenCollection_ReturnsSameHandle(t *testing.T) {

	// Setup
	db := NewDatabase[int64, string](&Config{Dir: t.TempDir()}, collection.Ordered[int64]())
	defer db.Stop()

	// Run
	a, _ := db.OpenCollection("letters")
	b, _ := db.OpenCollection("letters")

	// Check
	AssertEqual(a, b)
	AssertEqualJson(db.Names(), []string{"letters"})
}

func TestLoad(t *testing.T) {

	// Setup
	dir := t.TempDir()
	db := NewDatabase[int64, string](&Config{Dir: dir}, collection.Ordered[int64]())
	col, _ := db.OpenCollection("letters")
	col.Insert(collection.NewEntry[int64](1, "a"))
	col.Insert(collection.NewEntry[int64](2, "b"))
	db.Stop()

	// Run
	db = NewDatabase[int64, string](&Config{Dir: dir}, collection.Ordered[int64]())
	AssertEqual(db.GetStatus(), StatusOpening)
	err := db.Load()

	// Check
	AssertNil(err)
	AssertEqual(db.GetStatus(), StatusOperating)

	col, exists := db.Collection("letters")
	AssertTrue(exists)
	AssertEqual(col.Count(), 2)

	db.Stop()
}

func TestDropCollection(t *testing.T) {

	// Setup
	db := NewDatabase[int64, string](&Config{Dir: t.TempDir()}, collection.Ordered[int64]())
	defer db.Stop()
	db.OpenCollection("letters")

	// Run
	err := db.DropCollection("letters")

	// Check
	AssertNil(err)
	AssertEqualJson(db.Names(), []string{})

	AssertNotNil(db.DropCollection("letters"))
}
