package database

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fulldump/tailstore/collection"
	"github.com/fulldump/tailstore/utils"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

type Config struct {
	Dir string
}

// Database is a shared handle over a directory of named collections, all
// keyed by the same identifier type. Several stores commonly borrow one
// database at the same time, each over its own collection.
type Database[K comparable, V any] struct {
	Config      *Config
	less        collection.Less[K]
	status      string
	mutex       sync.Mutex
	collections map[string]*collection.Collection[K, V]
	exit        chan struct{}
	stopOnce    sync.Once
}

func NewDatabase[K comparable, V any](config *Config, less collection.Less[K]) *Database[K, V] {
	return &Database[K, V]{
		Config:      config,
		less:        less,
		status:      StatusOpening,
		collections: map[string]*collection.Collection[K, V]{},
		exit:        make(chan struct{}),
	}
}

// Less exposes the identifier ordering shared by every collection of this
// database.
func (db *Database[K, V]) Less() collection.Less[K] {
	return db.less
}

func (db *Database[K, V]) GetStatus() string {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return db.status
}

func (db *Database[K, V]) setStatus(status string) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.status = status
}

func (db *Database[K, V]) CreateCollection(name string) (*collection.Collection[K, V], error) {

	db.mutex.Lock()
	defer db.mutex.Unlock()

	_, exists := db.collections[name]
	if exists {
		return nil, fmt.Errorf("collection '%s' already exists", name)
	}

	err := os.MkdirAll(db.Config.Dir, 0755)
	if err != nil {
		return nil, err
	}

	filename := path.Join(db.Config.Dir, name)
	col, err := collection.OpenCollection[K, V](filename, db.less)
	if err != nil {
		return nil, err
	}

	db.collections[name] = col

	return col, nil
}

// OpenCollection returns the named collection, opening (or creating) it on
// first use.
func (db *Database[K, V]) OpenCollection(name string) (*collection.Collection[K, V], error) {

	db.mutex.Lock()
	defer db.mutex.Unlock()

	col, exists := db.collections[name]
	if exists {
		return col, nil
	}

	err := os.MkdirAll(db.Config.Dir, 0755)
	if err != nil {
		return nil, err
	}

	filename := path.Join(db.Config.Dir, name)
	col, err = collection.OpenCollection[K, V](filename, db.less)
	if err != nil {
		return nil, err
	}

	db.collections[name] = col

	return col, nil
}

func (db *Database[K, V]) Collection(name string) (*collection.Collection[K, V], bool) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	col, exists := db.collections[name]
	return col, exists
}

func (db *Database[K, V]) Names() []string {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return utils.GetKeys(db.collections)
}

func (db *Database[K, V]) DropCollection(name string) error {

	db.mutex.Lock()
	defer db.mutex.Unlock()

	col, exists := db.collections[name]
	if !exists {
		return fmt.Errorf("collection '%s' not found", name)
	}

	delete(db.collections, name)

	return col.Drop()
}

func (db *Database[K, V]) Load() error {

	fmt.Printf("Loading database %s...\n", db.Config.Dir) // todo: move to logger
	dir := db.Config.Dir
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}
	err = filepath.WalkDir(dir, func(filename string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := filename
		name = strings.TrimPrefix(name, dir)
		name = strings.TrimPrefix(name, "/")

		t0 := time.Now()
		col, err := collection.OpenCollection[K, V](filename, db.less)
		if err != nil {
			fmt.Printf("ERROR: open collection '%s': %s\n", filename, err.Error()) // todo: move to logger
			return err
		}
		fmt.Println(name, col.Count(), time.Since(t0)) // todo: move to logger

		db.mutex.Lock()
		db.collections[name] = col
		db.mutex.Unlock()

		return nil
	})

	if err != nil {
		db.setStatus(StatusClosing)
		return err
	}

	db.setStatus(StatusOperating)

	return nil
}

func (db *Database[K, V]) Start() error {

	go db.Load()

	<-db.exit

	return nil
}

// Stop closes every collection and releases Start. Safe to call more than
// once.
func (db *Database[K, V]) Stop() error {

	defer db.stopOnce.Do(func() { close(db.exit) })

	db.setStatus(StatusClosing)

	db.mutex.Lock()
	defer db.mutex.Unlock()

	var lastErr error
	for name, col := range db.collections {
		fmt.Printf("Closing '%s'...\n", name)
		err := col.Close()
		if err != nil {
			fmt.Printf("ERROR: close(%s): %s", name, err.Error())
			lastErr = err
		}
	}

	return lastErr
}
