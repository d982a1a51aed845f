package service

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/fulldump/tailstore/capacity"
	"github.com/fulldump/tailstore/database"
	"github.com/fulldump/tailstore/idgen"
	"github.com/fulldump/tailstore/store"
)

// Defaults is the capacity applied to stores reloaded from disk. Capacity
// is runtime configuration, it is not persisted with the journal. Max 0
// means unbounded.
type Defaults struct {
	MinCapacity int
	MaxCapacity int
}

type Service struct {
	db       *database.Database[uuid.UUID, json.RawMessage]
	defaults Defaults
	mutex    sync.Mutex
	stores   map[string]*Store
}

func NewService(db *database.Database[uuid.UUID, json.RawMessage], defaults Defaults) *Service {
	return &Service{
		db:       db,
		defaults: defaults,
		stores:   map[string]*Store{},
	}
}

func (s *Service) policy(min, max int) (*capacity.Policy, error) {
	if max <= 0 {
		return capacity.Unbounded(), nil
	}
	return capacity.New(min, max)
}

func (s *Service) open(name string, min, max int) (*Store, error) {

	pol, err := s.policy(min, max)
	if err != nil {
		return nil, err
	}

	st, err := store.New(s.db, name, store.Options[uuid.UUID]{
		Capacity:  pol,
		Generator: idgen.NewUUIDv7(),
	})
	if err != nil {
		return nil, err
	}

	s.stores[name] = st

	return st, nil
}

func (s *Service) CreateStore(name string, min, max int) (*Store, error) {

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.stores[name]; exists {
		return nil, ErrorStoreAlreadyExists
	}
	if _, exists := s.db.Collection(name); exists {
		return nil, ErrorStoreAlreadyExists
	}

	_, err := s.db.CreateCollection(name)
	if err != nil {
		return nil, err
	}

	return s.open(name, min, max)
}

// GetStore returns the named store, wrapping a collection already loaded
// from disk with the default capacity on first access.
func (s *Service) GetStore(name string) (*Store, error) {

	s.mutex.Lock()
	defer s.mutex.Unlock()

	st, exists := s.stores[name]
	if exists {
		return st, nil
	}

	if _, exists := s.db.Collection(name); !exists {
		return nil, ErrorStoreNotFound
	}

	return s.open(name, s.defaults.MinCapacity, s.defaults.MaxCapacity)
}

// EnsureStore returns the named store, creating it with the default
// capacity bounds on first write. Stores born this way live under the same
// capacity envelope as stores reloaded from disk.
func (s *Service) EnsureStore(name string) (*Store, error) {

	st, err := s.GetStore(name)
	if err != ErrorStoreNotFound {
		return st, err
	}

	st, err = s.CreateStore(name, s.defaults.MinCapacity, s.defaults.MaxCapacity)
	if err == ErrorStoreAlreadyExists {
		// lost the creation race, somebody else just made it
		return s.GetStore(name)
	}
	return st, err
}

func (s *Service) ListStores() ([]*StoreInfo, error) {

	result := []*StoreInfo{}

	for _, name := range s.db.Names() {
		st, err := s.GetStore(name)
		if err != nil {
			return nil, err
		}
		result = append(result, Info(name, st))
	}

	return result, nil
}

func (s *Service) DropStore(name string) error {

	s.mutex.Lock()
	defer s.mutex.Unlock()

	st, exists := s.stores[name]
	if !exists {
		if _, loaded := s.db.Collection(name); !loaded {
			return ErrorStoreNotFound
		}
	}

	if st != nil {
		err := st.Dispose()
		if err != nil {
			return err
		}
		delete(s.stores, name)
	}

	return s.db.DropCollection(name)
}
