package service

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/fulldump/tailstore/store"
)

var (
	ErrorStoreNotFound      = errors.New("store not found")
	ErrorStoreAlreadyExists = errors.New("store already exists")
)

// Store is the concrete instantiation served over HTTP: time-ordered uuid
// identifiers over opaque JSON values.
type Store = store.Store[uuid.UUID, json.RawMessage]

type Servicer interface { // todo: review naming
	CreateStore(name string, min, max int) (*Store, error)
	EnsureStore(name string) (*Store, error)
	GetStore(name string) (*Store, error)
	ListStores() ([]*StoreInfo, error)
	DropStore(name string) error
}
