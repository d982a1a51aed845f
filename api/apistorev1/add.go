package apistorev1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"
	jsonv2 "github.com/go-json-experiment/json"
	"github.com/google/uuid"

	"github.com/fulldump/tailstore/store"
)

type addItem struct {
	ID    *uuid.UUID      `json:"id"` // omit to auto-generate a time-ordered id
	Value json.RawMessage `json:"value"`
}

func add(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	s := GetServicer(ctx)
	storeName := box.GetUrlParameter(ctx, "storeName")
	st, err := s.EnsureStore(storeName)
	if err != nil {
		return err // todo: handle/wrap this properly
	}

	jsonReader := json.NewDecoder(r.Body)

	for i := 0; true; i++ {
		item := &addItem{}
		err := jsonReader.Decode(item)
		if err == io.EOF {
			if i == 0 {
				w.WriteHeader(http.StatusNoContent)
			}
			return nil
		}
		if err != nil {
			if i == 0 {
				w.WriteHeader(http.StatusBadRequest)
			}
			return err
		}

		var entry *Entry
		var reject store.Reject
		if item.ID != nil {
			entry, reject, err = st.AddWithID(*item.ID, item.Value)
		} else {
			entry, reject, err = st.AddValue(item.Value)
		}
		if err != nil {
			return err
		}
		switch reject {
		case store.RejectDuplicate:
			if i == 0 {
				w.WriteHeader(http.StatusConflict)
			}
			return fmt.Errorf("id already exists")
		case store.RejectCapacity:
			if i == 0 {
				w.WriteHeader(http.StatusInsufficientStorage)
			}
			return fmt.Errorf("store '%s' is out of capacity", storeName)
		case store.RejectExhausted:
			if i == 0 {
				w.WriteHeader(http.StatusInsufficientStorage)
			}
			return fmt.Errorf("store '%s' exhausted its id space", storeName)
		}
		metricInserts.Inc()

		if i == 0 {
			w.WriteHeader(http.StatusCreated)
		}
		jsonv2.MarshalWrite(w, entry)
		w.Write([]byte("\n"))
	}

	return nil
}
