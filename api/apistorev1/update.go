package apistorev1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

type updateRequest struct {
	ID    uuid.UUID       `json:"id"`
	Value json.RawMessage `json:"value"`
}

// update overwrites the value of an existing entry. The id and the
// creation timestamp are immutable.
func update(ctx context.Context, w http.ResponseWriter, input *updateRequest) (*Entry, error) {

	st, err := requestStore(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := st.Update(input.ID, input.Value)
	if err != nil {
		return nil, err
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return nil, fmt.Errorf("entry not found")
	}

	entry, _, err := st.GetEntry(&input.ID)
	if err != nil {
		return nil, err
	}

	return entry, nil
}
