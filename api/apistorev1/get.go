package apistorev1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

type lookupRequest struct {
	ID *uuid.UUID `json:"id"` // a null id is a routine miss
}

func get(ctx context.Context, w http.ResponseWriter, input *lookupRequest) (*Entry, error) {

	st, err := requestStore(ctx)
	if err != nil {
		return nil, err
	}

	entry, found, err := st.GetEntry(input.ID)
	if err != nil {
		return nil, err
	}
	metricLookups.Inc()

	if !found {
		w.WriteHeader(http.StatusNotFound)
		return nil, fmt.Errorf("entry not found")
	}

	return entry, nil
}
