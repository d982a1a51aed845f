package apistorev1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

type removeRequest struct {
	ID uuid.UUID `json:"id"`
}

func remove(ctx context.Context, w http.ResponseWriter, input *removeRequest) (*Entry, error) {

	st, err := requestStore(ctx)
	if err != nil {
		return nil, err
	}

	entry, ok, err := st.Remove(input.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return nil, fmt.Errorf("entry not found")
	}
	metricRemoves.Inc()

	return entry, nil
}
