package apistorev1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

type nextRequest struct {
	After *uuid.UUID `json:"after"` // null yields the head entry
}

// next returns the first entry with id strictly greater than the cursor,
// the primitive a cache orchestrator needs for ordered draining.
func next(ctx context.Context, w http.ResponseWriter, input *nextRequest) (*Entry, error) {

	st, err := requestStore(ctx)
	if err != nil {
		return nil, err
	}

	entry, found, err := st.Next(input.After)
	if err != nil {
		return nil, err
	}
	metricLookups.Inc()

	if !found {
		w.WriteHeader(http.StatusNotFound)
		return nil, fmt.Errorf("no entry after cursor")
	}

	return entry, nil
}
