package apistorev1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

func getValue(ctx context.Context, w http.ResponseWriter, input *lookupRequest) (json.RawMessage, error) {

	st, err := requestStore(ctx)
	if err != nil {
		return nil, err
	}

	value, found, err := st.GetValue(input.ID)
	if err != nil {
		return nil, err
	}
	metricLookups.Inc()

	if !found {
		w.WriteHeader(http.StatusNotFound)
		return nil, fmt.Errorf("entry not found")
	}

	return value, nil
}
