package apistorev1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SierraSoftworks/connor"
	jsonv2 "github.com/go-json-experiment/json"

	"github.com/fulldump/tailstore/utils"
)

// find streams entries in id order (newest first with reverse), optionally
// matching a filter against the whole document (id, value, created_at).
func find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	params := &struct {
		Filter  map[string]interface{} `json:"filter"`
		Skip    int64                  `json:"skip"`
		Limit   int64                  `json:"limit"`
		Reverse bool                   `json:"reverse"`
	}{
		Filter: map[string]interface{}{},
		Skip:   0,
		Limit:  16,
	}
	if len(requestBody) > 0 {
		err = json.Unmarshal(requestBody, &params)
		if err != nil {
			return err
		}
	}

	st, err := requestStore(ctx)
	if err != nil {
		return err
	}

	hasFilter := len(params.Filter) > 0

	skip := params.Skip
	limit := params.Limit
	var traverseErr error

	iterator := func(entry *Entry) bool {

		if limit == 0 {
			return false
		}

		if hasFilter {
			doc := map[string]interface{}{}
			err := utils.Remarshal(entry, &doc)
			if err != nil {
				traverseErr = fmt.Errorf("remarshal entry: %w", err)
				return false
			}

			match, err := connor.Match(params.Filter, doc)
			if err != nil {
				traverseErr = fmt.Errorf("match: %w", err)
				return false
			}
			if !match {
				return true
			}
		}

		if skip > 0 {
			skip--
			return true
		}

		limit--
		jsonv2.MarshalWrite(w, entry)
		w.Write([]byte("\n"))
		return true
	}

	if params.Reverse {
		err = st.Descend(iterator)
	} else {
		err = st.Ascend(iterator)
	}
	if err != nil {
		return err
	}

	return traverseErr
}
