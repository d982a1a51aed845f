package apistorev1

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/VictoriaMetrics/metrics"
	"github.com/fulldump/box"
	"github.com/google/uuid"

	"github.com/fulldump/tailstore/collection"
	"github.com/fulldump/tailstore/service"
)

// Entry is the wire shape of a stored entry.
type Entry = collection.Entry[uuid.UUID, json.RawMessage]

var (
	metricInserts = metrics.NewCounter(`tailstore_inserts_total`)
	metricRemoves = metrics.NewCounter(`tailstore_removes_total`)
	metricLookups = metrics.NewCounter(`tailstore_lookups_total`)
)

// requestStore resolves the store addressed by the url, writing a 404 when
// it does not exist.
func requestStore(ctx context.Context) (*service.Store, error) {

	s := GetServicer(ctx)
	storeName := box.GetUrlParameter(ctx, "storeName")

	st, err := s.GetStore(storeName)
	if err == service.ErrorStoreNotFound {
		box.GetResponse(ctx).WriteHeader(http.StatusNotFound)
	}
	return st, err
}
