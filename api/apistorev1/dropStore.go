package apistorev1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/tailstore/service"
)

func dropStore(ctx context.Context, w http.ResponseWriter) error {

	s := GetServicer(ctx)

	storeName := box.GetUrlParameter(ctx, "storeName")

	err := s.DropStore(storeName)
	if err == service.ErrorStoreNotFound {
		w.WriteHeader(http.StatusNotFound)
	}
	return err
}
