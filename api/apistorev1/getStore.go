package apistorev1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/tailstore/service"
)

func getStore(ctx context.Context) (*service.StoreInfo, error) {

	st, err := requestStore(ctx)
	if err != nil {
		return nil, err
	}

	return service.Info(box.GetUrlParameter(ctx, "storeName"), st), nil
}
