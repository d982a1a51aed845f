package apistorev1

import (
	"context"

	"github.com/fulldump/tailstore/service"
)

func listStores(ctx context.Context) ([]*service.StoreInfo, error) {
	return GetServicer(ctx).ListStores()
}
