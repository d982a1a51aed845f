package apistorev1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/tailstore/service"
)

// cutCapacity shrinks the admission target, silently clamped to the
// minimum.
func cutCapacity(ctx context.Context, input *capacityRequest) (*service.StoreInfo, error) {

	st, err := requestStore(ctx)
	if err != nil {
		return nil, err
	}

	st.CutCapacity(input.Amount)

	return service.Info(box.GetUrlParameter(ctx, "storeName"), st), nil
}
