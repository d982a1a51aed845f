package apistorev1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/tailstore/service"
)

type capacityRequest struct {
	Amount int `json:"amount"`
}

// addCapacity grows the admission target, silently clamped to the maximum.
func addCapacity(ctx context.Context, input *capacityRequest) (*service.StoreInfo, error) {

	st, err := requestStore(ctx)
	if err != nil {
		return nil, err
	}

	st.AddCapacity(input.Amount)

	return service.Info(box.GetUrlParameter(ctx, "storeName"), st), nil
}
