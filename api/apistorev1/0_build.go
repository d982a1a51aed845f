package apistorev1

import (
	"github.com/fulldump/box"

	"github.com/fulldump/tailstore/service"
)

func BuildV1Store(v1 *box.R, s service.Servicer) *box.R {

	stores := v1.Resource("/stores").
		WithActions(
			box.Get(listStores),
			box.Post(createStore),
		)

	v1.Resource("/stores/{storeName}").
		WithActions(
			box.Get(getStore),
			box.ActionPost(add),
			box.ActionPost(get),
			box.ActionPost(getValue),
			box.ActionPost(update),
			box.ActionPost(remove),
			box.ActionPost(next),
			box.ActionPost(find),
			box.ActionPost(addCapacity),
			box.ActionPost(cutCapacity),
			box.ActionPost(size),
			box.ActionPost(dropStore),
		)

	return stores
}
