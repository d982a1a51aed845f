package apistorev1

import (
	"context"

	"github.com/fulldump/tailstore/service"
)

const ContextServicerKey = "f7f3a2b4-6f63-11ef-9f0a-bbd3a4d401c5"

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	return ctx.Value(ContextServicerKey).(service.Servicer) // TODO: can raise panic :D
}
