package api

import (
	"context"
	"net/http"

	"github.com/VictoriaMetrics/metrics"
	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"

	"github.com/fulldump/tailstore/api/apistorev1"
	"github.com/fulldump/tailstore/service"
)

func Build(s service.Servicer, version string) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		box.SetResponseHeader("Content-Type", "application/json"),
	)

	apistorev1.BuildV1Store(v1, s).
		WithInterceptors(
			injectServicer(s),
		)

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return version
		}))

	b.Resource("/metrics").
		WithActions(box.Get(func(w http.ResponseWriter) {
			metrics.WritePrometheus(w, true)
		}))

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "tailstore"
	spec.Info.Description = "A durable, ordered, capacity-bounded key-value store."
	spec.Info.Contact = &boxopenapi.Contact{
		Url: "https://github.com/fulldump/tailstore/issues/new",
	}
	b.Handle("GET", "/openapi.json", func(r *http.Request) any {

		spec.Servers = []boxopenapi.Server{
			{
				Url: "https://" + r.Host,
			},
			{
				Url: "http://" + r.Host,
			},
		}

		return spec
	})

	return b
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(apistorev1.SetServicer(ctx, s))
		}
	}
}
