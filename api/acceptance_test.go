package api

import (
	"encoding/json"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
	"github.com/google/uuid"

	"github.com/fulldump/tailstore/database"
	"github.com/fulldump/tailstore/idgen"
	"github.com/fulldump/tailstore/service"
)

func TestAcceptance(t *testing.T) {

	biff.Alternative("Setup", func(a *biff.A) {

		db := database.NewDatabase[uuid.UUID, json.RawMessage](&database.Config{
			Dir: t.TempDir(),
		}, idgen.UUIDLess)

		biff.AssertNil(db.Load())
		biff.AssertEqual(db.GetStatus(), database.StatusOperating)

		s := service.NewService(db, service.Defaults{})

		b := Build(s, "test")
		b.WithInterceptors(
			InterceptorUnavailable(db),
			RecoverFromPanic,
			PrettyErrorInterceptor,
		)

		api := apitest.NewWithHandler(b)

		service.Acceptance(a, func(method, path string) *apitest.Request {
			return api.Request(method, "/v1"+path)
		})

	})
}
