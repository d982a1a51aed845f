package apistorev1

import (
	"context"
	"net/http"

	"github.com/fulldump/tailstore/service"
)

type createStoreRequest struct {
	Name        string `json:"name"`
	MinCapacity int    `json:"min_capacity"`
	MaxCapacity int    `json:"max_capacity"` // 0 means unbounded
}

func createStore(ctx context.Context, w http.ResponseWriter, input *createStoreRequest) (*service.StoreInfo, error) {

	s := GetServicer(ctx)

	st, err := s.CreateStore(input.Name, input.MinCapacity, input.MaxCapacity)
	if err == service.ErrorStoreAlreadyExists {
		w.WriteHeader(http.StatusConflict)
		return nil, err
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return service.Info(input.Name, st), nil
}
