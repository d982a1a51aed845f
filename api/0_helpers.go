package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"
	"github.com/google/uuid"

	"github.com/fulldump/tailstore/database"
)

type DB = database.Database[uuid.UUID, json.RawMessage]

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

func InterceptorUnavailable(db *DB) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status == database.StatusOpening {
				box.SetError(ctx, fmt.Errorf("temporary unavailable: opening"))
				return
			}
			if status == database.StatusClosing {
				box.SetError(ctx, fmt.Errorf("temporary unavailable: closing"))
				return
			}
			next(ctx)
		}
	}
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		if err == box.ErrResourceNotFound {
			w.WriteHeader(http.StatusNotFound)
			PrettyError{
				Message:     err.Error(),
				Description: fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String()),
			}.MarshalTo(w)
			return
		}

		if err == box.ErrMethodNotAllowed {
			w.WriteHeader(http.StatusMethodNotAllowed)
			PrettyError{
				Message:     err.Error(),
				Description: fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method),
			}.MarshalTo(w)
			return
		}

		if _, ok := err.(*json.SyntaxError); ok {
			w.WriteHeader(http.StatusBadRequest)
			PrettyError{
				Message:     err.Error(),
				Description: "Malformed JSON",
			}.MarshalTo(w)
			return
		}

		w.WriteHeader(http.StatusInternalServerError)
		PrettyError{
			Message:     err.Error(),
			Description: "Unexpected error",
		}.MarshalTo(w)

	}
}
