package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dtroode/taskmanager/internal/apierrors"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError writes err as {"error": "..."} with the status mapped from its code.
// Errors that are not APIError become 500 with a generic message.
func WriteError(w http.ResponseWriter, err error) {
	apiErr := apierrors.From(err)
	WriteJSON(w, apiErr.HTTPStatus(), errorResponse{Error: apiErr.Message})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return apierrors.NewErrInvalidArgument("invalid request body")
	}
	return nil
}
