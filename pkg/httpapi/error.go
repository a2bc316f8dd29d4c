package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/revio/revio/pkg/core"
)

// decodeError turns an API error response back into the domain taxonomy
// so client-side callers can branch with errors.Is/As like server-side
// ones.
func decodeError(status int, body io.Reader) error {
	var payload struct {
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	}
	_ = json.NewDecoder(body).Decode(&payload)
	if payload.Message == "" {
		payload.Message = http.StatusText(status)
	}

	switch status {
	case http.StatusNotFound:
		return core.ErrNotFound
	case http.StatusBadRequest:
		if len(payload.Fields) > 0 {
			return &core.ValidationError{Fields: payload.Fields}
		}
		return &core.InvalidArgumentError{Reason: payload.Message}
	default:
		return &core.StoreError{Op: "remote", Err: errors.New(payload.Message)}
	}
}
