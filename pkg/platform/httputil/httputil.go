// Package httputil maps domain errors to HTTP responses and writes JSON bodies.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "userapi/pkg/domain-errors"
)

// errorResponse is the wire shape for all error replies.
type errorResponse struct {
	Error       string               `json:"error"`
	Description string               `json:"error_description,omitempty"`
	Fields      []dErrors.FieldError `json:"fields,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps a domain error code to an HTTP status and writes the error
// body. Internal errors omit the description so storage detail never reaches
// clients; validation errors carry the full field list.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := errorResponse{Error: string(code)}

	switch code {
	case dErrors.CodeValidation:
		resp.Description = message(err)
		resp.Fields = dErrors.FieldsOf(err)
		WriteJSON(w, http.StatusBadRequest, resp)
	case dErrors.CodeBadRequest:
		resp.Description = message(err)
		WriteJSON(w, http.StatusBadRequest, resp)
	case dErrors.CodeNotFound:
		resp.Description = message(err)
		WriteJSON(w, http.StatusNotFound, resp)
	case dErrors.CodeConflict:
		resp.Description = message(err)
		WriteJSON(w, http.StatusConflict, resp)
	default:
		WriteJSON(w, http.StatusInternalServerError, resp)
	}
}

func message(err error) string {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return ""
}
