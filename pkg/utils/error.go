package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"estate/internal/domain"
)

// StatusCode maps an error kind to the HTTP status the routing layer should
// answer with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage renders err for clients. Causes of classified errors are
// left out so store internals do not leak.
func PublicMessage(err error) string {
	var e *domain.Error
	if errors.As(err, &e) {
		return e.Public()
	}
	switch StatusCode(err) {
	case http.StatusNotFound:
		return domain.ErrNotFound.Error()
	case http.StatusForbidden:
		return domain.ErrAccessDenied.Error()
	default:
		return http.StatusText(http.StatusInternalServerError)
	}
}

// ErrorResponse is the JSON body written by WriteError.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      int    `json:"code"`
	Path      string `json:"path"`
	Method    string `json:"method"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError writes err as a JSON error response.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusCode(err)
	resp := ErrorResponse{
		Error:     PublicMessage(err),
		Code:      code,
		Path:      r.URL.Path,
		Method:    r.Method,
		RequestID: r.Header.Get(RequestIDHeader),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteJSON writes v as a 200 JSON response.
func WriteJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}
