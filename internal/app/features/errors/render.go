// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	"net/http"
)

// errorBody is the envelope every error response uses. Clients rely on
// the single "error" key regardless of status code.
type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the standard {"error": msg} envelope with the given
// status code.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Error: msg})
}
