package api

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON envelope emitted on every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteError writes the error envelope with the given status and message.
// The message must be caller-safe; failure detail belongs in the logs.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding a flat struct cannot fail; the error is deliberately ignored.
	json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: message})
}

// WriteAPIError writes an APIError using its mapped HTTP status.
func WriteAPIError(w http.ResponseWriter, err *APIError) {
	WriteError(w, err.HTTPStatus(), err.Message)
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
