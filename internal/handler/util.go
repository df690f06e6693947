package handler

import (
	"encoding/json"
	"net/http"

	"github.com/parentbridge/parent-assistant/internal/apperr"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeAppError maps an error to its HTTP status: 400 validation, 404
// not found, 504 gateway timeout, 500 everything else.
func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case apperr.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case apperr.IsGatewayTimeout(err):
		writeError(w, http.StatusGatewayTimeout, "assistant did not respond in time")
	case apperr.IsGateway(err):
		writeError(w, http.StatusInternalServerError, "assistant is unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
