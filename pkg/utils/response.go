package utils

import (
	"encoding/json"
	"net/http"
	"time"
)

// APIError is the body of every error response.
type APIError struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

// RespondWithJSON writes payload as JSON with the given status. A nil
// payload writes only the status.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// RespondWithError writes an APIError for the request.
func RespondWithError(w http.ResponseWriter, r *http.Request, code int, message string) {
	RespondWithJSON(w, code, APIError{
		Timestamp: time.Now().UTC(),
		Status:    code,
		Error:     http.StatusText(code),
		Message:   message,
		Path:      r.URL.Path,
	})
}
