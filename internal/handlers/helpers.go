package handlers

import (
	"encoding/json"
	"net/http"
)

// respondJSON writes data as the JSON response body.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondJSONError writes an error JSON response. Messages are truncated so
// internal detail never leaks wholesale to clients.
func respondJSONError(w http.ResponseWriter, status int, message string) {
	if len(message) > 200 {
		message = message[:200] + "..."
	}
	respondJSON(w, status, map[string]string{"error": message})
}
