package handlers

import (
	"encoding/json"
	"net/http"
)

// respondData writes a success envelope with the given payload.
func respondData(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

// respondMessage writes a success envelope carrying a message only.
func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"status":  "success",
		"message": message,
	})
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"status":  "error",
		"message": message,
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
