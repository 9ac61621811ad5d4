package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Required for responses derived from credentials or session state.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteErrorJSON writes the dashboard's error envelope: a human-readable
// message plus an optional machine-readable code. Screens render the message
// verbatim.
func WriteErrorJSON(w http.ResponseWriter, status int, message, code string) {
	NoCache(w)
	body := map[string]string{"message": message}
	if code != "" {
		body["code"] = code
	}
	WriteJSON(w, status, body)
}
