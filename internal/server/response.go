package server

import (
	"encoding/json"
	"net/http"
)

// errorBody is the uniform JSON error envelope.
//
// Detail carries the raw upstream payload on 500s; it is absent on auth and
// routing errors.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeJSON serializes data as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes the JSON error envelope. err may be nil.
func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := errorBody{Error: message}
	if err != nil {
		body.Detail = err.Error()
	}
	writeJSON(w, status, body)
}

// writeUpstreamError converts a third-party call failure into a 500 with the
// underlying error payload attached. No retry, no partial recovery.
func writeUpstreamError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Upstream request failed", err)
}
