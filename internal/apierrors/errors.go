package apierrors

import (
	"encoding/json"
	"net/http"
)

type jsonError struct {
	Error   string `json:"error"`
	TraceID string `json:"traceId,omitempty"`
}

// WriteJSONError writes a JSON error envelope. The message must be
// user-presentable; raw internal errors do not belong here.
func WriteJSONError(w http.ResponseWriter, statusCode int, message, traceID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message, TraceID: traceID})
}
