package types

import (
	"encoding/json"
	"net/http"
)

// APIError is the error body returned to the frontend.
// The frontend reads a single string field, so there is no nested detail object.
type APIError struct {
	Error string `json:"error"`
}

// Public error messages. Causes are logged server-side, never returned.
const (
	MsgMethodNotAllowed = "Method Not Allowed"
	MsgNotConfigured    = "API key is not configured in the server environment"
	MsgInvalidBody      = "invalid request body"
	MsgBodyTooLarge     = "request body too large"
	MsgUpstreamFailed   = "Gemini API request failed"
	MsgUpstreamUnreach  = "failed to reach Gemini API"
	MsgInvalidUpstream  = "invalid response from Gemini API"
	MsgInternal         = "internal server error"
)

// NewAPIError creates a new API error.
func NewAPIError(message string) *APIError {
	return &APIError{Error: message}
}

// Marshal encodes the error body. Encoding a single string field cannot fail.
func (e *APIError) Marshal() []byte {
	b, _ := json.Marshal(e)
	return b
}

// WriteError writes an API error to the response writer.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(NewAPIError(message))
}
