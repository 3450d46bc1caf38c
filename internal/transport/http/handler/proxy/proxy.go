// Package proxy adapts net/http requests to the relay.
package proxy

import (
	"errors"
	"io"
	"net/http"

	"github.com/mandalnilabja/gemrelay/internal/config"
	"github.com/mandalnilabja/gemrelay/internal/relay"
	"github.com/mandalnilabja/gemrelay/internal/transport/http/middleware"
)

// Handlers holds the dependencies for proxy HTTP handlers.
type Handlers struct {
	Relay *relay.Relay

	// MaxBodyBytes bounds the request body read into memory.
	MaxBodyBytes int64
}

// New creates a new instance of proxy handlers. A non-positive limit uses
// config.DefaultMaxBodyBytes.
func New(rl *relay.Relay, maxBodyBytes int64) *Handlers {
	if maxBodyBytes <= 0 {
		maxBodyBytes = config.DefaultMaxBodyBytes
	}
	return &Handlers{
		Relay:        rl,
		MaxBodyBytes: maxBodyBytes,
	}
}

// Generate relays a generateContent request. Every method is routed here;
// the relay itself answers non-POST requests with 405.
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var body []byte
	if r.Method == http.MethodPost {
		var err error
		body, err = io.ReadAll(http.MaxBytesReader(w, r.Body, h.MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeResponse(w, h.Relay.Reject(requestID, &relay.BodyTooLargeError{Limit: tooLarge.Limit}))
				return
			}
			writeResponse(w, h.Relay.Reject(requestID, &relay.ParseError{Err: err}))
			return
		}
	}

	writeResponse(w, h.Relay.Handle(r.Context(), relay.Request{
		Method:    r.Method,
		Body:      body,
		RequestID: requestID,
	}))
}

func writeResponse(w http.ResponseWriter, resp relay.Response) {
	for k, v := range resp.Header {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}
