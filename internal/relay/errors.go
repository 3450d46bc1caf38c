package relay

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mandalnilabja/gemrelay/internal/types"
)

// Failure is implemented by every error a relay step can return. It decides
// the status and the message the caller sees; Error() is for logs only.
type Failure interface {
	error
	StatusCode() int
	PublicMessage() string
}

// ConfigurationError means the upstream key is not available.
type ConfigurationError struct {
	// Source names where the key was looked up, e.g. the env variable.
	Source string
}

func (e *ConfigurationError) Error() string {
	if e.Source == "" {
		return "api key not configured"
	}
	return fmt.Sprintf("api key not configured (%s is empty)", e.Source)
}
func (e *ConfigurationError) StatusCode() int       { return http.StatusInternalServerError }
func (e *ConfigurationError) PublicMessage() string { return types.MsgNotConfigured }

// ParseError means the request body is not a JSON object.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string         { return "parse request body: " + e.Err.Error() }
func (e *ParseError) Unwrap() error         { return e.Err }
func (e *ParseError) StatusCode() int       { return http.StatusInternalServerError }
func (e *ParseError) PublicMessage() string { return types.MsgInvalidBody }

// BodyTooLargeError means the transport refused a body over its size limit.
type BodyTooLargeError struct {
	Limit int64
}

func (e *BodyTooLargeError) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}
func (e *BodyTooLargeError) StatusCode() int       { return http.StatusRequestEntityTooLarge }
func (e *BodyTooLargeError) PublicMessage() string { return types.MsgBodyTooLarge }

// TransportError means no response was received from upstream.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string         { return "upstream call: " + e.Err.Error() }
func (e *TransportError) Unwrap() error         { return e.Err }
func (e *TransportError) StatusCode() int       { return http.StatusInternalServerError }
func (e *TransportError) PublicMessage() string { return types.MsgUpstreamUnreach }

// UpstreamError is a non-2xx answer from upstream. Its status is mirrored,
// its body is not.
type UpstreamError struct {
	Status int
	Body   []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}
func (e *UpstreamError) StatusCode() int       { return e.Status }
func (e *UpstreamError) PublicMessage() string { return types.MsgUpstreamFailed }

// DecodeError means upstream answered 2xx with a body that is not JSON.
type DecodeError struct {
	Status int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode upstream response (status %d): %v", e.Status, e.Err)
}
func (e *DecodeError) Unwrap() error         { return e.Err }
func (e *DecodeError) StatusCode() int       { return http.StatusInternalServerError }
func (e *DecodeError) PublicMessage() string { return types.MsgInvalidUpstream }

// Sentinel causes wrapped by ParseError.
var (
	ErrEmptyBody   = errors.New("empty body")
	ErrNotAnObject = errors.New("body is not a JSON object")
	ErrInvalidJSON = errors.New("upstream body is not valid JSON")
)

// responseFor maps any error to the response the caller sees. Errors that are
// not a Failure become a generic 500.
func responseFor(err error) Response {
	var f Failure
	if errors.As(err, &f) {
		return errorResponse(f.StatusCode(), f.PublicMessage())
	}
	return errorResponse(http.StatusInternalServerError, types.MsgInternal)
}
