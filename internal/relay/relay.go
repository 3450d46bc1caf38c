// Package relay forwards frontend chat requests to the Gemini API with the
// server-held key attached. It is independent of the hosting platform: the
// net/http, Lambda and Vercel entry points all translate into Request and
// back from Response.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mandalnilabja/gemrelay/internal/provider/gemini"
	"github.com/mandalnilabja/gemrelay/internal/types"
)

// maxLoggedBody caps how much of an upstream error body is logged.
const maxLoggedBody = 4096

// Upstream performs the single outbound call of an invocation.
type Upstream interface {
	Name() string
	GenerateContent(ctx context.Context, apiKey string, contents json.RawMessage) (*gemini.Result, error)
}

// Request is one inbound invocation.
type Request struct {
	Method    string
	Body      []byte
	RequestID string
}

// Response is what the platform adapter sends back.
type Response struct {
	StatusCode int
	Header     map[string]string
	Body       []byte
}

// Relay holds only read-only dependencies, so a single value serves
// concurrent invocations.
type Relay struct {
	upstream Upstream
	secret   SecretSource
	logger   *slog.Logger
}

// New creates a Relay. A nil logger discards logs.
func New(upstream Upstream, secret SecretSource, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Relay{
		upstream: upstream,
		secret:   secret,
		logger:   logger,
	}
}

// Handle runs one invocation. It always returns a response; failures of any
// step, including panics, are turned into an error response here.
func (r *Relay) Handle(ctx context.Context, req Request) (resp Response) {
	if req.Method != http.MethodPost {
		return methodNotAllowed()
	}

	log := r.logger.With("request_id", req.RequestID, "provider", r.upstream.Name())

	defer func() {
		if p := recover(); p != nil {
			log.Error("relay panic", "panic", p)
			resp = errorResponse(http.StatusInternalServerError, types.MsgInternal)
		}
	}()

	resp, err := r.forward(ctx, log, req)
	if err != nil {
		r.logFailure(log, err)
		return responseFor(err)
	}
	return resp
}

// Reject produces the response for an invocation that failed before the relay
// could run, e.g. the platform could not read or decode the body. The error is
// logged and mapped the same way as a failure inside Handle.
func (r *Relay) Reject(requestID string, err error) Response {
	log := r.logger.With("request_id", requestID, "provider", r.upstream.Name())
	r.logFailure(log, err)
	return responseFor(err)
}

func (r *Relay) forward(ctx context.Context, log *slog.Logger, req Request) (Response, error) {
	apiKey := r.secret.Secret()
	if apiKey == "" {
		return Response{}, &ConfigurationError{Source: r.secret.Name()}
	}

	contents, err := parseContents(req.Body)
	if err != nil {
		return Response{}, &ParseError{Err: err}
	}

	start := time.Now()
	result, err := r.upstream.GenerateContent(ctx, apiKey, contents)
	if err != nil {
		return Response{}, &TransportError{Err: err}
	}
	duration := time.Since(start)

	if !result.OK() {
		return Response{}, &UpstreamError{Status: result.StatusCode, Body: result.Body}
	}
	if !json.Valid(result.Body) {
		return Response{}, &DecodeError{Status: result.StatusCode, Err: ErrInvalidJSON}
	}

	attrs := []any{"status", result.StatusCode, "duration_ms", duration.Milliseconds()}
	if usage, ok := gemini.ParseUsage(result.Body); ok {
		attrs = append(attrs,
			"prompt_tokens", usage.PromptTokens,
			"completion_tokens", usage.CompletionTokens,
			"total_tokens", usage.TotalTokens,
			"finish_reason", usage.FinishReason,
		)
	}
	log.Info("upstream ok", attrs...)

	return jsonResponse(http.StatusOK, result.Body), nil
}

// parseContents extracts the contents field of a JSON object body. The value
// is kept as raw JSON so it reaches upstream unchanged.
func parseContents(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrEmptyBody
	}
	if trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			var v any
			return nil, json.Unmarshal(trimmed, &v)
		}
		return nil, ErrNotAnObject
	}

	var payload struct {
		Contents json.RawMessage `json:"contents"`
	}
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, err
	}
	return payload.Contents, nil
}

func (r *Relay) logFailure(log *slog.Logger, err error) {
	switch e := err.(type) {
	case *UpstreamError:
		body := e.Body
		if len(body) > maxLoggedBody {
			body = body[:maxLoggedBody]
		}
		log.Error("upstream error",
			"status", e.Status,
			"message", gemini.ParseUpstreamError(e.Body),
			"body", string(body),
		)
	case *ParseError:
		log.Warn("invalid request body", "error", e.Err)
	case *BodyTooLargeError:
		log.Warn("request body too large", "limit", e.Limit)
	default:
		log.Error("relay failed", "error", err)
	}
}

func methodNotAllowed() Response {
	return Response{
		StatusCode: http.StatusMethodNotAllowed,
		Header: map[string]string{
			"Content-Type": "text/plain; charset=utf-8",
			"Allow":        http.MethodPost,
		},
		Body: []byte(types.MsgMethodNotAllowed),
	}
}

func jsonResponse(status int, body []byte) Response {
	return Response{
		StatusCode: status,
		Header:     map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

func errorResponse(status int, message string) Response {
	return jsonResponse(status, types.NewAPIError(message).Marshal())
}
