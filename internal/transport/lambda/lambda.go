// Package lambda adapts API Gateway proxy events to the relay so the same
// handler runs as an AWS Lambda (or Netlify) function.
package lambda

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"

	"github.com/mandalnilabja/gemrelay/internal/relay"
	"github.com/mandalnilabja/gemrelay/internal/transport/http/middleware"
)

// Payload format versions accepted by cmd/lambda.
const (
	PayloadV1 = "1.0"
	PayloadV2 = "2.0"
)

// Handler serves API Gateway events with a shared Relay.
type Handler struct {
	Relay *relay.Relay

	// AllowedOrigin, when set, is returned as Access-Control-Allow-Origin
	// and OPTIONS preflights are answered with 204. When empty, OPTIONS
	// reaches the relay and gets 405.
	AllowedOrigin string
}

// New creates a Lambda handler.
func New(rl *relay.Relay, allowedOrigin string) *Handler {
	return &Handler{Relay: rl, AllowedOrigin: allowedOrigin}
}

// HandleProxy serves REST API / payload v1 events.
func (h *Handler) HandleProxy(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := resolveRequestID(ctx, ev.RequestContext.RequestID, ev.Headers)
	resp := h.invoke(ctx, ev.HTTPMethod, ev.Body, ev.IsBase64Encoded, requestID)
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       string(resp.Body),
	}, nil
}

// HandleHTTP serves HTTP API payload v2 events.
func (h *Handler) HandleHTTP(ctx context.Context, ev events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	requestID := resolveRequestID(ctx, ev.RequestContext.RequestID, ev.Headers)
	resp := h.invoke(ctx, ev.RequestContext.HTTP.Method, ev.Body, ev.IsBase64Encoded, requestID)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       string(resp.Body),
	}, nil
}

func (h *Handler) invoke(ctx context.Context, method, body string, isBase64 bool, requestID string) relay.Response {
	var resp relay.Response
	switch {
	case method == http.MethodOptions && h.AllowedOrigin != "":
		resp = relay.Response{StatusCode: http.StatusNoContent, Header: map[string]string{}}
	case method == http.MethodPost && isBase64:
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			resp = h.Relay.Reject(requestID, &relay.ParseError{Err: err})
			break
		}
		resp = h.Relay.Handle(ctx, relay.Request{Method: method, Body: decoded, RequestID: requestID})
	default:
		resp = h.Relay.Handle(ctx, relay.Request{Method: method, Body: []byte(body), RequestID: requestID})
	}
	return h.decorate(resp, requestID)
}

func (h *Handler) decorate(resp relay.Response, requestID string) relay.Response {
	headers := make(map[string]string, len(resp.Header)+4)
	for k, v := range resp.Header {
		headers[k] = v
	}
	headers[middleware.RequestIDHeader] = requestID
	if h.AllowedOrigin != "" {
		headers["Access-Control-Allow-Origin"] = h.AllowedOrigin
		headers["Access-Control-Allow-Methods"] = "POST, OPTIONS"
		headers["Access-Control-Allow-Headers"] = "Content-Type, X-Request-ID"
	}
	resp.Header = headers
	return resp
}

// resolveRequestID prefers the API Gateway id, then the Lambda invocation id,
// then a client-supplied header, and generates one as a last resort.
func resolveRequestID(ctx context.Context, gatewayID string, headers map[string]string) string {
	if gatewayID != "" {
		return gatewayID
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	// Payload v1 keeps the client's header casing.
	for k, id := range headers {
		if id != "" && strings.EqualFold(k, middleware.RequestIDHeader) {
			return id
		}
	}
	return uuid.NewString()
}
