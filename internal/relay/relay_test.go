package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandalnilabja/gemrelay/internal/provider/gemini"
	"github.com/mandalnilabja/gemrelay/internal/types"
)

const testKey = "test-secret-key"

// upstreamStub is an httptest server recording every call it receives.
type upstreamStub struct {
	*httptest.Server

	mu     sync.Mutex
	calls  int
	bodies [][]byte
	urls   []string
	ctypes []string
}

func newUpstreamStub(t *testing.T, status int, body string) *upstreamStub {
	t.Helper()
	s := &upstreamStub{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.calls++
		s.bodies = append(s.bodies, b)
		s.urls = append(s.urls, r.URL.String())
		s.ctypes = append(s.ctypes, r.Header.Get("Content-Type"))
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *upstreamStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestRelay(upstreamURL string, key string, logOut io.Writer) *Relay {
	if logOut == nil {
		logOut = io.Discard
	}
	client := gemini.New(gemini.WithBaseURL(upstreamURL))
	return New(client, SecretFunc(func() string { return key }), slog.New(slog.NewTextHandler(logOut, nil)))
}

func post(body string) Request {
	return Request{Method: http.MethodPost, Body: []byte(body), RequestID: "req-1"}
}

func decodeError(t *testing.T, body []byte) string {
	t.Helper()
	var apiErr types.APIError
	require.NoError(t, json.Unmarshal(body, &apiErr))
	return apiErr.Error
}

func TestHandle_RejectsNonPost(t *testing.T) {
	up := newUpstreamStub(t, http.StatusOK, `{}`)
	rl := newTestRelay(up.URL, testKey, nil)

	methods := []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodHead, http.MethodOptions, ""}
	bodies := []string{"", `{"contents":[]}`, "not json"}

	for _, m := range methods {
		for _, b := range bodies {
			resp := rl.Handle(context.Background(), Request{Method: m, Body: []byte(b)})
			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, "method %q", m)
			assert.Equal(t, "Method Not Allowed", string(resp.Body))
			assert.Equal(t, http.MethodPost, resp.Header["Allow"])
		}
	}
	assert.Zero(t, up.callCount())
}

func TestHandle_MissingKey(t *testing.T) {
	up := newUpstreamStub(t, http.StatusOK, `{}`)

	for _, key := range []string{"", "   "} {
		t.Setenv("GEMRELAY_TEST_KEY", key)
		client := gemini.New(gemini.WithBaseURL(up.URL))
		rl := New(client, EnvSecret("GEMRELAY_TEST_KEY"), nil)

		resp := rl.Handle(context.Background(), post(`{"contents":[{"role":"user","parts":[{"text":"hi"}]}]}`))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, types.MsgNotConfigured, decodeError(t, resp.Body))
	}
	assert.Zero(t, up.callCount(), "no upstream call without a key")
}

func TestHandle_Success(t *testing.T) {
	upstreamBody := `{"candidates":[{"content":{"parts":[{"text":"hello"}],"role":"model"},"finishReason":"STOP"}],"usageMetadata":{"promptTokenCount":3,"candidatesTokenCount":1,"totalTokenCount":4}}`
	up := newUpstreamStub(t, http.StatusOK, upstreamBody)
	rl := newTestRelay(up.URL, testKey, nil)

	contents := `[{"role":"user","parts":[{"text":"hi"}]},{"role":"model","parts":[{"text":"yo"}]}]`
	resp := rl.Handle(context.Background(), post(`{"contents":`+contents+`}`))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header["Content-Type"])
	assert.JSONEq(t, upstreamBody, string(resp.Body))

	require.Equal(t, 1, up.callCount())
	assert.JSONEq(t, `{"contents":`+contents+`}`, string(up.bodies[0]))
	assert.Equal(t, "application/json", up.ctypes[0])
	assert.Equal(t, "/models/gemma-3-27b-it:generateContent?key="+testKey, up.urls[0])
}

func TestHandle_Non200SuccessIsReportedAs200(t *testing.T) {
	up := newUpstreamStub(t, http.StatusCreated, `{"ok":true}`)
	rl := newTestRelay(up.URL, testKey, nil)

	resp := rl.Handle(context.Background(), post(`{"contents":[]}`))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestHandle_ContentsPassThrough(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing contents is omitted", `{"other":1}`, `{}`},
		{"null contents", `{"contents":null}`, `{"contents":null}`},
		{"extra fields dropped", `{"contents":[1,2],"model":"x"}`, `{"contents":[1,2]}`},
		{"nested values untouched", `{"contents":[{"parts":[{"inlineData":{"mimeType":"image/png","data":"AAAA"}}]}]}`,
			`{"contents":[{"parts":[{"inlineData":{"mimeType":"image/png","data":"AAAA"}}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := newUpstreamStub(t, http.StatusOK, `{}`)
			rl := newTestRelay(up.URL, testKey, nil)

			resp := rl.Handle(context.Background(), post(tt.body))

			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.Equal(t, 1, up.callCount())
			assert.JSONEq(t, tt.want, string(up.bodies[0]))
		})
	}
}

func TestHandle_UpstreamErrorIsHidden(t *testing.T) {
	var logs bytes.Buffer
	up := newUpstreamStub(t, http.StatusTooManyRequests, `{"error": "rate limited"}`)
	rl := newTestRelay(up.URL, testKey, &logs)

	resp := rl.Handle(context.Background(), post(`{"contents":[]}`))

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Gemini API request failed"}`, string(resp.Body))
	assert.NotContains(t, string(resp.Body), "rate limited")
	assert.Contains(t, logs.String(), "rate limited", "upstream detail is logged server-side")
}

func TestHandle_UpstreamStatusMirrored(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		up := newUpstreamStub(t, status, `{"error":{"code":1,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
		rl := newTestRelay(up.URL, testKey, nil)

		resp := rl.Handle(context.Background(), post(`{"contents":[]}`))

		assert.Equal(t, status, resp.StatusCode)
		assert.Equal(t, types.MsgUpstreamFailed, decodeError(t, resp.Body))
	}
}

func TestHandle_InvalidBody(t *testing.T) {
	up := newUpstreamStub(t, http.StatusOK, `{}`)
	rl := newTestRelay(up.URL, testKey, nil)

	for _, body := range []string{"", "   ", "not json", `{"contents":`, "null", `[1,2]`, `"text"`, `42`} {
		resp := rl.Handle(context.Background(), post(body))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, "body %q", body)
		assert.NotEmpty(t, decodeError(t, resp.Body), "body %q", body)
	}
	assert.Zero(t, up.callCount())
}

func TestHandle_KeyCheckedBeforeBody(t *testing.T) {
	up := newUpstreamStub(t, http.StatusOK, `{}`)
	rl := newTestRelay(up.URL, "", nil)

	resp := rl.Handle(context.Background(), post("not json"))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, types.MsgNotConfigured, decodeError(t, resp.Body))
}

func TestHandle_InvalidUpstreamJSON(t *testing.T) {
	up := newUpstreamStub(t, http.StatusOK, `<html>oops</html>`)
	rl := newTestRelay(up.URL, testKey, nil)

	resp := rl.Handle(context.Background(), post(`{"contents":[]}`))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, types.MsgInvalidUpstream, decodeError(t, resp.Body))
}

func TestHandle_TransportErrorDoesNotLeakKey(t *testing.T) {
	up := newUpstreamStub(t, http.StatusOK, `{}`)
	deadURL := up.URL
	up.Close()

	var logs bytes.Buffer
	rl := newTestRelay(deadURL, testKey, &logs)

	resp := rl.Handle(context.Background(), post(`{"contents":[]}`))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, types.MsgUpstreamUnreach, decodeError(t, resp.Body))
	assert.NotContains(t, string(resp.Body), testKey)
	assert.NotContains(t, logs.String(), testKey)
	assert.Contains(t, logs.String(), "REDACTED")
}

func TestHandle_Idempotent(t *testing.T) {
	up := newUpstreamStub(t, http.StatusOK, `{"candidates":[]}`)
	rl := newTestRelay(up.URL, testKey, nil)

	req := post(`{"contents":[{"parts":[{"text":"same"}]}]}`)
	first := rl.Handle(context.Background(), req)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, rl.Handle(context.Background(), req))
	}
	assert.Equal(t, 6, up.callCount(), "every invocation calls upstream")
}

func TestHandle_ReadsSecretEveryInvocation(t *testing.T) {
	up := newUpstreamStub(t, http.StatusOK, `{}`)
	client := gemini.New(gemini.WithBaseURL(up.URL))
	rl := New(client, EnvSecret("GEMRELAY_TEST_KEY"), nil)

	t.Setenv("GEMRELAY_TEST_KEY", "")
	assert.Equal(t, http.StatusInternalServerError, rl.Handle(context.Background(), post(`{"contents":[]}`)).StatusCode)

	t.Setenv("GEMRELAY_TEST_KEY", "rotated")
	assert.Equal(t, http.StatusOK, rl.Handle(context.Background(), post(`{"contents":[]}`)).StatusCode)
	require.Equal(t, 1, up.callCount())
	assert.True(t, strings.HasSuffix(up.urls[0], "key=rotated"))
}

type panickingUpstream struct{}

func (panickingUpstream) Name() string { return "panic" }
func (panickingUpstream) GenerateContent(context.Context, string, json.RawMessage) (*gemini.Result, error) {
	panic("boom")
}

func TestHandle_RecoversPanic(t *testing.T) {
	rl := New(panickingUpstream{}, SecretFunc(func() string { return testKey }), nil)

	resp := rl.Handle(context.Background(), post(`{"contents":[]}`))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, types.MsgInternal, decodeError(t, resp.Body))
}

func TestReject(t *testing.T) {
	rl := New(panickingUpstream{}, SecretFunc(func() string { return testKey }), nil)

	resp := rl.Reject("req-2", &ParseError{Err: errors.New("bad base64")})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, types.MsgInvalidBody, decodeError(t, resp.Body))

	resp = rl.Reject("req-3", errors.New("unclassified"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, types.MsgInternal, decodeError(t, resp.Body))
}

func TestReject_BodyTooLargeIsLogged(t *testing.T) {
	var logs bytes.Buffer
	rl := newTestRelay("http://unused.invalid", testKey, &logs)

	resp := rl.Reject("req-big", &BodyTooLargeError{Limit: 1024})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header["Content-Type"])
	assert.Equal(t, types.MsgBodyTooLarge, decodeError(t, resp.Body))

	assert.Contains(t, logs.String(), "request body too large")
	assert.Contains(t, logs.String(), "request_id=req-big")
	assert.Contains(t, logs.String(), "limit=1024")
}

func TestFailureMessages(t *testing.T) {
	tests := []struct {
		err        Failure
		wantStatus int
		wantMsg    string
	}{
		{&ConfigurationError{Source: "GEMINI_API_KEY"}, http.StatusInternalServerError, types.MsgNotConfigured},
		{&ParseError{Err: ErrEmptyBody}, http.StatusInternalServerError, types.MsgInvalidBody},
		{&BodyTooLargeError{Limit: 10}, http.StatusRequestEntityTooLarge, types.MsgBodyTooLarge},
		{&TransportError{Err: io.ErrUnexpectedEOF}, http.StatusInternalServerError, types.MsgUpstreamUnreach},
		{&UpstreamError{Status: http.StatusBadGateway}, http.StatusBadGateway, types.MsgUpstreamFailed},
		{&DecodeError{Status: 200, Err: ErrInvalidJSON}, http.StatusInternalServerError, types.MsgInvalidUpstream},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantStatus, tt.err.StatusCode(), tt.err.Error())
		assert.Equal(t, tt.wantMsg, tt.err.PublicMessage(), tt.err.Error())
	}

	assert.Contains(t, (&ConfigurationError{Source: "GEMINI_API_KEY"}).Error(), "GEMINI_API_KEY")
	assert.ErrorIs(t, &ParseError{Err: ErrEmptyBody}, ErrEmptyBody)
}
