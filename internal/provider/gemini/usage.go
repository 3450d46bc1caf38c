package gemini

import (
	"encoding/json"

	"github.com/mandalnilabja/gemrelay/internal/types"
)

// Usage summarises a successful response for request logs.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	FinishReason     string
	ModelVersion     string
}

// ParseUsage extracts token counts and finish reason from a generateContent
// response body. ok is false if the body does not parse.
func ParseUsage(body []byte) (u Usage, ok bool) {
	var resp types.GenerateContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return u, false
	}
	if resp.UsageMetadata != nil {
		u.PromptTokens = resp.UsageMetadata.PromptTokenCount
		u.CompletionTokens = resp.UsageMetadata.CandidatesTokenCount
		u.TotalTokens = resp.UsageMetadata.TotalTokenCount
	}
	if len(resp.Candidates) > 0 {
		u.FinishReason = resp.Candidates[0].FinishReason
	}
	u.ModelVersion = resp.ModelVersion
	return u, true
}

// ParseUpstreamError returns the message of a Google API error envelope, or
// "" if body is not one. For server-side logs only.
func ParseUpstreamError(body []byte) string {
	var apiErr types.UpstreamError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return ""
	}
	return apiErr.Error.Message
}
