// Package types holds the wire types shared by the relay and its transports.
package types

import "encoding/json"

// GenerateContentRequest is the body sent to the generateContent endpoint.
// Contents is passed through exactly as the frontend sent it.
type GenerateContentRequest struct {
	Contents json.RawMessage `json:"contents,omitempty"`
}

// UsageMetadata is the token accounting block of a generateContent response.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// GenerateContentResponse holds the fields of a generateContent response the
// relay inspects for logging. The response itself is relayed unparsed.
type GenerateContentResponse struct {
	Candidates []struct {
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
	ModelVersion  string         `json:"modelVersion,omitempty"`
}

// UpstreamError is the error envelope returned by Google APIs.
type UpstreamError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
