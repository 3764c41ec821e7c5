// Package api defines the response envelope and error taxonomy shared by
// every Loandesk HTTP endpoint. All success bodies are wrapped in
// SuccessResponse and every error path, no matter where it originated,
// is written through WriteError so the wire contract stays uniform.
package api

import "time"

// SuccessResponse is the envelope for all 2xx bodies.
type SuccessResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// ErrorDetail carries the failure description inside an ErrorResponse.
type ErrorDetail struct {
	Message    string `json:"message"`
	Code       string `json:"code"`
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
}

// ErrorResponse is the envelope for all non-2xx bodies.
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     ErrorDetail `json:"error"`
	Timestamp string      `json:"timestamp"`
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
