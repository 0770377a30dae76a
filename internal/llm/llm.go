// Package llm abstracts the text-generation capability used to produce
// optimized resumes.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// GenerateInput is one (resume, job description) pair.
type GenerateInput struct {
	ResumeText     string
	JobDescription string
}

// Generation carries the generated text plus the exact prompt that produced
// it, kept for provenance alongside the stored record.
type Generation struct {
	Resume string
	Prompt string
}

// Client abstracts generation providers.
type Client interface {
	GenerateResume(ctx context.Context, in GenerateInput) (Generation, error)
}

// APIError is a structured failure from the provider's API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm api error (status %d, type %s): %s", e.StatusCode, e.Type, e.Message)
}

// Transient reports whether err is worth retrying: timeouts, rate limits,
// server-side failures, and dropped connections. Validation and auth
// failures are not transient.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "client.timeout") ||
		strings.Contains(msg, "eof") {
		return true
	}

	return false
}
