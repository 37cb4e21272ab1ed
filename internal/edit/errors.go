package edit

import (
	"errors"
	"fmt"
)

// ErrProviderUnconfigured indicates the service was built without a provider credential.
var ErrProviderUnconfigured = errors.New("edit: provider api token is not configured")

// ErrTimeout indicates the job did not reach a terminal state within the wait
// ceiling. The provider-side job is abandoned, not cancelled.
var ErrTimeout = errors.New("edit: generation timed out before completion")

// ValidationError carries the human-readable reason a request was rejected
// before any provider call. The reason is surfaced to the client verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// SubmissionError indicates the job-creation call failed: the provider was
// unreachable or rejected the request. Submissions are never retried.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string { return fmt.Sprintf("edit: submission failed: %v", e.Err) }

func (e *SubmissionError) Unwrap() error { return e.Err }

// ProviderError indicates the job reached a terminal failed state. Message is
// the provider's own error text.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return "edit: generation failed"
	}
	return "edit: generation failed: " + e.Message
}

// NoOutputError indicates the job succeeded but produced zero usable URLs.
// EmptyObjects marks the sub-case where every raw output element was an empty
// object, which usually points at a bad input image or parameters upstream.
type NoOutputError struct {
	EmptyObjects bool
}

func (e *NoOutputError) Error() string {
	if e.EmptyObjects {
		return "edit: provider returned empty output objects; check the input image and parameters"
	}
	return "edit: no valid images produced"
}
