package ai

import (
	"errors"
	"fmt"
)

// ErrNoQuestionsGenerated is returned when every provider call succeeded yet
// the aggregate result is empty. Callers should treat it as a caller-facing
// condition, not a provider outage.
var ErrNoQuestionsGenerated = errors.New("no questions were generated")

// ConfigurationError covers failures retrying cannot fix: a missing or
// rejected credential, or an unavailable model.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ai configuration error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("ai configuration error: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// RateLimitedError indicates the provider signalled throttling (429 or an
// explicit rate-limit error code).
type RateLimitedError struct {
	Err error
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("ai provider rate limited: %v", e.Err)
}

func (e *RateLimitedError) Unwrap() error { return e.Err }

// MalformedResponseError indicates the provider answered, but the payload was
// not usable: unparseable JSON, an empty questions array, or a question that
// violates the answer/options invariants.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed ai response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ProviderError covers every remaining provider failure, timeouts included.
type ProviderError struct {
	Status int
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ai provider error (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("ai provider error: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
