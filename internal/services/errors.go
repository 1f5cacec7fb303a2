package services

import "errors"

// Error taxonomy for the external completion call. The turn pipeline
// retries only the overloaded class; quota and safety blocks surface
// immediately with their own user-facing messages.
var (
	// ErrOverloaded marks a transient failure: the service is
	// overloaded or unavailable and the call may be retried.
	ErrOverloaded = errors.New("completion service overloaded")

	// ErrQuotaExhausted marks an API quota or billing failure. Never
	// retried.
	ErrQuotaExhausted = errors.New("api quota exhausted")

	// ErrContentBlocked marks a content-safety block. Never retried.
	ErrContentBlocked = errors.New("response blocked by safety filters")

	// ErrEmptyResponse marks a reply with no usable text.
	ErrEmptyResponse = errors.New("empty response from model")
)
