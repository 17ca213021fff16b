package domain

import "errors"

// Sentinel errors for the retrieval and answer-synthesis pipeline.
// Lower layers wrap these with context; the transport layer maps them
// to HTTP statuses without exposing provider internals.
var (
	// ErrInvalidRequest signals bad caller input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrIndexUnavailable signals the search index cannot be reached.
	ErrIndexUnavailable = errors.New("index unavailable")
	// ErrIndexQueryInvalid signals the index rejected the query shape.
	// This is a query-builder defect, not a user error.
	ErrIndexQueryInvalid = errors.New("index rejected query")
	// ErrRecordNotFound signals a missing knowledge record.
	ErrRecordNotFound = errors.New("knowledge record not found")
	// ErrProviderUnavailable signals an AI provider network or auth failure.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrProviderRateLimited signals the AI provider is throttling us.
	ErrProviderRateLimited = errors.New("provider rate limited")
	// ErrProviderResponseInvalid signals an unparseable provider response.
	ErrProviderResponseInvalid = errors.New("provider response invalid")
	// ErrRateLimitTimeout signals the generation rate limiter could not
	// grant a slot within the acquisition deadline.
	ErrRateLimitTimeout = errors.New("rate limit acquisition timed out")
	// ErrTimeout signals an external call exceeded its deadline.
	// Distinct from outright connection failure so callers can tell
	// slow-but-alive from dead.
	ErrTimeout = errors.New("operation timed out")
	// ErrAnswerMalformed signals the generation provider returned a payload
	// that violates the answer contract. Surfaced, never silently patched.
	ErrAnswerMalformed = errors.New("malformed answer payload")
)
