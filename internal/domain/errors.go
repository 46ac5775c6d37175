package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrProfileIncomplete signals that the requester has no published venture embedding.
	ErrProfileIncomplete = errors.New("profile incomplete: publish a venture description first")
	// ErrSelfInteraction signals an interaction where actor equals target.
	ErrSelfInteraction = errors.New("cannot interact with yourself")
	// ErrPairBlocked signals a like or pass against a blocked pair.
	ErrPairBlocked = errors.New("pair is blocked")
	// ErrNotBlocked signals an unblock of a pair that is not blocked.
	ErrNotBlocked = errors.New("pair is not blocked")
	// ErrInvalidAction signals an unknown interaction action.
	ErrInvalidAction = errors.New("invalid interaction action")
	// ErrMissingParameter signals an absent required request parameter.
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrInvalidThreshold signals a similarity threshold outside 1..4.
	ErrInvalidThreshold = errors.New("similarity threshold must be 1, 2, 3 or 4")
	// ErrInvalidRegionScope signals an unknown region scope value.
	ErrInvalidRegionScope = errors.New("region scope must be city, country, region or worldwide")

	// ErrDegenerateVector signals a vector with zero or non-finite norm.
	ErrDegenerateVector = errors.New("degenerate vector: zero or non-finite norm")
	// ErrVersionMismatch signals embeddings with incomparable major versions.
	ErrVersionMismatch = errors.New("embedding versions are not comparable")

	// ErrUnknownProvider signals an embedding provider not present in the registry.
	ErrUnknownProvider = errors.New("unknown embedding provider")
	// ErrProviderNotConfigured signals missing provider credentials. Fatal config,
	// kept distinct from transient provider failures so operators do not retry it.
	ErrProviderNotConfigured = errors.New("embedding provider not configured")
	// ErrProviderAuth signals rejected provider credentials.
	ErrProviderAuth = errors.New("embedding provider authentication failed")
	// ErrProviderUnavailable signals a transient provider failure, retryable by the caller.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")
	// ErrEmptyEmbedding signals a provider response with zero vectors.
	ErrEmptyEmbedding = errors.New("provider returned no embedding")
)
