package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrUpstreamRateLimited is surfaced when the sports data provider
	// rejects a call with 429; callers skip the unit of work instead of
	// retrying into the same quota wall.
	ErrUpstreamRateLimited = errors.New("upstream rate limited")
)
