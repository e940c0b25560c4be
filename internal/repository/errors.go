package repository

import "errors"

// Sentinel errors for the repository package.
var (
	// ErrNotFound is returned when the mod, file or link does not exist.
	ErrNotFound = errors.New("not found in repository")

	// ErrUnauthorized is returned when the API key is missing or rejected.
	ErrUnauthorized = errors.New("repository rejected credentials")

	// ErrRateLimited is returned when the repository throttles requests.
	ErrRateLimited = errors.New("repository rate limit exceeded")

	// ErrUnsupportedSource is returned for source URIs the client cannot resolve.
	ErrUnsupportedSource = errors.New("unsupported source")

	// ErrRangeNotSatisfiable is returned when a resume offset is past the end of the file.
	ErrRangeNotSatisfiable = errors.New("range not satisfiable")
)
