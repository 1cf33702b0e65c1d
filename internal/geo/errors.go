package geo

import "errors"

var (
	// ErrRequestTimeout is returned when the lookup does not finish within the bounded wait.
	ErrRequestTimeout = errors.New("geo: request timed out")

	// ErrLookupFailed is returned when the service answers with an error or unusable body.
	ErrLookupFailed = errors.New("geo: lookup failed")

	// ErrInvalidCoordinates is returned for latitude outside [-90,90] or longitude outside [-180,180].
	ErrInvalidCoordinates = errors.New("geo: invalid coordinates")
)
