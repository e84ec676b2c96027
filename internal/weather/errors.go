package weather

import (
	"errors"
	"fmt"
)

// Kind identifies one of the gateway's failure classes.
type Kind string

const (
	// Caller input errors; never retried.
	KindInvalidCoordinates Kind = "invalid_coordinates"
	KindInvalidTimeRange   Kind = "invalid_time_range"
	KindAmbiguousLocation  Kind = "ambiguous_location"

	// KindUpstreamRejected means the provider refused the request (4xx);
	// not retryable, the parameters are bad.
	KindUpstreamRejected Kind = "upstream_rejected"

	// KindUpstreamUnavailable means the retry budget was exhausted on
	// transient failures; the caller may retry at its own discretion.
	KindUpstreamUnavailable Kind = "upstream_unavailable"

	// KindMalformedUpstreamPayload means the provider broke its response
	// contract; retrying would reproduce the same data.
	KindMalformedUpstreamPayload Kind = "malformed_upstream_payload"
)

// Error is the gateway's typed error. It is constructed at the point of
// detection and carried unchanged through the pipeline to the serving
// adapters, which serialize it into the response boundary format.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Errorf builds a typed gateway error.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure class from err. It returns the empty Kind when
// err does not carry a gateway Error.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

// IsCallerError reports whether the kind indicates bad caller input, as
// opposed to an upstream failure.
func IsCallerError(k Kind) bool {
	switch k {
	case KindInvalidCoordinates, KindInvalidTimeRange, KindAmbiguousLocation:
		return true
	}
	return false
}
