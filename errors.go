package hooksink

import "errors"

// ErrNoStore is returned when a Receiver is created without a store.
var ErrNoStore = errors.New("hooksink: store is required")

// ErrStoreClosed is returned when a store operation is attempted after the
// store is closed.
var ErrStoreClosed = errors.New("hooksink: store is closed")

// Code is the machine-readable failure class surfaced to dispatch callers.
// Every failure in normal operation carries exactly one Code; callers correct
// their input and retry, or surface the code to a human.
type Code string

// Code constants for all receiver failures.
const (
	CodeInvalidAction     Code = "INVALID_ACTION"
	CodeMissingEndpointID Code = "MISSING_ENDPOINT_ID"
	CodeInvalidEndpointID Code = "INVALID_ENDPOINT_ID"
	CodeDuplicateEndpoint Code = "DUPLICATE_ENDPOINT"
	CodeEndpointNotFound  Code = "ENDPOINT_NOT_FOUND"
	CodeMissingPayload    Code = "MISSING_PAYLOAD"
	CodeInvalidSignature  Code = "INVALID_SIGNATURE"
	CodeRateLimited       Code = "RATE_LIMITED"
	CodeInvalidPayload    Code = "INVALID_PAYLOAD"
)

// Error is a coded, locally recoverable failure. Two Errors match under
// errors.Is when their codes match, so wrapped instances still compare
// equal to the sentinels below.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "hooksink: " + e.Message
}

// Is reports whether target is an *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NotFound reports whether the error identifies a missing endpoint. It lets
// packages below the root detect the condition by interface assertion
// without importing the sentinels.
func (e *Error) NotFound() bool {
	return e.Code == CodeEndpointNotFound
}

// Sentinel errors returned by Receiver and Dispatcher operations.
var (
	// ErrInvalidAction is returned for an unrecognized or missing action tag.
	ErrInvalidAction = &Error{Code: CodeInvalidAction, Message: "unrecognized or missing action"}

	// ErrMissingEndpointID is returned when an operation requires an endpoint id and none was given.
	ErrMissingEndpointID = &Error{Code: CodeMissingEndpointID, Message: "endpoint id is required"}

	// ErrInvalidEndpointID is returned when an endpoint id contains disallowed characters.
	ErrInvalidEndpointID = &Error{Code: CodeInvalidEndpointID, Message: "endpoint id must contain only letters, digits, and hyphens"}

	// ErrDuplicateEndpoint is returned when registering an id that already exists.
	ErrDuplicateEndpoint = &Error{Code: CodeDuplicateEndpoint, Message: "endpoint id already registered"}

	// ErrEndpointNotFound is returned when an operation references an unknown endpoint.
	ErrEndpointNotFound = &Error{Code: CodeEndpointNotFound, Message: "endpoint not found"}

	// ErrMissingPayload is returned when receive is called without a body.
	ErrMissingPayload = &Error{Code: CodeMissingPayload, Message: "payload body is required"}

	// ErrInvalidSignature is returned when a secret is configured and the
	// signature header is absent or does not match the body.
	ErrInvalidSignature = &Error{Code: CodeInvalidSignature, Message: "signature missing or mismatched"}

	// ErrRateLimited is returned when an endpoint's receive rate limit is exceeded.
	ErrRateLimited = &Error{Code: CodeRateLimited, Message: "endpoint receive rate exceeded"}

	// ErrInvalidPayload is returned when a body cannot be canonicalized or
	// fails the endpoint's schema validation.
	ErrInvalidPayload = &Error{Code: CodeInvalidPayload, Message: "payload body rejected"}
)

// CodeOf extracts the failure code from err. The second return is false when
// err carries no code (internal faults from a backing store, for example).
func CodeOf(err error) (Code, bool) {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code, true
	}
	return "", false
}
