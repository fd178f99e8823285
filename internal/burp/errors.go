package burp

import (
	"errors"
	"fmt"

	"github.com/nao1215/burpscan/internal/graphql"
	"github.com/nao1215/burpscan/internal/model"
)

var (
	// ErrRemoteFailure matches failures the server reported explicitly:
	// *graphql.StatusError and *ScanFailedError.
	ErrRemoteFailure = graphql.ErrRemoteFailure

	// ErrMalformedResponse matches responses missing an expected field.
	ErrMalformedResponse = graphql.ErrMalformedResponse

	// ErrNoScanForSchedule is returned when the scan list for a schedule
	// item is empty. The scanner may not have created the scan yet.
	ErrNoScanForSchedule = errors.New("no scan found for schedule item")

	// ErrWaitTimeout is returned when a scan does not finish within the
	// configured timeout.
	ErrWaitTimeout = errors.New("timed out waiting for scan to complete")
)

// MalformedResponseError reports a response that lacks an expected field.
type MalformedResponseError struct {
	// Operation is the GraphQL operation that returned the response.
	Operation string

	// Field is the dotted path of the missing or mistyped field.
	Field string

	// GraphQLErrors are the errors the server sent with the response, if any.
	GraphQLErrors graphql.Errors

	// Err is an optional more specific cause such as ErrNoScanForSchedule.
	Err error
}

// Error implements error.
func (e *MalformedResponseError) Error() string {
	msg := fmt.Sprintf("%s: unexpected response: missing %s", e.Operation, e.Field)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if len(e.GraphQLErrors) > 0 {
		msg += " (server errors: " + e.GraphQLErrors.String() + ")"
	}
	return msg
}

// Is reports whether target is ErrMalformedResponse.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// Unwrap returns the specific cause.
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// ScanFailedError is returned when a scan ends as failed or cancelled.
type ScanFailedError struct {
	ScanID string
	Status model.ScanStatus
}

// Error implements error.
func (e *ScanFailedError) Error() string {
	return fmt.Sprintf("Scan finished with status %s", e.Status)
}

// Is reports whether target is ErrRemoteFailure.
func (e *ScanFailedError) Is(target error) bool {
	return target == ErrRemoteFailure
}
