package graphql

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedResponse is returned when a 200 response body is not a
	// GraphQL JSON document.
	ErrMalformedResponse = errors.New("malformed GraphQL response")

	// ErrNoEndpoint is returned by NewClient when no endpoint is given.
	ErrNoEndpoint = errors.New("GraphQL endpoint is required")

	// ErrUnsupportedProxy is returned for proxy URLs with an unknown scheme.
	ErrUnsupportedProxy = errors.New("unsupported proxy scheme")

	// ErrRemoteFailure marks failures the server reported explicitly,
	// as opposed to responses that could not be understood.
	ErrRemoteFailure = errors.New("remote failure")
)

// StatusError is returned when the server answers with a status other than 200.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GraphQL query failed with status code: %d and body %s", e.StatusCode, e.Body)
}

// Is reports whether target is ErrRemoteFailure.
func (e *StatusError) Is(target error) bool {
	return target == ErrRemoteFailure
}

// Error is one entry of the GraphQL "errors" array.
type Error struct {
	Message   string     `json:"message"`
	Path      []any      `json:"path,omitempty"`
	Locations []Location `json:"locations,omitempty"`
}

// Location points into the query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Errors joins the messages of a GraphQL errors array.
type Errors []Error

// String returns the messages separated by "; ".
func (errs Errors) String() string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}
