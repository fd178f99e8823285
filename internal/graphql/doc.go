// Package graphql implements the transport used to talk to the scanner's
// GraphQL API.
//
// Every call is a POST of {"query", "variables"} to a single endpoint with a
// bearer credential. The body is parsed as JSON regardless of the HTTP
// status. A non-200 status becomes a *StatusError carrying the raw body.
// GraphQL-level "errors" entries in a 200 response are returned alongside
// the data and left for the caller to interpret.
package graphql
