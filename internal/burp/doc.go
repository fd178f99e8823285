// Package burp drives a scan through the scanner's GraphQL API.
//
// Client wraps the individual operations: registering a site, scheduling
// a scan and resolving it to a scan ID, reading a scan's status, and
// fetching its issues. Waiter polls a scan's status until it reaches a
// terminal state.
//
// Errors fall into two classes. Failures the server reported explicitly
// (a non-200 status, a failed or cancelled scan) match ErrRemoteFailure.
// Responses that do not have the expected shape match ErrMalformedResponse.
package burp
