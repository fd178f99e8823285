// Package log provides the slog setup used by burpscan.
//
// Logging is built on the standard slog package. SecureHandler wraps any
// slog.Handler and masks sensitive values before they reach the output:
//   - attributes whose key names a credential (authorization, api_key, token, ...)
//   - values shaped like bearer or basic credentials, or JWTs
//   - any occurrence of an explicitly registered secret, such as the
//     scanner API key, inside a longer value
//
// The last rule matters for GraphQL traces: request headers and raw bodies
// are logged at debug level and must never leak the API key.
//
// # Usage
//
//	logger := log.New(os.Stderr, log.Options{
//	    Level:   slog.LevelDebug,
//	    Secrets: []string{cfg.APIKey},
//	})
//	slog.SetDefault(logger)
package log
