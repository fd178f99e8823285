package config

import (
	"errors"
	"fmt"
)

// Configuration validation errors returned by Config.Validate.
// Callers match them with errors.Is.
var (
	// ErrNoServerURL is returned when the scanner URL is missing.
	ErrNoServerURL = errors.New("no server URL specified: set server_url or use --server")

	// ErrInvalidServerURL is returned when the scanner URL is not an absolute http(s) URL.
	ErrInvalidServerURL = errors.New("invalid server URL: expected <scheme>://<host>")

	// ErrNoAPIKey is returned when no API key is configured.
	ErrNoAPIKey = errors.New("no API key specified: set api_key or use --api-key")

	// ErrNoSiteName is returned when the site name is empty.
	ErrNoSiteName = errors.New("no site name specified: set site.name or use --name")

	// ErrNoStartURL is returned when the site has no start URL.
	ErrNoStartURL = errors.New("no start URL specified: pass at least one URL to scan")

	// ErrInvalidStartURL is matched by InvalidStartURLError.
	ErrInvalidStartURL = errors.New("invalid start URL")

	// ErrInvalidProtocolOptions is returned for an unknown protocol option.
	ErrInvalidProtocolOptions = errors.New("invalid protocol options: must be USE_HTTP_AND_HTTPS or USE_SPECIFIED_PROTOCOLS")

	// ErrNoScanConfiguration is returned when no scan configuration ID is set.
	ErrNoScanConfiguration = errors.New("no scan configuration ID specified")

	// ErrInvalidPollInterval is returned when the poll interval is not positive.
	ErrInvalidPollInterval = errors.New("invalid poll interval: must be positive")

	// ErrInvalidScanTimeout is returned when the scan timeout is negative.
	ErrInvalidScanTimeout = errors.New("invalid scan timeout: must be non-negative (0 disables the limit)")

	// ErrInvalidRequestTimeout is returned when the request timeout is not positive.
	ErrInvalidRequestTimeout = errors.New("invalid request timeout: must be positive")

	// ErrInvalidRateLimit is returned when the rate limit is negative.
	ErrInvalidRateLimit = errors.New("invalid rate limit: must be non-negative")

	// ErrInvalidLogLevel is returned for an unknown log level name.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn or error")

	// ErrInvalidReportFormat is returned for an unknown report format.
	ErrInvalidReportFormat = errors.New("invalid report format: must be text, json or markdown")

	// ErrInvalidProxy is returned when the proxy is not an http, https or socks5 URL.
	ErrInvalidProxy = errors.New("invalid proxy: expected http://, https:// or socks5:// URL")

	// ErrConflictingVerbosity is returned when both --verbose and --quiet are set.
	ErrConflictingVerbosity = errors.New("conflicting log levels: --verbose and --quiet cannot be used together")
)

// InvalidStartURLError reports a start URL that is not an absolute http(s) URL.
type InvalidStartURLError struct {
	URL string
}

// Error implements error.
func (e *InvalidStartURLError) Error() string {
	return fmt.Sprintf("invalid start URL %q: expected absolute http or https URL", e.URL)
}

// Is makes errors.Is(err, ErrInvalidStartURL) succeed.
func (e *InvalidStartURLError) Is(target error) bool {
	return target == ErrInvalidStartURL
}
