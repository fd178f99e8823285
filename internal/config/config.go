package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	burplog "github.com/nao1215/burpscan/internal/log"
	"github.com/nao1215/burpscan/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "burpscan"

	// GraphQLPath is appended to the server URL to form the API endpoint.
	GraphQLPath = "/graphql/v1"

	// DefaultPollInterval is the fixed delay between scan status polls.
	DefaultPollInterval = 60 * time.Second

	// DefaultScanTimeout bounds the wait for scan completion.
	// Zero disables the bound.
	DefaultScanTimeout = 24 * time.Hour

	// DefaultRequestTimeout applies to each GraphQL request.
	DefaultRequestTimeout = 2 * time.Minute

	// DefaultScanConfigurationID is the built-in "Lightweight" crawl and audit preset.
	DefaultScanConfigurationID = "13467384-a8c8-49f9-8d45-68e70e3e8776"

	// DefaultParentID places new sites at the root of the site tree.
	DefaultParentID = "0"

	// DefaultLogLevel keeps progress lines and the issue summary visible.
	DefaultLogLevel = "info"

	// DefaultUserAgent identifies burpscan to the scanner server.
	DefaultUserAgent = "burpscan/1.0 (+https://github.com/nao1215/burpscan)"
)

// Report formats accepted by ReportFormat.
const (
	ReportFormatText     = "text"
	ReportFormatJSON     = "json"
	ReportFormatMarkdown = "markdown"
)

// Config holds all configuration for one burpscan run.
// It is populated from the config file and CLI flags, then passed
// explicitly to the components that need it.
type Config struct {
	// ServerURL is the scanner base URL, "<scheme>://<host>" without a trailing slash.
	ServerURL string

	// APIKey is the bearer credential. It needs the create site and create
	// scan permissions.
	APIKey string

	// Site describes the site to register.
	Site SiteConfig

	// PollInterval is the delay between scan status polls.
	PollInterval time.Duration

	// ScanTimeout bounds the wait for completion. Zero waits indefinitely.
	ScanTimeout time.Duration

	// RequestTimeout is the timeout for each GraphQL request.
	RequestTimeout time.Duration

	// RateLimit caps outgoing requests per second. Zero disables the cap.
	RateLimit float64

	// Proxy is an optional proxy URL (http, https or socks5) used to reach the server.
	Proxy string

	// UserAgent is sent with each request.
	UserAgent string

	// ReportFormat selects the optional report written in addition to the
	// log-line summary: text, json or markdown.
	ReportFormat string

	// ReportFile is where the report is written. Empty means stdout.
	ReportFile string

	// Verbose enables debug logging, including GraphQL traces.
	Verbose bool

	// Quiet lowers logging to warnings and errors.
	Quiet bool

	// LogLevel is the minimum log level: debug, info, warn or error.
	// Verbose and Quiet take precedence over it.
	LogLevel string

	// LogJSON switches log output to JSON.
	LogJSON bool

	// DryRun validates configuration and prints the planned request
	// without contacting the server.
	DryRun bool

	// ConfigFilePath is the config file to load. Empty means search defaults.
	ConfigFilePath string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ParentID:             DefaultParentID,
			ProtocolOptions:      string(model.ProtocolUseHTTPAndHTTPS),
			ScanConfigurationIDs: []string{DefaultScanConfigurationID},
		},
		PollInterval:   DefaultPollInterval,
		ScanTimeout:    DefaultScanTimeout,
		RequestTimeout: DefaultRequestTimeout,
		UserAgent:      DefaultUserAgent,
		ReportFormat:   ReportFormatText,
		LogLevel:       DefaultLogLevel,
	}
}

// Endpoint returns the GraphQL endpoint URL.
func (c *Config) Endpoint() string {
	return strings.TrimRight(c.ServerURL, "/") + GraphQLPath
}

// BaseURL returns the server URL without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.ServerURL, "/")
}

// SiteSpec converts the site configuration into the model type.
func (c *Config) SiteSpec() model.SiteSpec {
	return model.SiteSpec{
		Name:                 c.Site.Name,
		ParentID:             c.Site.ParentID,
		StartURLs:            append([]string(nil), c.Site.StartURLs...),
		ProtocolOptions:      model.ProtocolOptions(c.Site.ProtocolOptions),
		ScanConfigurationIDs: append([]string(nil), c.Site.ScanConfigurationIDs...),
	}
}

// XDGConfigDir returns the XDG config directory for burpscan.
// On Linux: ~/.config/burpscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return ErrNoServerURL
	}
	if !isHTTPURL(c.ServerURL) {
		return ErrInvalidServerURL
	}

	// A dry run never reaches the server, so the key is optional.
	if c.APIKey == "" && !c.DryRun {
		return ErrNoAPIKey
	}

	if err := c.Site.Validate(); err != nil {
		return err
	}

	if c.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}
	if c.ScanTimeout < 0 {
		return ErrInvalidScanTimeout
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidRequestTimeout
	}
	if c.RateLimit < 0 {
		return ErrInvalidRateLimit
	}

	switch c.ReportFormat {
	case ReportFormatText, ReportFormatJSON, ReportFormatMarkdown:
	default:
		return ErrInvalidReportFormat
	}

	if c.Proxy != "" {
		u, err := url.Parse(c.Proxy)
		if err != nil || u.Host == "" {
			return ErrInvalidProxy
		}
		switch u.Scheme {
		case "http", "https", "socks5", "socks5h":
		default:
			return ErrInvalidProxy
		}
	}

	if _, err := burplog.ParseLevel(c.LogLevel); err != nil {
		return ErrInvalidLogLevel
	}

	if c.Verbose && c.Quiet {
		return ErrConflictingVerbosity
	}

	return nil
}

// isHTTPURL reports whether s is an absolute http(s) URL with a host.
func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
