package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name searched in the
// current and home directories.
const DefaultConfigFile = ".burpscan"

// xdgConfigFile is the file name inside the XDG config directory.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the structure of the YAML configuration file.
type File struct {
	ServerURL string     `yaml:"server_url,omitempty"`
	APIKey    string     `yaml:"api_key,omitempty"`
	Site      SiteConfig `yaml:"site,omitempty"`

	PollInterval   time.Duration  `yaml:"poll_interval,omitempty"`
	ScanTimeout    *time.Duration `yaml:"scan_timeout,omitempty"`
	RequestTimeout time.Duration  `yaml:"request_timeout,omitempty"`
	RateLimit      float64        `yaml:"rate_limit,omitempty"`
	Proxy          string         `yaml:"proxy,omitempty"`
	UserAgent      string         `yaml:"user_agent,omitempty"`
	LogLevel       string         `yaml:"log_level,omitempty"`

	Report ReportConfig `yaml:"report,omitempty"`
}

// ReportConfig selects the report written after the scan.
type ReportConfig struct {
	Format string `yaml:"format,omitempty"`
	Output string `yaml:"output,omitempty"`
}

// LoadConfigFile reads a YAML configuration file.
// It returns ErrConfigNotFound if the file does not exist.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &f, nil
}

// Apply overlays the non-zero values of f onto c.
func (f *File) Apply(c *Config) {
	if f.ServerURL != "" {
		c.ServerURL = f.ServerURL
	}
	if f.APIKey != "" {
		c.APIKey = f.APIKey
	}
	c.Site = c.Site.merge(f.Site)

	if f.PollInterval != 0 {
		c.PollInterval = f.PollInterval
	}
	if f.ScanTimeout != nil {
		c.ScanTimeout = *f.ScanTimeout
	}
	if f.RequestTimeout != 0 {
		c.RequestTimeout = f.RequestTimeout
	}
	if f.RateLimit != 0 {
		c.RateLimit = f.RateLimit
	}
	if f.Proxy != "" {
		c.Proxy = f.Proxy
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.Report.Format != "" {
		c.ReportFormat = f.Report.Format
	}
	if f.Report.Output != "" {
		c.ReportFile = f.Report.Output
	}
}

// FindConfigFile searches for the configuration file in the following order:
//  1. configPath, if specified
//  2. .burpscan in the current directory
//  3. .burpscan in the user's home directory
//  4. config.yaml in the XDG config directory
//
// It returns "" if nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
