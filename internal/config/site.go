package config

import "github.com/nao1215/burpscan/internal/model"

// SiteConfig describes the site registered on the scanner.
type SiteConfig struct {
	// Name is the site name shown in the scanner UI.
	Name string `yaml:"name,omitempty"`

	// ParentID is the folder to create the site in.
	ParentID string `yaml:"parent_id,omitempty"`

	// StartURLs are the URLs the crawl starts from.
	StartURLs []string `yaml:"start_urls,omitempty"`

	// ProtocolOptions is USE_HTTP_AND_HTTPS or USE_SPECIFIED_PROTOCOLS.
	ProtocolOptions string `yaml:"protocol_options,omitempty"`

	// ScanConfigurationIDs reference scan configuration presets on the server.
	ScanConfigurationIDs []string `yaml:"scan_configuration_ids,omitempty"`

	// UniqueName appends a random suffix to Name so that repeated runs do
	// not collide with an existing site of the same name.
	UniqueName bool `yaml:"unique_name,omitempty"`
}

// Validate checks the site configuration.
func (s SiteConfig) Validate() error {
	if s.Name == "" {
		return ErrNoSiteName
	}
	if len(s.StartURLs) == 0 {
		return ErrNoStartURL
	}
	for _, u := range s.StartURLs {
		if !isHTTPURL(u) {
			return &InvalidStartURLError{URL: u}
		}
	}
	if !model.ProtocolOptions(s.ProtocolOptions).Valid() {
		return ErrInvalidProtocolOptions
	}
	if len(s.ScanConfigurationIDs) == 0 {
		return ErrNoScanConfiguration
	}
	return nil
}

// merge overlays non-zero fields of override onto s.
func (s SiteConfig) merge(override SiteConfig) SiteConfig {
	result := s
	if override.Name != "" {
		result.Name = override.Name
	}
	if override.ParentID != "" {
		result.ParentID = override.ParentID
	}
	if len(override.StartURLs) > 0 {
		result.StartURLs = override.StartURLs
	}
	if override.ProtocolOptions != "" {
		result.ProtocolOptions = override.ProtocolOptions
	}
	if len(override.ScanConfigurationIDs) > 0 {
		result.ScanConfigurationIDs = override.ScanConfigurationIDs
	}
	if override.UniqueName {
		result.UniqueName = true
	}
	return result
}
