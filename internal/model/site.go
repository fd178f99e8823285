package model

// ProtocolOptions controls which schemes the scanner may use for a site.
type ProtocolOptions string

const (
	// ProtocolUseHTTPAndHTTPS scans both schemes.
	ProtocolUseHTTPAndHTTPS ProtocolOptions = "USE_HTTP_AND_HTTPS"

	// ProtocolUseSpecified scans only the schemes given in the start URLs.
	ProtocolUseSpecified ProtocolOptions = "USE_SPECIFIED_PROTOCOLS"
)

// Valid reports whether p is a protocol option the scanner accepts.
func (p ProtocolOptions) Valid() bool {
	switch p {
	case ProtocolUseHTTPAndHTTPS, ProtocolUseSpecified:
		return true
	default:
		return false
	}
}

// SiteSpec describes a site to register on the scanner.
type SiteSpec struct {
	// Name is the display name shown in the scanner UI.
	Name string

	// ParentID is the folder the site is created in. "0" is the root.
	ParentID string

	// StartURLs are the URLs the crawl starts from. At least one is required.
	StartURLs []string

	// ProtocolOptions controls HTTP/HTTPS usage.
	ProtocolOptions ProtocolOptions

	// ScanConfigurationIDs reference scan configuration presets stored on the server.
	ScanConfigurationIDs []string
}

// Site is a site registered on the scanner.
// ID is assigned by the server and treated as opaque.
type Site struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
