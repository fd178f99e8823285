package burp

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nao1215/burpscan/internal/graphql"
	"github.com/nao1215/burpscan/internal/model"
)

// Doer sends a GraphQL request. *graphql.Client implements it.
type Doer interface {
	Do(ctx context.Context, query string, variables map[string]any) (*graphql.Response, error)
}

// Client performs scanner operations over GraphQL.
type Client struct {
	gql    Doer
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger for progress messages.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client that sends requests through gql.
func NewClient(gql Doer, opts ...ClientOption) *Client {
	c := &Client{
		gql:    gql,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SiteInput builds the CreateSiteInput variables for spec.
func SiteInput(spec model.SiteSpec) map[string]any {
	startURLs := spec.StartURLs
	if startURLs == nil {
		startURLs = []string{}
	}
	configIDs := spec.ScanConfigurationIDs
	if configIDs == nil {
		configIDs = []string{}
	}

	return map[string]any{
		"name":      spec.Name,
		"parent_id": spec.ParentID,
		"scope_v2": map[string]any{
			"start_urls":       startURLs,
			"protocol_options": string(spec.ProtocolOptions),
		},
		"confirm_permission_to_scan": true,
		"scan_configuration_ids":     configIDs,
		"application_logins":         map[string]any{},
	}
}

// CreateSite registers a site and returns it with its server-assigned ID.
func (c *Client) CreateSite(ctx context.Context, spec model.SiteSpec) (*model.Site, error) {
	const op = "CreateSite"

	c.logger.InfoContext(ctx, "creating site", "name", spec.Name)

	resp, err := c.gql.Do(ctx, createSiteMutation, map[string]any{"input": SiteInput(spec)})
	if err != nil {
		return nil, err
	}

	id, err := stringField(resp, op, "create_site", "site", "id")
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "site created", "site_id", id)

	return &model.Site{ID: id, Name: spec.Name}, nil
}

// ScheduleScan creates a schedule item for siteID and returns its ID.
func (c *Client) ScheduleScan(ctx context.Context, siteID string) (string, error) {
	const op = "StartScan"

	c.logger.InfoContext(ctx, "starting scan", "site_id", siteID)

	vars := map[string]any{
		"input": map[string]any{
			"site_id":       siteID,
			"verbose_debug": nil,
		},
	}

	resp, err := c.gql.Do(ctx, createScheduleItemMutation, vars)
	if err != nil {
		return "", err
	}

	return stringField(resp, op, "create_schedule_item", "schedule_item", "id")
}

// FindScanBySchedule returns the ID of the scan created for a schedule item.
// An empty scan list yields a *MalformedResponseError wrapping
// ErrNoScanForSchedule. The lookup is not retried.
func (c *Client) FindScanBySchedule(ctx context.Context, scheduleItemID string) (string, error) {
	const op = "GetScan"

	resp, err := c.gql.Do(ctx, scanByScheduleItemQuery, map[string]any{"schedule_item_id": scheduleItemID})
	if err != nil {
		return "", err
	}

	v, err := field(resp, op, "scans")
	if err != nil {
		return "", err
	}
	scans, ok := v.([]any)
	if !ok {
		return "", malformed(resp, op, "scans", nil)
	}
	if len(scans) == 0 {
		return "", malformed(resp, op, "scans.0.id", ErrNoScanForSchedule)
	}

	return stringField(resp, op, "scans", "0", "id")
}

// LaunchScan schedules a scan for siteID and resolves it to a scan.
func (c *Client) LaunchScan(ctx context.Context, siteID string) (*model.Scan, error) {
	scheduleItemID, err := c.ScheduleScan(ctx, siteID)
	if err != nil {
		return nil, err
	}

	scanID, err := c.FindScanBySchedule(ctx, scheduleItemID)
	if err != nil {
		return nil, err
	}

	return &model.Scan{ID: scanID, ScheduleItemID: scheduleItemID}, nil
}

// ScanStatus fetches the current status of a scan. Every call issues a
// fresh request.
func (c *Client) ScanStatus(ctx context.Context, scanID string) (model.ScanStatus, error) {
	const op = "GetScan"

	resp, err := c.gql.Do(ctx, scanStatusQuery, map[string]any{"id": scanID})
	if err != nil {
		return "", err
	}

	v, err := field(resp, op, "scan", "status")
	if err != nil {
		return "", err
	}
	status, ok := v.(string)
	if !ok {
		return "", malformed(resp, op, "scan.status", nil)
	}

	return model.ScanStatus(status), nil
}

// ScanIssues fetches every issue of a scan in a single request.
func (c *Client) ScanIssues(ctx context.Context, scanID string) ([]model.Issue, error) {
	const op = "GetScan"

	c.logger.InfoContext(ctx, "fetching scan results", "scan_id", scanID)

	resp, err := c.gql.Do(ctx, scanIssuesQuery, map[string]any{"id": scanID})
	if err != nil {
		return nil, err
	}

	v, err := field(resp, op, "scan", "issues")
	if err != nil {
		return nil, err
	}
	if _, ok := v.([]any); !ok {
		return nil, malformed(resp, op, "scan.issues", nil)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, malformed(resp, op, "scan.issues", err)
	}

	issues := make([]model.Issue, 0)
	if err := json.Unmarshal(raw, &issues); err != nil {
		return nil, malformed(resp, op, "scan.issues", err)
	}

	return issues, nil
}

// field walks resp.Data along path. Numeric segments index into arrays.
// A missing or null field yields a *MalformedResponseError.
func field(resp *graphql.Response, op string, path ...string) (any, error) {
	var cur any
	if len(resp.Data) > 0 {
		dec := json.NewDecoder(bytes.NewReader(resp.Data))
		dec.UseNumber()
		if err := dec.Decode(&cur); err != nil {
			return nil, malformed(resp, op, "", err)
		}
	}

	for i, seg := range path {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[seg]
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				cur = nil
			} else {
				cur = node[idx]
			}
		default:
			cur = nil
		}
		if cur == nil {
			return nil, malformed(resp, op, strings.Join(path[:i+1], "."), nil)
		}
	}

	return cur, nil
}

// stringField returns an ID-like field as a string. Numeric IDs are
// accepted and converted unchanged.
func stringField(resp *graphql.Response, op string, path ...string) (string, error) {
	v, err := field(resp, op, path...)
	if err != nil {
		return "", err
	}

	switch id := v.(type) {
	case string:
		return id, nil
	case json.Number:
		return id.String(), nil
	default:
		return "", malformed(resp, op, strings.Join(path, "."), nil)
	}
}

func malformed(resp *graphql.Response, op, path string, cause error) *MalformedResponseError {
	fieldPath := "data"
	if path != "" {
		fieldPath += "." + path
	}
	return &MalformedResponseError{
		Operation:     op,
		Field:         fieldPath,
		GraphQLErrors: resp.Errors,
		Err:           cause,
	}
}
