package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nao1215/burpscan/internal/burp"
	"github.com/nao1215/burpscan/internal/config"
	"github.com/nao1215/burpscan/internal/graphql"
	burplog "github.com/nao1215/burpscan/internal/log"
	"github.com/nao1215/burpscan/internal/model"
	"github.com/nao1215/burpscan/internal/pipeline"
	"github.com/nao1215/burpscan/internal/report"
	"github.com/spf13/cobra"
)

// apiKeyEnv is read when no API key is given on the command line.
const apiKeyEnv = "BURPSCAN_API_KEY"

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [start-url...]",
		Short: "Create a site, scan it and report the issues",
		Long: `Scan registers a site on the Burp Suite Enterprise server, starts a scan,
waits for it to finish and logs the issues grouped by severity.

Positional arguments are the start URLs of the site. They replace any
start_urls from the configuration file.

The API key is taken from --api-key, then the BURPSCAN_API_KEY environment
variable, then the configuration file.

Examples:
  # Scan one application
  burpscan scan --server https://burp.example.com --name shop https://shop.example.com

  # Use settings from a configuration file
  burpscan scan -c scan.yaml

  # Write a Markdown report next to the log output
  burpscan scan -c scan.yaml --format markdown -o reports/shop.md

  # Print the site that would be created without contacting the server
  burpscan scan -c scan.yaml --dry-run`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Server flags
	cmd.Flags().StringP("server", "s", "",
		"Burp Suite Enterprise base URL (e.g., https://burp.example.com)")
	cmd.Flags().String("api-key", "",
		"API key with create site and create scan permissions (prefer "+apiKeyEnv+")")
	cmd.Flags().String("proxy", "",
		"Proxy URL for reaching the server (http, https or socks5)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent to the server")
	cmd.Flags().Float64("rate-limit", 0,
		"Maximum GraphQL requests per second (0 disables the limit)")
	cmd.Flags().Duration("request-timeout", config.DefaultRequestTimeout,
		"Timeout for each GraphQL request")

	// Site flags
	cmd.Flags().StringP("name", "n", "",
		"Site name shown in Burp")
	cmd.Flags().String("parent-id", config.DefaultParentID,
		"Folder ID the site is created in")
	cmd.Flags().String("protocol-options", string(model.ProtocolUseHTTPAndHTTPS),
		"USE_HTTP_AND_HTTPS or USE_SPECIFIED_PROTOCOLS")
	cmd.Flags().StringSlice("scan-config", []string{config.DefaultScanConfigurationID},
		"Scan configuration ID (repeatable)")
	cmd.Flags().Bool("unique-name", false,
		"Append a random suffix to the site name")

	// Wait flags
	cmd.Flags().Duration("poll-interval", config.DefaultPollInterval,
		"Delay between scan status checks")
	cmd.Flags().Duration("scan-timeout", config.DefaultScanTimeout,
		"Give up waiting for the scan after this long (0 waits indefinitely)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .burpscan in current or home directory)")

	// Output flags
	cmd.Flags().StringP("format", "f", config.ReportFormatText,
		"Report format: text, json or markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to the specified file path (creates directories if needed)")
	cmd.Flags().BoolP("quiet", "q", false,
		"Only log warnings and errors")
	cmd.Flags().String("log-level", config.DefaultLogLevel,
		"Minimum log level: debug, info, warn or error")
	cmd.Flags().Bool("log-json", false,
		"Write logs as JSON")
	cmd.Flags().Bool("dry-run", false,
		"Validate the configuration and print the site input without contacting the server")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	if cfg.DryRun {
		return printDryRun(cmd.OutOrStdout(), cfg)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := runScan(ctx, cfg, logger, cmd.OutOrStdout()); err != nil {
		logger.Error("Fatal error - exiting: " + err.Error())
		return &reportedError{err: err}
	}
	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	if cmd.Flags().Lookup("verbose") != nil {
		if v, err := cmd.Flags().GetBool("verbose"); err == nil {
			return v
		}
	}
	if cmd.Root().PersistentFlags().Lookup("verbose") != nil {
		if v, err := cmd.Root().PersistentFlags().GetBool("verbose"); err == nil {
			return v
		}
	}
	return false
}

// buildConfig assembles the configuration from defaults, the config file,
// the environment and flags, in increasing order of precedence.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named config file must exist; the default locations
	// are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		f, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		f.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if key := os.Getenv(apiKeyEnv); key != "" {
		cfg.APIKey = key
	}

	flags := cmd.Flags()
	err = errors.Join(
		stringFlag(cmd, "server", &cfg.ServerURL),
		stringFlag(cmd, "api-key", &cfg.APIKey),
		stringFlag(cmd, "proxy", &cfg.Proxy),
		stringFlag(cmd, "user-agent", &cfg.UserAgent),
		float64Flag(cmd, "rate-limit", &cfg.RateLimit),
		durationFlag(cmd, "request-timeout", &cfg.RequestTimeout),
		stringFlag(cmd, "name", &cfg.Site.Name),
		stringFlag(cmd, "parent-id", &cfg.Site.ParentID),
		stringFlag(cmd, "protocol-options", &cfg.Site.ProtocolOptions),
		stringSliceFlag(cmd, "scan-config", &cfg.Site.ScanConfigurationIDs),
		boolFlag(cmd, "unique-name", &cfg.Site.UniqueName),
		durationFlag(cmd, "poll-interval", &cfg.PollInterval),
		durationFlag(cmd, "scan-timeout", &cfg.ScanTimeout),
		stringFlag(cmd, "format", &cfg.ReportFormat),
		stringFlag(cmd, "output", &cfg.ReportFile),
		stringFlag(cmd, "log-level", &cfg.LogLevel),
	)
	if err != nil {
		return nil, err
	}

	if cfg.Quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return nil, err
	}
	if cfg.DryRun, err = flags.GetBool("dry-run"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if len(args) > 0 {
		cfg.Site.StartURLs = args
	}

	return cfg, nil
}

// The helpers below copy a flag into dst only when it was set explicitly,
// so unset flags do not mask config file values.

func stringFlag(cmd *cobra.Command, name string, dst *string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err == nil {
		*dst = v
	}
	return err
}

func stringSliceFlag(cmd *cobra.Command, name string, dst *[]string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetStringSlice(name)
	if err == nil {
		*dst = v
	}
	return err
}

func boolFlag(cmd *cobra.Command, name string, dst *bool) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err == nil {
		*dst = v
	}
	return err
}

func float64Flag(cmd *cobra.Command, name string, dst *float64) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetFloat64(name)
	if err == nil {
		*dst = v
	}
	return err
}

func durationFlag(cmd *cobra.Command, name string, dst *time.Duration) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetDuration(name)
	if err == nil {
		*dst = v
	}
	return err
}

// setupLogger creates the redacting logger for a run.
// Progress and results are logged at info; --verbose adds GraphQL traces.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level, err := burplog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	switch {
	case cfg.Verbose:
		level = slog.LevelDebug
	case cfg.Quiet:
		level = slog.LevelWarn
	}

	return burplog.New(w, burplog.Options{
		Level:   level,
		JSON:    cfg.LogJSON,
		Secrets: []string{cfg.APIKey},
	})
}

// siteSpec returns the site to create, with a unique suffix if requested.
func siteSpec(cfg *config.Config) model.SiteSpec {
	spec := cfg.SiteSpec()
	if cfg.Site.UniqueName {
		spec.Name = burp.UniqueSiteName(spec.Name)
	}
	return spec
}

// dryRunPlan is printed by --dry-run.
type dryRunPlan struct {
	Endpoint  string         `json:"endpoint"`
	Operation string         `json:"operation"`
	Variables map[string]any `json:"variables"`
}

// printDryRun writes the CreateSite request that a real run would send.
func printDryRun(w io.Writer, cfg *config.Config) error {
	plan := dryRunPlan{
		Endpoint:  cfg.Endpoint(),
		Operation: "CreateSite",
		Variables: map[string]any{"input": burp.SiteInput(siteSpec(cfg))},
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// runScan executes one scan run against the server.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	gql, err := graphql.NewClient(cfg.Endpoint(), cfg.APIKey,
		graphql.WithLogger(logger),
		graphql.WithTimeout(cfg.RequestTimeout),
		graphql.WithRateLimit(cfg.RateLimit),
		graphql.WithProxy(cfg.Proxy),
		graphql.WithUserAgent(cfg.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("failed to create GraphQL client: %w", err)
	}

	client := burp.NewClient(gql, burp.WithLogger(logger))
	waiter := burp.NewWaiter(client,
		burp.WithPollInterval(cfg.PollInterval),
		burp.WithTimeout(cfg.ScanTimeout),
		burp.WithWaiterLogger(logger),
	)

	run := model.NewScanRun(cfg.BaseURL(), siteSpec(cfg))

	if err := pipeline.NewScanPipeline(client, waiter, logger).Execute(ctx, run); err != nil {
		return err
	}

	report.NewLogWriter(logger).Log(ctx, run.Issues)

	counts := run.Counts()
	logger.Info("scan run finished",
		"site_id", run.Site.ID,
		"schedule_item_id", run.Scan.ScheduleItemID,
		"scan_id", run.Scan.ID,
		"status", string(run.Scan.Status),
		"issues", counts.Total(),
		"high", counts.High,
		"medium", counts.Medium,
		"low", counts.Low,
		"info", counts.Info,
		"elapsed", run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String(),
	)

	return outputReport(cfg, run, out)
}

// outputReport writes the optional report document.
// A text report is only written when an output file is given, since the
// issues have already been logged.
func outputReport(cfg *config.Config, run *model.ScanRun, stdout io.Writer) error {
	if cfg.ReportFile == "" && cfg.ReportFormat == config.ReportFormatText {
		return nil
	}

	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports list vulnerable paths, so keep them owner-readable only.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	w, err := report.NewWriter(cfg.ReportFormat, output, getVersion())
	if err != nil {
		return err
	}
	if _, err := w.Write(run); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
