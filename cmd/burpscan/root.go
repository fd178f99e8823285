package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// reportedError wraps an error that has already been logged.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// NewRootCmd creates the root command for burpscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "burpscan",
		Short: "Run Burp Suite Enterprise scans from the command line",
		Long: `burpscan drives a Burp Suite Enterprise server through its GraphQL API.

A scan run creates a site for the target URLs, schedules a scan, waits for
it to finish and prints the issues grouped by severity. The process exits
with status 1 if any step fails or the scan ends as failed or cancelled.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging (includes GraphQL traces)")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
