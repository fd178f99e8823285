// Package pipeline runs a scan as a fixed sequence of steps.
//
// A run registers the site, launches the scan, waits for it to finish and
// fetches its issues. Each step is a Step that reads and fills in the
// shared model.ScanRun. The pipeline stops at the first failing step.
package pipeline
