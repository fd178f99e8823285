// Package model defines the data structures exchanged with the scanner API.
//
// This package contains the following main types:
//   - SiteSpec / Site: the scan target registered on the scanner server
//   - Scan: a scheduled scan run and its status
//   - Issue: a single finding reported by the scanner
//   - IssueGroup: issues grouped by severity for reporting
//   - ScanRun: the accumulated state of one register-scan-report run
//
// All values are transient. They live for one process run and are never
// persisted locally.
package model
