// Package main provides the entry point for the burpscan CLI.
//
// burpscan registers a site on a Burp Suite Enterprise server, runs a scan
// against it, waits for the scan to finish and reports the issues found.
//
// Usage:
//
//	burpscan scan --server https://burp.example.com --name shop https://shop.example.com
//	burpscan init
//
// See --help for all available options.
package main

// main is the entry point for burpscan.
func main() {
	Execute()
}
