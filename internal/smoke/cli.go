package smoke

import "os"

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Lumina Storefront Smoke Tool
============================

Checks a running storefront against the catalog it serves: generated
searches, every category filter and one browsing session.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the storefront (default "http://localhost:9080")
  -queries int
        Number of search queries to generate (default 2000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -rate float
        Requests per second, 0 for unlimited (default 150)
  -timeout duration
        HTTP request timeout (default 10s)
  -catalog string
        Catalog file the server was started with (default: embedded)
  -seed uint
        Query generator seed (default: current time)
  -verbose
        Log every failed check
  -help
        Show this help message

Examples:
  # Check a local server
  go run ./cmd/smoke

  # Heavier run against a custom catalog
  go run ./cmd/smoke -queries 20000 -workers 16 -catalog ./catalog.yaml
`)
}
