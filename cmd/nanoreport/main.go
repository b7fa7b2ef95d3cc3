// Command nanoreport edits report documents kept as JSON or YAML files.
// Build with: go build -o bin/nanoreport ./cmd/nanoreport
// Usage: nanoreport <command> [options]
package main

import (
	"fmt"
	"os"
)

func main() {
	cli := NewReportCLI()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
