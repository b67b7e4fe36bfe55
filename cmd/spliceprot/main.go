// Package main provides the spliceprot command-line tool: it classifies
// alternative 5' splice site events from junction quantification tables
// and integrates the resulting protein segments into reference isoforms.
package main

import (
	"fmt"
	"os"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
