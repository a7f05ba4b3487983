package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// set via -ldflags at build time.
var (
	version = "dev"
	commit  = "dev"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the version of knot-exporter",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("knot-exporter %s (%s)\n", version, commit)
	},
}
