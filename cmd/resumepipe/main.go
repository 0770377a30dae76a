// Command resumepipe drives the resume labeling pipeline: CSV ingest, batch
// generation, interactive labeling, the read-only API, and training export.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:           "resumepipe",
	Short:         "Resume generation and labeling pipeline",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(
		labelCmd,
		generateCmd,
		serveCmd,
		migrateCmd,
		uploadCmd,
		statsCmd,
		finetuneExportCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
