// Package main provides the entry point for the depsentry CLI tool.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/brackwater-io/depsentry/cmd/depsentry/commands"
	"github.com/brackwater-io/depsentry/pkg/observability"
	"github.com/brackwater-io/depsentry/pkg/version"
)

var (
	verbose bool
	quiet   bool
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "depsentry",
		Short: "depsentry - dependency health analyzer",
		Long: `depsentry evaluates a project's lock-file dependencies against
configurable health policies (release cadence, contributor concentration,
issue and pull-request lifespan) and reports the results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogging()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(commands.NewScanCommand())
	rootCmd.AddCommand(commands.NewConfigShowCommand())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging installs a trace-aware slog handler as the process default,
// with the level driven by --verbose/--quiet.
func setupLogging() {
	level := slog.LevelInfo

	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}

	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(observability.NewTracingHandler(textHandler, "depsentry", os.Getenv("DEPSENTRY_ENV"))))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "depsentry %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
