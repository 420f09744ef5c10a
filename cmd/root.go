// Package cmd provides CLI commands for authorship.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	verbose   bool
	tablesDir string
)

func setupLogger(debug bool) {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}
	if debug {
		logLevel = "DEBUG"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "authorship",
	Short: "Extract authors, affiliations and clean text from scholarly metadata",
	Long: `Authorship classifies author strings, resolves contributor affiliations
and contact details, and sanitizes the markup and character entities of
scholarly metadata records.

Examples:
  authorship name "The Planck Collaboration: White, Martin"
  authorship parse article.xml --to json
  authorship parse records/*.xml --to xlsx -o authors.xlsx --jobs 8
  authorship detag --field title "H<sub>2</sub>O <b>ice</b>"
  authorship entities --mode ascii "Garc&iacute;a"
  authorship validate article.xml --strict`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			setupLogger(true)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	setupLogger(false)
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log at debug level")
	rootCmd.PersistentFlags().StringVar(&tablesDir, "tables-dir", "", "Directory of lookup tables (default: embedded tables)")

	rootCmd.AddCommand(nameCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(detagCmd)
	rootCmd.AddCommand(entitiesCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(formatsCmd)
}
