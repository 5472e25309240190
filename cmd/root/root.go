// Package root contains the root command for the application
package root

import (
	"scanledger/internal/config"
	"scanledger/internal/extractor"
	"scanledger/internal/ledger"
	"scanledger/internal/rows"
	"scanledger/internal/segmenter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	CSVPath   string
	Note      string
	RulesFile string
	NoDedupe  bool
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg holds the resolved application configuration
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "scanledger",
		Short: "A CLI tool to turn receipt scans, voice transcripts and notes into CSV ledger records.",
		Long: `scanledger ingests recognition output (OCR JSON with positioned tokens,
speech transcripts or typed notes), reconstructs transaction segments,
extracts structured fields and appends them to a deduplicated CSV ledger.
Records with missing required fields are parked under a pending id and can
be completed with the clarify command.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to scanledger!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize and configure logging
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Invalid configuration: %v", err)
			}
			Cfg = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)

			// Set the configured logger for all pipeline packages
			rows.SetLogger(Log)
			segmenter.SetLogger(Log)
			extractor.SetLogger(Log)
			ledger.SetLogger(Log)

			applyFlagOverrides(cfg)
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.CSVPath, "csv", "c", "", "Ledger CSV file (overrides configured path)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Note, "note", "n", "", "Free-form note attached to every record")
	Cmd.PersistentFlags().StringVar(&SharedFlags.RulesFile, "rules", "", "YAML file overriding the segmentation keyword tables")
	Cmd.PersistentFlags().BoolVar(&SharedFlags.NoDedupe, "no-dedupe", false, "Insert records even when they duplicate an existing row")
}

func applyFlagOverrides(cfg *config.Config) {
	if SharedFlags.CSVPath != "" {
		cfg.Ledger.CSVPath = SharedFlags.CSVPath
	}
	if SharedFlags.RulesFile != "" {
		cfg.Segmenter.RulesFile = SharedFlags.RulesFile
	}
	if SharedFlags.NoDedupe {
		cfg.Ledger.Dedupe = false
	}
}
