// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sitelink/internal/config"
	"sitelink/internal/history"
	"sitelink/internal/logging"
	"sitelink/internal/siteparser"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagConfig        string
	flagTenant        string
	flagOutput        string
	flagAllowEmptyIDs bool
	flagNoHistory     bool
	flagDebug         bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

// logger is built from cfg once the configuration is loaded.
var logger = zerolog.Nop()

var rootCmd = &cobra.Command{
	Use:   "sitelink [url...]",
	Short: "Resolve BI tool links to catalog lookups",
	Long: `Sitelink reads links to Mode, Sigma and QuickSight assets and prints the
catalog facets that identify the referenced collection, report, workbook,
dashboard or dataset.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return parseRun(cmd, args)
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sitelink %s\n", Version)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: $XDG_CONFIG_HOME/sitelink/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagTenant, "tenant", "", "Tenant prefix for qualified names")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output format: auto | json | yaml | pretty")
	rootCmd.PersistentFlags().BoolVar(&flagAllowEmptyIDs, "allow-empty-ids", false, "Build facets even when an identifier is empty")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Do not record resolved links")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	addParseFlags(rootCmd)

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(vendorsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig, true)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagTenant != "" {
		cfg.Tenant = flagTenant
	}
	if flagOutput != "" {
		cfg.Output = flagOutput
	}
	if cmd.Flags().Changed("allow-empty-ids") {
		cfg.AllowEmptyIDs = flagAllowEmptyIDs
	}
	if flagNoHistory {
		cfg.History = false
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err = logging.New(cfg.Log, cfg.Debug)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	return nil
}

// parserOptions maps the configuration onto site parser options.
func parserOptions() siteparser.Options {
	return siteparser.Options{
		Tenant:        cfg.Tenant,
		AllowEmptyIDs: cfg.AllowEmptyIDs,
	}
}

// openHistory opens the history store, or returns nil when history is off.
func openHistory() (*history.Store, error) {
	if !cfg.History {
		return nil, nil
	}
	path, err := cfg.ResolveHistoryPath()
	if err != nil {
		return nil, err
	}
	return history.Open(path, logger)
}
