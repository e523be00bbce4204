// Package main provides the CLI entry point for compliance-go.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/compliance-go/internal/config"
	"github.com/ukaji3/compliance-go/internal/logging"
	"github.com/ukaji3/compliance-go/pkg/compliance"
)

var (
	// Global flags
	configPath string
	verbose    bool
	logFormat  string
	firstSheet int

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Parse land-survey compliance checklists",
	Long: `compliance-go reads district checklist workbooks (xlsx or CSV), where each
sheet is a district and each column a village, and reports per-village
completion of the 9(2) and 13 compliance sections.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if firstSheet >= 0 {
			cfg.Parse.FirstSheetIndex = firstSheet
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		format := cfg.Log.Format
		if logFormat != "" {
			format = logFormat
		}
		logger, err = logging.New(level, format)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "compliance.yaml", "Config file (.yaml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: json or console")
	rootCmd.PersistentFlags().IntVar(&firstSheet, "first-sheet", -1, "First sheet index to parse (overrides config)")

	rootCmd.AddCommand(parseCmd, summaryCmd, inspectCmd, serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// parseOptions returns the parse options of the loaded configuration.
func parseOptions() compliance.Options {
	return cfg.Parse
}
