// Package cmd wires the billgen CLI.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"billgen/config"
	"billgen/model"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "billgen",
	Short: "Generate statutory contractor bill documents from a billing workbook",
	Long: `billgen converts one contractor billing workbook (Title, Work Order,
Bill Quantity and optional Extra Items sheets) into the statutory
document set: first page, deviation statement, extra items statement,
certificates, note sheet and scrutiny sheet, delivered as HTML, PDF
and a verification spreadsheet inside a single archive.`,
	SilenceUsage: true,
}

// Execute runs the CLI. Workbook problems the user can fix exit with
// code 1, internal failures with code 2.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var bundleErr *model.BundleError
	var renderErr *model.RenderError
	if errors.As(err, &bundleErr) || errors.As(err, &renderErr) {
		return 2
	}
	return 1
}

// loadConfig reads the configuration file, if any, and applies the
// --verbose override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
