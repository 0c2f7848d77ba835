package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"billgen/config"
	"billgen/pipeline"
	"billgen/render"
)

var (
	generateInput  string
	generateOutput string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the statutory document archive from a billing workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func runGenerate(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Log)

	src, err := os.Open(generateInput)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer src.Close()

	res, err := pipeline.New(cfg, logger).Run(cmd.Context(), src)
	if err != nil {
		return err
	}

	out := generateOutput
	if out == "" {
		out = res.ArchiveName
	}
	if err := os.WriteFile(out, res.Archive, 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	fmt.Printf("Archive written to %s (%s)\n", out, humanize.Bytes(uint64(len(res.Archive))))
	for _, d := range res.Manifest.Documents {
		fmt.Printf("  %-32s %s\n", d.Title, d.Status)
	}
	fmt.Printf("Net payable: %s\n", render.FormatINR(res.Totals.NetPayable))
	for _, w := range res.Manifest.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "", "billing workbook (.xlsx)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "archive path (defaults to a name derived from the project)")
	generateCmd.MarkFlagRequired("input")
}
