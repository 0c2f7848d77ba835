package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"billgen/config"
	"billgen/pipeline"
	"billgen/render"
)

var validateInput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a billing workbook and report its totals without generating documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func runValidate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Log)

	src, err := os.Open(validateInput)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer src.Close()

	m, t, err := pipeline.New(cfg, logger).Validate(src)
	if err != nil {
		return err
	}

	fmt.Println("Workbook OK")
	fmt.Printf("  %-16s %4d items  %s\n", "Work Order", len(m.WorkOrder.Items), render.FormatINR(t.WorkOrderTotal))
	fmt.Printf("  %-16s %4d items  %s\n", "Bill Quantity", len(m.BillQty.Items), render.FormatINR(t.BillQtyTotal))
	fmt.Printf("  %-16s %4d items  %s\n", "Extra Items", len(m.ExtraItems.Items), render.FormatINR(t.ExtraTotal))
	fmt.Printf("  %-16s %s\n", "Grand Total", render.FormatINR(t.GrandTotal))
	fmt.Printf("  %-16s %s\n", "Net Payable", render.FormatINR(t.NetPayable))
	for _, w := range t.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "billing workbook (.xlsx)")
	validateCmd.MarkFlagRequired("input")
}
