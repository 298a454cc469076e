package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report [symbol]",
	Short: "Gera o relatório de uma ação",
	Long: `Analisa uma ação e imprime o relatório em linguagem natural.

Example:
  go run ./cmd/vista report PETR4
  go run ./cmd/vista report AAPL --refresh`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var reportRefresh bool

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&reportRefresh, "refresh", false, "reanalisa a ação antes de gerar o relatório")
}

func runReport(cmd *cobra.Command, args []string) error {
	symbol := args[0]

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	analysis, err := a.analyzer.Stock(ctx, symbol)
	if reportRefresh {
		analysis, err = a.analyzer.RefreshStock(ctx, symbol)
	}
	if err != nil {
		return fmt.Errorf("analyze %s: %w", symbol, err)
	}

	text, err := a.generator.StockReport(ctx, analysis)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	fmt.Println(text)
	return nil
}
