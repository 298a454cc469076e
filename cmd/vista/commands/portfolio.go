package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clearview/vista/backend/internal/contracts"
)

// portfolioCmd represents the portfolio command
var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Gerencia a carteira recomendada",
	Long: `Reconstrói ou exibe a carteira recomendada.

Example:
  go run ./cmd/vista portfolio rebuild
  go run ./cmd/vista portfolio show`,
}

var (
	portfolioRebuildCmd = &cobra.Command{
		Use:   "rebuild",
		Short: "Analisa as watchlists e recompõe a carteira",
		RunE:  rebuildPortfolio,
	}

	portfolioShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Exibe a carteira atual",
		RunE:  showPortfolio,
	}
)

func init() {
	rootCmd.AddCommand(portfolioCmd)
	portfolioCmd.AddCommand(portfolioRebuildCmd)
	portfolioCmd.AddCommand(portfolioShowCmd)
}

func rebuildPortfolio(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Println("Rebuilding portfolio...")

	portfolio, err := a.analyzer.RebuildPortfolio(ctx)
	if err != nil {
		return fmt.Errorf("rebuild portfolio: %w", err)
	}

	fmt.Printf("\n✅ Portfolio rebuilt: %d stocks, total score %d\n\n", portfolio.Count(), portfolio.TotalScore)
	printPortfolio(portfolio)
	return nil
}

func showPortfolio(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	portfolio, err := a.analyzer.Portfolio(ctx)
	if err != nil {
		return fmt.Errorf("load portfolio: %w (run 'portfolio rebuild' first)", err)
	}

	printPortfolio(portfolio)
	return nil
}

func printPortfolio(portfolio *contracts.Portfolio) {
	fmt.Printf("Carteira Clearview (atualizada em %s)\n", portfolio.LastUpdate.Format("02/01/2006 15:04"))
	fmt.Printf("Brasil: %d | EUA: %d\n\n", portfolio.CountRegion(contracts.RegionBR), portfolio.CountRegion(contracts.RegionUS))

	for i := range portfolio.Stocks {
		s := &portfolio.Stocks[i]
		marker := " "
		if s.Evaluation.IsOpportunity {
			marker = "★"
		}
		fmt.Printf("%s %-7s %-28s %8.2f  score %+d  %s\n",
			marker,
			s.Symbol(),
			s.Snapshot.Name,
			s.Snapshot.Price,
			s.Evaluation.Score,
			s.Evaluation.Rating,
		)
	}

	fmt.Printf("\nTotal score: %d\n", portfolio.TotalScore)
}
