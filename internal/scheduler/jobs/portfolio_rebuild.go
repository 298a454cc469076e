package jobs

import (
	"context"
	"fmt"

	"github.com/clearview/vista/backend/internal/analysis"
	"github.com/clearview/vista/backend/pkg/logger"
)

// PortfolioRebuildJob re-analyzes every tracked stock and recomposes the
// recommended portfolio.
type PortfolioRebuildJob struct {
	analyzer *analysis.Service
	schedule string
	logger   *logger.Logger
}

// NewPortfolioRebuildJob creates a new portfolio rebuild job.
func NewPortfolioRebuildJob(analyzer *analysis.Service, schedule string, log *logger.Logger) *PortfolioRebuildJob {
	return &PortfolioRebuildJob{
		analyzer: analyzer,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name.
func (j *PortfolioRebuildJob) Name() string {
	return "portfolio_rebuild"
}

// Schedule returns the cron schedule expression.
func (j *PortfolioRebuildJob) Schedule() string {
	return j.schedule
}

// Run executes the portfolio rebuild.
func (j *PortfolioRebuildJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled portfolio rebuild")

	portfolio, err := j.analyzer.RebuildPortfolio(ctx)
	if err != nil {
		return fmt.Errorf("portfolio rebuild failed: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"stocks":      len(portfolio.Stocks),
		"total_score": portfolio.TotalScore,
	}).Info("Portfolio rebuild completed")

	return nil
}
