package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/clearview/vista/backend/internal/alerts"
	"github.com/clearview/vista/backend/internal/analysis"
	"github.com/clearview/vista/backend/internal/store"
	"github.com/clearview/vista/backend/pkg/logger"
)

// AlertScanJob checks every active alert against the latest analyzed
// quotes and fires notifications for the ones that match.
type AlertScanJob struct {
	analyzer *analysis.Service
	alerts   *alerts.Service
	schedule string
	logger   *logger.Logger
}

// NewAlertScanJob creates a new alert scan job.
func NewAlertScanJob(analyzer *analysis.Service, alertSvc *alerts.Service, schedule string, log *logger.Logger) *AlertScanJob {
	return &AlertScanJob{
		analyzer: analyzer,
		alerts:   alertSvc,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name.
func (j *AlertScanJob) Name() string {
	return "alert_scan"
}

// Schedule returns the cron schedule expression.
func (j *AlertScanJob) Schedule() string {
	return j.schedule
}

// Run executes one alert scan pass.
func (j *AlertScanJob) Run(ctx context.Context) error {
	stocks, err := j.analyzer.Stocks(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			j.logger.Warn("No analysis cycle has run yet, skipping alert scan")
			return nil
		}
		return fmt.Errorf("loading analyzed stocks: %w", err)
	}

	if len(stocks) == 0 {
		j.logger.Warn("No analyzed stocks available, skipping alert scan")
		return nil
	}

	triggered, err := j.alerts.Scan(ctx, stocks)
	if err != nil {
		return fmt.Errorf("alert scan failed: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"stocks":    len(stocks),
		"triggered": triggered,
	}).Info("Alert scan completed")

	return nil
}
