package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clearview/vista/backend/internal/analysis"
	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/internal/market"
	"github.com/clearview/vista/backend/internal/news"
	"github.com/clearview/vista/backend/internal/notify"
	"github.com/clearview/vista/backend/internal/report"
	"github.com/clearview/vista/backend/internal/store"
	"github.com/clearview/vista/backend/internal/subscribers"
	"github.com/clearview/vista/backend/pkg/logger"
)

const newsletterNewsLimit = 10

// NewsletterJob assembles the daily newsletter and delivers it to every
// active subscriber. When a Telegram channel is configured the market
// summary is also posted there.
type NewsletterJob struct {
	overview    market.OverviewProvider
	analyzer    *analysis.Service
	news        *news.Service
	generator   report.TextGenerator
	subscribers *subscribers.Service
	mailer      subscribers.Mailer
	telegram    notify.Channel
	schedule    string
	logger      *logger.Logger
}

// NewNewsletterJob creates a new daily newsletter job. mailer and
// telegram may be nil when the respective channel is disabled.
func NewNewsletterJob(
	overview market.OverviewProvider,
	analyzer *analysis.Service,
	newsSvc *news.Service,
	generator report.TextGenerator,
	subSvc *subscribers.Service,
	mailer subscribers.Mailer,
	telegram notify.Channel,
	schedule string,
	log *logger.Logger,
) *NewsletterJob {
	return &NewsletterJob{
		overview:    overview,
		analyzer:    analyzer,
		news:        newsSvc,
		generator:   generator,
		subscribers: subSvc,
		mailer:      mailer,
		telegram:    telegram,
		schedule:    schedule,
		logger:      log,
	}
}

// Name returns the job name.
func (j *NewsletterJob) Name() string {
	return "daily_newsletter"
}

// Schedule returns the cron schedule expression.
func (j *NewsletterJob) Schedule() string {
	return j.schedule
}

// Run builds and delivers one newsletter edition.
func (j *NewsletterJob) Run(ctx context.Context) error {
	overview, err := j.overview.Overview(ctx)
	if err != nil {
		return fmt.Errorf("fetching market overview: %w", err)
	}

	portfolio, err := j.analyzer.Portfolio(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			j.logger.Warn("No portfolio built yet, skipping newsletter")
			return nil
		}
		return fmt.Errorf("loading portfolio: %w", err)
	}

	feed, err := j.news.Feed(ctx, "", newsletterNewsLimit)
	if err != nil {
		return fmt.Errorf("loading news feed: %w", err)
	}

	edition, err := report.BuildNewsletter(ctx, j.generator, overview, portfolio, feed.News, time.Now())
	if err != nil {
		return fmt.Errorf("building newsletter: %w", err)
	}

	sent := 0
	if j.mailer != nil {
		subs, err := j.subscribers.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("listing subscribers: %w", err)
		}

		for _, sub := range subs {
			if err := j.mailer.SendMail(sub.Email, edition.Subject, edition.HTML, true); err != nil {
				j.logger.WithFields(map[string]interface{}{
					"email": sub.Email,
					"error": err.Error(),
				}).Warn("Failed to deliver newsletter")
				continue
			}
			sent++
		}
	}

	if j.telegram != nil {
		summary, err := j.generator.MarketSummary(ctx, overview, portfolio, feed.News)
		if err != nil {
			j.logger.WithField("error", err.Error()).Warn("Failed to generate market summary for Telegram")
		} else {
			n := &contracts.Notification{
				Kind:    "newsletter",
				Title:   edition.Subject,
				Message: summary,
				Date:    time.Now(),
			}
			if err := j.telegram.Send(ctx, n); err != nil {
				j.logger.WithField("error", err.Error()).Warn("Failed to post market summary to Telegram")
			}
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"subject": edition.Subject,
		"emails":  sent,
	}).Info("Newsletter delivered")

	return nil
}
