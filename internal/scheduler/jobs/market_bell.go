package jobs

import (
	"context"
	"time"

	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/internal/notify"
	"github.com/clearview/vista/backend/pkg/logger"
)

// MarketBellJob announces the market session opening or closing through
// the notification dispatcher.
type MarketBellJob struct {
	dispatcher *notify.Dispatcher
	name       string
	title      string
	message    string
	schedule   string
	logger     *logger.Logger
}

// NewMarketOpenJob creates the market opening announcement job.
func NewMarketOpenJob(dispatcher *notify.Dispatcher, schedule string, log *logger.Logger) *MarketBellJob {
	return &MarketBellJob{
		dispatcher: dispatcher,
		name:       "market_open",
		title:      "Mercado Aberto - Clearview Capital",
		message: "🔔 *Mercado Aberto* 🔔\n\n" +
			"O mercado está aberto para negociações.\n\n" +
			"Acesse a plataforma para acompanhar as movimentações em tempo real.",
		schedule: schedule,
		logger:   log,
	}
}

// NewMarketCloseJob creates the market closing announcement job.
func NewMarketCloseJob(dispatcher *notify.Dispatcher, schedule string, log *logger.Logger) *MarketBellJob {
	return &MarketBellJob{
		dispatcher: dispatcher,
		name:       "market_close",
		title:      "Mercado Fechado - Clearview Capital",
		message: "🔔 *Mercado Fechado* 🔔\n\n" +
			"O mercado está fechado para negociações.\n\n" +
			"Acesse a plataforma para ver o resumo do dia e as recomendações para amanhã.",
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name.
func (j *MarketBellJob) Name() string {
	return j.name
}

// Schedule returns the cron schedule expression.
func (j *MarketBellJob) Schedule() string {
	return j.schedule
}

// Run publishes the session announcement.
func (j *MarketBellJob) Run(ctx context.Context) error {
	j.dispatcher.Dispatch(ctx, &contracts.Notification{
		Kind:    "market",
		Title:   j.title,
		Message: j.message,
		Date:    time.Now(),
	})

	j.logger.WithField("job", j.name).Info("Market bell announcement sent")
	return nil
}
