package commands

import (
	"context"
	"fmt"

	"github.com/clearview/vista/backend/internal/alerts"
	"github.com/clearview/vista/backend/internal/analysis"
	"github.com/clearview/vista/backend/internal/market"
	"github.com/clearview/vista/backend/internal/news"
	"github.com/clearview/vista/backend/internal/notify"
	"github.com/clearview/vista/backend/internal/report"
	"github.com/clearview/vista/backend/internal/store"
	"github.com/clearview/vista/backend/internal/subscribers"
	"github.com/clearview/vista/backend/pkg/config"
	"github.com/clearview/vista/backend/pkg/database"
	"github.com/clearview/vista/backend/pkg/httputil"
	"github.com/clearview/vista/backend/pkg/logger"
	"github.com/clearview/vista/backend/pkg/redis"
)

// app bundles every wired component. All commands build their
// dependency graph through newApp so the wiring lives in one place.
type app struct {
	cfg *config.Config
	log *logger.Logger

	db    *database.DB
	redis *redis.Client
	store store.Store

	provider market.Provider
	overview market.OverviewProvider

	analyzer    *analysis.Service
	news        *news.Service
	subscribers *subscribers.Service
	alerts      *alerts.Service
	dispatcher  *notify.Dispatcher
	hub         *notify.Hub
	email       *notify.EmailChannel
	generator   report.TextGenerator
}

// newApp loads config and wires the full component graph.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)
	a := &app{cfg: cfg, log: log}

	// Blob store: Postgres when a database URL is configured, local
	// JSON files otherwise.
	if cfg.UsePostgres() {
		a.db, err = database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.store, err = store.NewPostgresStore(ctx, a.db, log)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	} else {
		a.store, err = store.NewFileStore(cfg.DataDir, log)
		if err != nil {
			return nil, fmt.Errorf("init file store: %w", err)
		}
	}

	// Redis snapshot cache; a no-op client when disabled.
	a.redis, err = redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	snapshotCache := redis.NewCache(a.redis, "market")

	// Market data provider.
	simulated := market.NewSimulatedProvider()
	a.overview = simulated
	switch cfg.Market.Provider {
	case "statusinvest":
		client := httputil.New(log, cfg.Market.Timeout)
		live := market.NewStatusInvestProvider(client, cfg.Market.BaseURL, cfg.Market.RequestsPerSec, log)
		a.provider = market.NewCachedProvider(live, snapshotCache, cfg.Market.StaleAfter, log)
	default:
		a.provider = market.NewCachedProvider(simulated, snapshotCache, cfg.Market.StaleAfter, log)
	}

	// Notification channels.
	var channels []notify.Channel
	a.hub = notify.NewHub(log)
	channels = append(channels, a.hub)
	if cfg.Telegram.Enabled {
		client := httputil.New(log, cfg.Market.Timeout)
		channels = append(channels, notify.NewTelegramChannel(client, cfg.Telegram.BotToken, cfg.Telegram.ChannelID, ""))
	}
	if cfg.Email.Enabled {
		a.email = notify.NewEmailChannel(cfg.Email)
		channels = append(channels, a.email)
	}
	a.dispatcher = notify.NewDispatcher(a.store, log, channels...)

	// Domain services.
	a.analyzer = analysis.NewService(a.provider, a.store, log)
	a.news = news.NewService(news.NewSimulatedSource(), a.store, log)
	a.alerts = alerts.NewService(a.store, a.dispatcher, log)

	var mailer subscribers.Mailer
	if a.email != nil {
		mailer = a.email
	}
	a.subscribers = subscribers.NewService(a.store, mailer, log)

	// Text generation: Gemini when an API key is configured, always
	// backed by the deterministic template generator.
	fallback := &report.Fallback{Backup: report.NewTemplateGenerator()}
	if cfg.Gemini.APIKey != "" {
		gemini, err := report.NewGeminiGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout, log)
		if err != nil {
			log.WithError(err).Warn("Gemini unavailable, using template generator only")
		} else {
			fallback.Primary = gemini
		}
	}
	a.generator = fallback

	return a, nil
}

// telegramChannel returns the configured Telegram channel, or nil.
func (a *app) telegramChannel() notify.Channel {
	if !a.cfg.Telegram.Enabled {
		return nil
	}
	client := httputil.New(a.log, a.cfg.Market.Timeout)
	return notify.NewTelegramChannel(client, a.cfg.Telegram.BotToken, a.cfg.Telegram.ChannelID, "")
}

// mailer returns the configured email channel, or nil.
func (a *app) mailer() subscribers.Mailer {
	if a.email == nil {
		return nil
	}
	return a.email
}

// Close releases external connections.
func (a *app) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
