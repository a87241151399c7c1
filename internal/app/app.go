// Package app wires the exchange client, market data snapshots, strategy
// scheduler, and operator interface together.
package app

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"kc-strategy-bot/internal/alerts"
	"kc-strategy-bot/internal/announce"
	"kc-strategy-bot/internal/config"
	"kc-strategy-bot/internal/engine"
	"kc-strategy-bot/internal/journal"
	"kc-strategy-bot/internal/kucoin"
	"kc-strategy-bot/internal/kucoin/rest"
	"kc-strategy-bot/internal/market"
	"kc-strategy-bot/internal/metrics"
	"kc-strategy-bot/internal/rules"

	"go.uber.org/zap"
)

type App struct {
	cfg       *config.Config
	log       *zap.Logger
	journal   *journal.Journal
	client    *kucoin.Client
	market    *market.Store
	rules     *rules.Store
	scheduler *engine.Scheduler
	prom      *metrics.Prometheus
	alerts    *alerts.Telegram
	announce  *announce.Poller

	operatorWarned bool
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	creds, err := config.CredentialsFromEnv()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Journal.SQLitePath), 0o755); err != nil {
		return nil, err
	}
	journalStore, err := journal.Open(cfg.Journal.SQLitePath)
	if err != nil {
		return nil, err
	}

	restClient := rest.New(cfg.REST.BaseURL, cfg.REST.Timeout, rest.Credentials{
		Key:        creds.Key,
		Secret:     creds.Secret,
		Passphrase: creds.Passphrase,
		KeyVersion: creds.KeyVersion,
	}, log)
	client := kucoin.New(restClient)

	prom := metrics.NewPrometheus()
	alertsClient := alerts.NewTelegram(cfg.Telegram, log)
	marketStore := market.New(client, prom.Metrics, log)
	ruleStore := rules.NewStore()
	scheduler := engine.NewScheduler(ruleStore, marketStore, client, alertsClient, journalStore, prom.Metrics, log, cfg.Scheduler.Interval)

	app := &App{
		cfg:       cfg,
		log:       log,
		journal:   journalStore,
		client:    client,
		market:    marketStore,
		rules:     ruleStore,
		scheduler: scheduler,
		prom:      prom,
		alerts:    alertsClient,
	}
	if cfg.Announce.Enabled {
		app.announce = announce.NewPoller(client, alertsClient, log, cfg.Announce.Period, cfg.Announce.Types)
	}
	return app, nil
}

// Rules exposes the strategy store to the configuration surface.
func (a *App) Rules() *rules.Store {
	return a.rules
}

func (a *App) Run(ctx context.Context) error {
	defer a.journal.Close()

	a.market.Start(ctx, market.Intervals{
		Accounts:          a.cfg.Poll.Accounts,
		LendingCurrencies: a.cfg.Poll.LendingCurrencies,
		LendingOrders:     a.cfg.Poll.LendingOrders,
		SpotCurrencies:    a.cfg.Poll.SpotCurrencies,
		SpotSymbols:       a.cfg.Poll.SpotSymbols,
		Tickers:           a.cfg.Poll.Tickers,
	})
	if a.announce != nil {
		go a.announce.Run(ctx)
	}
	a.startOperator(ctx)
	a.serveMetrics(ctx)

	a.scheduler.Run(ctx)
	return ctx.Err()
}

func (a *App) serveMetrics(ctx context.Context) {
	addr := a.cfg.Metrics.ListenAddr
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.prom.Handler())
	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Warn("metrics listener failed", zap.Error(err))
		}
	}()
}
