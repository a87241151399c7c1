package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kc-strategy-bot/internal/config"
	"kc-strategy-bot/internal/engine"
	"kc-strategy-bot/internal/journal"
	"kc-strategy-bot/internal/market"
	"kc-strategy-bot/internal/rules"

	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	journalStore, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	t.Cleanup(func() { _ = journalStore.Close() })

	log := zap.NewNop()
	marketStore := market.New(nil, nil, log)
	ruleStore := rules.NewStore()
	scheduler := engine.NewScheduler(ruleStore, marketStore, nil, nil, journalStore, nil, log, time.Second)
	return &App{
		cfg:       &config.Config{},
		log:       log,
		journal:   journalStore,
		market:    marketStore,
		rules:     ruleStore,
		scheduler: scheduler,
	}
}

func TestParseOperatorCommand(t *testing.T) {
	cmd, args, ok := parseOperatorCommand("  /Strategy btc-dip ")
	if !ok || cmd != "strategy" || len(args) != 1 || args[0] != "btc-dip" {
		t.Fatalf("parsed %q %v %v", cmd, args, ok)
	}
	if _, _, ok := parseOperatorCommand("hello"); ok {
		t.Fatalf("non-command text must not parse")
	}
	if _, _, ok := parseOperatorCommand(""); ok {
		t.Fatalf("empty text must not parse")
	}
}

func TestOperatorStrategyCommands(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	app.rules.Upsert(&rules.Strategy{
		Name:      "btc-dip",
		Product:   rules.SpotPairProduct("BTC-USDT"),
		Condition: rules.LessThan(50000),
	})

	resp, err := app.handleOperatorCommand(ctx, "strategies", nil)
	if err != nil || resp != "btc-dip" {
		t.Fatalf("strategies = %q, %v", resp, err)
	}

	resp, err = app.handleOperatorCommand(ctx, "strategy", []string{"btc-dip"})
	if err != nil || !strings.Contains(resp, "BTC-USDT") {
		t.Fatalf("strategy = %q, %v", resp, err)
	}

	resp, err = app.handleOperatorCommand(ctx, "strategy", []string{"nope"})
	if err != nil || !strings.Contains(resp, "nope") {
		t.Fatalf("missing strategy = %q, %v", resp, err)
	}

	resp, err = app.handleOperatorCommand(ctx, "remove", []string{"btc-dip"})
	if err != nil || !strings.Contains(resp, "removed") {
		t.Fatalf("remove = %q, %v", resp, err)
	}
	if app.rules.Len() != 0 {
		t.Fatalf("strategy not removed")
	}
}

func TestOperatorPauseResume(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	if resp, _ := app.handleOperatorCommand(ctx, "pause", nil); resp != "strategy execution paused" {
		t.Fatalf("pause = %q", resp)
	}
	if !app.scheduler.Paused() {
		t.Fatalf("scheduler not paused")
	}
	if resp, _ := app.handleOperatorCommand(ctx, "pause", nil); resp != "already paused" {
		t.Fatalf("second pause = %q", resp)
	}
	if resp, _ := app.handleOperatorCommand(ctx, "resume", nil); resp != "strategy execution resumed" {
		t.Fatalf("resume = %q", resp)
	}
	if app.scheduler.Paused() {
		t.Fatalf("scheduler still paused")
	}
}

func TestOperatorHistory(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	resp, err := app.handleOperatorCommand(ctx, "history", nil)
	if err != nil || resp != "no executions recorded" {
		t.Fatalf("empty history = %q, %v", resp, err)
	}

	entry := journal.Entry{
		Time:     time.Now().UTC(),
		Strategy: "btc-dip",
		Action:   "MARKET BUY BTC-USDT (50%)",
		Amount:   500,
		Status:   journal.StatusSuccess,
		Detail:   "order-1",
	}
	if err := app.journal.Record(ctx, entry); err != nil {
		t.Fatalf("record: %v", err)
	}
	resp, err = app.handleOperatorCommand(ctx, "history", nil)
	if err != nil || !strings.Contains(resp, "btc-dip") || !strings.Contains(resp, "order-1") {
		t.Fatalf("history = %q, %v", resp, err)
	}

	if resp, _ := app.handleOperatorCommand(ctx, "history", []string{"zero"}); !strings.Contains(resp, "usage") {
		t.Fatalf("bad history arg = %q", resp)
	}
}

func TestOperatorUnknownCommandShowsHelp(t *testing.T) {
	app := newTestApp(t)
	resp, err := app.handleOperatorCommand(context.Background(), "bogus", nil)
	if err != nil || !strings.Contains(resp, "/status") {
		t.Fatalf("help = %q, %v", resp, err)
	}
	// A status line renders without market data.
	status := app.operatorStatus()
	if !strings.Contains(status, "paused: false") {
		t.Fatalf("status = %q", status)
	}
}
