package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"kc-strategy-bot/internal/journal"
	"kc-strategy-bot/internal/kucoin"
	"kc-strategy-bot/internal/market"
	"kc-strategy-bot/internal/metrics"
	"kc-strategy-bot/internal/rules"

	"go.uber.org/zap"
)

// Gateway is the write side of the exchange client.
type Gateway interface {
	PlaceSpotOrder(ctx context.Context, req kucoin.SpotOrderRequest) (kucoin.OrderResult, error)
	Lend(ctx context.Context, req kucoin.LendRequest) (kucoin.OrderResult, error)
	Redeem(ctx context.Context, req kucoin.RedeemRequest) (kucoin.OrderResult, error)
	Transfer(ctx context.Context, req kucoin.TransferRequest) (kucoin.OrderResult, error)
}

// Notifier delivers outcome messages to the operator channel.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// Recorder persists executed action outcomes.
type Recorder interface {
	Record(ctx context.Context, entry journal.Entry) error
}

// Scheduler is the orchestration loop: each tick it picks at most one
// triggered strategy and drains its executable actions in order.
type Scheduler struct {
	rules    *rules.Store
	market   *market.Store
	eval     *Evaluator
	amounts  *AmountCalculator
	gateway  Gateway
	notifier Notifier
	recorder Recorder
	metrics  *metrics.Metrics
	log      *zap.Logger
	interval time.Duration
	paused   atomic.Bool
}

func NewScheduler(
	ruleStore *rules.Store,
	marketStore *market.Store,
	gateway Gateway,
	notifier Notifier,
	recorder Recorder,
	m *metrics.Metrics,
	log *zap.Logger,
	interval time.Duration,
) *Scheduler {
	if m == nil {
		m = metrics.NewNoop()
	}
	return &Scheduler{
		rules:    ruleStore,
		market:   marketStore,
		eval:     NewEvaluator(marketStore),
		amounts:  NewAmountCalculator(marketStore),
		gateway:  gateway,
		notifier: notifier,
		recorder: recorder,
		metrics:  m,
		log:      log,
		interval: interval,
	}
}

func (s *Scheduler) Pause()       { s.paused.Store(true) }
func (s *Scheduler) Resume()      { s.paused.Store(false) }
func (s *Scheduler) Paused() bool { return s.paused.Load() }

func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick selects the first strategy, in sorted name order, that has actions
// and whose condition holds, and executes it. At most one strategy runs per
// tick.
func (s *Scheduler) Tick(ctx context.Context) {
	if s.paused.Load() {
		return
	}
	s.metrics.SchedulerTicks.Inc()
	for _, name := range s.rules.Names() {
		strategy, ok := s.rules.Get(name)
		if !ok || len(strategy.Actions) == 0 {
			continue
		}
		if !s.eval.Evaluate(strategy) {
			continue
		}
		s.execute(ctx, strategy)
		return
	}
}

// execute drains the strategy's executable actions. The iteration bound is
// the action count at the start of the tick, so a 100% action that stays
// enabled cannot loop forever within one tick.
func (s *Scheduler) execute(ctx context.Context, strategy *rules.Strategy) {
	bound := len(strategy.Actions)
	for i := 0; i < bound; i++ {
		index, amount, ok := s.nextExecutable(strategy)
		if !ok {
			return
		}
		action := strategy.Actions[index]
		header := fmt.Sprintf("<b>Strategy:</b> %s\n\n<b>Action:</b> %s\n\n<b>Execution status:</b> ", strategy.Name, action)
		result, err := s.send(ctx, action, amount)
		if err != nil {
			// skip stays unchanged; the action stays a retry candidate
			s.metrics.ActionsFailed.Inc()
			s.log.Warn("action failed",
				zap.String("strategy", strategy.Name),
				zap.String("action", action.String()),
				zap.Float64("amount", amount),
				zap.Error(err))
			s.notify(ctx, header+fmt.Sprintf("❌\n%v", err))
			s.record(ctx, strategy.Name, action, amount, journal.StatusFailure, err.Error())
			continue
		}
		s.metrics.ActionsExecuted.Inc()
		s.log.Info("action executed",
			zap.String("strategy", strategy.Name),
			zap.String("action", action.String()),
			zap.Float64("amount", amount),
			zap.String("order_id", result.OrderID))
		if err := s.market.RefreshAccounts(ctx); err != nil {
			s.metrics.RefreshFailures.Inc()
			s.log.Warn("post-action account refresh failed", zap.Error(err))
		}
		if action.Percentage != 100 {
			strategy.Actions[index].Skip = true
			s.rules.Upsert(strategy)
		}
		s.notify(ctx, header+fmt.Sprintf("✅\norder %s", result.OrderID))
		s.record(ctx, strategy.Name, action, amount, journal.StatusSuccess, result.OrderID)
	}
}

// nextExecutable finds the first enabled action with a computable amount.
func (s *Scheduler) nextExecutable(strategy *rules.Strategy) (int, float64, bool) {
	for i, action := range strategy.Actions {
		if action.Skip {
			continue
		}
		if amount, ok := s.amounts.Amount(action); ok {
			return i, amount, true
		}
	}
	return 0, 0, false
}

func (s *Scheduler) send(ctx context.Context, action rules.Action, amount float64) (kucoin.OrderResult, error) {
	switch action.Kind {
	case rules.ActionSpotOrder:
		var req kucoin.SpotOrderRequest
		if action.OrderType == kucoin.OrderTypeLimit {
			if action.LimitPrice == nil {
				return kucoin.OrderResult{}, fmt.Errorf("limit order for %s has no price", action.Symbol)
			}
			req = kucoin.LimitOrder(action.Symbol, action.Side, *action.LimitPrice, amount)
		} else {
			req = kucoin.MarketOrder(action.Symbol, action.Side, amount)
		}
		return s.gateway.PlaceSpotOrder(ctx, req)
	case rules.ActionLend:
		return s.gateway.Lend(ctx, kucoin.NewLendRequest(action.Symbol, action.MinInterestRate, amount))
	case rules.ActionRedeem:
		order, ok := s.market.LendingOrder(action.Symbol)
		if !ok {
			return kucoin.OrderResult{}, fmt.Errorf("no active lending order for %s", action.Symbol)
		}
		return s.gateway.Redeem(ctx, kucoin.NewRedeemRequest(action.Symbol, order.PurchaseOrderNo, amount))
	case rules.ActionTransfer:
		return s.gateway.Transfer(ctx, kucoin.NewInternalTransfer(action.Symbol, amount, action.From, action.To, action.FromTag, action.ToTag))
	default:
		return kucoin.OrderResult{}, fmt.Errorf("unknown action kind %q", action.Kind)
	}
}

func (s *Scheduler) notify(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, message); err != nil {
		s.metrics.NotifierFailures.Inc()
		s.log.Warn("notification failed", zap.Error(err))
	}
}

func (s *Scheduler) record(ctx context.Context, strategy string, action rules.Action, amount float64, status journal.Status, detail string) {
	if s.recorder == nil {
		return
	}
	entry := journal.Entry{
		Time:     time.Now().UTC(),
		Strategy: strategy,
		Action:   action.String(),
		Amount:   amount,
		Status:   status,
		Detail:   detail,
	}
	if err := s.recorder.Record(ctx, entry); err != nil {
		s.log.Warn("journal write failed", zap.Error(err))
	}
}
