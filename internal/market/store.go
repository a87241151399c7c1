// Package market maintains the in-memory snapshots of exchange data the
// strategy engine evaluates against. Each snapshot is refreshed on its own
// period by its own goroutine and replaced wholesale under its own lock; a
// failed refresh leaves the previous snapshot in place.
package market

import (
	"context"
	"sync"
	"time"

	"kc-strategy-bot/internal/kucoin"
	"kc-strategy-bot/internal/metrics"

	"go.uber.org/zap"
)

// Fetcher is the read side of the exchange gateway.
type Fetcher interface {
	Accounts(ctx context.Context) ([]kucoin.Account, error)
	LendingCurrencies(ctx context.Context) ([]kucoin.LendingCurrency, error)
	LendingOrders(ctx context.Context) ([]kucoin.LendingOrder, error)
	SpotCurrencies(ctx context.Context) ([]kucoin.SpotCurrency, error)
	SpotSymbols(ctx context.Context) ([]kucoin.Symbol, error)
	SpotTickers(ctx context.Context) ([]kucoin.Ticker, error)
}

// Intervals sets the refresh period per snapshot.
type Intervals struct {
	Accounts          time.Duration
	LendingCurrencies time.Duration
	LendingOrders     time.Duration
	SpotCurrencies    time.Duration
	SpotSymbols       time.Duration
	Tickers           time.Duration
}

type Store struct {
	fetcher Fetcher
	log     *zap.Logger
	metrics *metrics.Metrics

	accountsMu sync.RWMutex
	accounts   map[kucoin.AccountType][]kucoin.Account

	lendingCurrencies *RecencyCache[kucoin.LendingCurrency]
	lendingOrders     *snapshot[kucoin.LendingOrder]
	spotCurrencies    *snapshot[kucoin.SpotCurrency]
	spotSymbols       *snapshot[kucoin.Symbol]
	tickers           *RecencyCache[kucoin.Ticker]
}

func New(fetcher Fetcher, m *metrics.Metrics, log *zap.Logger) *Store {
	if m == nil {
		m = metrics.NewNoop()
	}
	return &Store{
		fetcher:           fetcher,
		log:               log,
		metrics:           m,
		accounts:          make(map[kucoin.AccountType][]kucoin.Account),
		lendingCurrencies: NewRecencyCache[kucoin.LendingCurrency](),
		lendingOrders:     newSnapshot[kucoin.LendingOrder](),
		spotCurrencies:    newSnapshot[kucoin.SpotCurrency](),
		spotSymbols:       newSnapshot[kucoin.Symbol](),
		tickers:           NewRecencyCache[kucoin.Ticker](),
	}
}

// Start launches one polling goroutine per snapshot. Each polls immediately,
// then on its period, until ctx is done.
func (s *Store) Start(ctx context.Context, iv Intervals) {
	go s.poll(ctx, "accounts", iv.Accounts, s.RefreshAccounts)
	go s.poll(ctx, "lending_currencies", iv.LendingCurrencies, s.RefreshLendingCurrencies)
	go s.poll(ctx, "lending_orders", iv.LendingOrders, s.RefreshLendingOrders)
	go s.poll(ctx, "spot_currencies", iv.SpotCurrencies, s.RefreshSpotCurrencies)
	go s.poll(ctx, "spot_symbols", iv.SpotSymbols, s.RefreshSpotSymbols)
	go s.poll(ctx, "tickers", iv.Tickers, s.RefreshTickers)
}

func (s *Store) poll(ctx context.Context, name string, period time.Duration, refresh func(context.Context) error) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		if err := refresh(ctx); err != nil {
			s.metrics.RefreshFailures.Inc()
			s.log.Warn("snapshot refresh failed", zap.String("snapshot", name), zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RefreshAccounts replaces the accounts snapshot. Only accounts with a
// positive balance are retained. Called out of cycle by the scheduler after
// every successful action.
func (s *Store) RefreshAccounts(ctx context.Context) error {
	accounts, err := s.fetcher.Accounts(ctx)
	if err != nil {
		return err
	}
	grouped := make(map[kucoin.AccountType][]kucoin.Account)
	for _, account := range accounts {
		if account.BalanceValue() > 0 {
			grouped[account.Type] = append(grouped[account.Type], account)
		}
	}
	s.accountsMu.Lock()
	s.accounts = grouped
	s.accountsMu.Unlock()
	return nil
}

func (s *Store) RefreshLendingCurrencies(ctx context.Context) error {
	currencies, err := s.fetcher.LendingCurrencies(ctx)
	if err != nil {
		return err
	}
	byCurrency := make(map[string]kucoin.LendingCurrency, len(currencies))
	for _, currency := range currencies {
		byCurrency[currency.Currency] = currency
	}
	s.lendingCurrencies.Replace(byCurrency)
	return nil
}

func (s *Store) RefreshLendingOrders(ctx context.Context) error {
	orders, err := s.fetcher.LendingOrders(ctx)
	if err != nil {
		return err
	}
	byCurrency := make(map[string]kucoin.LendingOrder, len(orders))
	for _, order := range orders {
		byCurrency[order.Currency] = order
	}
	s.lendingOrders.replace(byCurrency)
	return nil
}

func (s *Store) RefreshSpotCurrencies(ctx context.Context) error {
	currencies, err := s.fetcher.SpotCurrencies(ctx)
	if err != nil {
		return err
	}
	byCurrency := make(map[string]kucoin.SpotCurrency, len(currencies))
	for _, currency := range currencies {
		byCurrency[currency.Currency] = currency
	}
	s.spotCurrencies.replace(byCurrency)
	return nil
}

func (s *Store) RefreshSpotSymbols(ctx context.Context) error {
	symbols, err := s.fetcher.SpotSymbols(ctx)
	if err != nil {
		return err
	}
	bySymbol := make(map[string]kucoin.Symbol, len(symbols))
	for _, symbol := range symbols {
		bySymbol[symbol.Symbol] = symbol
	}
	s.spotSymbols.replace(bySymbol)
	return nil
}

func (s *Store) RefreshTickers(ctx context.Context) error {
	tickers, err := s.fetcher.SpotTickers(ctx)
	if err != nil {
		return err
	}
	bySymbol := make(map[string]kucoin.Ticker, len(tickers))
	for _, ticker := range tickers {
		bySymbol[ticker.Symbol] = ticker
	}
	s.tickers.Replace(bySymbol)
	return nil
}

// AvailableBalance returns the available funds for (accountType, currency),
// or false if no such account holds a balance.
func (s *Store) AvailableBalance(accountType kucoin.AccountType, currency string) (float64, bool) {
	s.accountsMu.RLock()
	defer s.accountsMu.RUnlock()
	for _, account := range s.accounts[accountType] {
		if account.Currency == currency {
			return account.AvailableValue(), true
		}
	}
	return 0, false
}

// AccountsByType returns a copy of the accounts snapshot.
func (s *Store) AccountsByType() map[kucoin.AccountType][]kucoin.Account {
	s.accountsMu.RLock()
	defer s.accountsMu.RUnlock()
	out := make(map[kucoin.AccountType][]kucoin.Account, len(s.accounts))
	for accountType, accounts := range s.accounts {
		out[accountType] = append([]kucoin.Account(nil), accounts...)
	}
	return out
}

func (s *Store) LendingCurrency(currency string, recordAccess bool) (kucoin.LendingCurrency, bool) {
	return s.lendingCurrencies.Get(currency, recordAccess)
}

func (s *Store) RecentLendingCurrencies() []string {
	return s.lendingCurrencies.Recent()
}

func (s *Store) LendingOrder(currency string) (kucoin.LendingOrder, bool) {
	return s.lendingOrders.get(currency)
}

func (s *Store) LendingOrderCount() int {
	return s.lendingOrders.len()
}

func (s *Store) SpotCurrency(currency string) (kucoin.SpotCurrency, bool) {
	return s.spotCurrencies.get(currency)
}

func (s *Store) SpotSymbol(symbol string) (kucoin.Symbol, bool) {
	return s.spotSymbols.get(symbol)
}

func (s *Store) Ticker(symbol string, recordAccess bool) (kucoin.Ticker, bool) {
	return s.tickers.Get(symbol, recordAccess)
}

func (s *Store) RecentTickers() []string {
	return s.tickers.Recent()
}
