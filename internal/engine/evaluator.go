// Package engine evaluates strategies against live market data and executes
// their actions through the exchange gateway.
package engine

import (
	"kc-strategy-bot/internal/market"
	"kc-strategy-bot/internal/rules"
)

// Evaluator resolves a strategy's product to a current numeric value and
// checks it against the strategy's condition.
type Evaluator struct {
	market *market.Store
}

func NewEvaluator(store *market.Store) *Evaluator {
	return &Evaluator{market: store}
}

// Resolve returns the current value of the product's metric, or false when
// the backing snapshot has no data for it. Lookups here never touch the
// recency lists; those exist for the operator interface.
func (e *Evaluator) Resolve(product *rules.Product) (float64, bool) {
	switch product.Kind {
	case rules.ProductSpotPair:
		ticker, ok := e.market.Ticker(product.Symbol, false)
		if !ok {
			return 0, false
		}
		return ticker.LastPrice()
	case rules.ProductLendingCurrency:
		currency, ok := e.market.LendingCurrency(product.Currency, false)
		if !ok {
			return 0, false
		}
		return currency.MarketInterestRateValue(), true
	case rules.ProductBalance:
		return e.market.AvailableBalance(product.AccountType, product.Currency)
	default:
		return 0, false
	}
}

// Evaluate reports whether the strategy's trigger currently holds. A strategy
// missing its product or condition never triggers.
func (e *Evaluator) Evaluate(strategy *rules.Strategy) bool {
	if strategy.Product == nil || strategy.Condition == nil {
		return false
	}
	value, ok := e.Resolve(strategy.Product)
	if !ok {
		return false
	}
	return strategy.Condition.Holds(value)
}
