package engine

import (
	"math"

	"kc-strategy-bot/internal/kucoin"
	"kc-strategy-bot/internal/market"
	"kc-strategy-bot/internal/rules"
)

// AmountCalculator turns an action's percentage into a concrete executable
// size against current balances and the exchange's size constraints. A zero
// return with ok=false means the action is not executable right now.
type AmountCalculator struct {
	market *market.Store
}

func NewAmountCalculator(store *market.Store) *AmountCalculator {
	return &AmountCalculator{market: store}
}

func (c *AmountCalculator) Amount(action rules.Action) (float64, bool) {
	switch action.Kind {
	case rules.ActionSpotOrder:
		return c.spotOrderAmount(action)
	case rules.ActionLend:
		return c.lendAmount(action)
	case rules.ActionRedeem:
		return c.redeemAmount(action)
	case rules.ActionTransfer:
		return c.transferAmount(action)
	default:
		return 0, false
	}
}

// spotOrderAmount sizes against the quote currency for market buys (the
// order carries funds) and against the base currency otherwise (the order
// carries size). Balances come from the trade account.
func (c *AmountCalculator) spotOrderAmount(action rules.Action) (float64, bool) {
	symbol, ok := c.market.SpotSymbol(action.Symbol)
	if !ok {
		return 0, false
	}
	var currency string
	var increment, min, max float64
	if action.OrderType == kucoin.OrderTypeMarket && action.Side == kucoin.SideBuy {
		currency = symbol.QuoteCurrency
		increment = symbol.QuoteIncrementValue()
		min = symbol.QuoteMinSizeValue()
		max = symbol.QuoteMaxSizeValue()
	} else {
		currency = symbol.BaseCurrency
		increment = symbol.BaseIncrementValue()
		min = symbol.BaseMinSizeValue()
		max = symbol.BaseMaxSizeValue()
	}
	available, ok := c.market.AvailableBalance(kucoin.AccountTrade, currency)
	if !ok {
		return 0, false
	}
	return sizeWithin(available, action.Percentage, increment, min, max)
}

func (c *AmountCalculator) lendAmount(action rules.Action) (float64, bool) {
	currency, ok := c.market.LendingCurrency(action.Symbol, false)
	if !ok {
		return 0, false
	}
	available, ok := c.market.AvailableBalance(kucoin.AccountMain, action.Symbol)
	if !ok {
		return 0, false
	}
	return sizeWithin(available, action.Percentage,
		currency.IncrementValue(), currency.MinPurchaseSizeValue(), currency.MaxPurchaseSizeValue())
}

// redeemAmount sizes against the outstanding purchase size of the active
// lending order. There is no upper bound; redeeming more than outstanding is
// the exchange's concern.
func (c *AmountCalculator) redeemAmount(action rules.Action) (float64, bool) {
	order, ok := c.market.LendingOrder(action.Symbol)
	if !ok {
		return 0, false
	}
	currency, ok := c.market.LendingCurrency(action.Symbol, false)
	if !ok {
		return 0, false
	}
	increment := currency.IncrementValue()
	if increment <= 0 {
		return 0, false
	}
	amount := truncate(order.PurchaseSizeValue()*action.Percentage/100, decimalsOf(increment))
	if amount < increment {
		return 0, false
	}
	return amount, true
}

// transferAmount truncates to the currency's quoted precision digits rather
// than an increment.
func (c *AmountCalculator) transferAmount(action rules.Action) (float64, bool) {
	currency, ok := c.market.SpotCurrency(action.Symbol)
	if !ok {
		return 0, false
	}
	available, ok := c.market.AvailableBalance(action.From, action.Symbol)
	if !ok {
		return 0, false
	}
	amount := truncate(available*action.Percentage/100, currency.Precision)
	if amount < math.Pow(10, -float64(currency.Precision)) {
		return 0, false
	}
	return amount, true
}

// sizeWithin applies the shared sizing shape: take percentage of available,
// floor to the increment's decimal precision, reject outside [min, max].
func sizeWithin(available, percentage, increment, min, max float64) (float64, bool) {
	if increment <= 0 {
		return 0, false
	}
	amount := truncate(available*percentage/100, decimalsOf(increment))
	if amount <= 0 || amount < min || amount > max {
		return 0, false
	}
	return amount, true
}

// decimalsOf maps an increment like 0.0001 to its implied digit count, 4.
func decimalsOf(increment float64) int {
	return int(math.Round(math.Abs(math.Log10(increment))))
}

// truncate floors v to the given number of decimal digits. Never rounds up,
// so a computed size cannot exceed available funds.
func truncate(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Trunc(v*scale) / scale
}
