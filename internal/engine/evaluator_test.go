package engine

import (
	"testing"

	"kc-strategy-bot/internal/kucoin"
	"kc-strategy-bot/internal/rules"
)

func TestResolveSpotPair(t *testing.T) {
	last := "50000"
	store := newTestMarket(t, &fakeFetcher{
		tickers: []kucoin.Ticker{
			{Symbol: "BTC-USDT", Last: &last},
			{Symbol: "NEW-USDT"},
		},
	})
	eval := NewEvaluator(store)

	value, ok := eval.Resolve(rules.SpotPairProduct("BTC-USDT"))
	if !ok || value != 50000 {
		t.Fatalf("Resolve = %v, %v", value, ok)
	}
	if _, ok := eval.Resolve(rules.SpotPairProduct("NEW-USDT")); ok {
		t.Fatalf("never-traded pair must not resolve")
	}
	if _, ok := eval.Resolve(rules.SpotPairProduct("ETH-USDT")); ok {
		t.Fatalf("unknown pair must not resolve")
	}
}

func TestResolveLendingRateAsPercentage(t *testing.T) {
	store := newTestMarket(t, &fakeFetcher{
		lendingCurrencies: []kucoin.LendingCurrency{{Currency: "USDT", MarketInterestRate: "0.12"}},
	})
	eval := NewEvaluator(store)

	value, ok := eval.Resolve(rules.LendingCurrencyProduct("USDT"))
	if !ok || value != 12 {
		t.Fatalf("Resolve = %v, %v, want 12", value, ok)
	}
}

func TestResolveBalance(t *testing.T) {
	store := newTestMarket(t, &fakeFetcher{
		accounts: []kucoin.Account{
			{Currency: "USDT", Type: kucoin.AccountTrade, Balance: "1000", Available: "800"},
		},
	})
	eval := NewEvaluator(store)

	value, ok := eval.Resolve(rules.BalanceProduct(kucoin.AccountTrade, "USDT"))
	if !ok || value != 800 {
		t.Fatalf("Resolve = %v, %v, want 800", value, ok)
	}
	if _, ok := eval.Resolve(rules.BalanceProduct(kucoin.AccountMain, "USDT")); ok {
		t.Fatalf("missing account must not resolve")
	}
}

func TestEvaluateRequiresProductAndCondition(t *testing.T) {
	last := "50000"
	store := newTestMarket(t, &fakeFetcher{
		tickers: []kucoin.Ticker{{Symbol: "BTC-USDT", Last: &last}},
	})
	eval := NewEvaluator(store)

	strategy := &rules.Strategy{Name: "s"}
	if eval.Evaluate(strategy) {
		t.Fatalf("strategy without product/condition must not evaluate")
	}
	strategy.Product = rules.SpotPairProduct("BTC-USDT")
	if eval.Evaluate(strategy) {
		t.Fatalf("strategy without condition must not evaluate")
	}
	strategy.Condition = rules.LessThan(60000)
	if !eval.Evaluate(strategy) {
		t.Fatalf("50000 < 60000 should evaluate true")
	}
	strategy.Condition = rules.GreaterThan(60000)
	if eval.Evaluate(strategy) {
		t.Fatalf("50000 > 60000 should evaluate false")
	}
}
