package rules

import (
	"encoding/json"
	"reflect"
	"testing"

	"kc-strategy-bot/internal/kucoin"
)

func sampleStrategy() *Strategy {
	price := 48000.0
	return &Strategy{
		Name:      "btc-dip",
		Product:   SpotPairProduct("BTC-USDT"),
		Condition: LessThan(50000),
		Actions: []Action{
			{
				Kind:       ActionSpotOrder,
				Symbol:     "BTC-USDT",
				Percentage: 50,
				OrderType:  kucoin.OrderTypeLimit,
				Side:       kucoin.SideBuy,
				LimitPrice: &price,
			},
			{
				Kind:       ActionTransfer,
				Symbol:     "USDT",
				Percentage: 100,
				Skip:       true,
				From:       kucoin.AccountMain,
				To:         kucoin.AccountTrade,
			},
		},
	}
}

func TestStrategyRoundTrip(t *testing.T) {
	original := sampleStrategy()
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Strategy
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(original, &decoded) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", original, &decoded)
	}
}

func TestConditionHolds(t *testing.T) {
	if !GreaterThan(10).Holds(10.1) {
		t.Fatalf("10.1 > 10 should hold")
	}
	if GreaterThan(10).Holds(10) {
		t.Fatalf("comparison is strict, 10 > 10 must not hold")
	}
	if !LessThan(10).Holds(9.9) {
		t.Fatalf("9.9 < 10 should hold")
	}
	if LessThan(10).Holds(10) {
		t.Fatalf("comparison is strict, 10 < 10 must not hold")
	}
}

func TestMoveAction(t *testing.T) {
	s := sampleStrategy()
	s.AddAction(Action{Kind: ActionRedeem, Symbol: "USDT", Percentage: 100})

	if !s.MoveAction(2, true) {
		t.Fatalf("move up failed")
	}
	if s.Actions[1].Kind != ActionRedeem {
		t.Fatalf("actions after move = %v", s.Actions)
	}
	if s.MoveAction(0, true) {
		t.Fatalf("moving the first action up should fail")
	}
	if s.MoveAction(2, false) {
		t.Fatalf("moving the last action down should fail")
	}
	if !s.RemoveAction(1) || len(s.Actions) != 2 {
		t.Fatalf("remove failed, actions = %v", s.Actions)
	}
	if s.RemoveAction(5) {
		t.Fatalf("out-of-range remove should fail")
	}
}

func TestNewActionsStartDisabled(t *testing.T) {
	actions := []Action{
		NewSpotOrderAction(kucoin.SideBuy),
		NewLendAction(),
		NewRedeemAction(),
		NewTransferAction(),
	}
	for _, action := range actions {
		if !action.Skip {
			t.Fatalf("%s must start disabled", action.Kind)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	original := sampleStrategy()
	clone := original.Clone()

	clone.Condition.Threshold = 1
	*clone.Actions[0].LimitPrice = 1
	clone.Actions[1].Skip = false

	if original.Condition.Threshold != 50000 {
		t.Fatalf("clone shares condition")
	}
	if *original.Actions[0].LimitPrice != 48000 {
		t.Fatalf("clone shares limit price")
	}
	if !original.Actions[1].Skip {
		t.Fatalf("clone shares action slice")
	}
}

func TestStoreIsolation(t *testing.T) {
	store := NewStore()
	store.Upsert(sampleStrategy())
	store.Upsert(&Strategy{Name: "alpha"})

	if got := store.Names(); !reflect.DeepEqual(got, []string{"alpha", "btc-dip"}) {
		t.Fatalf("Names() = %v, want sorted", got)
	}

	first, ok := store.Get("btc-dip")
	if !ok {
		t.Fatalf("Get(btc-dip) missing")
	}
	first.Actions[0].Skip = true

	second, _ := store.Get("btc-dip")
	if second.Actions[0].Skip {
		t.Fatalf("mutating a returned strategy must not affect the store")
	}

	if !store.Remove("alpha") {
		t.Fatalf("Remove(alpha) failed")
	}
	if store.Remove("alpha") {
		t.Fatalf("double remove should fail")
	}
	if store.Len() != 1 {
		t.Fatalf("Len() = %d", store.Len())
	}
}
