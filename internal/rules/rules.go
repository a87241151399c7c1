// Package rules holds user-defined strategy definitions: a product to watch,
// a condition to trigger on, and an ordered action sequence to execute.
package rules

import (
	"fmt"
	"strings"

	"kc-strategy-bot/internal/kucoin"
)

// ProductKind selects which live metric a strategy compares against.
type ProductKind string

const (
	ProductSpotPair        ProductKind = "spot_pair"
	ProductLendingCurrency ProductKind = "lending_currency"
	ProductBalance         ProductKind = "balance"
)

// Product identifies the metric a condition is evaluated on. Symbol is set
// for spot pairs, Currency for the other kinds, AccountType only for balance
// products.
type Product struct {
	Kind        ProductKind        `json:"kind"`
	Symbol      string             `json:"symbol,omitempty"`
	Currency    string             `json:"currency,omitempty"`
	AccountType kucoin.AccountType `json:"accountType,omitempty"`
}

func SpotPairProduct(symbol string) *Product {
	return &Product{Kind: ProductSpotPair, Symbol: symbol}
}

func LendingCurrencyProduct(currency string) *Product {
	return &Product{Kind: ProductLendingCurrency, Currency: currency}
}

func BalanceProduct(accountType kucoin.AccountType, currency string) *Product {
	return &Product{Kind: ProductBalance, AccountType: accountType, Currency: currency}
}

func (p *Product) String() string {
	switch p.Kind {
	case ProductSpotPair:
		return fmt.Sprintf("last price of %s", p.Symbol)
	case ProductLendingCurrency:
		return fmt.Sprintf("lending rate of %s", p.Currency)
	case ProductBalance:
		return fmt.Sprintf("%s %s balance", p.AccountType.DisplayName(), p.Currency)
	default:
		return string(p.Kind)
	}
}

// Op is a strict comparison; there is no equality trigger.
type Op string

const (
	OpGreaterThan Op = ">"
	OpLessThan    Op = "<"
)

type Condition struct {
	Op        Op      `json:"op"`
	Threshold float64 `json:"threshold"`
}

func GreaterThan(threshold float64) *Condition {
	return &Condition{Op: OpGreaterThan, Threshold: threshold}
}

func LessThan(threshold float64) *Condition {
	return &Condition{Op: OpLessThan, Threshold: threshold}
}

// Holds reports whether value satisfies the condition.
func (c *Condition) Holds(value float64) bool {
	switch c.Op {
	case OpGreaterThan:
		return value > c.Threshold
	case OpLessThan:
		return value < c.Threshold
	default:
		return false
	}
}

func (c *Condition) String() string {
	return fmt.Sprintf("%s %g", c.Op, c.Threshold)
}

type ActionKind string

const (
	ActionSpotOrder ActionKind = "spot_order"
	ActionLend      ActionKind = "lend"
	ActionRedeem    ActionKind = "redeem"
	ActionTransfer  ActionKind = "transfer"
)

// Action is one exchange operation with a sizing percentage and an
// enable/disable flag. Symbol is the trading pair for spot orders and the
// currency for everything else. Skip marks an action as not yet configured
// or deliberately disabled; only skip=false actions are candidates for
// execution.
type Action struct {
	Kind       ActionKind `json:"kind"`
	Symbol     string     `json:"symbol"`
	Percentage float64    `json:"percentage"`
	Skip       bool       `json:"skip"`

	OrderType  kucoin.OrderType `json:"orderType,omitempty"`
	Side       kucoin.Side      `json:"side,omitempty"`
	LimitPrice *float64         `json:"limitPrice,omitempty"`

	MinInterestRate float64 `json:"minInterestRate,omitempty"`

	From    kucoin.AccountType `json:"from,omitempty"`
	To      kucoin.AccountType `json:"to,omitempty"`
	FromTag string             `json:"fromTag,omitempty"`
	ToTag   string             `json:"toTag,omitempty"`
}

// New actions start disabled until the operator finishes configuring them.

func NewSpotOrderAction(side kucoin.Side) Action {
	return Action{Kind: ActionSpotOrder, Side: side, Skip: true}
}

func NewLendAction() Action {
	return Action{Kind: ActionLend, Skip: true}
}

func NewRedeemAction() Action {
	return Action{Kind: ActionRedeem, Skip: true}
}

func NewTransferAction() Action {
	return Action{Kind: ActionTransfer, Skip: true}
}

func (a Action) String() string {
	var b strings.Builder
	switch a.Kind {
	case ActionSpotOrder:
		fmt.Fprintf(&b, "%s %s %s", a.OrderType.DisplayName(), a.Side.DisplayName(), a.Symbol)
		if a.LimitPrice != nil {
			fmt.Fprintf(&b, " @ %g", *a.LimitPrice)
		}
	case ActionLend:
		fmt.Fprintf(&b, "LEND %s at >= %g%%", a.Symbol, a.MinInterestRate)
	case ActionRedeem:
		fmt.Fprintf(&b, "REDEEM %s", a.Symbol)
	case ActionTransfer:
		fmt.Fprintf(&b, "TRANSFER %s %s -> %s", a.Symbol, a.From.DisplayName(), a.To.DisplayName())
	default:
		b.WriteString(string(a.Kind))
	}
	fmt.Fprintf(&b, " (%g%%", a.Percentage)
	if a.Skip {
		b.WriteString(", disabled")
	}
	b.WriteString(")")
	return b.String()
}

// Strategy is a named rule. A strategy with no product or no condition can
// never execute; the configuration UI builds these up incrementally.
type Strategy struct {
	Name      string     `json:"name"`
	Product   *Product   `json:"product,omitempty"`
	Condition *Condition `json:"condition,omitempty"`
	Actions   []Action   `json:"actions"`
}

func (s *Strategy) AddAction(action Action) {
	s.Actions = append(s.Actions, action)
}

func (s *Strategy) RemoveAction(index int) bool {
	if index < 0 || index >= len(s.Actions) {
		return false
	}
	s.Actions = append(s.Actions[:index], s.Actions[index+1:]...)
	return true
}

// MoveAction swaps the action at index with its neighbor. up moves it toward
// the front of the list.
func (s *Strategy) MoveAction(index int, up bool) bool {
	if index < 0 || index >= len(s.Actions) {
		return false
	}
	target := index + 1
	if up {
		target = index - 1
	}
	if target < 0 || target >= len(s.Actions) {
		return false
	}
	s.Actions[index], s.Actions[target] = s.Actions[target], s.Actions[index]
	return true
}

// Clone returns a deep copy. The store hands out and accepts clones only, so
// callers can never mutate stored state through aliasing.
func (s *Strategy) Clone() *Strategy {
	out := &Strategy{Name: s.Name}
	if s.Product != nil {
		product := *s.Product
		out.Product = &product
	}
	if s.Condition != nil {
		condition := *s.Condition
		out.Condition = &condition
	}
	if s.Actions != nil {
		out.Actions = make([]Action, len(s.Actions))
		copy(out.Actions, s.Actions)
		for i, action := range s.Actions {
			if action.LimitPrice != nil {
				price := *action.LimitPrice
				out.Actions[i].LimitPrice = &price
			}
		}
	}
	return out
}

func (s *Strategy) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", s.Name)
	if s.Product != nil && s.Condition != nil {
		fmt.Fprintf(&b, "when %s %s\n", s.Product, s.Condition)
	} else {
		b.WriteString("(no trigger configured)\n")
	}
	if len(s.Actions) == 0 {
		b.WriteString("(no actions)")
	}
	for i, action := range s.Actions {
		fmt.Fprintf(&b, "%d. %s", i+1, action)
		if i < len(s.Actions)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
