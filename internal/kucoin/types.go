package kucoin

import (
	"encoding/json"
	"strconv"
	"strings"
)

// AccountType is the exchange's sub-account class. Wire values are lowercase
// snake case on reads and upper snake case on transfer requests.
type AccountType string

const (
	AccountMain       AccountType = "main"
	AccountTrade      AccountType = "trade"
	AccountContract   AccountType = "contract"
	AccountMargin     AccountType = "margin"
	AccountIsolated   AccountType = "isolated"
	AccountMarginV2   AccountType = "margin_v2"
	AccountIsolatedV2 AccountType = "isolated_v2"
	AccountOption     AccountType = "option"
)

// Wire returns the upper snake case form used by the transfer endpoint.
func (t AccountType) Wire() string {
	return strings.ToUpper(string(t))
}

// DisplayName returns the name the exchange UI uses for the account class.
func (t AccountType) DisplayName() string {
	switch t {
	case AccountMain:
		return "Funding"
	case AccountTrade:
		return "Trading"
	case AccountContract:
		return "Futures"
	case AccountMargin:
		return "Margin"
	case AccountIsolated:
		return "Isolated"
	case AccountMarginV2:
		return "Margin V2"
	case AccountIsolatedV2:
		return "Isolated V2"
	case AccountOption:
		return "Option"
	default:
		return string(t)
	}
}

// Account is one (account type, currency) balance row. Numeric fields arrive
// as decimal strings.
type Account struct {
	ID        string      `json:"id"`
	Currency  string      `json:"currency"`
	Type      AccountType `json:"type"`
	Balance   string      `json:"balance"`
	Available string      `json:"available"`
	Holds     string      `json:"holds"`
}

func (a Account) BalanceValue() float64 {
	return parseDecimal(a.Balance)
}

func (a Account) AvailableValue() float64 {
	return parseDecimal(a.Available)
}

// LendingCurrency describes a currency on the lending market, including its
// size constraints and the current market rate.
type LendingCurrency struct {
	Currency           string `json:"currency"`
	PurchaseEnable     bool   `json:"purchaseEnable"`
	RedeemEnable       bool   `json:"redeemEnable"`
	Increment          string `json:"increment"`
	MinPurchaseSize    string `json:"minPurchaseSize"`
	MaxPurchaseSize    string `json:"maxPurchaseSize"`
	MinInterestRate    string `json:"minInterestRate"`
	MaxInterestRate    string `json:"maxInterestRate"`
	InterestIncrement  string `json:"interestIncrement"`
	MarketInterestRate string `json:"marketInterestRate"`
	AutoPurchaseEnable bool   `json:"autoPurchaseEnable"`
}

// MarketInterestRateValue is the current lending APY as a percentage.
func (c LendingCurrency) MarketInterestRateValue() float64 {
	return parseDecimal(c.MarketInterestRate) * 100
}

func (c LendingCurrency) MinInterestRateValue() float64 {
	return parseDecimal(c.MinInterestRate) * 100
}

func (c LendingCurrency) MaxInterestRateValue() float64 {
	return parseDecimal(c.MaxInterestRate) * 100
}

func (c LendingCurrency) IncrementValue() float64 {
	return parseDecimal(c.Increment)
}

func (c LendingCurrency) MinPurchaseSizeValue() float64 {
	return parseDecimal(c.MinPurchaseSize)
}

func (c LendingCurrency) MaxPurchaseSizeValue() float64 {
	return parseDecimal(c.MaxPurchaseSize)
}

// LendingOrder is an active (pending) lending subscription.
type LendingOrder struct {
	Currency        string `json:"currency"`
	PurchaseOrderNo string `json:"purchaseOrderNo"`
	PurchaseSize    string `json:"purchaseSize"`
	MatchSize       string `json:"matchSize"`
	InterestRate    string `json:"interestRate"`
	IncomeSize      string `json:"incomeSize"`
	ApplyTime       int64  `json:"applyTime"`
	Status          string `json:"status"`
}

func (o LendingOrder) PurchaseSizeValue() float64 {
	return parseDecimal(o.PurchaseSize)
}

func (o LendingOrder) InterestRateValue() float64 {
	return parseDecimal(o.InterestRate) * 100
}

// SpotCurrency carries the trading precision for one currency.
type SpotCurrency struct {
	Currency  string `json:"currency"`
	Name      string `json:"name"`
	FullName  string `json:"fullName"`
	Precision int    `json:"precision"`
}

// Symbol is a spot trading pair with its size constraints on both sides.
type Symbol struct {
	Symbol         string `json:"symbol"`
	Name           string `json:"name"`
	BaseCurrency   string `json:"baseCurrency"`
	QuoteCurrency  string `json:"quoteCurrency"`
	FeeCurrency    string `json:"feeCurrency"`
	Market         string `json:"market"`
	BaseMinSize    string `json:"baseMinSize"`
	QuoteMinSize   string `json:"quoteMinSize"`
	BaseMaxSize    string `json:"baseMaxSize"`
	QuoteMaxSize   string `json:"quoteMaxSize"`
	BaseIncrement  string `json:"baseIncrement"`
	QuoteIncrement string `json:"quoteIncrement"`
	PriceIncrement string `json:"priceIncrement"`
	EnableTrading  bool   `json:"enableTrading"`
}

func (s Symbol) BaseMinSizeValue() float64   { return parseDecimal(s.BaseMinSize) }
func (s Symbol) BaseMaxSizeValue() float64   { return parseDecimal(s.BaseMaxSize) }
func (s Symbol) BaseIncrementValue() float64 { return parseDecimal(s.BaseIncrement) }

func (s Symbol) QuoteMinSizeValue() float64   { return parseDecimal(s.QuoteMinSize) }
func (s Symbol) QuoteMaxSizeValue() float64   { return parseDecimal(s.QuoteMaxSize) }
func (s Symbol) QuoteIncrementValue() float64 { return parseDecimal(s.QuoteIncrement) }

// Ticker is one row of the all-tickers feed. Last is absent for pairs that
// have never traded.
type Ticker struct {
	Symbol       string  `json:"symbol"`
	SymbolName   string  `json:"symbolName"`
	Buy          *string `json:"buy"`
	Sell         *string `json:"sell"`
	ChangeRate   *string `json:"changeRate"`
	ChangePrice  *string `json:"changePrice"`
	High         string  `json:"high"`
	Low          string  `json:"low"`
	VolValue     string  `json:"volValue"`
	Last         *string `json:"last"`
	AveragePrice *string `json:"averagePrice"`
}

// LastPrice returns the last traded price, if the pair has ever traded.
func (t Ticker) LastPrice() (float64, bool) {
	if t.Last == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(*t.Last, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ChangeRateValue is the 24h change as a percentage.
func (t Ticker) ChangeRateValue() float64 {
	if t.ChangeRate == nil {
		return 0
	}
	return parseDecimal(*t.ChangeRate) * 100
}

// OrderResult is the identifier envelope returned by order-creating
// endpoints. Different endpoints name the id differently on the wire.
type OrderResult struct {
	OrderID   string
	ClientOid string
}

func (r *OrderResult) UnmarshalJSON(data []byte) error {
	var aux struct {
		OrderID         string `json:"orderId"`
		OrderNo         string `json:"orderNo"`
		PurchaseOrderNo string `json:"purchaseOrderNo"`
		ClientOid       string `json:"clientOid"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.OrderID = aux.OrderID
	if r.OrderID == "" {
		r.OrderID = aux.OrderNo
	}
	if r.OrderID == "" {
		r.OrderID = aux.PurchaseOrderNo
	}
	r.ClientOid = aux.ClientOid
	return nil
}

func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
