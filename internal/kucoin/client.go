// Package kucoin is the typed gateway to the exchange: read endpoints feeding
// the market data snapshots and the four order-creating endpoints used by the
// strategy engine.
package kucoin

import (
	"context"
	"strconv"
	"strings"

	"kc-strategy-bot/internal/kucoin/rest"

	"github.com/google/uuid"
)

const (
	pathAccounts          = "/api/v1/accounts"
	pathTransfer          = "/api/v3/accounts/universal-transfer"
	pathLendingCurrencies = "/api/v3/project/list"
	pathLendingOrders     = "/api/v3/purchase/orders?status=PENDING"
	pathLend              = "/api/v3/purchase"
	pathRedeem            = "/api/v3/redeem"
	pathSpotCurrencies    = "/api/v3/currencies"
	pathSpotSymbols       = "/api/v2/symbols"
	pathSpotTickers       = "/api/v1/market/allTickers"
	pathSpotOrder         = "/api/v1/hf/orders"
	pathAnnouncements     = "/api/v3/announcements"
)

type Client struct {
	rest *rest.Client
}

func New(restClient *rest.Client) *Client {
	return &Client{rest: restClient}
}

func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := c.rest.Get(ctx, pathAccounts, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) LendingCurrencies(ctx context.Context) ([]LendingCurrency, error) {
	var currencies []LendingCurrency
	if err := c.rest.Get(ctx, pathLendingCurrencies, &currencies); err != nil {
		return nil, err
	}
	return currencies, nil
}

func (c *Client) LendingOrders(ctx context.Context) ([]LendingOrder, error) {
	var page rest.Paginated[LendingOrder]
	if err := c.rest.Get(ctx, pathLendingOrders, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (c *Client) SpotCurrencies(ctx context.Context) ([]SpotCurrency, error) {
	var currencies []SpotCurrency
	if err := c.rest.Get(ctx, pathSpotCurrencies, &currencies); err != nil {
		return nil, err
	}
	return currencies, nil
}

func (c *Client) SpotSymbols(ctx context.Context) ([]Symbol, error) {
	var symbols []Symbol
	if err := c.rest.Get(ctx, pathSpotSymbols, &symbols); err != nil {
		return nil, err
	}
	return symbols, nil
}

func (c *Client) SpotTickers(ctx context.Context) ([]Ticker, error) {
	var resp struct {
		Time    int64    `json:"time"`
		Tickers []Ticker `json:"ticker"`
	}
	if err := c.rest.Get(ctx, pathSpotTickers, &resp); err != nil {
		return nil, err
	}
	return resp.Tickers, nil
}

// Announcement is one exchange announcement row.
type Announcement struct {
	ID    int64    `json:"annId"`
	Title string   `json:"annTitle"`
	Types []string `json:"annType"`
	Desc  string   `json:"annDesc"`
	URL   string   `json:"annUrl"`
	Time  int64    `json:"cTime"`
}

// Announcements lists announcements published at or after startTime
// (milliseconds).
func (c *Client) Announcements(ctx context.Context, startTime int64) ([]Announcement, error) {
	var page rest.Paginated[Announcement]
	path := pathAnnouncements + "?startTime=" + strconv.FormatInt(startTime, 10)
	if err := c.rest.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
)

func (t OrderType) DisplayName() string {
	return strings.ToUpper(string(t))
}

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

func (s Side) DisplayName() string {
	return strings.ToUpper(string(s))
}

// SpotOrderRequest is the payload for the high-frequency spot order endpoint.
// Limit orders carry price+size; market buys carry funds (quote currency),
// market sells carry size (base currency).
type SpotOrderRequest struct {
	Type   OrderType `json:"type"`
	Symbol string    `json:"symbol"`
	Side   Side      `json:"side"`
	Price  string    `json:"price,omitempty"`
	Size   string    `json:"size,omitempty"`
	Funds  string    `json:"funds,omitempty"`
}

func LimitOrder(symbol string, side Side, price, size float64) SpotOrderRequest {
	return SpotOrderRequest{
		Type:   OrderTypeLimit,
		Symbol: symbol,
		Side:   side,
		Price:  formatDecimal(price),
		Size:   formatDecimal(size),
	}
}

func MarketOrder(symbol string, side Side, amount float64) SpotOrderRequest {
	req := SpotOrderRequest{
		Type:   OrderTypeMarket,
		Symbol: symbol,
		Side:   side,
	}
	switch side {
	case SideBuy:
		req.Funds = formatDecimal(amount)
	case SideSell:
		req.Size = formatDecimal(amount)
	}
	return req
}

// LendRequest creates a lending offer. The wire rate is a fraction, not a
// percentage.
type LendRequest struct {
	Currency     string `json:"currency"`
	InterestRate string `json:"interestRate"`
	Size         string `json:"size"`
}

func NewLendRequest(currency string, interestRatePct, size float64) LendRequest {
	return LendRequest{
		Currency:     currency,
		InterestRate: formatDecimal(interestRatePct / 100),
		Size:         formatDecimal(size),
	}
}

type RedeemRequest struct {
	Currency        string `json:"currency"`
	PurchaseOrderNo string `json:"purchaseOrderNo"`
	Size            string `json:"size"`
}

func NewRedeemRequest(currency, purchaseOrderNo string, size float64) RedeemRequest {
	return RedeemRequest{
		Currency:        currency,
		PurchaseOrderNo: purchaseOrderNo,
		Size:            formatDecimal(size),
	}
}

type TransferRequest struct {
	Amount          string `json:"amount"`
	ClientOid       string `json:"clientOid"`
	Currency        string `json:"currency"`
	FromAccountTag  string `json:"fromAccountTag,omitempty"`
	FromAccountType string `json:"fromAccountType"`
	ToAccountTag    string `json:"toAccountTag,omitempty"`
	ToAccountType   string `json:"toAccountType"`
	Type            string `json:"type"`
}

// NewInternalTransfer builds a same-user transfer between two account types.
func NewInternalTransfer(currency string, amount float64, from, to AccountType, fromTag, toTag string) TransferRequest {
	return TransferRequest{
		Amount:          formatDecimal(amount),
		ClientOid:       strings.ReplaceAll(uuid.NewString(), "-", ""),
		Currency:        currency,
		FromAccountTag:  fromTag,
		FromAccountType: from.Wire(),
		ToAccountTag:    toTag,
		ToAccountType:   to.Wire(),
		Type:            "INTERNAL",
	}
}

func (c *Client) PlaceSpotOrder(ctx context.Context, req SpotOrderRequest) (OrderResult, error) {
	var result OrderResult
	if err := c.rest.Post(ctx, pathSpotOrder, req, &result); err != nil {
		return OrderResult{}, err
	}
	return result, nil
}

func (c *Client) Lend(ctx context.Context, req LendRequest) (OrderResult, error) {
	var result OrderResult
	if err := c.rest.Post(ctx, pathLend, req, &result); err != nil {
		return OrderResult{}, err
	}
	return result, nil
}

func (c *Client) Redeem(ctx context.Context, req RedeemRequest) (OrderResult, error) {
	var result OrderResult
	if err := c.rest.Post(ctx, pathRedeem, req, &result); err != nil {
		return OrderResult{}, err
	}
	return result, nil
}

func (c *Client) Transfer(ctx context.Context, req TransferRequest) (OrderResult, error) {
	var result OrderResult
	if err := c.rest.Post(ctx, pathTransfer, req, &result); err != nil {
		return OrderResult{}, err
	}
	return result, nil
}

func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
