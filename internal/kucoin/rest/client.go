// Package rest implements the signed KuCoin REST transport. Every request
// carries the KC-API-* header set: a millisecond timestamp, an HMAC-SHA256
// signature over timestamp+method+path+body, and the HMAC-signed passphrase,
// both base64-encoded.
package rest

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Credentials holds the API key set issued by the exchange. Passed in at
// construction time; never read from process globals.
type Credentials struct {
	Key        string
	Secret     string
	Passphrase string
	KeyVersion string
}

type Client struct {
	baseURL string
	creds   Credentials
	http    *http.Client
	log     *zap.Logger
	now     func() time.Time
}

func New(baseURL string, timeout time.Duration, creds Credentials, log *zap.Logger) *Client {
	if creds.KeyVersion == "" {
		creds.KeyVersion = "2"
	}
	return &Client{
		baseURL: baseURL,
		creds:   creds,
		http: &http.Client{
			Timeout: timeout,
		},
		log: log,
		now: time.Now,
	}
}

// APIError is an exchange-reported business failure ({code, msg} envelope).
type APIError struct {
	Code string
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("code: %s, msg: %s", e.Code, e.Msg)
}

// Paginated is the exchange's page envelope for list endpoints.
type Paginated[T any] struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalNum    int `json:"totalNum"`
	TotalPage   int `json:"totalPage"`
	Items       []T `json:"items"`
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.sign(req, method, path, body)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		var env struct {
			Code string `json:"code"`
			Msg  string `json:"msg"`
		}
		if err := json.Unmarshal(payload, &env); err == nil && env.Msg != "" {
			return &APIError{Code: env.Code, Msg: env.Msg}
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(payload))
	}
	var env struct {
		Code string          `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return err
	}
	if env.Msg != "" || len(env.Data) == 0 || string(env.Data) == "null" {
		return &APIError{Code: env.Code, Msg: env.Msg}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// sign sets the KC-API-* headers. The path component of the signed string
// includes the query string, exactly as sent on the wire.
func (c *Client) sign(req *http.Request, method, path string, body []byte) {
	timestamp := strconv.FormatInt(c.now().UnixMilli(), 10)
	signature := hmacBase64(c.creds.Secret, timestamp+method+path+string(body))
	passphrase := hmacBase64(c.creds.Secret, c.creds.Passphrase)

	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("KC-API-KEY", c.creds.Key)
	req.Header.Set("KC-API-KEY-VERSION", c.creds.KeyVersion)
	req.Header.Set("KC-API-TIMESTAMP", timestamp)
	req.Header.Set("KC-API-SIGN", signature)
	req.Header.Set("KC-API-PASSPHRASE", passphrase)
}

func hmacBase64(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
