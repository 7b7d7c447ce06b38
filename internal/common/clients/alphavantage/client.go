// Package alphavantage reads latest quotes from the Alpha Vantage query API.
package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.alphavantage.co/query"

	functionGlobalQuote = "GLOBAL_QUOTE"
	defaultTimeout      = 10 * time.Second
)

var (
	ErrNoQuote     = errors.New("no quote for symbol")
	ErrRateLimited = errors.New("alpha vantage rate limit reached")
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient shares limiter between every call. The free tier allows 5 requests a minute,
// which is NewLimiter(rate.Every(12*time.Second), 1).
func NewClient(baseURL, apiKey string, limiter *rate.Limiter) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    limiter,
	}
}

// LimiterPerMinute builds a limiter allowing n requests a minute with no burst.
func LimiterPerMinute(n int) *rate.Limiter {
	if n <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}

	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
}

type Quote struct {
	Symbol        string
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
	Volume        int64
	LatestDay     string
}

type globalQuoteResponse struct {
	GlobalQuote *struct {
		Symbol        string `json:"01. symbol"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		LatestDay     string `json:"07. latest trading day"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`

	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

func (c *Client) GlobalQuote(ctx context.Context, symbol string) (*Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("function", functionGlobalQuote)
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote of %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get quote of %s: status %d", symbol, resp.StatusCode)
	}

	var body globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode quote of %s: %w", symbol, err)
	}

	switch {
	case body.Note != "" || body.Information != "":
		return nil, ErrRateLimited
	case body.ErrorMessage != "":
		return nil, fmt.Errorf("alpha vantage: %s", body.ErrorMessage)
	case body.GlobalQuote == nil || body.GlobalQuote.Price == "":
		return nil, fmt.Errorf("%w %s", ErrNoQuote, symbol)
	}

	q := body.GlobalQuote

	price, err := decimal.NewFromString(q.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price %q: %w", q.Price, err)
	}

	quote := &Quote{
		Symbol:    q.Symbol,
		Price:     price,
		LatestDay: q.LatestDay,
	}

	// The remaining fields are informational and may be blank.
	if change, err := decimal.NewFromString(q.Change); err == nil {
		quote.Change = change
	}
	if pct, err := decimal.NewFromString(strings.TrimSuffix(q.ChangePercent, "%")); err == nil {
		quote.ChangePercent = pct
	}
	if volume, err := decimal.NewFromString(q.Volume); err == nil {
		quote.Volume = volume.IntPart()
	}

	return quote, nil
}

// Quote returns the latest price of symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q, err := c.GlobalQuote(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	return q.Price, nil
}
