// Package yahoo implements the live price provider on top of the
// Yahoo Finance v8 chart endpoint.
package yahoo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sysdevguru/stockfolio/env"
	"github.com/sysdevguru/stockfolio/utils"
	try "gopkg.in/matryer/try.v1"
)

const maxAttempts = 3

var ErrNoResult = errors.New("yahoo: no result for symbol")

type Client struct {
	baseURL string
	cli     *http.Client
}

func NewClient() *Client {
	baseURL := env.GetVar("YAHOO_BASE_URL")
	if baseURL == "" {
		baseURL = "https://query2.finance.yahoo.com"
	}
	return &Client{
		baseURL: baseURL,
		cli:     &http.Client{Timeout: 8 * time.Second},
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// GetPrice returns the latest traded price for symbol. Transient
// failures are retried a bounded number of times before giving up.
func (c *Client) GetPrice(symbol string) (decimal.Decimal, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return decimal.Zero, ErrNoResult
	}

	var price decimal.Decimal

	err := try.Do(func(attempt int) (bool, error) {
		var err error
		price, err = c.fetch(symbol)
		return attempt < maxAttempts && retryable(err), err
	})

	return price, err
}

func (c *Client) fetch(symbol string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1m&range=1d", c.baseURL, symbol)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("User-Agent", "stockfolio/"+utils.Version)

	resp, err := c.cli.Do(req)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "yahoo request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("yahoo http %d", resp.StatusCode)
	}

	raw := chartResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return decimal.Zero, errors.Wrap(err, "yahoo response malformed")
	}

	if len(raw.Chart.Result) == 0 {
		return decimal.Zero, ErrNoResult
	}

	r := raw.Chart.Result[0]
	price := r.Meta.RegularMarketPrice

	// fall back to the last non-zero close if meta is missing
	if (price <= 0 || r.Meta.RegularMarketTime == 0) &&
		len(r.Timestamp) > 0 &&
		len(r.Indicators.Quote) > 0 &&
		len(r.Indicators.Quote[0].Close) == len(r.Timestamp) {
		for i := len(r.Timestamp) - 1; i >= 0; i-- {
			if px := r.Indicators.Quote[0].Close[i]; px > 0 {
				price = px
				break
			}
		}
	}

	if price <= 0 {
		return decimal.Zero, ErrNoResult
	}

	return decimal.NewFromFloat(price), nil
}

// retryable reports whether err is worth another round trip. Missing
// data is final; transport and 5xx-class failures are not.
func retryable(err error) bool {
	if err == nil || err == ErrNoResult {
		return false
	}
	return true
}
