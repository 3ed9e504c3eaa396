// Package alphavantage implements the fundamentals provider on top of
// the AlphaVantage company OVERVIEW endpoint.
package alphavantage

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
	"github.com/sysdevguru/stockfolio/env"
	"github.com/sysdevguru/stockfolio/models"
	"github.com/sysdevguru/stockfolio/utils"
)

var (
	ErrMissingAPIKey = errors.New("alphavantage: ALPHAVANTAGE_API_KEY is not set")
	ErrRateLimited   = errors.New("alphavantage: rate limited")
)

type Client struct {
	baseURL string
	apiKey  string
	cli     *http.Client
}

func NewClient() *Client {
	baseURL := env.GetVar("ALPHAVANTAGE_BASE_URL")
	if baseURL == "" {
		baseURL = "https://www.alphavantage.co"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  env.GetVar("ALPHAVANTAGE_API_KEY"),
		cli:     &http.Client{Timeout: 8 * time.Second},
	}
}

type overviewQuery struct {
	Function string `url:"function"`
	Symbol   string `url:"symbol"`
	APIKey   string `url:"apikey"`
}

// GetOverview returns the valuation metrics for a bare (unsuffixed)
// symbol. Datapoints the provider does not carry come back nil.
func (c *Client) GetOverview(symbol string) (models.Fundamentals, error) {
	f := models.Fundamentals{}

	if c.apiKey == "" {
		return f, ErrMissingAPIKey
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	v, err := query.Values(overviewQuery{
		Function: "OVERVIEW",
		Symbol:   symbol,
		APIKey:   c.apiKey,
	})
	if err != nil {
		return f, err
	}

	url := fmt.Sprintf("%s/query?%s", c.baseURL, v.Encode())

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return f, err
	}
	req.Header.Set("User-Agent", "stockfolio/"+utils.Version)

	resp, err := c.cli.Do(req)
	if err != nil {
		return f, errors.Wrap(err, "alphavantage request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return f, fmt.Errorf("alphavantage http %d", resp.StatusCode)
	}

	raw := map[string]interface{}{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return f, errors.Wrap(err, "alphavantage response malformed")
	}

	// throttled responses come back 200 with an explanatory field
	if _, ok := raw["Note"]; ok {
		return f, ErrRateLimited
	}
	if _, ok := raw["Information"]; ok {
		return f, ErrRateLimited
	}

	f.PERatio = parseField(raw, "PERatio")
	f.LatestEarnings = parseField(raw, "RevenueTTM")

	return f, nil
}

func parseField(raw map[string]interface{}, key string) *float64 {
	s, ok := raw[key].(string)
	if !ok || s == "" || s == "None" || s == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
