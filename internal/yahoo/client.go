// Package yahoo fetches daily price history from the Yahoo Finance chart
// API. No credential is required.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/maxesser1776/mcf-dashboard/internal/config"
	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

// ErrNotFound means the symbol is unknown or delisted.
var ErrNotFound = errors.New("yahoo: symbol not found")

// Client is a Yahoo Finance chart API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(cfg *config.YahooConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// DailyCloses fetches daily closing prices for a symbol from start to now,
// labeled with name (or the symbol when name is empty). Adjusted closes are
// preferred; the raw close is the fallback. Null candles are skipped.
func (c *Client) DailyCloses(ctx context.Context, symbol, name string, start time.Time) (*timeseries.Series, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("events", "history")
	if !start.IsZero() {
		params.Set("period1", strconv.FormatInt(start.Unix(), 10))
		params.Set("period2", strconv.FormatInt(time.Now().Unix(), 10))
	} else {
		params.Set("range", "max")
	}

	reqURL := c.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol) + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "mcf-dashboard/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("yahoo api error (%d) for %s", resp.StatusCode, symbol)
		}
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if parsed.Chart.Error != nil {
		if resp.StatusCode == http.StatusNotFound || parsed.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%w: %s (%s)", ErrNotFound, symbol, parsed.Chart.Error.Description)
		}
		return nil, fmt.Errorf("yahoo api error for %s: %s: %s", symbol, parsed.Chart.Error.Code, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: empty response for %s", symbol)
	}

	result := parsed.Chart.Result[0]
	closes := pickCloses(result)
	if len(closes) == 0 || len(result.Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no usable price columns for %s", symbol)
	}

	if name == "" {
		name = symbol
	}
	points := make([]timeseries.Point, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		points = append(points, timeseries.Point{
			Date:  time.Unix(ts, 0).UTC(),
			Value: *closes[i],
		})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("yahoo: empty series for %s", symbol)
	}
	return timeseries.NewSeries(name, points), nil
}

func pickCloses(result chartResult) []*float64 {
	if len(result.Indicators.AdjClose) > 0 && len(result.Indicators.AdjClose[0].AdjClose) > 0 {
		return result.Indicators.AdjClose[0].AdjClose
	}
	if len(result.Indicators.Quote) > 0 {
		return result.Indicators.Quote[0].Close
	}
	return nil
}
