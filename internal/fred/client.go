// Package fred fetches observation series from the St. Louis Fed FRED API.
package fred

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

var (
	// ErrNotFound means the requested series ID does not exist.
	ErrNotFound = errors.New("fred: series not found")
	// ErrUnauthorized means the API key was rejected.
	ErrUnauthorized = errors.New("fred: invalid api key")
)

// Client is a FRED HTTP client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a FRED client from configuration. The caller is
// responsible for validating the API key up front (config.RequireFREDKey).
func NewClient(cfg *config.FREDConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
	}
}

type observationsResponse struct {
	Observations []observation `json:"observations"`
}

type observation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type apiError struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// Series fetches the full history of one series. The returned series is
// labeled with name, or with the series ID when name is empty. Missing
// observations (reported by FRED as ".") are dropped.
func (c *Client) Series(ctx context.Context, seriesID, name string) (*timeseries.Series, error) {
	return c.SeriesRange(ctx, seriesID, name, time.Time{}, time.Time{})
}

// SeriesRange fetches one series restricted to [start, end]. Zero times
// leave the corresponding bound open.
func (c *Client) SeriesRange(ctx context.Context, seriesID, name string, start, end time.Time) (*timeseries.Series, error) {
	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")
	if !start.IsZero() {
		params.Set("observation_start", start.Format("2006-01-02"))
	}
	if !end.IsZero() {
		params.Set("observation_end", end.Format("2006-01-02"))
	}

	var response observationsResponse
	if err := c.get(ctx, "/series/observations", params, &response); err != nil {
		return nil, fmt.Errorf("fetch series %s: %w", seriesID, err)
	}

	if name == "" {
		name = seriesID
	}
	points := make([]timeseries.Point, 0, len(response.Observations))
	for _, obs := range response.Observations {
		if obs.Value == "." {
			continue
		}
		date, err := time.Parse("2006-01-02", obs.Date)
		if err != nil {
			return nil, fmt.Errorf("series %s: bad observation date %q: %w", seriesID, obs.Date, err)
		}
		value, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("series %s: bad observation value %q: %w", seriesID, obs.Value, err)
		}
		points = append(points, timeseries.Point{Date: date, Value: value})
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("series %s: empty response", seriesID)
	}
	return timeseries.NewSeries(name, points), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "mcf-dashboard/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return classifyError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// classifyError maps FRED's error payloads onto the client's sentinel
// errors. FRED reports both unknown series and bad keys as HTTP 400, so the
// message text is the only discriminator.
func classifyError(status int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.ErrorMessage != "" {
		msg := strings.ToLower(apiErr.ErrorMessage)
		switch {
		case strings.Contains(msg, "series does not exist"):
			return fmt.Errorf("%w: %s", ErrNotFound, apiErr.ErrorMessage)
		case strings.Contains(msg, "api_key"):
			return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.ErrorMessage)
		default:
			return fmt.Errorf("fred api error (%d): %s", status, apiErr.ErrorMessage)
		}
	}
	return fmt.Errorf("fred api error (%d): %s", status, truncate(string(body), 300))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
