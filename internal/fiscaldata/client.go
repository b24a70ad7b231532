// Package fiscaldata fetches Daily Treasury Statement figures from the
// Treasury FiscalData API. No credential is required.
package fiscaldata

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

	"github.com/shopspring/decimal"

	"github.com/maxesser1776/mcf-dashboard/internal/config"
	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

const operatingCashBalancePath = "/v1/accounting/dts/operating_cash_balance"

// Account types carrying the Treasury General Account balance. The modern
// reporting regime publishes an opening balance under its own account type;
// before April 2021 the same figure was the Federal Reserve Account closing
// balance.
const (
	accountTypeModern = "Treasury General Account (TGA) Opening Balance"
	accountTypeLegacy = "Federal Reserve Account"
)

// ErrNoData means the API returned no usable rows.
var ErrNoData = errors.New("fiscaldata: no data retrieved")

// Client is a FiscalData HTTP client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
}

func NewClient(cfg *config.FiscalDataConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 5000
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		pageSize:   pageSize,
	}
}

type cashBalancePage struct {
	Data []cashBalanceRow `json:"data"`
}

// FiscalData serves every numeric field as a string.
type cashBalanceRow struct {
	RecordDate    string `json:"record_date"`
	AccountType   string `json:"account_type"`
	OpenTodayBal  string `json:"open_today_bal"`
	CloseTodayBal string `json:"close_today_bal"`
}

// TGABalance fetches a unified Treasury General Account series (legacy plus
// modern reporting) back to start, in billions of USD. Pages are requested
// newest first; paging stops once a short page arrives or every remaining
// row predates start.
func (c *Client) TGABalance(ctx context.Context, start time.Time) (*timeseries.Series, error) {
	thousand := decimal.NewFromInt(1000)

	var points []timeseries.Point
	for page := 1; ; page++ {
		rows, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			break
		}

		pageExhausted := false
		for _, row := range rows {
			date, err := time.Parse("2006-01-02", row.RecordDate)
			if err != nil {
				continue
			}
			if date.Before(start) {
				// Rows are sorted newest first, so everything
				// after this point is out of range too.
				pageExhausted = true
				continue
			}

			var raw string
			switch row.AccountType {
			case accountTypeModern:
				raw = row.OpenTodayBal
			case accountTypeLegacy:
				raw = row.CloseTodayBal
			default:
				continue
			}

			balance, err := decimal.NewFromString(raw)
			if err != nil {
				continue
			}
			// FiscalData reports millions of USD.
			billions, _ := balance.Div(thousand).Float64()
			points = append(points, timeseries.Point{Date: date, Value: billions})
		}

		if pageExhausted || len(rows) < c.pageSize {
			break
		}
	}

	if len(points) == 0 {
		return nil, ErrNoData
	}
	return timeseries.NewSeries("TGA_Balance", points), nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]cashBalanceRow, error) {
	params := url.Values{}
	params.Set("sort", "-record_date")
	params.Set("page[size]", strconv.Itoa(c.pageSize))
	params.Set("page[number]", strconv.Itoa(page))

	reqURL := c.baseURL + operatingCashBalancePath + "?" + params.Encode()
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
	if resp.StatusCode >= 400 {
		excerpt := string(respBody)
		if len(excerpt) > 300 {
			excerpt = excerpt[:300]
		}
		return nil, fmt.Errorf("fiscaldata api error (%d): %s", resp.StatusCode, excerpt)
	}

	var parsed cashBalancePage
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return parsed.Data, nil
}
