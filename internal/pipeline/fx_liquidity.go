package pipeline

import (
	"context"
	"time"

	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

var fxStart = timeseries.Date(2015, time.January, 1)

// fxSymbols maps Yahoo tickers to column labels, the dollar index plus a
// few stress-prone EM crosses.
var fxSymbols = []struct {
	symbol string
	label  string
}{
	{"DX-Y.NYB", "DXY"},
	{"TRYUSD=X", "USD/TRY"},
	{"ZARUSD=X", "USD/ZAR"},
	{"CLPUSD=X", "USD/CLP"},
}

// FXLiquidity combines the US dollar index with EM FX spot rates. A failed
// ticker fails the whole pipeline; partial FX tables are worse than stale
// ones.
func FXLiquidity(prices PriceFetcher) Pipeline {
	return Pipeline{
		Name:  "fx_liquidity",
		Title: "FX & Global Stress",
		Run: func(ctx context.Context) (*timeseries.Frame, error) {
			series := make([]*timeseries.Series, 0, len(fxSymbols))
			for _, fx := range fxSymbols {
				s, err := prices.DailyCloses(ctx, fx.symbol, fx.label, fxStart)
				if err != nil {
					return nil, err
				}
				series = append(series, s)
			}
			return timeseries.Join(timeseries.Outer, series...), nil
		},
	}
}
