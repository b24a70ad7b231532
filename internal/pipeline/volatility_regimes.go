package pipeline

import (
	"context"
	"time"

	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

// Enough history for regime comparisons.
var volStart = timeseries.Date(2010, time.January, 1)

// VolatilityRegimes pulls the VIX and 3-month VIX, computes the term
// structure ratio (short over 3M), and 5-day smoothings for charting. A
// ratio above one means the front of the curve is inverted, the classic
// stress signature.
func VolatilityRegimes(prices PriceFetcher) Pipeline {
	return Pipeline{
		Name:  "volatility_regimes",
		Title: "Volatility & Market Stress",
		Run: func(ctx context.Context) (*timeseries.Frame, error) {
			short, err := prices.DailyCloses(ctx, "^VIX", "VIX_Short", volStart)
			if err != nil {
				return nil, err
			}
			threeMonth, err := prices.DailyCloses(ctx, "^VIX3M", "VIX_3M", volStart)
			if err != nil {
				return nil, err
			}

			frame := timeseries.Join(timeseries.Outer, short, threeMonth)
			frame.DropEmptyRows()

			if err := frame.Ratio("VIX_Term_Ratio", "VIX_Short", "VIX_3M"); err != nil {
				return nil, err
			}
			if err := frame.RollingMean("VIX_Short_SMA5", "VIX_Short", 5); err != nil {
				return nil, err
			}
			if err := frame.RollingMean("VIX_Term_Ratio_SMA5", "VIX_Term_Ratio", 5); err != nil {
				return nil, err
			}
			return frame, nil
		},
	}
}
