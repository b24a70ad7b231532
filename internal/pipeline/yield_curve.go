package pipeline

import (
	"context"

	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

// YieldCurve pulls Treasury constant maturity yields (10Y, 2Y, 3M) and the
// 2s10s and 3m10y curve spreads. Days missing any tenor are dropped.
func YieldCurve(fred FREDFetcher) Pipeline {
	return Pipeline{
		Name:  "yield_curve",
		Title: "Yield Curve & Policy",
		Run: func(ctx context.Context) (*timeseries.Frame, error) {
			tenYear, err := fred.Series(ctx, "DGS10", "10Y_Yield")
			if err != nil {
				return nil, err
			}
			twoYear, err := fred.Series(ctx, "DGS2", "2Y_Yield")
			if err != nil {
				return nil, err
			}
			threeMonth, err := fred.Series(ctx, "DGS3MO", "3M_Yield")
			if err != nil {
				return nil, err
			}

			frame := timeseries.Join(timeseries.Outer, tenYear, twoYear, threeMonth)
			frame.DropRowsMissing("10Y_Yield", "2Y_Yield", "3M_Yield")

			if err := frame.Spread("Spread_2s10s", "10Y_Yield", "2Y_Yield"); err != nil {
				return nil, err
			}
			if err := frame.Spread("Spread_3m10y", "10Y_Yield", "3M_Yield"); err != nil {
				return nil, err
			}
			return frame, nil
		},
	}
}
