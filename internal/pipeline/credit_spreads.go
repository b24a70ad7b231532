package pipeline

import (
	"context"

	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

// CreditSpreads pulls ICE BofA investment grade and high yield
// option-adjusted spreads and the HY-IG spread in basis points.
func CreditSpreads(fred FREDFetcher) Pipeline {
	return Pipeline{
		Name:  "credit_spreads",
		Title: "Credit Market Signals",
		Run: func(ctx context.Context) (*timeseries.Frame, error) {
			ig, err := fred.Series(ctx, "BAMLC0A0CM", "IG_OAS")
			if err != nil {
				return nil, err
			}
			hy, err := fred.Series(ctx, "BAMLH0A0HYM2", "HY_OAS")
			if err != nil {
				return nil, err
			}

			frame := timeseries.Join(timeseries.Outer, ig, hy)
			frame.DropEmptyRows()

			// Both OAS columns are in percent; the cross spread is
			// conventionally quoted in bps.
			if err := frame.Spread("HY_IG_Spread", "HY_OAS", "IG_OAS"); err != nil {
				return nil, err
			}
			if err := frame.Scale("HY_IG_Spread", 100.0); err != nil {
				return nil, err
			}
			return frame, nil
		},
	}
}
