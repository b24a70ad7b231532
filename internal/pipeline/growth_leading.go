package pipeline

import (
	"context"

	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

// GrowthLeading builds forward-looking growth signals: an ISM-style spread
// between manufacturers' new orders and inventories growth (both YoY), and
// initial jobless claims with a 4-week moving average.
func GrowthLeading(fred FREDFetcher) Pipeline {
	return Pipeline{
		Name:  "growth_leading",
		Title: "Leading Growth Signals",
		Run: func(ctx context.Context) (*timeseries.Frame, error) {
			orders, err := fred.Series(ctx, "AMTMNO", "Mfg_New_Orders")
			if err != nil {
				return nil, err
			}
			inventories, err := fred.Series(ctx, "AMTMTI", "Mfg_Total_Inventories")
			if err != nil {
				return nil, err
			}

			monthly := timeseries.Join(timeseries.Outer, orders, inventories)
			// Both are monthly, 12 rows back is year over year.
			if err := monthly.PctChange("Orders_YoY", "Mfg_New_Orders", 12); err != nil {
				return nil, err
			}
			if err := monthly.Scale("Orders_YoY", 100.0); err != nil {
				return nil, err
			}
			if err := monthly.PctChange("Inventories_YoY", "Mfg_Total_Inventories", 12); err != nil {
				return nil, err
			}
			if err := monthly.Scale("Inventories_YoY", 100.0); err != nil {
				return nil, err
			}
			if err := monthly.Spread("ISM_Spread", "Orders_YoY", "Inventories_YoY"); err != nil {
				return nil, err
			}

			claims, err := fred.Series(ctx, "ICSA", "Initial_Claims")
			if err != nil {
				return nil, err
			}
			weekly := timeseries.Join(timeseries.Outer, claims)
			if err := weekly.RollingMean("Initial_Claims_4WMA", "Initial_Claims", 4); err != nil {
				return nil, err
			}

			return timeseries.JoinFrames(timeseries.Outer, monthly, weekly)
		},
	}
}
