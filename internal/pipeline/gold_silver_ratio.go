package pipeline

import (
	"context"
	"time"

	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

var goldStart = timeseries.Date(2005, time.January, 1)

// GoldSilverRatio pulls COMEX gold and silver futures and their ratio, a
// long-running risk appetite gauge within precious metals.
func GoldSilverRatio(prices PriceFetcher) Pipeline {
	return Pipeline{
		Name:  "gold_silver_ratio",
		Title: "Gold / Silver Ratio",
		Run: func(ctx context.Context) (*timeseries.Frame, error) {
			gold, err := prices.DailyCloses(ctx, "GC=F", "Gold", goldStart)
			if err != nil {
				return nil, err
			}
			silver, err := prices.DailyCloses(ctx, "SI=F", "Silver", goldStart)
			if err != nil {
				return nil, err
			}

			frame := timeseries.Join(timeseries.Outer, gold, silver)
			frame.DropEmptyRows()

			if err := frame.Ratio("Gold_Silver_Ratio", "Gold", "Silver"); err != nil {
				return nil, err
			}
			return frame, nil
		},
	}
}
