// Package pipeline defines the fetch-transform-persist pipelines and the
// sequential driver that refreshes the processed files.
package pipeline

import (
	"context"
	"time"

	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

// FREDFetcher fetches labeled observation series from FRED.
type FREDFetcher interface {
	Series(ctx context.Context, seriesID, name string) (*timeseries.Series, error)
}

// TreasuryFetcher fetches the Treasury General Account balance.
type TreasuryFetcher interface {
	TGABalance(ctx context.Context, start time.Time) (*timeseries.Series, error)
}

// PriceFetcher fetches daily closing prices.
type PriceFetcher interface {
	DailyCloses(ctx context.Context, symbol, name string, start time.Time) (*timeseries.Series, error)
}

// Clients bundles the upstream clients the pipelines draw from.
type Clients struct {
	FRED     FREDFetcher
	Treasury TreasuryFetcher
	Prices   PriceFetcher
}

// Pipeline produces the derived table for one topic. Its name is also the
// processed file's topic name.
type Pipeline struct {
	Name  string
	Title string
	Run   func(ctx context.Context) (*timeseries.Frame, error)
}

// Topic describes one dashboard topic backed by a processed file.
type Topic struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// All returns every registered pipeline in its fixed run order.
func All(clients Clients) []Pipeline {
	return []Pipeline{
		FedLiquidity(clients.FRED, clients.Treasury),
		YieldCurve(clients.FRED),
		CreditSpreads(clients.FRED),
		FXLiquidity(clients.Prices),
		MacroCore(clients.FRED),
		FundingStress(clients.FRED),
		VolatilityRegimes(clients.Prices),
		GrowthLeading(clients.FRED),
		GoldSilverRatio(clients.Prices),
	}
}

// Topics lists the dashboard topics in pipeline run order. The dashboard
// uses this without needing upstream clients.
func Topics() []Topic {
	topics := make([]Topic, 0, 9)
	for _, p := range All(Clients{}) {
		topics = append(topics, Topic{Name: p.Name, Title: p.Title})
	}
	return topics
}
