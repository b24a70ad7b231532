package pipeline

import (
	"context"

	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

// macroSeries maps FRED series IDs to column labels: inflation gauges plus
// growth proxies.
var macroSeries = []struct {
	id    string
	label string
}{
	{"CPIAUCSL", "CPI"},
	{"CPILFESL", "Core_CPI"},
	{"PCEPILFE", "Core_PCE"},
	{"RSAFS", "Retail_Sales"},
	{"INDPRO", "Industrial_Production"},
	{"PAYEMS", "Nonfarm_Payrolls"},
}

// MacroCore combines the monthly inflation and growth indicators into one
// outer-joined table. Release calendars differ, so gaps are expected and
// left as-is.
func MacroCore(fred FREDFetcher) Pipeline {
	return Pipeline{
		Name:  "macro_core",
		Title: "Growth & Inflation",
		Run: func(ctx context.Context) (*timeseries.Frame, error) {
			series := make([]*timeseries.Series, 0, len(macroSeries))
			for _, m := range macroSeries {
				s, err := fred.Series(ctx, m.id, m.label)
				if err != nil {
					return nil, err
				}
				series = append(series, s)
			}
			return timeseries.Join(timeseries.Outer, series...), nil
		},
	}
}
