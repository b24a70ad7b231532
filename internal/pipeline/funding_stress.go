package pipeline

import (
	"context"

	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

// FundingStress pulls the key overnight rates (EFFR, SOFR, OBFR) and builds
// stress spreads. Positive spreads mean fed funds trading rich versus
// secured or broader bank funding. Only days with both EFFR and SOFR are
// kept.
func FundingStress(fred FREDFetcher) Pipeline {
	return Pipeline{
		Name:  "funding_stress",
		Title: "Funding Stress",
		Run: func(ctx context.Context) (*timeseries.Frame, error) {
			effr, err := fred.Series(ctx, "EFFR", "EFFR")
			if err != nil {
				return nil, err
			}
			sofr, err := fred.Series(ctx, "SOFR", "SOFR")
			if err != nil {
				return nil, err
			}
			obfr, err := fred.Series(ctx, "OBFR", "OBFR")
			if err != nil {
				return nil, err
			}

			frame := timeseries.Join(timeseries.Outer, effr, sofr, obfr)
			frame.DropRowsMissing("EFFR", "SOFR")

			if err := frame.Spread("EFFR_minus_SOFR", "EFFR", "SOFR"); err != nil {
				return nil, err
			}
			if err := frame.Spread("EFFR_minus_OBFR", "EFFR", "OBFR"); err != nil {
				return nil, err
			}
			return frame, nil
		},
	}
}
