package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

// tgaStart bounds the FiscalData fetch; DTS coverage is thin before this.
var tgaStart = timeseries.Date(2015, time.January, 1)

// FedLiquidity combines the Fed balance sheet (WALCL), the Treasury General
// Account, and reverse repo usage (RRPONTSYD) into one table, all in
// billions of USD, and derives net liquidity with 1/5/20-day flows.
//
// Net_Liquidity = Fed_Balance_Sheet - TGA_Balance - RRP_Usage, with missing
// components treated as zero. Net-liquidity columns are masked before the
// first TGA observation so charts stay clean.
func FedLiquidity(fred FREDFetcher, treasury TreasuryFetcher) Pipeline {
	return Pipeline{
		Name:  "fed_liquidity",
		Title: "Fed Liquidity & Plumbing",
		Run: func(ctx context.Context) (*timeseries.Frame, error) {
			balanceSheet, err := fred.Series(ctx, "WALCL", "Fed_Balance_Sheet")
			if err != nil {
				return nil, err
			}
			tga, err := treasury.TGABalance(ctx, tgaStart)
			if err != nil {
				return nil, err
			}
			rrp, err := fred.Series(ctx, "RRPONTSYD", "RRP_Usage")
			if err != nil {
				return nil, err
			}

			frame := timeseries.Join(timeseries.Outer, balanceSheet, tga, rrp)

			// FRED reports WALCL and RRPONTSYD in millions of USD;
			// the TGA series is already in billions.
			if err := frame.Scale("Fed_Balance_Sheet", 1.0/1000.0); err != nil {
				return nil, err
			}
			if err := frame.Scale("RRP_Usage", 1.0/1000.0); err != nil {
				return nil, err
			}

			net := make([]float64, frame.Len())
			for i := range net {
				net[i] = orZero(frame.Value(i, "Fed_Balance_Sheet")) -
					orZero(frame.Value(i, "TGA_Balance")) -
					orZero(frame.Value(i, "RRP_Usage"))
			}
			if err := frame.AddColumn("Net_Liquidity", net); err != nil {
				return nil, err
			}

			flows := []struct {
				name    string
				periods int
			}{
				{"Net_Liq_Change_1d", 1},
				{"Net_Liq_Change_5d", 5},
				{"Net_Liq_Change_20d", 20},
			}
			for _, flow := range flows {
				if err := frame.Diff(flow.name, "Net_Liquidity", flow.periods); err != nil {
					return nil, fmt.Errorf("derive %s: %w", flow.name, err)
				}
			}

			frame.MaskBefore("TGA_Balance",
				"Net_Liquidity", "Net_Liq_Change_1d", "Net_Liq_Change_5d", "Net_Liq_Change_20d")

			return frame, nil
		},
	}
}

func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
