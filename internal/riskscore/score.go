// Package riskscore compresses the processed liquidity, curve, credit, FX
// and funding files into per-factor sub-scores and a 0-100 composite macro
// risk score. Higher leans risk-on, lower leans risk-off.
package riskscore

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

// Loader reads processed frames by topic name.
type Loader interface {
	Load(name string) (*timeseries.Frame, error)
}

// inputs are the processed files the score draws on, inner-joined on date.
var inputs = []string{
	"fed_liquidity",
	"yield_curve",
	"credit_spreads",
	"fx_liquidity",
	"funding_stress",
}

// Factor column names in the result frame.
const (
	FedLiquidityScore = "fed_liquidity_score"
	CurveScore        = "curve_score"
	CreditScore       = "credit_score"
	FXScore           = "fx_score"
	FundingScore      = "funding_score"
	MacroScore        = "macro_score"
)

// ErrNoOverlap means the inputs share no dates to score.
var ErrNoOverlap = errors.New("riskscore: no overlapping dates across inputs")

// Compute loads the five input files, inner-joins them on date, and returns
// a frame with one column per factor sub-score plus the composite.
//
// Each factor averages a handful of z-scored signals:
//   - fed liquidity: 20-day growth of the balance sheet, minus TGA and RRP
//     growth (cash locked away draining liquidity)
//   - curve: the 2s10s and 3m10y spreads, steeper is better
//   - credit: IG and HY OAS, sign-flipped (wider is worse)
//   - fx: DXY sign-flipped (a strong dollar tightens global USD liquidity)
//   - funding: EFFR-SOFR and EFFR-OBFR, sign-flipped
//
// The composite is the mean of the sub-scores mapped through 50 + 15z and
// clipped to [0, 100].
func Compute(loader Loader) (*timeseries.Frame, error) {
	frames := make([]*timeseries.Frame, 0, len(inputs))
	for _, name := range inputs {
		frame, err := loader.Load(name)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		frames = append(frames, frame)
	}

	joined, err := timeseries.JoinFrames(timeseries.Inner, frames...)
	if err != nil {
		return nil, err
	}
	joined.DropEmptyRows()
	if joined.Len() == 0 {
		return nil, ErrNoOverlap
	}

	n := joined.Len()
	scores := map[string][]float64{
		FedLiquidityScore: factor(n,
			trendPart(joined, "Fed_Balance_Sheet", +1),
			trendPart(joined, "TGA_Balance", -1),
			trendPart(joined, "RRP_Usage", -1),
		),
		CurveScore: factor(n,
			levelPart(joined, "Spread_2s10s", +1),
			levelPart(joined, "Spread_3m10y", +1),
		),
		CreditScore: factor(n,
			levelPart(joined, "IG_OAS", -1),
			levelPart(joined, "HY_OAS", -1),
		),
		FXScore: factor(n,
			levelPart(joined, "DXY", -1),
		),
		FundingScore: factor(n,
			levelPart(joined, "EFFR_minus_SOFR", -1),
			levelPart(joined, "EFFR_minus_OBFR", -1),
		),
	}

	subScores := []string{FedLiquidityScore, CurveScore, CreditScore, FXScore, FundingScore}
	composite := make([]float64, n)
	for i := 0; i < n; i++ {
		sum, count := 0.0, 0
		for _, name := range subScores {
			if v := scores[name][i]; !math.IsNaN(v) {
				sum += v
				count++
			}
		}
		if count == 0 {
			composite[i] = math.NaN()
			continue
		}
		// One z-score is worth about 15 points, keeping the typical
		// range near 20-80.
		scaled := 50 + 15*(sum/float64(count))
		composite[i] = math.Min(100, math.Max(0, scaled))
	}
	scores[MacroScore] = composite

	cols := append(append([]string{}, subScores...), MacroScore)
	return timeseries.FromColumns(joined.Dates(), cols, scores)
}

// Snapshot is the latest composite reading, served by the dashboard.
type Snapshot struct {
	Date       time.Time          `json:"date"`
	MacroScore float64            `json:"macro_score"`
	Regime     string             `json:"regime"`
	Components map[string]float64 `json:"components"`
}

// Latest computes the score and returns its most recent dated reading.
func Latest(loader Loader) (*Snapshot, error) {
	scores, err := Compute(loader)
	if err != nil {
		return nil, err
	}

	for i := scores.Len() - 1; i >= 0; i-- {
		macro := scores.Value(i, MacroScore)
		if math.IsNaN(macro) {
			continue
		}
		components := make(map[string]float64)
		for _, name := range scores.Columns() {
			if name == MacroScore {
				continue
			}
			if v := scores.Value(i, name); !math.IsNaN(v) {
				components[name] = v
			}
		}
		return &Snapshot{
			Date:       scores.Dates()[i],
			MacroScore: macro,
			Regime:     regime(macro),
			Components: components,
		}, nil
	}
	return nil, ErrNoOverlap
}

func regime(score float64) string {
	switch {
	case score >= 65:
		return "risk_on"
	case score <= 35:
		return "risk_off"
	default:
		return "neutral"
	}
}

// factor averages any number of z-scored parts per row, skipping missing
// parts. With no usable parts the factor is flat zero, matching a signal
// that carries no information.
func factor(n int, parts ...[]float64) []float64 {
	usable := parts[:0]
	for _, p := range parts {
		if p != nil {
			usable = append(usable, p)
		}
	}

	out := make([]float64, n)
	if len(usable) == 0 {
		return out
	}
	for i := 0; i < n; i++ {
		sum, count := 0.0, 0
		for _, p := range usable {
			if !math.IsNaN(p[i]) {
				sum += p[i]
				count++
			}
		}
		if count == 0 {
			out[i] = math.NaN()
		} else {
			out[i] = sum / float64(count)
		}
	}
	return out
}

// levelPart z-scores a column's level, nil when the column is absent.
func levelPart(f *timeseries.Frame, col string, sign float64) []float64 {
	vals, ok := f.Column(col)
	if !ok {
		return nil
	}
	return zscores(signed(vals, sign))
}

// trendPart z-scores a column's 20-row fractional change.
func trendPart(f *timeseries.Frame, col string, sign float64) []float64 {
	vals, ok := f.Column(col)
	if !ok {
		return nil
	}
	trend := make([]float64, len(vals))
	for i := range trend {
		trend[i] = math.NaN()
		if i >= 20 && vals[i-20] != 0 {
			trend[i] = vals[i]/vals[i-20] - 1
		}
	}
	return zscores(signed(trend, sign))
}

func signed(vals []float64, sign float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = sign * v
	}
	return out
}

// zscores standardizes against the full-sample mean and population standard
// deviation, returning all zeros when variance is zero or undefined.
func zscores(vals []float64) []float64 {
	sum, count := 0.0, 0
	for _, v := range vals {
		if !math.IsNaN(v) {
			sum += v
			count++
		}
	}
	out := make([]float64, len(vals))
	if count == 0 {
		return out
	}
	mean := sum / float64(count)

	variance := 0.0
	for _, v := range vals {
		if !math.IsNaN(v) {
			variance += (v - mean) * (v - mean)
		}
	}
	std := math.Sqrt(variance / float64(count))
	if std == 0 || math.IsNaN(std) {
		return out
	}

	for i, v := range vals {
		if math.IsNaN(v) {
			out[i] = math.NaN()
		} else {
			out[i] = (v - mean) / std
		}
	}
	return out
}
