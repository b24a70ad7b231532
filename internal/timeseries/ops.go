package timeseries

import (
	"fmt"
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
)

// Spread adds name = a - b. The result is missing wherever either input is
// missing.
func (f *Frame) Spread(name, a, b string) error {
	return f.combine(name, a, b, func(x, y float64) float64 { return x - y })
}

// Ratio adds name = a / b, missing where either input is missing or b is
// zero.
func (f *Frame) Ratio(name, a, b string) error {
	return f.combine(name, a, b, func(x, y float64) float64 {
		if y == 0 {
			return math.NaN()
		}
		return x / y
	})
}

// Diff adds name = col - col shifted back by periods rows.
func (f *Frame) Diff(name, col string, periods int) error {
	src, ok := f.data[col]
	if !ok {
		return fmt.Errorf("no column %q", col)
	}
	out := nanColumn(len(src))
	for i := periods; i < len(src); i++ {
		out[i] = src[i] - src[i-periods]
	}
	return f.AddColumn(name, out)
}

// PctChange adds the fractional change of col over periods rows
// (v/prev - 1). Callers scale by 100 when they want percent.
func (f *Frame) PctChange(name, col string, periods int) error {
	src, ok := f.data[col]
	if !ok {
		return fmt.Errorf("no column %q", col)
	}
	out := nanColumn(len(src))
	for i := periods; i < len(src); i++ {
		prev := src[i-periods]
		if prev == 0 {
			continue
		}
		out[i] = src[i]/prev - 1
	}
	return f.AddColumn(name, out)
}

// RollingMean adds a simple moving average of col over the given window.
// Rows whose window extends past the start of the frame are missing, and a
// single gap poisons every window that covers it.
func (f *Frame) RollingMean(name, col string, window int) error {
	src, ok := f.data[col]
	if !ok {
		return fmt.Errorf("no column %q", col)
	}

	out := nanColumn(len(src))
	if len(src) >= window {
		sma := trend.NewSmaWithPeriod[float64](window)
		means := helper.ChanToSlice(sma.Compute(helper.SliceToChan(src)))
		copy(out[window-1:], means)
	}
	return f.AddColumn(name, out)
}

// Scale multiplies a column in place. Used for unit changes such as
// millions to billions.
func (f *Frame) Scale(col string, factor float64) error {
	src, ok := f.data[col]
	if !ok {
		return fmt.Errorf("no column %q", col)
	}
	for i, v := range src {
		src[i] = v * factor
	}
	return nil
}

func (f *Frame) combine(name, a, b string, fn func(x, y float64) float64) error {
	ca, ok := f.data[a]
	if !ok {
		return fmt.Errorf("no column %q", a)
	}
	cb, ok := f.data[b]
	if !ok {
		return fmt.Errorf("no column %q", b)
	}
	out := nanColumn(len(ca))
	for i := range ca {
		if math.IsNaN(ca[i]) || math.IsNaN(cb[i]) {
			continue
		}
		out[i] = fn(ca[i], cb[i])
	}
	return f.AddColumn(name, out)
}
