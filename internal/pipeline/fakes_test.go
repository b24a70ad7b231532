package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

type fakeFRED struct {
	series map[string][]timeseries.Point
	err    error
}

func (f *fakeFRED) Series(_ context.Context, seriesID, name string) (*timeseries.Series, error) {
	if f.err != nil {
		return nil, f.err
	}
	points, ok := f.series[seriesID]
	if !ok {
		return nil, fmt.Errorf("series %s: not found", seriesID)
	}
	if name == "" {
		name = seriesID
	}
	return timeseries.NewSeries(name, points), nil
}

type fakeTreasury struct {
	points []timeseries.Point
	err    error
}

func (f *fakeTreasury) TGABalance(_ context.Context, start time.Time) (*timeseries.Series, error) {
	if f.err != nil {
		return nil, f.err
	}
	var kept []timeseries.Point
	for _, p := range f.points {
		if !p.Date.Before(start) {
			kept = append(kept, p)
		}
	}
	return timeseries.NewSeries("TGA_Balance", kept), nil
}

type fakePrices struct {
	series map[string][]timeseries.Point
	err    error
}

func (f *fakePrices) DailyCloses(_ context.Context, symbol, name string, _ time.Time) (*timeseries.Series, error) {
	if f.err != nil {
		return nil, f.err
	}
	points, ok := f.series[symbol]
	if !ok {
		return nil, fmt.Errorf("symbol %s: not found", symbol)
	}
	if name == "" {
		name = symbol
	}
	return timeseries.NewSeries(name, points), nil
}

func day(dayOfMonth int) time.Time {
	return timeseries.Date(2024, time.January, dayOfMonth)
}

func pt(dayOfMonth int, v float64) timeseries.Point {
	return timeseries.Point{Date: day(dayOfMonth), Value: v}
}
