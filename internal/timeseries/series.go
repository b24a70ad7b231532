package timeseries

import (
	"math"
	"sort"
	"time"
)

// Point is a single dated observation.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is a named, date-indexed sequence of observations from one
// provider. Dates are ascending and unique; missing releases are simply
// absent dates, a Series never stores NaN.
type Series struct {
	name   string
	points []Point
}

// NewSeries builds a Series from raw points. Dates are normalized to UTC
// midnight, NaN values are dropped, and duplicate dates keep the last value.
func NewSeries(name string, points []Point) *Series {
	byDate := make(map[time.Time]float64, len(points))
	for _, p := range points {
		if math.IsNaN(p.Value) {
			continue
		}
		byDate[Day(p.Date)] = p.Value
	}

	out := make([]Point, 0, len(byDate))
	for d, v := range byDate {
		out = append(out, Point{Date: d, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return &Series{name: name, points: out}
}

// Name returns the series name, used as the column name after alignment.
func (s *Series) Name() string { return s.name }

// Len returns the number of observations.
func (s *Series) Len() int { return len(s.points) }

// Points returns the observations in ascending date order.
func (s *Series) Points() []Point { return s.points }

// First returns the earliest observation, ok=false when empty.
func (s *Series) First() (Point, bool) {
	if len(s.points) == 0 {
		return Point{}, false
	}
	return s.points[0], true
}

// Last returns the latest observation, ok=false when empty.
func (s *Series) Last() (Point, bool) {
	if len(s.points) == 0 {
		return Point{}, false
	}
	return s.points[len(s.points)-1], true
}

// Day truncates a timestamp to UTC midnight. All alignment happens on
// calendar days, never intraday timestamps.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a UTC calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Missing reports whether a cell value represents a gap.
func Missing(v float64) bool { return math.IsNaN(v) }
