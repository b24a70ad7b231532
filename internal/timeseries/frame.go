package timeseries

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// How selects the alignment policy for joins.
type How int

const (
	// Outer keeps every date present in any input; gaps stay NaN.
	Outer How = iota
	// Inner keeps only dates present in every input.
	Inner
)

// Frame is one or more columns aligned on a shared ascending, duplicate-free
// date index. Missing cells are NaN. Column order is preserved.
type Frame struct {
	dates []time.Time
	cols  []string
	data  map[string][]float64
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{data: make(map[string][]float64)}
}

// Join aligns one or more series into a frame. With Outer the index is the
// union of all dates and gaps remain NaN; with Inner only dates present in
// every series survive. No interpolation is ever applied.
func Join(how How, series ...*Series) *Frame {
	counts := make(map[time.Time]int)
	for _, s := range series {
		for _, p := range s.Points() {
			counts[p.Date]++
		}
	}

	dates := make([]time.Time, 0, len(counts))
	for d, n := range counts {
		if how == Inner && n < len(series) {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	pos := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		pos[d] = i
	}

	f := &Frame{dates: dates, data: make(map[string][]float64, len(series))}
	for _, s := range series {
		col := nanColumn(len(dates))
		for _, p := range s.Points() {
			if i, ok := pos[p.Date]; ok {
				col[i] = p.Value
			}
		}
		f.cols = append(f.cols, s.Name())
		f.data[s.Name()] = col
	}
	return f
}

// JoinFrames aligns whole frames on their date indexes. Column name
// collisions are an error; pipelines own distinct column names by
// construction.
func JoinFrames(how How, frames ...*Frame) (*Frame, error) {
	counts := make(map[time.Time]int)
	for _, fr := range frames {
		for _, d := range fr.dates {
			counts[d]++
		}
	}

	dates := make([]time.Time, 0, len(counts))
	for d, n := range counts {
		if how == Inner && n < len(frames) {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	pos := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		pos[d] = i
	}

	out := &Frame{dates: dates, data: make(map[string][]float64)}
	for _, fr := range frames {
		for _, name := range fr.cols {
			if _, dup := out.data[name]; dup {
				return nil, fmt.Errorf("duplicate column %q in frame join", name)
			}
			col := nanColumn(len(dates))
			src := fr.data[name]
			for i, d := range fr.dates {
				if j, ok := pos[d]; ok {
					col[j] = src[i]
				}
			}
			out.cols = append(out.cols, name)
			out.data[name] = col
		}
	}
	return out, nil
}

// FromColumns rebuilds a frame from raw columns, typically parsed from a
// processed file. Rows are sorted by date; duplicate dates keep the last
// row. Every column must have one value per date.
func FromColumns(dates []time.Time, cols []string, data map[string][]float64) (*Frame, error) {
	for _, name := range cols {
		col, ok := data[name]
		if !ok {
			return nil, fmt.Errorf("missing data for column %q", name)
		}
		if len(col) != len(dates) {
			return nil, fmt.Errorf("column %q has %d values, expected %d", name, len(col), len(dates))
		}
	}

	order := make([]int, len(dates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return dates[order[i]].Before(dates[order[j]]) })

	f := &Frame{data: make(map[string][]float64, len(cols))}
	f.cols = append(f.cols, cols...)
	for _, name := range cols {
		f.data[name] = make([]float64, 0, len(dates))
	}
	for _, i := range order {
		d := Day(dates[i])
		if n := len(f.dates); n > 0 && f.dates[n-1].Equal(d) {
			// Duplicate date, last row wins.
			for _, name := range cols {
				f.data[name][n-1] = data[name][i]
			}
			continue
		}
		f.dates = append(f.dates, d)
		for _, name := range cols {
			f.data[name] = append(f.data[name], data[name][i])
		}
	}
	return f, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.dates) }

// Dates returns the date index in ascending order.
func (f *Frame) Dates() []time.Time { return f.dates }

// Columns returns the column names in insertion order.
func (f *Frame) Columns() []string { return f.cols }

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.data[name]
	return ok
}

// Column returns the values of a column aligned to Dates.
func (f *Frame) Column(name string) ([]float64, bool) {
	col, ok := f.data[name]
	return col, ok
}

// Value returns the cell at row i for a column, NaN when absent.
func (f *Frame) Value(i int, name string) float64 {
	col, ok := f.data[name]
	if !ok || i < 0 || i >= len(col) {
		return math.NaN()
	}
	return col[i]
}

// AddColumn appends a computed column. The values must already be aligned
// to the frame's date index.
func (f *Frame) AddColumn(name string, values []float64) error {
	if len(values) != len(f.dates) {
		return fmt.Errorf("column %q has %d values, frame has %d rows", name, len(values), len(f.dates))
	}
	if _, dup := f.data[name]; dup {
		return fmt.Errorf("column %q already exists", name)
	}
	f.cols = append(f.cols, name)
	f.data[name] = values
	return nil
}

// Rename changes a column name in place, keeping its position.
func (f *Frame) Rename(old, new string) error {
	col, ok := f.data[old]
	if !ok {
		return fmt.Errorf("no column %q", old)
	}
	if _, dup := f.data[new]; dup {
		return fmt.Errorf("column %q already exists", new)
	}
	for i, c := range f.cols {
		if c == old {
			f.cols[i] = new
		}
	}
	delete(f.data, old)
	f.data[new] = col
	return nil
}

// FirstValid returns the date of the first non-missing value in a column.
func (f *Frame) FirstValid(name string) (time.Time, bool) {
	col, ok := f.data[name]
	if !ok {
		return time.Time{}, false
	}
	for i, v := range col {
		if !math.IsNaN(v) {
			return f.dates[i], true
		}
	}
	return time.Time{}, false
}

// DropEmptyRows removes rows where every column is missing.
func (f *Frame) DropEmptyRows() {
	f.filterRows(func(i int) bool {
		for _, name := range f.cols {
			if !math.IsNaN(f.data[name][i]) {
				return true
			}
		}
		return false
	})
}

// DropRowsMissing removes rows where any of the listed columns is missing.
// Columns that do not exist count as missing on every row.
func (f *Frame) DropRowsMissing(names ...string) {
	f.filterRows(func(i int) bool {
		for _, name := range names {
			col, ok := f.data[name]
			if !ok || math.IsNaN(col[i]) {
				return false
			}
		}
		return true
	})
}

// MaskBefore blanks the listed columns on all rows before the pivot
// column's first observation. Used to keep derived columns off charts in
// ranges where an input does not exist yet.
func (f *Frame) MaskBefore(pivot string, names ...string) {
	start, ok := f.FirstValid(pivot)
	if !ok {
		return
	}
	for _, name := range names {
		col, ok := f.data[name]
		if !ok {
			continue
		}
		for i, d := range f.dates {
			if !d.Before(start) {
				break
			}
			col[i] = math.NaN()
		}
	}
}

func (f *Frame) filterRows(keep func(i int) bool) {
	kept := make([]int, 0, len(f.dates))
	for i := range f.dates {
		if keep(i) {
			kept = append(kept, i)
		}
	}
	if len(kept) == len(f.dates) {
		return
	}

	dates := make([]time.Time, len(kept))
	for j, i := range kept {
		dates[j] = f.dates[i]
	}
	for _, name := range f.cols {
		src := f.data[name]
		col := make([]float64, len(kept))
		for j, i := range kept {
			col[j] = src[i]
		}
		f.data[name] = col
	}
	f.dates = dates
}

func nanColumn(n int) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = math.NaN()
	}
	return col
}
