// Package store persists derived tables as CSV files under the
// processed-data directory, the sole contract between the pipeline layer
// and the dashboard.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

const dateFormat = "2006-01-02"

// ErrNotFound means no processed file exists for the requested topic.
var ErrNotFound = errors.New("store: processed file not found")

// CSVStore reads and writes processed files in one directory. One file per
// topic, latest write wins.
type CSVStore struct {
	dir string
}

func NewCSVStore(dir string) *CSVStore {
	return &CSVStore{dir: dir}
}

// Dir returns the processed-data directory.
func (s *CSVStore) Dir() string { return s.dir }

// Path returns the file path for a topic.
func (s *CSVStore) Path(name string) string {
	return filepath.Join(s.dir, name+".csv")
}

// Stat returns file info for a topic's processed file, ErrNotFound when the
// file does not exist.
func (s *CSVStore) Stat(name string) (os.FileInfo, error) {
	info, err := os.Stat(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	return info, nil
}

// Save writes a frame to the topic's file, fully replacing prior content.
// The frame is first written to a temp file in the same directory and then
// renamed into place, so a failed write leaves the previous file intact and
// readers never observe a half-written file.
func (s *CSVStore) Save(name string, frame *timeseries.Frame) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create processed dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".csv.tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := writeCSV(tmp, frame); err != nil {
		tmp.Close()          //nolint:errcheck
		os.Remove(tmpName)   //nolint:errcheck
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return "", fmt.Errorf("close temp file: %w", err)
	}

	path := s.Path(name)
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return "", fmt.Errorf("replace %s: %w", path, err)
	}
	return path, nil
}

// Load reads a topic's processed file back into a frame. Empty cells become
// gaps.
func (s *CSVStore) Load(name string) (*timeseries.Frame, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path(name), err)
	}
	if len(records) == 0 || len(records[0]) < 2 {
		return nil, fmt.Errorf("parse %s: missing header", s.Path(name))
	}

	cols := records[0][1:]
	data := make(map[string][]float64, len(cols))
	var dates []time.Time

	for _, record := range records[1:] {
		if len(record) != len(cols)+1 {
			return nil, fmt.Errorf("parse %s: row has %d fields, expected %d", s.Path(name), len(record), len(cols)+1)
		}
		date, err := time.Parse(dateFormat, record[0])
		if err != nil {
			return nil, fmt.Errorf("parse %s: bad date %q: %w", s.Path(name), record[0], err)
		}
		dates = append(dates, date)
		for i, name := range cols {
			data[name] = append(data[name], parseCell(record[i+1]))
		}
	}

	return timeseries.FromColumns(dates, cols, data)
}

func writeCSV(f *os.File, frame *timeseries.Frame) error {
	w := csv.NewWriter(f)

	header := append([]string{"Date"}, frame.Columns()...)
	if err := w.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for i, date := range frame.Dates() {
		record[0] = date.Format(dateFormat)
		for j, col := range frame.Columns() {
			record[j+1] = formatCell(frame.Value(i, col))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseCell(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
