// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

// Package dataset loads CSV files into an in-memory table and classifies
// columns as numeric or text for sorting and bar-chart eligibility.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ColumnType classifies a column for sort comparators and bar rendering.
type ColumnType string

// Column types.
const (
	ColumnNumeric ColumnType = "num"
	ColumnText    ColumnType = "text"
)

// typeSampleSize is the number of non-empty values examined when inferring
// a column type.
const typeSampleSize = 20

// nonNumericPattern strips currency symbols, spaces, and other decoration
// before attempting to parse a value as a number.
var nonNumericPattern = regexp.MustCompile(`[^0-9.\-]`)

// Dataset is an uploaded CSV held in memory: named columns plus string rows.
// Rows are always padded or truncated to the header width.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// Read parses CSV from r into a Dataset. The first record is the header.
// Rows with a different field count than the header are padded or truncated
// rather than rejected.
func Read(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var rows [][]string
	for i := 0; ; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", i+1, err)
		}
		if len(row) != len(headers) {
			fixed := make([]string, len(headers))
			copy(fixed, row)
			row = fixed
		}
		rows = append(rows, row)
	}

	return &Dataset{Columns: headers, Rows: rows}, nil
}

// ReadFile parses the CSV file at path into a Dataset.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided input file
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

// Empty reports whether the dataset has no rows or no columns.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Columns) == 0 || len(d.Rows) == 0
}

// Clone returns a deep copy. Confirmed snapshots hold a clone so later edits
// to the uploaded data cannot leak into a publish.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	c := &Dataset{
		Columns: append([]string(nil), d.Columns...),
		Rows:    make([][]string, len(d.Rows)),
	}
	for i, row := range d.Rows {
		c.Rows[i] = append([]string(nil), row...)
	}
	return c
}

// ColumnIndex returns the index of the named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ColumnValues returns all values of the named column in row order.
func (d *Dataset) ColumnValues(name string) []string {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	vals := make([]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		vals = append(vals, row[idx])
	}
	return vals
}

// ColumnType infers whether a column is numeric or text.
//
// A column is numeric when every non-empty value parses as a plain float, or
// when, sampling up to 20 non-empty values, at least half (minimum 3) still
// parse after stripping thousands separators and non-numeric symbols.
func (d *Dataset) ColumnType(name string) ColumnType {
	vals := d.ColumnValues(name)

	var sample []string
	for _, v := range vals {
		if strings.TrimSpace(v) == "" {
			continue
		}
		sample = append(sample, v)
		if len(sample) == typeSampleSize {
			break
		}
	}
	if len(sample) == 0 {
		return ColumnText
	}

	plain := 0
	numericLike := 0
	for _, v := range sample {
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			plain++
		}
		cleaned := nonNumericPattern.ReplaceAllString(strings.ReplaceAll(v, ",", ""), "")
		if cleaned == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cleaned, 64); err == nil {
			numericLike++
		}
	}

	if plain == len(sample) {
		return ColumnNumeric
	}
	threshold := len(sample) / 2
	if threshold < 3 {
		threshold = 3
	}
	if numericLike >= threshold {
		return ColumnNumeric
	}
	return ColumnText
}

// ParseNumber parses a lenient numeric cell value. Thousands separators and
// non-numeric symbols are stripped; malformed values degrade to 0 rather
// than erroring.
func ParseNumber(v string) float64 {
	s := strings.ReplaceAll(v, ",", "")
	s = nonNumericPattern.ReplaceAllString(s, "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// MarshalCSV re-encodes the dataset as CSV, used for the data.csv sidecar
// written alongside a published table.
func (d *Dataset) MarshalCSV() (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(d.Columns); err != nil {
		return "", fmt.Errorf("writing CSV header: %w", err)
	}
	if err := w.WriteAll(d.Rows); err != nil {
		return "", fmt.Errorf("writing CSV rows: %w", err)
	}
	return sb.String(), nil
}
