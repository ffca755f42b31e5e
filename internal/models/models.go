// Package models provides the data structures used throughout the application.
package models

import "strings"

// Table is a raw spreadsheet sheet: a header row followed by data rows.
// Rows may be ragged; Cell pads missing trailing cells with "".
type Table struct {
	Sheet   string     `json:"sheet" yaml:"sheet"`
	Headers []string   `json:"headers" yaml:"headers"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// ColumnIndex returns the index of the header equal to name, or -1.
// Header matching ignores surrounding whitespace.
func (t Table) ColumnIndex(name string) int {
	want := strings.TrimSpace(name)
	for i, h := range t.Headers {
		if strings.TrimSpace(h) == want {
			return i
		}
	}
	return -1
}

// Cell returns the value at row r, column c, or "" when out of range.
func (t Table) Cell(r, c int) string {
	if r < 0 || r >= len(t.Rows) || c < 0 {
		return ""
	}
	row := t.Rows[r]
	if c >= len(row) {
		return ""
	}
	return row[c]
}

// Column returns every value of column c.
func (t Table) Column(c int) []string {
	out := make([]string, 0, len(t.Rows))
	for r := range t.Rows {
		out = append(out, t.Cell(r, c))
	}
	return out
}

// Head returns a copy of the table limited to the first n rows.
func (t Table) Head(n int) Table {
	if n < 0 || n >= len(t.Rows) {
		n = len(t.Rows)
	}
	return Table{Sheet: t.Sheet, Headers: t.Headers, Rows: t.Rows[:n]}
}

// Width returns the widest of the header row and every data row.
func (t Table) Width() int {
	w := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// IsEmpty reports whether the table has no data rows.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}
