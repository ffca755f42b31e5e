// Package abbreviation loads the abbreviation dictionary and expands
// abbreviated tokens in transaction remarks.
package abbreviation

import (
	"errors"
	"fmt"

	"vtran/txn-categorizer/internal/config"
	"vtran/txn-categorizer/internal/fileutils"
	"vtran/txn-categorizer/internal/logging"
	"vtran/txn-categorizer/internal/models"
	"vtran/txn-categorizer/internal/parsererror"
	"vtran/txn-categorizer/internal/spreadsheet"
	"vtran/txn-categorizer/internal/textutils"
)

// ListSeparator separates abbreviations within one dictionary cell.
const ListSeparator = ", "

// Map resolves an abbreviation to its candidate full words, in file order.
type Map struct {
	entries       map[string][]string
	caseSensitive bool
}

// NewMap returns an empty map.
func NewMap(caseSensitive bool) *Map {
	return &Map{entries: make(map[string][]string), caseSensitive: caseSensitive}
}

func (m *Map) key(s string) string {
	if m.caseSensitive {
		return textutils.Normalize(s)
	}
	return textutils.Fold(s)
}

// Add registers full as a candidate for abbr. Duplicate candidates are ignored.
func (m *Map) Add(abbr, full string) {
	k := m.key(abbr)
	full = textutils.Normalize(full)
	for _, existing := range m.entries[k] {
		if existing == full {
			return
		}
	}
	m.entries[k] = append(m.entries[k], full)
}

// Lookup returns the candidates for token, or nil.
func (m *Map) Lookup(token string) []string {
	if m == nil {
		return nil
	}
	return m.entries[m.key(token)]
}

// Len returns the number of distinct abbreviations.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Ambiguous returns the number of abbreviations with more than one candidate.
func (m *Map) Ambiguous() int {
	n := 0
	for _, c := range m.entries {
		if len(c) > 1 {
			n++
		}
	}
	return n
}

// LoadMap builds a Map from a dictionary sheet. Each row holds a full word
// in fullCol and a ", "-separated abbreviation list in abbrCol.
func LoadMap(table models.Table, fullCol, abbrCol string, caseSensitive bool) (*Map, error) {
	fi := table.ColumnIndex(fullCol)
	ai := table.ColumnIndex(abbrCol)
	var missing []string
	if fi < 0 {
		missing = append(missing, fullCol)
	}
	if ai < 0 {
		missing = append(missing, abbrCol)
	}
	if len(missing) > 0 {
		return nil, &parsererror.ValidationError{
			FilePath: table.Sheet,
			Reason:   fmt.Sprintf("abbreviation sheet is missing column(s) %v", missing),
		}
	}

	m := NewMap(caseSensitive)
	for r := range table.Rows {
		full := table.Cell(r, fi)
		if full == "" {
			continue
		}
		for _, abbr := range textutils.SplitList(table.Cell(r, ai), ListSeparator) {
			m.Add(abbr, full)
		}
	}
	return m, nil
}

// LoadFile reads the dictionary named by cfg.File. A missing file yields an
// empty map and a warning unless cfg.Required is set.
func LoadFile(cfg config.AbbreviationsConfig, logger logging.Logger) (*Map, error) {
	if cfg.File == "" {
		logger.Info("No abbreviation dictionary configured, expansion disabled")
		return NewMap(cfg.CaseSensitive), nil
	}

	if !fileutils.FileExists(cfg.File) {
		if cfg.Required {
			return nil, &parsererror.ValidationError{FilePath: cfg.File, Reason: "abbreviation dictionary not found"}
		}
		logger.Warn("Abbreviation dictionary not found, expansion disabled",
			logging.F(logging.FieldFile, cfg.File))
		return NewMap(cfg.CaseSensitive), nil
	}

	table, err := spreadsheet.ReadFile(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("loading abbreviation dictionary: %w", err)
	}

	m, err := LoadMap(table, cfg.FullWordColumn, cfg.AbbreviationColumn, cfg.CaseSensitive)
	if err != nil {
		var ve *parsererror.ValidationError
		if errors.As(err, &ve) {
			ve.FilePath = cfg.File
		}
		return nil, err
	}

	logger.Info("Loaded abbreviation dictionary",
		logging.F(logging.FieldFile, cfg.File),
		logging.F(logging.FieldCount, m.Len()),
		logging.F("ambiguous", m.Ambiguous()))
	return m, nil
}
