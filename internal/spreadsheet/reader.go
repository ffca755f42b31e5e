// Package spreadsheet reads input sheets (.xlsx via excelize, legacy .xls via
// extrame/xls) into models.Table and writes the categorized output as xlsx
// or CSV.
package spreadsheet

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"vtran/txn-categorizer/internal/fileutils"
	"vtran/txn-categorizer/internal/logging"
	"vtran/txn-categorizer/internal/models"
	"vtran/txn-categorizer/internal/parsererror"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var log logging.Logger = logging.NewLogrusAdapter("info", "text")

// SetLogger allows setting a configured logger
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Format identifies the workbook flavour of an input file.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// DetectFormat maps a file name to its workbook format.
func DetectFormat(name string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	default:
		return "", fmt.Errorf("%w: %q (expected .xls or .xlsx)", parsererror.ErrUnsupportedFormat, name)
	}
}

// ReadFile reads the first sheet of the workbook at path.
func ReadFile(path string) (models.Table, error) {
	file, err := fileutils.OpenFile(path)
	if err != nil {
		return models.Table{}, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, path))
		}
	}()
	return Read(path, file)
}

// Read reads the first sheet of a workbook. name is only used to pick the
// format and label errors; uploads pass the client-side file name.
func Read(name string, r io.ReadSeeker) (models.Table, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return models.Table{}, err
	}

	log.Debug("Reading workbook",
		logging.F(logging.FieldFile, name),
		logging.F("format", string(format)))

	var sheet string
	var rows [][]string
	switch format {
	case FormatXLS:
		sheet, rows, err = readXLS(r)
	default:
		sheet, rows, err = readXLSX(r)
	}
	if err != nil {
		return models.Table{}, &parsererror.ParseError{Parser: string(format), Field: "workbook", Value: name, Err: err}
	}

	table, err := tableFromRows(sheet, rows)
	if err != nil {
		return models.Table{}, &parsererror.ValidationError{FilePath: name, Reason: err.Error()}
	}

	log.Info("Read workbook",
		logging.F(logging.FieldFile, name),
		logging.F(logging.FieldSheet, table.Sheet),
		logging.F(logging.FieldCount, len(table.Rows)))
	return table, nil
}

func readXLSX(r io.Reader) (string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", nil, fmt.Errorf("error opening XLSX file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close workbook")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, fmt.Errorf("no sheets found in XLSX file")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", nil, fmt.Errorf("error reading sheet %q: %w", sheets[0], err)
	}
	return sheets[0], rows, nil
}

func readXLS(r io.ReadSeeker) (string, [][]string, error) {
	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return "", nil, fmt.Errorf("error opening XLS file: %w", err)
	}
	if wb.NumSheets() == 0 {
		return "", nil, fmt.Errorf("no sheets found in XLS file")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return "", nil, fmt.Errorf("could not get first sheet")
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := range cells {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}
	return sheet.Name, rows, nil
}

// tableFromRows takes the first non-blank row as the header and drops
// blank data rows.
func tableFromRows(sheet string, rows [][]string) (models.Table, error) {
	table := models.Table{Sheet: sheet}
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if table.Headers == nil {
			table.Headers = trimAll(row)
			continue
		}
		table.Rows = append(table.Rows, trimAll(row))
	}
	if table.Headers == nil {
		return table, fmt.Errorf("sheet %q is empty", sheet)
	}
	return table, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
