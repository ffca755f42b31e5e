package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"

	"vtran/txn-categorizer/internal/fileutils"
	"vtran/txn-categorizer/internal/logging"
	"vtran/txn-categorizer/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// Output formats.
const (
	OutputXLSX = "xlsx"
	OutputCSV  = "csv"
)

// DefaultSheet is the sheet name used when none is configured.
const DefaultSheet = "Sheet1"

// WriteXLSX writes the categorized rows as a two-column workbook
// (transaction, category) to w.
func WriteXLSX(w io.Writer, sheet string, rows []models.CategorizedTransaction) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close workbook")
		}
	}()

	if sheet == "" {
		sheet = DefaultSheet
	}
	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("error naming sheet: %w", err)
		}
	}

	header := []interface{}{models.ColumnTransaction, models.ColumnCategory}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", "B1", style)
	}
	_ = f.SetColWidth(sheet, "A", "A", 60)
	_ = f.SetColWidth(sheet, "B", "B", 24)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{row.Transaction, row.Category}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing XLSX data: %w", err)
	}
	return nil
}

// WriteCSV writes the categorized rows as CSV with the given delimiter.
func WriteCSV(w io.Writer, delimiter rune, rows []models.CategorizedTransaction) error {
	if rows == nil {
		rows = []models.CategorizedTransaction{}
	}
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteTable writes a raw table as a single-sheet workbook.
func WriteTable(w io.Writer, table models.Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := table.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return err
		}
	}
	for i, row := range append([][]string{table.Headers}, table.Rows...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for c, v := range row {
			values[c] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// WriteFile writes rows to path in the given format ("xlsx" or "csv").
func WriteFile(path, format, sheet string, delimiter rune, rows []models.CategorizedTransaction) error {
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return err
	}
	file, err := fileutils.CreateFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, path))
		}
	}()

	switch format {
	case OutputCSV:
		err = WriteCSV(file, delimiter, rows)
	case OutputXLSX, "":
		err = WriteXLSX(file, sheet, rows)
	default:
		err = fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return err
	}

	log.Info("Wrote categorized transactions",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}
