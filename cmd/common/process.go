// Package common contains shared functionality for command handlers
package common

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"vtran/txn-categorizer/internal/config"
	"vtran/txn-categorizer/internal/fileutils"
	"vtran/txn-categorizer/internal/logging"
	"vtran/txn-categorizer/internal/models"
	"vtran/txn-categorizer/internal/parsererror"
	"vtran/txn-categorizer/internal/report"
	"vtran/txn-categorizer/internal/spreadsheet"
	"vtran/txn-categorizer/internal/textutils"

	"github.com/fatih/color"
)

const remarkWidth = 60

var (
	headerColor   = color.New(color.BgBlue, color.FgWhite)
	categoryColor = color.New(color.BgGreen, color.FgBlack)
	fallbackColor = color.New(color.BgRed, color.FgWhite)
	remarkColor   = color.New(color.BgWhite, color.FgBlack)
	expandedColor = color.New(color.FgCyan)
)

// PrintCategories lists the category sheet.
func PrintCategories(w io.Writer, categories []string) {
	headerColor.Fprintf(w, " Categories (%d) ", len(categories))
	fmt.Fprintln(w)
	for i, c := range categories {
		fmt.Fprintf(w, " %3d. ", i+1)
		categoryColor.Fprintf(w, " %s ", c)
		fmt.Fprintln(w)
	}
}

// PrintTransactions shows the first n transactions. n <= 0 shows none.
func PrintTransactions(w io.Writer, txs []models.Transaction, n int) {
	if n <= 0 {
		return
	}
	if n > len(txs) {
		n = len(txs)
	}
	headerColor.Fprintf(w, " Transactions (first %d of %d) ", n, len(txs))
	fmt.Fprintln(w)
	for _, tx := range txs[:n] {
		fmt.Fprintf(w, " [%4d] ", tx.Row)
		remarkColor.Fprintf(w, " %-*s ", remarkWidth, textutils.Truncate(tx.Remark, remarkWidth))
		if tx.HasAmount {
			fmt.Fprintf(w, " %12s", models.FormatAmount(tx.Amount, tx.HasAmount))
		}
		fmt.Fprintln(w)
		if tx.WasExpanded() {
			expandedColor.Fprintf(w, "        -> %s", tx.ExpandedRemark)
			fmt.Fprintln(w)
		}
	}
}

// PrintCategorized prints one line per categorized row. Fallback rows are
// highlighted.
func PrintCategorized(w io.Writer, rows []models.CategorizedTransaction) {
	headerColor.Fprintf(w, " Categorized transactions (%d) ", len(rows))
	fmt.Fprintln(w)
	for _, row := range rows {
		remarkColor.Fprintf(w, " %-*s ", remarkWidth, textutils.Truncate(row.Transaction, remarkWidth))
		if row.Fallback {
			fallbackColor.Fprintf(w, " %s ", row.Category)
		} else {
			categoryColor.Fprintf(w, " %s ", row.Category)
		}
		fmt.Fprintln(w)
	}
}

// PrintResult prints the three tables the web UI shows, followed by the
// run summary.
func PrintResult(w io.Writer, result *models.Result, previewRows int) {
	if result == nil {
		return
	}
	PrintCategories(w, result.Categories)
	fmt.Fprintln(w)
	PrintTransactions(w, result.Transactions, previewRows)
	fmt.Fprintln(w)
	PrintCategorized(w, result.Categorized)
	fmt.Fprintln(w)
	fmt.Fprintln(w, result.Stats.String())
}

// OutputPath resolves where the categorized sheet is written. An empty path
// uses the configured default; the extension follows the format.
func OutputPath(path string, out config.OutputConfig) string {
	if path == "" {
		path = out.File
	}
	format := strings.ToLower(out.Format)
	if format == "" {
		format = spreadsheet.OutputXLSX
	}
	ext := "." + format
	if !strings.EqualFold(filepath.Ext(path), ext) {
		path = fileutils.ReplaceExtension(path, ext)
	}
	return path
}

// WriteResult writes the categorized rows and returns the path written.
func WriteResult(result *models.Result, path string, out config.OutputConfig, log logging.Logger) (string, error) {
	path = OutputPath(path, out)
	delimiter := ','
	if r := []rune(out.Delimiter); len(r) == 1 {
		delimiter = r[0]
	}
	if err := spreadsheet.WriteFile(path, out.Format, out.Sheet, delimiter, result.Categorized); err != nil {
		return "", fmt.Errorf("error writing %s: %w", path, err)
	}
	log.Info("Categorized transactions written",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCount, len(result.Categorized)))
	return path, nil
}

// WriteReport writes a run summary to path. The format follows the
// extension: .json, or .yaml/.yml.
func WriteReport(result *models.Result, model, path string, log logging.Logger) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	data, err := report.NewReportGenerator(log).GenerateReport(report.NewSummary(result, model), format)
	if err != nil {
		return err
	}
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return err
	}
	file, err := fileutils.CreateFile(path)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("error writing report %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing report %s: %w", path, err)
	}
	log.Info("Run report written", logging.F(logging.FieldFile, path))
	return nil
}

const rawReplyWidth = 200

// RunErrorMessage describes a failed categorization run. A reply the model
// gave but that could not be parsed is quoted so the user can see it.
func RunErrorMessage(err error) string {
	var respErr *parsererror.ResponseError
	if errors.As(err, &respErr) {
		return fmt.Sprintf("%v; model replied: %q", err, textutils.Truncate(strings.TrimSpace(respErr.Raw), rawReplyWidth))
	}
	return fmt.Sprintf("Error categorizing transactions: %v", err)
}
