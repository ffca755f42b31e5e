// Package batch categorizes every ledger spreadsheet in a directory against
// one category list.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vtran/txn-categorizer/internal/config"
	"vtran/txn-categorizer/internal/fileutils"
	"vtran/txn-categorizer/internal/logging"
	"vtran/txn-categorizer/internal/models"
	"vtran/txn-categorizer/internal/spreadsheet"
)

// OutputSuffix is appended to the base name of each categorized ledger.
const OutputSuffix = "_categorized"

// Categorizer runs one ledger against a category sheet.
type Categorizer interface {
	Run(ctx context.Context, categoriesTable, transactionsTable models.Table) (*models.Result, error)
}

// FileResult is the outcome for one ledger.
type FileResult struct {
	Input  string
	Output string
	Result *models.Result
	Err    error
}

// Processor handles the ledgers of one directory, one file at a time.
type Processor struct {
	categorizer Categorizer
	output      config.OutputConfig
	logger      logging.Logger
}

// NewProcessor creates a Processor writing files as described by output.
func NewProcessor(categorizer Categorizer, output config.OutputConfig, logger logging.Logger) *Processor {
	return &Processor{categorizer: categorizer, output: output, logger: logger}
}

// FindLedgers lists the spreadsheets in dir in name order. Files named in
// exclude (for example the category sheet) and Office lock files are
// skipped.
func FindLedgers(dir string, exclude ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		if abs, err := filepath.Abs(e); err == nil {
			skip[abs] = true
		}
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") || !fileutils.IsSpreadsheet(name) {
			continue
		}
		path := filepath.Join(dir, name)
		if abs, err := filepath.Abs(path); err == nil && skip[abs] {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// OutputName returns outDir/<base>_categorized.<format>.
func OutputName(input, outDir, format string) string {
	if format == "" {
		format = spreadsheet.OutputXLSX
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(outDir, base+OutputSuffix+"."+format)
}

// Process categorizes each input and writes it to outDir. A failing file is
// logged and reported in its FileResult; the remaining files still run.
// Cancelling ctx stops before the next file.
func (p *Processor) Process(ctx context.Context, categories models.Table, inputs []string, outDir string) ([]FileResult, error) {
	if err := fileutils.EnsureDirectoryExists(outDir); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	delimiter := ','
	if r := []rune(p.output.Delimiter); len(r) == 1 {
		delimiter = r[0]
	}

	results := make([]FileResult, 0, len(inputs))
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		fr := FileResult{Input: input, Output: OutputName(input, outDir, p.output.Format)}
		fr.Result, fr.Err = p.processFile(ctx, categories, input, fr.Output, delimiter)
		if fr.Err != nil {
			p.logger.WithError(fr.Err).Error("Failed to categorize ledger",
				logging.F(logging.FieldInputFile, filepath.Base(input)))
		} else {
			p.logger.Info("Created categorized file",
				logging.F(logging.FieldInputFile, filepath.Base(input)),
				logging.F(logging.FieldOutputFile, fr.Output),
				logging.F(logging.FieldCount, len(fr.Result.Categorized)))
		}
		results = append(results, fr)
	}
	return results, nil
}

func (p *Processor) processFile(ctx context.Context, categories models.Table, input, output string, delimiter rune) (*models.Result, error) {
	table, err := spreadsheet.ReadFile(input)
	if err != nil {
		return nil, err
	}
	result, err := p.categorizer.Run(ctx, categories, table)
	if err != nil {
		return result, err
	}
	if err := spreadsheet.WriteFile(output, p.output.Format, p.output.Sheet, delimiter, result.Categorized); err != nil {
		return result, fmt.Errorf("writing %s: %w", output, err)
	}
	return result, nil
}

// Succeeded counts the results without an error.
func Succeeded(results []FileResult) int {
	n := 0
	for _, r := range results {
		if r.Err == nil {
			n++
		}
	}
	return n
}
