// Package pipeline runs one categorization session: read the category and
// ledger sheets, expand abbreviations, categorize, and collect the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vtran/txn-categorizer/internal/abbreviation"
	"vtran/txn-categorizer/internal/categorizer"
	"vtran/txn-categorizer/internal/config"
	"vtran/txn-categorizer/internal/logging"
	"vtran/txn-categorizer/internal/models"
	"vtran/txn-categorizer/internal/parsererror"
	"vtran/txn-categorizer/internal/spreadsheet"
	"vtran/txn-categorizer/internal/textutils"
)

// ErrNoCategories is returned when the category sheet lists no categories.
var ErrNoCategories = errors.New("category sheet has no categories")

// ErrNoTransactions is returned when the ledger has no usable remarks.
var ErrNoTransactions = errors.New("transaction sheet has no remarks")

// Pipeline wires the expander and categorizer together.
type Pipeline struct {
	input       config.InputConfig
	expander    *abbreviation.Expander
	categorizer *categorizer.Categorizer
	logger      logging.Logger
}

// New creates a Pipeline. expander may be nil to skip expansion.
func New(input config.InputConfig, expander *abbreviation.Expander, cat *categorizer.Categorizer, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Pipeline{input: input, expander: expander, categorizer: cat, logger: logger}
}

// Categories returns the category names from the configured column of the
// category sheet: trimmed, blanks dropped, duplicates removed.
func (p *Pipeline) Categories(table models.Table) ([]string, error) {
	col := p.input.CategoryColumn
	if col < 0 || col >= table.Width() {
		return nil, &parsererror.ValidationError{
			FilePath: table.Sheet,
			Reason:   fmt.Sprintf("category column %d out of range (sheet has %d columns)", col, table.Width()),
		}
	}

	seen := make(map[string]bool)
	var out []string
	for _, v := range table.Column(col) {
		v = textutils.Normalize(strings.TrimSpace(v))
		if v == "" || seen[textutils.Fold(v)] {
			continue
		}
		seen[textutils.Fold(v)] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, ErrNoCategories
	}
	return out, nil
}

// Transactions builds transactions from the ledger. Rows with a blank
// remark are skipped.
func (p *Pipeline) Transactions(table models.Table) ([]models.Transaction, error) {
	remarkIdx := table.ColumnIndex(p.input.RemarkColumn)
	if remarkIdx < 0 {
		return nil, &parsererror.ValidationError{
			FilePath: table.Sheet,
			Reason:   fmt.Sprintf("missing column %q", p.input.RemarkColumn),
		}
	}
	amountIdx := -1
	if p.input.AmountColumn != "" {
		amountIdx = table.ColumnIndex(p.input.AmountColumn)
	}

	all := models.TransactionsFromTable(table, remarkIdx, amountIdx)
	txs := make([]models.Transaction, 0, len(all))
	for _, tx := range all {
		tx.Remark = textutils.Normalize(strings.TrimSpace(tx.Remark))
		if tx.Remark == "" {
			continue
		}
		txs = append(txs, tx)
	}
	if skipped := len(all) - len(txs); skipped > 0 {
		p.logger.Warn("Skipped rows with a blank remark", logging.F(logging.FieldCount, skipped))
	}
	if len(txs) == 0 {
		return nil, ErrNoTransactions
	}
	return txs, nil
}

// Run categorizes the ledger against the category sheet. On a categorization
// failure the partially filled result is returned alongside the error so
// callers can still show the inputs.
func (p *Pipeline) Run(ctx context.Context, categoriesTable, transactionsTable models.Table) (*models.Result, error) {
	start := time.Now()

	categories, err := p.Categories(categoriesTable)
	if err != nil {
		return nil, err
	}
	txs, err := p.Transactions(transactionsTable)
	if err != nil {
		return nil, err
	}

	result := &models.Result{Categories: categories, Transactions: txs}
	result.Stats.Transactions = len(txs)

	if p.expander != nil && p.expander.Enabled() {
		stats, err := p.expander.ExpandTransactions(ctx, txs)
		if err != nil {
			return result, fmt.Errorf("expanding abbreviations: %w", err)
		}
		result.Stats.Expansion = stats
	}

	outcome, err := p.categorizer.Categorize(ctx, categories, models.Texts(txs))
	result.RawResponses = outcome.RawResponses
	result.Stats.Batches = outcome.Batches
	if err != nil {
		result.Stats.Duration = time.Since(start)
		return result, err
	}

	result.Categorized = outcome.Categorized
	result.Stats.Fallback = outcome.Fallback
	result.Stats.Categorized = len(outcome.Categorized) - outcome.Fallback
	result.Stats.Duration = time.Since(start)

	p.logger.Info("Categorization finished",
		logging.F(logging.FieldCount, len(txs)),
		logging.F("categorized", result.Stats.Categorized),
		logging.F("fallback", result.Stats.Fallback),
		logging.F(logging.FieldDuration, result.Stats.Duration.Milliseconds()))
	return result, nil
}

// RunFiles reads both workbooks from disk and calls Run.
func (p *Pipeline) RunFiles(ctx context.Context, categoriesPath, transactionsPath string) (*models.Result, error) {
	categoriesTable, err := spreadsheet.ReadFile(categoriesPath)
	if err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}
	transactionsTable, err := spreadsheet.ReadFile(transactionsPath)
	if err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}
	return p.Run(ctx, categoriesTable, transactionsTable)
}
