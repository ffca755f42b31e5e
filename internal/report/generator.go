// Package report renders a summary of a categorization run.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"vtran/txn-categorizer/internal/logging"
	"vtran/txn-categorizer/internal/models"

	"gopkg.in/yaml.v3"
)

// Supported report formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// CategoryCount is the number of rows assigned to one category.
type CategoryCount struct {
	Category string `json:"category" yaml:"category"`
	Count    int    `json:"count" yaml:"count"`
}

// Summary is the serializable run report.
type Summary struct {
	GeneratedAt  time.Time                       `json:"generated_at" yaml:"generated_at"`
	Model        string                          `json:"model,omitempty" yaml:"model,omitempty"`
	Transactions int                             `json:"transactions" yaml:"transactions"`
	Categorized  int                             `json:"categorized" yaml:"categorized"`
	Fallback     int                             `json:"fallback" yaml:"fallback"`
	Batches      int                             `json:"batches" yaml:"batches"`
	Duration     string                          `json:"duration" yaml:"duration"`
	Expansion    models.ExpansionStats           `json:"expansion" yaml:"expansion"`
	Categories   []CategoryCount                 `json:"categories" yaml:"categories"`
	FallbackRows []models.CategorizedTransaction `json:"fallback_rows,omitempty" yaml:"fallback_rows,omitempty"`
}

// NewSummary builds a Summary from a run result. Categories are listed in
// the order of the category sheet, followed by any other category seen
// (the fallback bucket) in name order.
func NewSummary(result *models.Result, model string) *Summary {
	s := &Summary{
		GeneratedAt:  time.Now(),
		Model:        model,
		Transactions: result.Stats.Transactions,
		Categorized:  result.Stats.Categorized,
		Fallback:     result.Stats.Fallback,
		Batches:      result.Stats.Batches,
		Duration:     result.Stats.Duration.Round(time.Millisecond).String(),
		Expansion:    result.Stats.Expansion,
	}

	counts := result.CategoryCounts()
	seen := make(map[string]bool, len(result.Categories))
	for _, c := range result.Categories {
		seen[c] = true
		s.Categories = append(s.Categories, CategoryCount{Category: c, Count: counts[c]})
	}
	var extra []string
	for c := range counts {
		if !seen[c] {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	for _, c := range extra {
		s.Categories = append(s.Categories, CategoryCount{Category: c, Count: counts[c]})
	}

	for _, row := range result.Categorized {
		if row.Fallback {
			s.FallbackRows = append(s.FallbackRows, row)
		}
	}
	return s
}

// ReportGenerator renders summaries in various formats.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	return &ReportGenerator{logger: logger}
}

// GenerateReport renders the summary as json or yaml.
func (g *ReportGenerator) GenerateReport(summary *Summary, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return g.generateJSONReport(summary)
	case FormatYAML, "yml":
		return g.generateYAMLReport(summary)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateJSONReport(summary *Summary) ([]byte, error) {
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return out, nil
}

func (g *ReportGenerator) generateYAMLReport(summary *Summary) ([]byte, error) {
	out, err := yaml.Marshal(summary)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}
