package report

import (
	"encoding/json"
	"testing"
	"time"

	"vtran/txn-categorizer/internal/logging"
	"vtran/txn-categorizer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResult() *models.Result {
	return &models.Result{
		Categories: []string{"Food", "Transport", "Rent"},
		Categorized: []models.CategorizedTransaction{
			{Transaction: "com trua", Category: "Food"},
			{Transaction: "grab", Category: "Transport"},
			{Transaction: "pho", Category: "Food"},
			{Transaction: "???", Category: "Other", Fallback: true},
		},
		Stats: models.CategorizationStats{
			Transactions: 4,
			Categorized:  3,
			Fallback:     1,
			Batches:      1,
			Duration:     1500 * time.Millisecond,
			Expansion:    models.ExpansionStats{Tokens: 6, Substituted: 2},
		},
	}
}

func TestNewSummary(t *testing.T) {
	s := NewSummary(sampleResult(), "ollama:mistral")

	assert.Equal(t, "ollama:mistral", s.Model)
	assert.Equal(t, 4, s.Transactions)
	assert.Equal(t, 1, s.Fallback)
	assert.Equal(t, "1.5s", s.Duration)
	assert.Equal(t, []CategoryCount{
		{Category: "Food", Count: 2},
		{Category: "Transport", Count: 1},
		{Category: "Rent", Count: 0},
		{Category: "Other", Count: 1},
	}, s.Categories)
	require.Len(t, s.FallbackRows, 1)
	assert.Equal(t, "???", s.FallbackRows[0].Transaction)
}

func TestReportGenerator_GenerateReport_JSON(t *testing.T) {
	generator := NewReportGenerator(logging.NewMockLogger())

	out, err := generator.GenerateReport(NewSummary(sampleResult(), "mock"), FormatJSON)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, float64(3), decoded["categorized"])
	assert.Len(t, decoded["categories"], 4)
	assert.Len(t, decoded["fallback_rows"], 1)
}

func TestReportGenerator_GenerateReport_YAML(t *testing.T) {
	generator := NewReportGenerator(logging.NewMockLogger())

	out, err := generator.GenerateReport(NewSummary(sampleResult(), "mock"), FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(out), "substituted: 2")

	var decoded Summary
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, 4, decoded.Transactions)
	assert.Equal(t, "Food", decoded.Categories[0].Category)
}

func TestReportGenerator_GenerateReport_UnsupportedFormat(t *testing.T) {
	generator := NewReportGenerator(logging.NewMockLogger())

	_, err := generator.GenerateReport(NewSummary(sampleResult(), ""), "xml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report format")
}
