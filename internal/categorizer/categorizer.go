// Package categorizer assigns transactions to user-supplied categories by
// prompting a language model and parsing its JSON reply.
package categorizer

import (
	"context"
	"fmt"
	"time"

	"vtran/txn-categorizer/internal/llm"
	"vtran/txn-categorizer/internal/logging"
	"vtran/txn-categorizer/internal/models"
	"vtran/txn-categorizer/internal/prompt"
)

// Categorizer sends remarks to the model in batches.
type Categorizer struct {
	client    llm.Client
	prompts   *prompt.Builder
	batchSize int
	fallback  string
	logger    logging.Logger
}

// Outcome is what one Categorize call produced.
type Outcome struct {
	Categorized  []models.CategorizedTransaction
	RawResponses []string
	Batches      int
	Fallback     int
}

// NewCategorizer creates a Categorizer. batchSize 0 sends every remark in
// a single prompt. An empty fallback means models.DefaultFallbackCategory.
func NewCategorizer(client llm.Client, prompts *prompt.Builder, batchSize int, fallback string, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if fallback == "" {
		fallback = models.DefaultFallbackCategory
	}
	return &Categorizer{
		client:    client,
		prompts:   prompts,
		batchSize: batchSize,
		fallback:  fallback,
		logger:    logger,
	}
}

// Fallback returns the catch-all category.
func (c *Categorizer) Fallback() string {
	return c.fallback
}

// Categorize classifies remarks against categories. The result has one
// row per remark in input order. Any batch whose reply cannot be parsed
// fails the whole call with a *parsererror.ResponseError.
func (c *Categorizer) Categorize(ctx context.Context, categories, remarks []string) (Outcome, error) {
	var out Outcome
	if len(remarks) == 0 {
		return out, nil
	}

	for i, batch := range batches(remarks, c.batchSize) {
		start := time.Now()
		log := c.logger.WithFields(
			logging.F(logging.FieldBatch, i+1),
			logging.F(logging.FieldCount, len(batch)),
			logging.F(logging.FieldModel, c.client.Name()),
		)

		p, err := c.prompts.BuildCategorization(categories, batch)
		if err != nil {
			return out, err
		}

		log.Debug("Sending categorization prompt")
		raw, err := c.client.Chat(ctx, p)
		if err != nil {
			return out, fmt.Errorf("categorization batch %d: %w", i+1, err)
		}
		out.RawResponses = append(out.RawResponses, raw)

		rows, err := ParseResponse(raw, categories, batch, c.fallback)
		if err != nil {
			log.WithError(err).Error("Could not parse categorization response")
			return out, err
		}

		fallback := 0
		for _, row := range rows {
			if row.Fallback {
				fallback++
			}
		}
		out.Categorized = append(out.Categorized, rows...)
		out.Fallback += fallback
		out.Batches++

		log.Info("Categorized batch",
			logging.F("fallback", fallback),
			logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	}
	return out, nil
}

// batches splits items into consecutive chunks of size n; n <= 0 yields a
// single chunk.
func batches(items []string, n int) [][]string {
	if n <= 0 || n >= len(items) {
		return [][]string{items}
	}
	out := make([][]string, 0, (len(items)+n-1)/n)
	for start := 0; start < len(items); start += n {
		end := start + n
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}
