package models

// CategorizedTransaction is one row of the categorized output: the remark
// sent to the model and the category assigned to it.
type CategorizedTransaction struct {
	Transaction string `json:"transaction" csv:"transaction" yaml:"transaction"`
	Category    string `json:"category" csv:"category" yaml:"category"`
	// Fallback is set when the category was not chosen by the model.
	Fallback bool `json:"-" csv:"-" yaml:"-"`
}

// IsFallback reports whether the row landed in the fallback bucket.
func (ct CategorizedTransaction) IsFallback() bool {
	return ct.Fallback
}

// Result is the outcome of one categorization run.
type Result struct {
	Categories   []string                 `json:"categories"`
	Transactions []Transaction            `json:"transactions"`
	Categorized  []CategorizedTransaction `json:"categorized"`
	// RawResponses holds the model's raw text per prompt batch.
	RawResponses []string            `json:"raw_responses,omitempty"`
	Stats        CategorizationStats `json:"stats"`
}

// CategoryCounts tallies categorized rows per category, keyed by name.
func (r Result) CategoryCounts() map[string]int {
	counts := make(map[string]int, len(r.Categories)+1)
	for _, ct := range r.Categorized {
		counts[ct.Category]++
	}
	return counts
}
