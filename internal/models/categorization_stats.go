package models

import (
	"fmt"
	"time"
)

// ExpansionStats counts what the abbreviation expander did.
type ExpansionStats struct {
	Tokens         int `json:"tokens" yaml:"tokens"`
	Substituted    int `json:"substituted" yaml:"substituted"`
	LLMResolved    int `json:"llm_resolved" yaml:"llm_resolved"`
	Unresolved     int `json:"unresolved" yaml:"unresolved"`
	RemarksChanged int `json:"remarks_changed" yaml:"remarks_changed"`
}

// Add accumulates other into s.
func (s *ExpansionStats) Add(other ExpansionStats) {
	s.Tokens += other.Tokens
	s.Substituted += other.Substituted
	s.LLMResolved += other.LLMResolved
	s.Unresolved += other.Unresolved
	s.RemarksChanged += other.RemarksChanged
}

// CategorizationStats summarizes a run.
type CategorizationStats struct {
	Transactions int            `json:"transactions"`
	Categorized  int            `json:"categorized"`
	Fallback     int            `json:"fallback"`
	Batches      int            `json:"batches"`
	Expansion    ExpansionStats `json:"expansion"`
	Duration     time.Duration  `json:"duration"`
}

// String renders a one-line summary for logs and the terminal.
func (s CategorizationStats) String() string {
	return fmt.Sprintf("%d transactions, %d categorized, %d fallback, %d batch(es), %d abbreviation(s) expanded in %s",
		s.Transactions, s.Categorized, s.Fallback, s.Batches,
		s.Expansion.Substituted+s.Expansion.LLMResolved, s.Duration.Round(time.Millisecond))
}
