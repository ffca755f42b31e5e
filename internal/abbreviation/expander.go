package abbreviation

import (
	"context"
	"strings"

	"vtran/txn-categorizer/internal/llm"
	"vtran/txn-categorizer/internal/logging"
	"vtran/txn-categorizer/internal/models"
	"vtran/txn-categorizer/internal/prompt"
	"vtran/txn-categorizer/internal/textutils"
)

// Resolver picks one candidate for an ambiguous token given the remark it
// appears in. It returns the raw answer; the Expander validates it.
type Resolver interface {
	Resolve(ctx context.Context, token, remark string, candidates []string) (string, error)
}

// LLMResolver asks the language model to break ties.
type LLMResolver struct {
	client  llm.Client
	prompts *prompt.Builder
}

// NewLLMResolver creates a resolver backed by client.
func NewLLMResolver(client llm.Client, prompts *prompt.Builder) *LLMResolver {
	return &LLMResolver{client: client, prompts: prompts}
}

// Resolve sends the disambiguation prompt and returns the trimmed reply.
func (r *LLMResolver) Resolve(ctx context.Context, token, remark string, candidates []string) (string, error) {
	p, err := r.prompts.BuildDisambiguation(token, remark, candidates)
	if err != nil {
		return "", err
	}
	answer, err := r.client.Chat(ctx, p)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// Expander replaces abbreviated tokens with full words.
type Expander struct {
	dict     *Map
	resolver Resolver
	logger   logging.Logger
}

// NewExpander creates an Expander. resolver may be nil, in which case
// ambiguous tokens are left unchanged.
func NewExpander(dict *Map, resolver Resolver, logger logging.Logger) *Expander {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Expander{dict: dict, resolver: resolver, logger: logger}
}

// Enabled reports whether the dictionary has any entries.
func (e *Expander) Enabled() bool {
	return e.dict.Len() > 0
}

// Expand rewrites remark token by token. Tokens are split on whitespace and
// re-joined with single spaces. Only context cancellation is returned as an
// error. A tiebreak answer outside the candidates is used as long as it is a
// short single-line phrase; a failed or empty tiebreak keeps the original
// token.
func (e *Expander) Expand(ctx context.Context, remark string) (string, error) {
	out, _, err := e.expand(ctx, remark)
	return out, err
}

// ExpandAll expands every remark in order.
func (e *Expander) ExpandAll(ctx context.Context, remarks []string) ([]string, models.ExpansionStats, error) {
	var total models.ExpansionStats
	out := make([]string, len(remarks))
	for i, remark := range remarks {
		expanded, stats, err := e.expand(ctx, remark)
		if err != nil {
			return nil, total, err
		}
		if expanded != remark {
			stats.RemarksChanged++
		}
		total.Add(stats)
		out[i] = expanded
	}

	e.logger.Info("Expanded abbreviations",
		logging.F(logging.FieldCount, len(remarks)),
		logging.F("substituted", total.Substituted),
		logging.F("llm_resolved", total.LLMResolved),
		logging.F("unresolved", total.Unresolved))
	return out, total, nil
}

// ExpandTransactions fills ExpandedRemark on every transaction.
func (e *Expander) ExpandTransactions(ctx context.Context, txs []models.Transaction) (models.ExpansionStats, error) {
	remarks := make([]string, len(txs))
	for i, tx := range txs {
		remarks[i] = tx.Remark
	}
	expanded, stats, err := e.ExpandAll(ctx, remarks)
	if err != nil {
		return stats, err
	}
	for i := range txs {
		txs[i].ExpandedRemark = expanded[i]
	}
	return stats, nil
}

func (e *Expander) expand(ctx context.Context, remark string) (string, models.ExpansionStats, error) {
	var stats models.ExpansionStats
	tokens := textutils.Tokenize(remark)
	if e.dict.Len() == 0 {
		// no dictionary: keep the remark as-is rather than collapsing whitespace
		stats.Tokens = len(tokens)
		return remark, stats, nil
	}

	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		stats.Tokens++
		candidates := e.dict.Lookup(token)
		switch len(candidates) {
		case 0:
			out = append(out, token)
		case 1:
			stats.Substituted++
			out = append(out, candidates[0])
		default:
			if err := ctx.Err(); err != nil {
				return "", stats, err
			}
			word, ok := e.resolve(ctx, token, remark, candidates)
			if ok {
				stats.LLMResolved++
			} else {
				stats.Unresolved++
			}
			out = append(out, word)
		}
	}
	return strings.Join(out, " "), stats, nil
}

func (e *Expander) resolve(ctx context.Context, token, remark string, candidates []string) (string, bool) {
	log := e.logger.WithFields(
		logging.F(logging.FieldToken, token),
		logging.F(logging.FieldCandidates, candidates),
	)
	if e.resolver == nil {
		log.Debug("No resolver for ambiguous abbreviation, keeping token")
		return token, false
	}

	answer, err := e.resolver.Resolve(ctx, token, remark, candidates)
	if err != nil {
		log.WithError(err).Warn("Abbreviation tiebreak failed, keeping token")
		return token, false
	}
	if word, ok := MatchCandidate(answer, candidates); ok {
		log.Debug("Resolved ambiguous abbreviation", logging.F("resolved", word))
		return word, true
	}

	phrase, ok := answerPhrase(answer)
	if !ok {
		log.Warn("Tiebreak answer is not a usable phrase, keeping token", logging.F("answer", textutils.Truncate(answer, 80)))
		return token, false
	}
	log.Debug("Tiebreak answer matches no candidate, using it as the expansion", logging.F("resolved", phrase))
	return phrase, true
}

// maxAnswerWords bounds how long a non-candidate answer may be before it is
// treated as commentary rather than an expansion.
const maxAnswerWords = 6

func cleanAnswer(answer string) string {
	return textutils.Normalize(strings.Trim(strings.TrimSpace(answer), "\"'`.,:;!*"))
}

// answerPhrase returns the cleaned answer when it is a single short phrase.
func answerPhrase(answer string) (string, bool) {
	cleaned := cleanAnswer(answer)
	if cleaned == "" || strings.ContainsAny(cleaned, "\r\n") {
		return "", false
	}
	words := strings.Fields(cleaned)
	if len(words) > maxAnswerWords {
		return "", false
	}
	return strings.Join(words, " "), true
}

// MatchCandidate maps a free-text answer onto one of candidates: an exact
// match first, then a case-insensitive match, then the single candidate
// contained in the answer.
func MatchCandidate(answer string, candidates []string) (string, bool) {
	cleaned := cleanAnswer(answer)

	for _, c := range candidates {
		if c == cleaned {
			return c, true
		}
	}

	folded := textutils.Fold(cleaned)
	for _, c := range candidates {
		if textutils.Fold(c) == folded {
			return c, true
		}
	}

	var found []string
	for _, c := range candidates {
		if strings.Contains(folded, textutils.Fold(c)) {
			found = append(found, c)
		}
	}
	if len(found) == 1 {
		return found[0], true
	}
	return "", false
}
