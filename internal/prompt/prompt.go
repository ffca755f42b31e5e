// Package prompt renders the natural-language prompts sent to the language
// model: the batch categorization request and the abbreviation tiebreaker.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Supported prompt languages.
const (
	LanguageVietnamese = "vi"
	LanguageEnglish    = "en"
)

// Builder renders prompts in one language.
type Builder struct {
	language     string
	fallback     string
	categorize   *template.Template
	disambiguate *template.Template
}

type categorizeData struct {
	Categories   []string
	Transactions []string
	Fallback     string
}

type disambiguateData struct {
	Token      string
	Context    string
	Candidates []string
}

var funcs = template.FuncMap{"join": strings.Join}

// NewBuilder returns a Builder for language ("vi" or "en"). When fallback
// is non-empty the categorization prompt names it as the catch-all.
func NewBuilder(language, fallback string) (*Builder, error) {
	var catText, disText string
	switch language {
	case LanguageVietnamese, "":
		language = LanguageVietnamese
		catText, disText = categorizeVI, disambiguateVI
	case LanguageEnglish:
		catText, disText = categorizeEN, disambiguateEN
	default:
		return nil, fmt.Errorf("unsupported prompt language %q", language)
	}

	cat, err := template.New("categorize").Funcs(funcs).Parse(catText)
	if err != nil {
		return nil, fmt.Errorf("parsing categorization template: %w", err)
	}
	dis, err := template.New("disambiguate").Funcs(funcs).Parse(disText)
	if err != nil {
		return nil, fmt.Errorf("parsing disambiguation template: %w", err)
	}

	return &Builder{language: language, fallback: fallback, categorize: cat, disambiguate: dis}, nil
}

// Language returns the language the builder renders.
func (b *Builder) Language() string {
	return b.language
}

// BuildCategorization renders the categorization request: the category
// names joined with ", " followed by one remark per line.
func (b *Builder) BuildCategorization(categories, remarks []string) (string, error) {
	lines := make([]string, len(remarks))
	for i, r := range remarks {
		// one remark per line; embedded newlines would split a remark in two
		lines[i] = strings.Join(strings.Fields(r), " ")
	}
	return b.render(b.categorize, categorizeData{Categories: categories, Transactions: lines, Fallback: b.fallback})
}

// BuildDisambiguation renders the tiebreaker asking which candidate the
// abbreviation token stands for in context.
func (b *Builder) BuildDisambiguation(token, context string, candidates []string) (string, error) {
	return b.render(b.disambiguate, disambiguateData{Token: token, Context: context, Candidates: candidates})
}

func (b *Builder) render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", t.Name(), err)
	}
	return buf.String(), nil
}
