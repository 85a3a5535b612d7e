// Package extract turns crawled page bodies into a deduplicated list of
// offered services. Segmentation is heuristic; classification is a pure
// function over configurable lexicons so identical input always yields an
// identical service list.
package extract

import (
	"strings"
	"unicode"

	"github.com/leadscope/practicescout/internal/scout"
)

// Lexicons parameterize the classifier. They are configuration, not a fixed
// algorithm: the defaults suit eye-care practices and are overridable per
// vertical.
type Lexicons struct {
	IncludeTerms   []string
	ExcludePhrases []string
	MinWords       int
	MaxWords       int
	MaxPhraseLen   int
}

// Classify tags one candidate phrase. The function is total and
// deterministic: no external calls, no randomness.
//
// Exclusion wins over inclusion, so an insurance panel mentioning a treatment
// never leaks into the service list.
func (lx Lexicons) Classify(phrase string) scout.Classification {
	normalized := Normalize(phrase)
	if normalized == "" {
		return scout.ClassUnknown
	}

	for _, bad := range lx.ExcludePhrases {
		if strings.Contains(normalized, Normalize(bad)) {
			return scout.ClassExclude
		}
	}

	words := len(strings.Fields(normalized))
	if words < lx.MinWords || words > lx.MaxWords {
		return scout.ClassUnknown
	}
	if len(normalized) < 3 || (lx.MaxPhraseLen > 0 && len(phrase) > lx.MaxPhraseLen) {
		return scout.ClassUnknown
	}

	for _, term := range lx.IncludeTerms {
		if strings.Contains(normalized, Normalize(term)) {
			return scout.ClassInclude
		}
	}
	return scout.ClassUnknown
}

// Normalize case-folds a phrase, strips punctuation, and collapses
// whitespace. It is the deduplication key for the service list.
func Normalize(phrase string) string {
	var b strings.Builder
	b.Grow(len(phrase))
	for _, r := range phrase {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r) || r == '-' || r == '/':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
