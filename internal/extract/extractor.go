package extract

import (
	"go.uber.org/zap"

	"github.com/leadscope/practicescout/internal/scout"
	"github.com/leadscope/practicescout/internal/telemetry"
)

// Extractor aggregates classified candidates across a page sequence into one
// deduplicated service list.
type Extractor struct {
	lexicons Lexicons
	logger   *zap.Logger
}

// New constructs an Extractor over the given lexicons.
func New(lexicons Lexicons, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{lexicons: lexicons, logger: logger}
}

// Services classifies every candidate phrase on every page and returns the
// included ones in first-seen order. Pages must arrive in BFS order so
// root-level phrasing wins the dedup race against deeper copies. An empty
// list is a legitimate outcome, not an error.
func (e *Extractor) Services(pages []scout.PageContent) []string {
	seen := make(map[string]struct{})
	services := []string{}

	for _, page := range pages {
		found := 0
		for _, phrase := range Segment(page.Body) {
			if e.lexicons.Classify(phrase) != scout.ClassInclude {
				continue
			}
			key := Normalize(phrase)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			services = append(services, collapseSpace(phrase))
			found++
		}
		if found > 0 {
			e.logger.Debug("services found on page",
				zap.String("url", page.URL),
				zap.Int("depth", page.Depth),
				zap.Int("count", found),
			)
		}
	}

	telemetry.ServicesExtracted(len(services))
	return services
}

// Candidates returns every classified candidate with its source URL, used by
// tests and extraction-quality tooling.
func (e *Extractor) Candidates(pages []scout.PageContent) []scout.ServiceCandidate {
	var out []scout.ServiceCandidate
	for _, page := range pages {
		for _, phrase := range Segment(page.Body) {
			out = append(out, scout.ServiceCandidate{
				Phrase:    collapseSpace(phrase),
				SourceURL: page.URL,
				Class:     e.lexicons.Classify(phrase),
			})
		}
	}
	return out
}
