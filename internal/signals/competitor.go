package signals

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/leadscope/practicescout/internal/scout"
)

// CompetitorAggregator finds nearby practices in the same service category.
type CompetitorAggregator struct {
	searcher scout.Searcher
	category string
	maxHits  int
	logger   *zap.Logger
}

// NewCompetitor constructs a CompetitorAggregator for the configured
// category (e.g. "eye care optometry ophthalmology").
func NewCompetitor(searcher scout.Searcher, category string, maxHits int, logger *zap.Logger) *CompetitorAggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompetitorAggregator{
		searcher: searcher,
		category: category,
		maxHits:  maxHits,
		logger:   logger,
	}
}

// Findings searches "<category> near <city>, <state>" and collects up to the
// configured number of distinct results, deduplicated by hostname and
// excluding the entity's own resolved domain.
func (a *CompetitorAggregator) Findings(ctx context.Context, site scout.ResolvedSite) ([]scout.Finding, error) {
	city, state := ParseCityState(site.Entity.Address)
	if city == "" && state == "" {
		a.logger.Info("address yields no locality, skipping competitor scan",
			zap.String("entity", site.Entity.Name),
		)
		return nil, nil
	}

	query := fmt.Sprintf("%s near %s, %s", a.category, city, state)
	results, err := a.searcher.Search(ctx, query)
	if err != nil {
		if scout.IsFatal(err) {
			return nil, err
		}
		a.logger.Warn("competitor search failed",
			zap.String("entity", site.Entity.Name),
			zap.Error(err),
		)
		return nil, nil
	}

	ownHost := hostnameOf(site.URL)
	seen := make(map[string]struct{})
	var competitors []scout.Finding

	for _, result := range results {
		host := hostnameOf(result.URL)
		if host == "" {
			continue
		}
		if ownHost != "" && (host == ownHost || strings.HasSuffix(host, "."+ownHost)) {
			continue
		}
		if strings.Contains(strings.ToLower(result.Title), strings.ToLower(site.Entity.Name)) {
			continue
		}
		if _, dup := seen[host]; dup {
			continue
		}
		seen[host] = struct{}{}
		competitors = append(competitors, scout.Finding{
			Name:    result.Title,
			URL:     result.URL,
			Snippet: result.Snippet,
		})
		if len(competitors) >= a.maxHits {
			break
		}
	}

	return competitors, nil
}

func hostnameOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
