package signals

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/leadscope/practicescout/internal/scout"
)

// ReviewAggregator probes review platforms for the entity's listing. It works
// exactly like the social scan but against the review-platform set, so the
// two stay independently configurable.
type ReviewAggregator struct {
	searcher  scout.Searcher
	platforms []string
	logger    *zap.Logger
}

// NewReview constructs a ReviewAggregator over the configured platform set.
func NewReview(searcher scout.Searcher, platforms []string, logger *zap.Logger) *ReviewAggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewAggregator{searcher: searcher, platforms: platforms, logger: logger}
}

// Findings returns at most one listing per review platform, keyed by
// platform domain.
func (a *ReviewAggregator) Findings(ctx context.Context, entity scout.EntityIdentity) (map[string]scout.Finding, error) {
	findings := make(map[string]scout.Finding)

	for _, platform := range a.platforms {
		query := fmt.Sprintf("%s site:%s", entity.Name, platform)
		results, err := a.searcher.Search(ctx, query)
		if err != nil {
			if scout.IsFatal(err) {
				return findings, err
			}
			a.logger.Warn("review search failed",
				zap.String("entity", entity.Name),
				zap.String("platform", platform),
				zap.Error(err),
			)
			continue
		}
		if len(results) == 0 || !hostMatches(results[0].URL, platform) {
			continue
		}
		findings[platform] = scout.Finding{
			Platform: platform,
			URL:      results[0].URL,
			Title:    results[0].Title,
			Snippet:  results[0].Snippet,
		}
	}

	return findings, nil
}
