package signals

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/leadscope/practicescout/internal/scout"
)

// SocialAggregator probes configured platforms for the entity's profile.
type SocialAggregator struct {
	searcher  scout.Searcher
	platforms []string
	logger    *zap.Logger
}

// NewSocial constructs a SocialAggregator over the configured platform set.
func NewSocial(searcher scout.Searcher, platforms []string, logger *zap.Logger) *SocialAggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SocialAggregator{searcher: searcher, platforms: platforms, logger: logger}
}

// Findings issues one templated query per platform and keeps the top result
// only when its host actually belongs to that platform. Missing profiles are
// simply absent from the map. Fatal collaborator errors abort the scan and
// propagate; anything else is logged and skipped.
func (a *SocialAggregator) Findings(ctx context.Context, entity scout.EntityIdentity) (map[string]scout.Finding, error) {
	findings := make(map[string]scout.Finding)

	for _, platform := range a.platforms {
		query := fmt.Sprintf("%s site:%s", entity.Name, platform)
		results, err := a.searcher.Search(ctx, query)
		if err != nil {
			if scout.IsFatal(err) {
				return findings, err
			}
			a.logger.Warn("platform search failed",
				zap.String("entity", entity.Name),
				zap.String("platform", platform),
				zap.Error(err),
			)
			continue
		}
		if len(results) == 0 {
			continue
		}

		top := results[0]
		if !hostMatches(top.URL, platform) {
			continue
		}
		findings[platform] = scout.Finding{
			Platform: platform,
			URL:      top.URL,
			Title:    top.Title,
			Snippet:  top.Snippet,
		}
	}

	return findings, nil
}

// hostMatches reports whether the URL's host is the platform domain or one of
// its subdomains.
func hostMatches(rawURL, platform string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	platform = strings.ToLower(platform)
	return host == platform || strings.HasSuffix(host, "."+platform)
}
