// Package resolver turns an entity identity into its official website by
// querying the search collaborator and filtering out directory and
// review-platform hosts.
package resolver

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/leadscope/practicescout/internal/scout"
)

// Resolver finds the official site for one entity.
type Resolver struct {
	searcher  scout.Searcher
	blocklist *Blocklist
	logger    *zap.Logger
}

// New constructs a Resolver with the configured host exclusion set.
func New(searcher scout.Searcher, excludedDomains []string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		searcher:  searcher,
		blocklist: NewBlocklist(excludedDomains),
		logger:    logger,
	}
}

// Resolve queries for the entity's official website and returns the first
// ranked result whose host is not excluded. Finding no site is a valid
// terminal outcome recorded in the Reason field; only collaborator failures
// (quota, auth, transport) surface as errors.
func (r *Resolver) Resolve(ctx context.Context, entity scout.EntityIdentity) (scout.ResolvedSite, error) {
	query := buildQuery(entity)
	results, err := r.searcher.Search(ctx, query)
	if err != nil {
		return scout.ResolvedSite{}, fmt.Errorf("resolve %q: %w", entity.Name, err)
	}

	if len(results) == 0 {
		r.logger.Info("no search results for entity", zap.String("entity", entity.Name))
		return scout.ResolvedSite{Entity: entity, Reason: scout.ReasonNoCandidate}, nil
	}

	for _, result := range results {
		host := hostOf(result.URL)
		if host == "" || r.blocklist.IsBlocked(host) {
			continue
		}
		r.logger.Info("resolved official site",
			zap.String("entity", entity.Name),
			zap.String("url", result.URL),
		)
		return scout.ResolvedSite{Entity: entity, URL: result.URL}, nil
	}

	r.logger.Info("all candidates excluded", zap.String("entity", entity.Name))
	return scout.ResolvedSite{Entity: entity, Reason: scout.ReasonAllExcluded}, nil
}

func buildQuery(entity scout.EntityIdentity) string {
	parts := []string{entity.Name}
	if entity.PhysicianName != "" && entity.PhysicianName != entity.Name {
		parts = append(parts, entity.PhysicianName)
	}
	parts = append(parts, entity.Address, "official website")
	return strings.Join(parts, " ")
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
