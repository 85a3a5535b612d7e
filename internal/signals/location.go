package signals

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/leadscope/practicescout/internal/scout"
)

// ParseCityState extracts the city and state from a postal address using the
// last two comma-delimited tokens. Best-effort: malformed addresses yield
// empty components rather than an error. A trailing ZIP code on the state
// token is dropped.
func ParseCityState(address string) (city, state string) {
	parts := strings.Split(address, ",")
	if len(parts) < 2 {
		return "", ""
	}
	city = strings.TrimSpace(parts[len(parts)-2])
	state = strings.TrimSpace(parts[len(parts)-1])
	if fields := strings.Fields(state); len(fields) > 1 {
		state = fields[0]
	}
	return city, state
}

// LocationAggregator resolves demographics for an entity's locality, caching
// per (city, state) pair for the duration of a run so repeated localities
// cost one external lookup. Safe for concurrent use across row workers.
type LocationAggregator struct {
	lookup scout.LocationLookup
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]scout.LocationData
}

// NewLocation constructs a LocationAggregator with an empty cache.
func NewLocation(lookup scout.LocationLookup, logger *zap.Logger) *LocationAggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocationAggregator{
		lookup: lookup,
		logger: logger,
		cache:  make(map[string]scout.LocationData),
	}
}

// Data returns demographics for the entity's address. Unparseable addresses
// and failed lookups produce partial LocationData, never an error, except for
// fatal collaborator failures which propagate.
func (a *LocationAggregator) Data(ctx context.Context, entity scout.EntityIdentity) (scout.LocationData, error) {
	city, state := ParseCityState(entity.Address)
	if city == "" && state == "" {
		return scout.LocationData{}, nil
	}

	key := strings.ToLower(city + "|" + state)
	a.mu.Lock()
	if cached, ok := a.cache[key]; ok {
		a.mu.Unlock()
		return cached, nil
	}
	a.mu.Unlock()

	data, err := a.lookup.Lookup(ctx, city, state)
	if err != nil {
		if scout.IsFatal(err) {
			return scout.LocationData{}, err
		}
		if !errors.Is(err, scout.ErrNotFound) {
			a.logger.Warn("location lookup failed",
				zap.String("city", city),
				zap.String("state", state),
				zap.Error(err),
			)
		}
		data = scout.LocationData{}
	}
	data.City = city
	data.State = state

	a.mu.Lock()
	a.cache[key] = data
	a.mu.Unlock()
	return data, nil
}

var (
	populationRe = regexp.MustCompile(`(?i)population[:\s]*([\d,]+)`)
	incomeRe     = regexp.MustCompile(`(?i)median income[:\s]*\$?([\d,]+)`)
)

// SearchLookup implements scout.LocationLookup over the search collaborator,
// mining population and median-income figures from result snippets.
type SearchLookup struct {
	searcher scout.Searcher
}

// NewSearchLookup constructs a SearchLookup.
func NewSearchLookup(searcher scout.Searcher) *SearchLookup {
	return &SearchLookup{searcher: searcher}
}

// Lookup queries "<city> <state> population median income" and scans the
// snippets in ranked order, keeping the first match for each figure.
func (l *SearchLookup) Lookup(ctx context.Context, city, state string) (scout.LocationData, error) {
	query := fmt.Sprintf("%s %s population median income", city, state)
	results, err := l.searcher.Search(ctx, query)
	if err != nil {
		return scout.LocationData{}, err
	}

	data := scout.LocationData{}
	for _, result := range results {
		if data.Population == "" {
			if m := populationRe.FindStringSubmatch(result.Snippet); m != nil {
				data.Population = m[1]
			}
		}
		if data.MedianIncome == "" {
			if m := incomeRe.FindStringSubmatch(result.Snippet); m != nil {
				data.MedianIncome = "$" + m[1]
			}
		}
		if data.Population != "" && data.MedianIncome != "" {
			break
		}
	}

	if data.Population == "" && data.MedianIncome == "" {
		return scout.LocationData{}, scout.ErrNotFound
	}
	return data, nil
}
