package pipeline_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadscope/practicescout/internal/crawl"
	"github.com/leadscope/practicescout/internal/extract"
	"github.com/leadscope/practicescout/internal/pipeline"
	"github.com/leadscope/practicescout/internal/publisher/memory"
	"github.com/leadscope/practicescout/internal/resolver"
	"github.com/leadscope/practicescout/internal/scout"
	"github.com/leadscope/practicescout/internal/signals"
	memorystore "github.com/leadscope/practicescout/internal/store/memory"
)

// routedSearcher answers canned results by query shape, standing in for the
// search provider across every component that issues queries.
type routedSearcher struct {
	mu      sync.Mutex
	queries []string
}

func (s *routedSearcher) Search(_ context.Context, query string) ([]scout.SearchResult, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()

	switch {
	case strings.HasSuffix(query, "official website"):
		return []scout.SearchResult{
			{Title: "Example Eye Care | Facebook", URL: "https://facebook.com/exampleeyecare"},
			{Title: "Example Eye Care", URL: "https://example.com"},
		}, nil
	case strings.Contains(query, "site:facebook.com"):
		return []scout.SearchResult{
			{Title: "Example Eye Care | Facebook", URL: "https://facebook.com/exampleeyecare"},
		}, nil
	case strings.Contains(query, "site:"):
		return nil, nil
	case strings.Contains(query, "near Springfield, IL"):
		return []scout.SearchResult{
			{Title: "Rival Vision Center", URL: "https://rivalvision.com"},
			{Title: "Example Eye Care - About", URL: "https://example.com/about"},
		}, nil
	case strings.Contains(query, "population median income"):
		return []scout.SearchResult{
			{Snippet: "Springfield, IL. Population: 114,394. Median income: $58,000."},
		}, nil
	}
	return nil, nil
}

// rootOnlyFetcher serves one page for any URL on its host.
type rootOnlyFetcher struct{ body string }

func (f *rootOnlyFetcher) Fetch(_ context.Context, url string) (scout.FetchResponse, error) {
	return scout.FetchResponse{
		URL:         url,
		StatusCode:  200,
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(f.body),
	}, nil
}

const exampleRootPage = `<html><body><ul>
<li>Eye Exams</li>
<li>Glaucoma Treatment</li>
<li>Blue Cross Insurance accepted</li>
<li>Contact Us</li>
</ul></body></html>`

func realDeps(rows scout.RowSource, store scout.ResultStore, searcher scout.Searcher) pipeline.Deps {
	logger := zap.NewNop()
	crawler := crawl.New(
		crawl.Config{MaxDepth: 2, PageBudget: 5},
		&rootOnlyFetcher{body: exampleRootPage},
		nil, nil,
		crawl.NewDomainLimiter(0),
		crawl.NewRetryPolicy(0),
		logger,
	)
	extractor := extract.New(extract.Lexicons{
		IncludeTerms:   []string{"eye exam", "glaucoma"},
		ExcludePhrases: []string{"blue cross", "contact"},
		MinWords:       1,
		MaxWords:       10,
		MaxPhraseLen:   100,
	}, logger)

	return pipeline.Deps{
		Rows:        rows,
		Resolver:    resolver.New(searcher, []string{"facebook.com", "yelp.com"}, logger),
		Crawler:     crawler,
		Extractor:   extractor,
		Social:      signals.NewSocial(searcher, []string{"facebook.com"}, logger),
		Reviews:     signals.NewReview(searcher, []string{"yelp.com"}, logger),
		Competitors: signals.NewCompetitor(searcher, "eye care optometry ophthalmology", 5, logger),
		Location:    signals.NewLocation(signals.NewSearchLookup(searcher), logger),
		Store:       store,
		Publisher:   memory.New(),
		Quota:       &fakeQuota{},
		Clock:       fixedClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)},
		IDs:         fixedIDs{},
		Logger:      logger,
	}
}

func TestRunEndToEndWithRealComponents(t *testing.T) {
	entity := scout.EntityIdentity{
		Name:    "Example Eye Care",
		Address: "123 Main St, Springfield, IL",
	}
	searcher := &routedSearcher{}
	store := memorystore.NewStore()
	rows := &sliceSource{rows: []scout.EntityIdentity{entity}}

	p, err := pipeline.New(realDeps(rows, store, searcher), 1)
	require.NoError(t, err)

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, scout.RunCompleted, report.Status)

	record, ok := store.Get("Example Eye Care")
	require.True(t, ok)

	assert.Equal(t, "https://example.com", record.Website)
	assert.Equal(t, []string{"Eye Exams", "Glaucoma Treatment"}, record.Services)

	require.Contains(t, record.Social, "facebook.com")
	assert.Equal(t, "https://facebook.com/exampleeyecare", record.Social["facebook.com"].URL)
	assert.Empty(t, record.Reviews)

	require.Len(t, record.Competitors, 1)
	assert.Equal(t, "https://rivalvision.com", record.Competitors[0].URL)

	assert.Equal(t, "Springfield", record.Location.City)
	assert.Equal(t, "IL", record.Location.State)
	assert.Equal(t, "114,394", record.Location.Population)
	assert.Equal(t, "$58,000", record.Location.MedianIncome)
}

func TestRunIsDeterministic(t *testing.T) {
	entity := scout.EntityIdentity{
		Name:    "Example Eye Care",
		Address: "123 Main St, Springfield, IL",
	}

	records := make([]scout.ResultRecord, 0, 2)
	for range 2 {
		store := memorystore.NewStore()
		rows := &sliceSource{rows: []scout.EntityIdentity{entity}}
		p, err := pipeline.New(realDeps(rows, store, &routedSearcher{}), 1)
		require.NoError(t, err)
		_, err = p.Run(context.Background())
		require.NoError(t, err)

		record, ok := store.Get("Example Eye Care")
		require.True(t, ok)
		records = append(records, record)
	}

	assert.Equal(t, records[0], records[1])
}
