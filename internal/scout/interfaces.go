package scout

import (
	"context"
	"time"
)

// Searcher issues a templated query against the external search provider and
// returns hits in ranked order. Implementations surface quota and auth
// failures via the sentinel errors in this package.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Fetcher fetches a URL and returns the body plus metadata.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (FetchResponse, error)
}

// LocationLookup resolves demographics for a (city, state) pair.
type LocationLookup interface {
	Lookup(ctx context.Context, city, state string) (LocationData, error)
}

// RowSource yields entity rows from the input file in order. Next returns
// io.EOF when the source is drained or the configured row limit is reached.
type RowSource interface {
	Next() (EntityIdentity, error)
}

// ResultStore persists one record per entity, keyed by the entity name.
// Writing the same key twice overwrites the previous record.
type ResultStore interface {
	Save(ctx context.Context, record ResultRecord) (string, error)
}

// Publisher pushes a completion event after each persisted record.
type Publisher interface {
	Publish(ctx context.Context, payload any) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
