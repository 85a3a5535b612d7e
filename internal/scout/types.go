package scout

import (
	"time"
)

// EntityIdentity identifies one practice being researched. It is read from a
// single input row and never mutated afterwards.
type EntityIdentity struct {
	Name          string `json:"name"`
	PhysicianName string `json:"physician_name,omitempty"`
	Address       string `json:"address"`
}

// Valid reports whether the row carries enough information to process.
func (e EntityIdentity) Valid() bool {
	return e.Name != "" && e.Address != ""
}

// ResolvedSite is the resolver's verdict for one entity. URL is empty when no
// acceptable candidate survived filtering; that is a terminal outcome, not an
// error.
type ResolvedSite struct {
	Entity EntityIdentity `json:"entity"`
	URL    string         `json:"url,omitempty"`
	Reason string         `json:"reason,omitempty"`
}

// Resolution reasons recorded when no site is found. A failed search
// collaborator call is recorded separately from a genuine absence.
const (
	ReasonNoCandidate      = "no candidate"
	ReasonAllExcluded      = "all excluded"
	ReasonResolutionFailed = "resolution failed"
)

// PageContent is one fetched page handed from the crawler to the extractor.
// It is scoped to a single crawl and discarded after extraction.
type PageContent struct {
	URL   string
	Depth int
	Body  []byte
}

// Classification tags a candidate phrase during service extraction.
type Classification int

// Classifier verdicts. Unknown phrases are dropped silently.
const (
	ClassUnknown Classification = iota
	ClassInclude
	ClassExclude
)

// String returns the lowercase label used in logs.
func (c Classification) String() string {
	switch c {
	case ClassInclude:
		return "include"
	case ClassExclude:
		return "exclude"
	default:
		return "unknown"
	}
}

// ServiceCandidate is a single classified phrase occurrence. The dedup key is
// the normalized phrase.
type ServiceCandidate struct {
	Phrase    string
	SourceURL string
	Class     Classification
}

// Finding is a matched external listing: a social profile, a review-platform
// page, or a competitor site.
type Finding struct {
	Platform string `json:"platform,omitempty"`
	Name     string `json:"name,omitempty"`
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
}

// LocationData carries best-effort demographics for the entity's city/state.
// Missing fields stay empty rather than failing the row.
type LocationData struct {
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Population   string `json:"population,omitempty"`
	MedianIncome string `json:"median_income,omitempty"`
}

// SearchResult is one ranked hit returned by the search collaborator.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// FetchResponse is the result returned by a Fetcher implementation.
type FetchResponse struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	Duration    time.Duration
}

// ResultRecord aggregates everything learned about one entity. It is created
// once per input row by the assembler, is immutable after creation, and is
// written exactly once to the result store.
type ResultRecord struct {
	Entity      EntityIdentity     `json:"entity"`
	Website     string             `json:"website,omitempty"`
	SiteReason  string             `json:"site_reason,omitempty"`
	Services    []string           `json:"services"`
	Social      map[string]Finding `json:"social,omitempty"`
	Reviews     map[string]Finding `json:"reviews,omitempty"`
	Competitors []Finding          `json:"competitors,omitempty"`
	Location    LocationData       `json:"location"`
	ScrapedAt   time.Time          `json:"scraped_at"`
}

// RunStatus is the terminal state of a whole run.
type RunStatus string

// Run outcomes surfaced by the CLI exit code.
const (
	RunCompleted      RunStatus = "completed"
	RunQuotaExhausted RunStatus = "quota_exhausted"
	RunAuthFailed     RunStatus = "auth_failed"
	RunCanceled       RunStatus = "canceled"
)

// RunCounters tracks aggregate progress for one run.
type RunCounters struct {
	RowsRead      int64 `json:"rows_read"`
	RowsSkipped   int64 `json:"rows_skipped"`
	RowsCompleted int64 `json:"rows_completed"`
	PagesFetched  int64 `json:"pages_fetched"`
	SearchCalls   int64 `json:"search_calls"`
}

// RunReport is the summary returned when a run finishes.
type RunReport struct {
	RunID    string      `json:"run_id"`
	Status   RunStatus   `json:"status"`
	Counters RunCounters `json:"counters"`
	Started  time.Time   `json:"started_at"`
	Finished time.Time   `json:"finished_at"`
}
