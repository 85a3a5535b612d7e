// Package pipeline orchestrates the per-row research flow over a worker pool.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leadscope/practicescout/internal/scout"
	"github.com/leadscope/practicescout/internal/telemetry"
)

// SiteResolver finds the official website for an entity.
type SiteResolver interface {
	Resolve(ctx context.Context, entity scout.EntityIdentity) (scout.ResolvedSite, error)
}

// SiteCrawler walks a resolved site and returns its pages.
type SiteCrawler interface {
	Crawl(ctx context.Context, rootURL string) ([]scout.PageContent, error)
}

// ServiceExtractor turns crawled pages into a service list.
type ServiceExtractor interface {
	Services(pages []scout.PageContent) []string
}

// ProfileAggregator finds per-platform listings for an entity.
type ProfileAggregator interface {
	Findings(ctx context.Context, entity scout.EntityIdentity) (map[string]scout.Finding, error)
}

// CompetitorAggregator finds nearby competitor sites for a resolved entity.
type CompetitorAggregator interface {
	Findings(ctx context.Context, site scout.ResolvedSite) ([]scout.Finding, error)
}

// LocationAggregator resolves demographics for an entity's address.
type LocationAggregator interface {
	Data(ctx context.Context, entity scout.EntityIdentity) (scout.LocationData, error)
}

// QuotaState reports whether the shared search budget is still usable.
type QuotaState interface {
	Calls() int64
	Exhausted() bool
	AuthFailed() bool
}

// Deps bundles the collaborators the pipeline fans work out to.
type Deps struct {
	Rows        scout.RowSource
	Resolver    SiteResolver
	Crawler     SiteCrawler
	Extractor   ServiceExtractor
	Social      ProfileAggregator
	Reviews     ProfileAggregator
	Competitors CompetitorAggregator
	Location    LocationAggregator
	Store       scout.ResultStore
	Publisher   scout.Publisher
	Quota       QuotaState
	Clock       scout.Clock
	IDs         scout.IDGenerator
	Logger      *zap.Logger
}

// CompletionEvent is published after each record is persisted.
type CompletionEvent struct {
	RunID      string    `json:"run_id"`
	EntityName string    `json:"entity_name"`
	Key        string    `json:"key"`
	Website    string    `json:"website,omitempty"`
	Services   int       `json:"services"`
	SavedAt    time.Time `json:"saved_at"`
}

// Pipeline drains the row source through a bounded pool of workers. Each row
// produces exactly one stored record, regardless of partial failures.
type Pipeline struct {
	deps        Deps
	concurrency int

	runID    atomic.Value
	started  atomic.Int64
	rowsRead atomic.Int64
	skipped  atomic.Int64
	done     atomic.Int64
	pages    atomic.Int64
}

// New creates a Pipeline.
func New(deps Deps, concurrency int) (*Pipeline, error) {
	if deps.Rows == nil || deps.Resolver == nil || deps.Store == nil {
		return nil, fmt.Errorf("rows, resolver, and store are required")
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Pipeline{deps: deps, concurrency: concurrency}, nil
}

// Run drains the input and returns a report describing how the run ended.
// A quota or auth trip stops intake; rows already in flight finish with
// whatever sections they completed.
func (p *Pipeline) Run(ctx context.Context) (scout.RunReport, error) {
	runID, err := p.deps.IDs.NewID()
	if err != nil {
		return scout.RunReport{}, fmt.Errorf("generate run id: %w", err)
	}
	p.runID.Store(runID)
	started := p.deps.Clock.Now()
	p.started.Store(started.UnixNano())
	log := p.deps.Logger.With(zap.String("run_id", runID))
	log.Info("run starting", zap.Int("concurrency", p.concurrency))

	jobs := make(chan scout.EntityIdentity)
	group, groupCtx := errgroup.WithContext(ctx)

	for i := 0; i < p.concurrency; i++ {
		group.Go(func() error {
			for entity := range jobs {
				p.processRow(groupCtx, runID, entity)
			}
			return nil
		})
	}

	var intakeErr error
intake:
	for {
		if groupCtx.Err() != nil {
			break
		}
		if p.stopIntake() {
			log.Warn("search budget tripped, stopping intake")
			break
		}
		entity, err := p.deps.Rows.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				intakeErr = err
				log.Error("row source failed", zap.Error(err))
			}
			break
		}
		p.rowsRead.Add(1)
		if !entity.Valid() {
			p.skipped.Add(1)
			telemetry.RowProcessed("skipped")
			log.Warn("skipping row with missing fields", zap.String("name", entity.Name))
			continue
		}
		select {
		case jobs <- entity:
		case <-groupCtx.Done():
			break intake
		}
	}
	close(jobs)
	if err := group.Wait(); err != nil && intakeErr == nil {
		intakeErr = err
	}

	report := scout.RunReport{
		RunID:    runID,
		Status:   p.status(ctx),
		Counters: p.counters(),
		Started:  started,
		Finished: p.deps.Clock.Now(),
	}
	log.Info("run finished",
		zap.String("status", string(report.Status)),
		zap.Int64("rows_read", report.Counters.RowsRead),
		zap.Int64("rows_completed", report.Counters.RowsCompleted),
		zap.Int64("search_calls", report.Counters.SearchCalls),
	)
	return report, intakeErr
}

// processRow runs the full research flow for one entity and persists exactly
// one record. Section failures degrade to empty sections.
func (p *Pipeline) processRow(ctx context.Context, runID string, entity scout.EntityIdentity) {
	telemetry.WorkerStarted()
	defer telemetry.WorkerDone()
	log := p.deps.Logger.With(zap.String("run_id", runID), zap.String("entity", entity.Name))

	site, err := p.deps.Resolver.Resolve(ctx, entity)
	if err != nil {
		log.Warn("site resolution failed", zap.Error(err))
		site = scout.ResolvedSite{Entity: entity, Reason: scout.ReasonResolutionFailed}
	}

	var (
		services    []string
		social      map[string]scout.Finding
		reviews     map[string]scout.Finding
		competitors []scout.Finding
		location    scout.LocationData
	)

	sections, sectionCtx := errgroup.WithContext(ctx)
	sections.Go(func() error {
		services = p.crawlAndExtract(sectionCtx, log, site)
		return nil
	})
	sections.Go(func() error {
		if p.deps.Social == nil {
			return nil
		}
		found, err := p.deps.Social.Findings(sectionCtx, entity)
		if err != nil {
			log.Warn("social lookup incomplete", zap.Error(err))
		}
		social = found
		return nil
	})
	sections.Go(func() error {
		if p.deps.Reviews == nil {
			return nil
		}
		found, err := p.deps.Reviews.Findings(sectionCtx, entity)
		if err != nil {
			log.Warn("review lookup incomplete", zap.Error(err))
		}
		reviews = found
		return nil
	})
	sections.Go(func() error {
		if p.deps.Competitors == nil {
			return nil
		}
		found, err := p.deps.Competitors.Findings(sectionCtx, site)
		if err != nil {
			log.Warn("competitor lookup incomplete", zap.Error(err))
		}
		competitors = found
		return nil
	})
	sections.Go(func() error {
		if p.deps.Location == nil {
			return nil
		}
		data, err := p.deps.Location.Data(sectionCtx, entity)
		if err != nil {
			log.Warn("location lookup incomplete", zap.Error(err))
		}
		location = data
		return nil
	})
	// Section goroutines never return errors, so Wait only joins them.
	_ = sections.Wait()

	if services == nil {
		services = []string{}
	}
	record := scout.ResultRecord{
		Entity:      entity,
		Website:     site.URL,
		SiteReason:  site.Reason,
		Services:    services,
		Social:      social,
		Reviews:     reviews,
		Competitors: competitors,
		Location:    location,
		ScrapedAt:   p.deps.Clock.Now(),
	}

	key, err := p.deps.Store.Save(ctx, record)
	if err != nil {
		log.Error("store save failed", zap.Error(err))
		telemetry.RowProcessed("store_error")
		return
	}
	if p.deps.Publisher != nil {
		event := CompletionEvent{
			RunID:      runID,
			EntityName: entity.Name,
			Key:        key,
			Website:    site.URL,
			Services:   len(services),
			SavedAt:    record.ScrapedAt,
		}
		if _, err := p.deps.Publisher.Publish(ctx, event); err != nil {
			log.Warn("publish failed", zap.Error(err))
		}
	}
	p.done.Add(1)
	telemetry.RowProcessed("ok")
	log.Info("row complete",
		zap.String("website", site.URL),
		zap.Int("services", len(services)),
		zap.String("key", key),
	)
}

// crawlAndExtract walks the resolved site and distills its service list. An
// unresolved site or a crawl failure yields an empty list.
func (p *Pipeline) crawlAndExtract(ctx context.Context, log *zap.Logger, site scout.ResolvedSite) []string {
	if site.URL == "" || p.deps.Crawler == nil || p.deps.Extractor == nil {
		return nil
	}
	pages, err := p.deps.Crawler.Crawl(ctx, site.URL)
	if err != nil {
		log.Warn("crawl failed", zap.Error(err))
	}
	p.pages.Add(int64(len(pages)))
	if len(pages) == 0 {
		return nil
	}
	return p.deps.Extractor.Services(pages)
}

func (p *Pipeline) stopIntake() bool {
	if p.deps.Quota == nil {
		return false
	}
	return p.deps.Quota.Exhausted() || p.deps.Quota.AuthFailed()
}

func (p *Pipeline) status(ctx context.Context) scout.RunStatus {
	if p.deps.Quota != nil {
		if p.deps.Quota.AuthFailed() {
			return scout.RunAuthFailed
		}
		if p.deps.Quota.Exhausted() {
			return scout.RunQuotaExhausted
		}
	}
	if ctx.Err() != nil {
		return scout.RunCanceled
	}
	return scout.RunCompleted
}

func (p *Pipeline) counters() scout.RunCounters {
	counters := scout.RunCounters{
		RowsRead:      p.rowsRead.Load(),
		RowsSkipped:   p.skipped.Load(),
		RowsCompleted: p.done.Load(),
		PagesFetched:  p.pages.Load(),
	}
	if p.deps.Quota != nil {
		counters.SearchCalls = p.deps.Quota.Calls()
	}
	return counters
}

// Snapshot returns in-flight progress for the status endpoint. The returned
// start time is zero until Run has been called.
func (p *Pipeline) Snapshot() (string, time.Time, scout.RunCounters) {
	runID, _ := p.runID.Load().(string)
	var started time.Time
	if ns := p.started.Load(); ns != 0 {
		started = time.Unix(0, ns).UTC()
	}
	return runID, started, p.counters()
}
