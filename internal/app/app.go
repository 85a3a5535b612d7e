// Package app assembles the pipeline from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/leadscope/practicescout/internal/api"
	systemclock "github.com/leadscope/practicescout/internal/clock/system"
	"github.com/leadscope/practicescout/internal/config"
	"github.com/leadscope/practicescout/internal/crawl"
	"github.com/leadscope/practicescout/internal/extract"
	"github.com/leadscope/practicescout/internal/fetcher/collyfetcher"
	"github.com/leadscope/practicescout/internal/fetcher/headless"
	uuidgen "github.com/leadscope/practicescout/internal/id/uuid"
	"github.com/leadscope/practicescout/internal/input"
	"github.com/leadscope/practicescout/internal/pipeline"
	memorypublisher "github.com/leadscope/practicescout/internal/publisher/memory"
	nooppublisher "github.com/leadscope/practicescout/internal/publisher/noop"
	pubsubpublisher "github.com/leadscope/practicescout/internal/publisher/pubsub"
	"github.com/leadscope/practicescout/internal/resolver"
	"github.com/leadscope/practicescout/internal/scout"
	"github.com/leadscope/practicescout/internal/search"
	"github.com/leadscope/practicescout/internal/search/serpapi"
	"github.com/leadscope/practicescout/internal/signals"
	gcsstore "github.com/leadscope/practicescout/internal/store/gcs"
	localstore "github.com/leadscope/practicescout/internal/store/local"
	memorystore "github.com/leadscope/practicescout/internal/store/memory"
	noopstore "github.com/leadscope/practicescout/internal/store/noop"
	pgstore "github.com/leadscope/practicescout/internal/store/postgres"
)

// App owns every collaborator built from the config and knows how to run one
// research pass and tear everything down afterwards.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	pipe     *pipeline.Pipeline
	meter    *search.Meter
	rows     *input.CSVSource
	headless *headless.Fetcher
	pgStore  *pgstore.Store
	psClient *pubsub.Client
	psPub    *pubsubpublisher.Publisher
	gcsCli   *storage.Client
	server   *http.Server
}

// New builds the full dependency graph. It fails fast on anything that would
// make the run useless, like a missing API key or an unreachable store.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	rows, err := input.OpenCSV(cfg.Run.Input, cfg.Run.MaxRows)
	if err != nil {
		return nil, err
	}
	a.rows = rows

	client, err := serpapi.New(serpapi.Config{
		Endpoint:        cfg.Search.Endpoint,
		APIKey:          cfg.Search.APIKey,
		ResultsPerQuery: cfg.Search.ResultsPerQuery,
		Timeout:         cfg.SearchTimeout(),
	}, logger)
	if err != nil {
		a.close()
		return nil, err
	}
	a.meter = search.NewMeter(client, cfg.Search.Quota)

	crawler, err := a.buildCrawler()
	if err != nil {
		a.close()
		return nil, err
	}

	resultStore, err := a.buildStore(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	publisher, err := a.buildPublisher(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	extractor := extract.New(extract.Lexicons{
		IncludeTerms:   cfg.Extract.IncludeTerms,
		ExcludePhrases: cfg.Extract.ExcludePhrases,
		MinWords:       cfg.Extract.MinWords,
		MaxWords:       cfg.Extract.MaxWords,
		MaxPhraseLen:   cfg.Extract.MaxPhraseLen,
	}, logger)

	deps := pipeline.Deps{
		Rows:      rows,
		Resolver:  resolver.New(a.meter, cfg.Resolver.ExcludedDomains, logger),
		Crawler:   crawler,
		Extractor: extractor,
		Social:    signals.NewSocial(a.meter, cfg.Signals.SocialPlatforms, logger),
		Reviews:   signals.NewReview(a.meter, cfg.Signals.ReviewPlatforms, logger),
		Competitors: signals.NewCompetitor(
			a.meter,
			cfg.Signals.CompetitorCategory,
			cfg.Signals.MaxCompetitors,
			logger,
		),
		Location:  signals.NewLocation(signals.NewSearchLookup(a.meter), logger),
		Store:     resultStore,
		Publisher: publisher,
		Quota:     a.meter,
		Clock:     systemclock.New(),
		IDs:       uuidgen.NewGenerator(),
		Logger:    logger,
	}
	pipe, err := pipeline.New(deps, cfg.Run.Concurrency)
	if err != nil {
		a.close()
		return nil, err
	}
	a.pipe = pipe
	return a, nil
}

// Run executes one research pass, serving status over HTTP if enabled, and
// returns the run report.
func (a *App) Run(ctx context.Context) (scout.RunReport, error) {
	defer a.close()

	if a.cfg.Server.Enabled {
		a.startServer()
		defer a.stopServer()
	}
	return a.pipe.Run(ctx)
}

func (a *App) buildCrawler() (*crawl.Crawler, error) {
	base := collyfetcher.New(collyfetcher.Config{
		UserAgent: a.cfg.Crawl.UserAgent,
		Timeout:   a.cfg.CrawlTimeout(),
	})

	var promoted scout.Fetcher
	var det crawl.Detector
	if a.cfg.Headless.Enabled {
		hf, err := headless.New(headless.Config{
			MaxParallel:       a.cfg.Headless.MaxParallel,
			UserAgent:         a.cfg.Crawl.UserAgent,
			NavigationTimeout: a.cfg.NavTimeout(),
		})
		if err != nil {
			return nil, fmt.Errorf("start headless fetcher: %w", err)
		}
		a.headless = hf
		promoted = hf
		det = headless.NewDetector(a.cfg.Headless.MinHTMLBytes)
	}

	return crawl.New(
		crawl.Config{
			MaxDepth:     a.cfg.Crawl.MaxDepth,
			PageBudget:   a.cfg.Crawl.PageBudget,
			LinkKeywords: a.cfg.Crawl.LinkKeywords,
		},
		base,
		promoted,
		det,
		crawl.NewDomainLimiter(a.cfg.Crawl.DomainDelay),
		crawl.NewRetryPolicy(a.cfg.Crawl.MaxRetries),
		a.logger,
	), nil
}

func (a *App) buildStore(ctx context.Context) (scout.ResultStore, error) {
	switch a.cfg.Run.Store {
	case "local":
		return localstore.New(localstore.Config{BaseDir: a.cfg.Run.Output})
	case "memory":
		return memorystore.NewStore(), nil
	case "noop":
		return noopstore.NewStore(), nil
	case "postgres":
		st, err := pgstore.New(ctx, pgstore.Config{DSN: a.cfg.DB.DSN})
		if err != nil {
			return nil, err
		}
		a.pgStore = st
		return st, nil
	case "gcs":
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("create gcs client: %w", err)
		}
		a.gcsCli = client
		return gcsstore.New(client, gcsstore.Config{
			Bucket: a.cfg.GCS.Bucket,
			Prefix: a.cfg.GCS.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown result store: %s", a.cfg.Run.Store)
	}
}

func (a *App) buildPublisher(ctx context.Context) (scout.Publisher, error) {
	switch a.cfg.Run.Publisher {
	case "noop":
		return nooppublisher.New(), nil
	case "memory":
		return memorypublisher.New(), nil
	case "pubsub":
		client, err := pubsub.NewClient(ctx, a.cfg.PubSub.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("create pubsub client: %w", err)
		}
		a.psClient = client
		a.psPub = pubsubpublisher.New(client.Topic(a.cfg.PubSub.TopicName))
		return a.psPub, nil
	default:
		return nil, fmt.Errorf("unknown publisher: %s", a.cfg.Run.Publisher)
	}
}

func (a *App) startServer() {
	srv := api.NewServer(a.pipe, a.logger)
	a.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("status server failed", zap.Error(err))
		}
	}()
	a.logger.Info("status server listening", zap.Int("port", a.cfg.Server.Port))
}

func (a *App) stopServer() {
	if a.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Warn("status server shutdown failed", zap.Error(err))
	}
	a.server = nil
}

func (a *App) close() {
	if a.rows != nil {
		if err := a.rows.Close(); err != nil {
			a.logger.Warn("close input file failed", zap.Error(err))
		}
		a.rows = nil
	}
	if a.headless != nil {
		a.headless.Close()
		a.headless = nil
	}
	if a.pgStore != nil {
		a.pgStore.Close()
		a.pgStore = nil
	}
	if a.psPub != nil {
		a.psPub.Stop()
		a.psPub = nil
	}
	if a.psClient != nil {
		if err := a.psClient.Close(); err != nil {
			a.logger.Warn("close pubsub client failed", zap.Error(err))
		}
		a.psClient = nil
	}
	if a.gcsCli != nil {
		if err := a.gcsCli.Close(); err != nil {
			a.logger.Warn("close gcs client failed", zap.Error(err))
		}
		a.gcsCli = nil
	}
}
