// Package config loads and validates pipeline configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Run      RunConfig      `mapstructure:"run"`
	Search   SearchConfig   `mapstructure:"search"`
	Crawl    CrawlConfig    `mapstructure:"crawl"`
	Headless HeadlessConfig `mapstructure:"headless"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Signals  SignalsConfig  `mapstructure:"signals"`
	Extract  ExtractConfig  `mapstructure:"extract"`
	DB       DBConfig       `mapstructure:"db"`
	GCS      GCSConfig      `mapstructure:"gcs"`
	PubSub   PubSubConfig   `mapstructure:"pubsub"`
	Server   ServerConfig   `mapstructure:"server"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// RunConfig governs row intake, worker fan-out, and output selection.
type RunConfig struct {
	Input       string `mapstructure:"input"`
	MaxRows     int    `mapstructure:"max_rows"`
	Concurrency int    `mapstructure:"concurrency"`
	Output      string `mapstructure:"output"`
	Store       string `mapstructure:"store"`
	Publisher   string `mapstructure:"publisher"`
}

// SearchConfig configures the external search provider.
type SearchConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	APIKey          string `mapstructure:"api_key"`
	ResultsPerQuery int    `mapstructure:"results_per_query"`
	Quota           int64  `mapstructure:"quota"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
}

// CrawlConfig bounds the per-site crawl.
type CrawlConfig struct {
	MaxDepth       int           `mapstructure:"max_depth"`
	PageBudget     int           `mapstructure:"page_budget"`
	DomainDelay    time.Duration `mapstructure:"domain_delay"`
	MaxRetries     int           `mapstructure:"max_retries"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	UserAgent      string        `mapstructure:"user_agent"`
	LinkKeywords   []string      `mapstructure:"link_keywords"`
}

// HeadlessConfig configures the optional chromedp promotion path.
type HeadlessConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxParallel   int  `mapstructure:"max_parallel"`
	NavTimeoutSec int  `mapstructure:"nav_timeout_seconds"`
	MinHTMLBytes  int  `mapstructure:"min_html_bytes"`
}

// ResolverConfig lists hostnames that can never be an official site.
type ResolverConfig struct {
	ExcludedDomains []string `mapstructure:"excluded_domains"`
}

// SignalsConfig drives the social/review/competitor aggregators.
type SignalsConfig struct {
	SocialPlatforms    []string `mapstructure:"social_platforms"`
	ReviewPlatforms    []string `mapstructure:"review_platforms"`
	MaxCompetitors     int      `mapstructure:"max_competitors"`
	CompetitorCategory string   `mapstructure:"competitor_category"`
}

// ExtractConfig holds the classification lexicons and phrase shape bounds.
// The lexicons are tunables, not a fixed algorithm.
type ExtractConfig struct {
	IncludeTerms   []string `mapstructure:"include_terms"`
	ExcludePhrases []string `mapstructure:"exclude_phrases"`
	MinWords       int      `mapstructure:"min_words"`
	MaxWords       int      `mapstructure:"max_words"`
	MaxPhraseLen   int      `mapstructure:"max_phrase_len"`
}

// DBConfig controls the optional Postgres result store.
type DBConfig struct {
	DSN string `mapstructure:"dsn"`
}

// GCSConfig controls the optional GCS result store.
type GCSConfig struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}

// PubSubConfig holds metadata for completion notifications.
type PubSubConfig struct {
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// ServerConfig controls the optional status/metrics HTTP server.
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.development", true)

	v.SetDefault("run.input", "")
	v.SetDefault("run.max_rows", 20)
	v.SetDefault("run.concurrency", 4)
	v.SetDefault("run.output", "output")
	v.SetDefault("run.store", "local")
	v.SetDefault("run.publisher", "noop")

	v.SetDefault("search.endpoint", "https://serpapi.com/search")
	v.SetDefault("search.results_per_query", 5)
	v.SetDefault("search.quota", 0)
	v.SetDefault("search.timeout_seconds", 15)

	v.SetDefault("crawl.max_depth", 2)
	v.SetDefault("crawl.page_budget", 25)
	v.SetDefault("crawl.domain_delay", "1s")
	v.SetDefault("crawl.max_retries", 2)
	v.SetDefault("crawl.timeout_seconds", 10)
	v.SetDefault("crawl.user_agent", "practicescout/0.1 (+https://github.com/leadscope/practicescout)")
	v.SetDefault("crawl.link_keywords", defaultLinkKeywords)

	v.SetDefault("headless.enabled", false)
	v.SetDefault("headless.max_parallel", 1)
	v.SetDefault("headless.nav_timeout_seconds", 25)
	v.SetDefault("headless.min_html_bytes", 2000)

	v.SetDefault("resolver.excluded_domains", defaultExcludedDomains)

	v.SetDefault("signals.social_platforms", defaultSocialPlatforms)
	v.SetDefault("signals.review_platforms", defaultReviewPlatforms)
	v.SetDefault("signals.max_competitors", 5)
	v.SetDefault("signals.competitor_category", "eye care optometry ophthalmology")

	v.SetDefault("extract.include_terms", defaultIncludeTerms)
	v.SetDefault("extract.exclude_phrases", defaultExcludePhrases)
	v.SetDefault("extract.min_words", 1)
	v.SetDefault("extract.max_words", 10)
	v.SetDefault("extract.max_phrase_len", 100)

	v.SetDefault("gcs.prefix", "records")
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", 8080)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Run.Concurrency <= 0 {
		return fmt.Errorf("run.concurrency must be > 0")
	}
	if c.Crawl.MaxDepth < 0 {
		return fmt.Errorf("crawl.max_depth must be >= 0")
	}
	if c.Crawl.PageBudget <= 0 {
		return fmt.Errorf("crawl.page_budget must be > 0")
	}
	if c.Crawl.MaxRetries < 0 {
		return fmt.Errorf("crawl.max_retries must be >= 0")
	}
	if c.Search.ResultsPerQuery <= 0 {
		return fmt.Errorf("search.results_per_query must be > 0")
	}
	switch c.Run.Store {
	case "local", "memory", "noop":
	case "postgres":
		if c.DB.DSN == "" {
			return fmt.Errorf("run.store is 'postgres' but db.dsn is not set")
		}
	case "gcs":
		if c.GCS.Bucket == "" {
			return fmt.Errorf("run.store is 'gcs' but gcs.bucket is not set")
		}
	default:
		return fmt.Errorf("unknown result store: %s", c.Run.Store)
	}
	switch c.Run.Publisher {
	case "noop", "memory":
	case "pubsub":
		if c.PubSub.ProjectID == "" || c.PubSub.TopicName == "" {
			return fmt.Errorf("run.publisher is 'pubsub' but project_id or topic_name is not set")
		}
	default:
		return fmt.Errorf("unknown publisher: %s", c.Run.Publisher)
	}
	if c.Headless.Enabled && c.Headless.MaxParallel <= 0 {
		return fmt.Errorf("headless.max_parallel must be > 0 when headless is enabled")
	}
	if c.Server.Enabled && c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0 when the server is enabled")
	}
	return nil
}

// SearchTimeout converts the search timeout knob into a duration.
func (c Config) SearchTimeout() time.Duration {
	return time.Duration(c.Search.TimeoutSeconds) * time.Second
}

// CrawlTimeout converts the fetch timeout knob into a duration.
func (c Config) CrawlTimeout() time.Duration {
	return time.Duration(c.Crawl.TimeoutSeconds) * time.Second
}

// NavTimeout converts the headless navigation timeout into a duration.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Headless.NavTimeoutSec) * time.Second
}
