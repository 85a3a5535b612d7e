// Package crawl implements the bounded same-domain traversal that feeds the
// service extractor. The crawl is breadth-first, so pages closer to the root
// are handed downstream before deeper ones.
package crawl

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/leadscope/practicescout/internal/scout"
	"github.com/leadscope/practicescout/internal/telemetry"
)

// Config holds the bounds for one crawl invocation.
type Config struct {
	MaxDepth     int
	PageBudget   int
	LinkKeywords []string
}

// Detector decides whether a fetched root page warrants a headless refetch.
type Detector interface {
	ShouldPromote(resp scout.FetchResponse) bool
}

// Crawler walks one domain breadth-first within a depth and page budget.
// A Crawler is stateless across invocations; all crawl state lives in the
// Crawl call and is discarded when it returns.
type Crawler struct {
	cfg      Config
	fetcher  scout.Fetcher
	headless scout.Fetcher
	detector Detector
	limiter  *DomainLimiter
	retry    *RetryPolicy
	logger   *zap.Logger
}

// New constructs a Crawler. The headless fetcher and detector are optional;
// when nil the promotion path is disabled.
func New(
	cfg Config,
	fetcher scout.Fetcher,
	headless scout.Fetcher,
	detector Detector,
	limiter *DomainLimiter,
	retry *RetryPolicy,
	logger *zap.Logger,
) *Crawler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawler{
		cfg:      cfg,
		fetcher:  fetcher,
		headless: headless,
		detector: detector,
		limiter:  limiter,
		retry:    retry,
		logger:   logger,
	}
}

type frontierEntry struct {
	url   string
	depth int
}

// Crawl fetches the site rooted at rootURL and returns the pages gathered in
// BFS order. Individual fetch failures are logged and skipped; only context
// cancellation ends the crawl early with an error.
func (c *Crawler) Crawl(ctx context.Context, rootURL string) ([]scout.PageContent, error) {
	normalizedRoot, err := NormalizeURL(rootURL)
	if err != nil {
		return nil, fmt.Errorf("normalize root url: %w", err)
	}
	root, err := url.Parse(normalizedRoot)
	if err != nil {
		return nil, fmt.Errorf("parse root url: %w", err)
	}

	visited := newVisitTracker()
	frontier := []frontierEntry{{url: normalizedRoot, depth: 0}}
	var pages []scout.PageContent

	for len(frontier) > 0 {
		if ctx.Err() != nil {
			return pages, ctx.Err()
		}

		entry := frontier[0]
		frontier = frontier[1:]

		if !visited.MarkIfNew(visitKey(entry.url)) {
			continue
		}
		if len(pages) >= c.cfg.PageBudget {
			c.logger.Info("page budget exhausted, stopping crawl",
				zap.String("root", normalizedRoot),
				zap.Int("pages", len(pages)),
			)
			break
		}

		resp, ok := c.fetchPage(ctx, entry)
		if !ok {
			continue
		}

		if entry.depth == 0 {
			resp = c.maybePromote(ctx, entry.url, resp)
		}

		telemetry.PageFetched(root.Hostname(), resp.StatusCode)
		pages = append(pages, scout.PageContent{
			URL:   entry.url,
			Depth: entry.depth,
			Body:  resp.Body,
		})

		if entry.depth < c.cfg.MaxDepth {
			frontier = append(frontier, c.outboundLinks(root, entry, resp)...)
		}
	}

	return pages, nil
}

// fetchPage applies the politeness gap and retry policy for one URL. The
// second return value is false when the page contributes no content.
func (c *Crawler) fetchPage(ctx context.Context, entry frontierEntry) (scout.FetchResponse, bool) {
	host := ""
	if u, err := url.Parse(entry.url); err == nil {
		host = u.Hostname()
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx, host); err != nil {
			return scout.FetchResponse{}, false
		}

		resp, err := c.fetcher.Fetch(ctx, entry.url)
		if err == nil && resp.StatusCode >= 500 {
			err = fmt.Errorf("status %d: %w", resp.StatusCode, scout.ErrTransient)
		}
		if err != nil {
			if c.retry.ShouldRetry(err, attempt+1) {
				c.logger.Debug("retrying fetch",
					zap.String("url", entry.url),
					zap.Int("attempt", attempt+1),
					zap.Error(err),
				)
				if sleepErr := c.retry.Sleep(ctx, attempt); sleepErr != nil {
					return scout.FetchResponse{}, false
				}
				continue
			}
			c.logger.Warn("abandoning page",
				zap.String("url", entry.url),
				zap.Int("depth", entry.depth),
				zap.Error(err),
			)
			return scout.FetchResponse{}, false
		}

		if resp.StatusCode >= 400 {
			c.logger.Debug("skipping page",
				zap.String("url", entry.url),
				zap.Int("status_code", resp.StatusCode),
			)
			return scout.FetchResponse{}, false
		}
		if !isHTML(resp.ContentType) {
			c.logger.Debug("skipping non-html content",
				zap.String("url", entry.url),
				zap.String("content_type", resp.ContentType),
			)
			return scout.FetchResponse{}, false
		}
		return resp, true
	}
}

// maybePromote refetches the root page through the headless fetcher when the
// detector judges the HTTP body to be a JavaScript shell.
func (c *Crawler) maybePromote(ctx context.Context, pageURL string, resp scout.FetchResponse) scout.FetchResponse {
	if c.headless == nil || c.detector == nil || !c.detector.ShouldPromote(resp) {
		return resp
	}
	rendered, err := c.headless.Fetch(ctx, pageURL)
	if err != nil {
		c.logger.Warn("headless promotion failed", zap.String("url", pageURL), zap.Error(err))
		return resp
	}
	c.logger.Info("headless promotion applied", zap.String("url", pageURL))
	return rendered
}

// outboundLinks extracts same-domain links from the page at depth+1. Links
// whose path contains a service-suggestive keyword are queued first so they
// survive a tight page budget.
func (c *Crawler) outboundLinks(root *url.URL, entry frontierEntry, resp scout.FetchResponse) []frontierEntry {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		c.logger.Debug("parse page for links failed", zap.String("url", entry.url), zap.Error(err))
		return nil
	}

	base, err := url.Parse(entry.url)
	if err != nil {
		return nil
	}

	var preferred, rest []frontierEntry
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
			strings.HasPrefix(href, "javascript:") {
			return
		}
		target, err := base.Parse(href)
		if err != nil {
			return
		}
		if target.Scheme != "http" && target.Scheme != "https" {
			return
		}
		if !sameHost(root, target) {
			return
		}
		normalized, err := NormalizeURL(target.String())
		if err != nil {
			return
		}
		if _, dup := seen[visitKey(normalized)]; dup {
			return
		}
		seen[visitKey(normalized)] = struct{}{}

		child := frontierEntry{url: normalized, depth: entry.depth + 1}
		if c.isServiceLink(target.Path) {
			preferred = append(preferred, child)
		} else {
			rest = append(rest, child)
		}
	})

	return append(preferred, rest...)
}

func (c *Crawler) isServiceLink(path string) bool {
	path = strings.ToLower(path)
	for _, kw := range c.cfg.LinkKeywords {
		if strings.Contains(path, kw) {
			return true
		}
	}
	return false
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}
