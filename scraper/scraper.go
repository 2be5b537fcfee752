// Package scraper crawls a paginated Projekt Gutenberg-DE book and
// rebuilds it as a single document tree.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gutenworks/gutencrawl/config"
	"github.com/gutenworks/gutencrawl/models"
	"github.com/gutenworks/gutencrawl/parser"
)

// Crawler walks a book's pages in strict link order and builds the
// document tree. Each fetch depends on tree state from all prior fetches,
// so the collector runs synchronously and the Crawler owns the book
// exclusively.
type Crawler struct {
	cfg       *config.Config
	collector *colly.Collector
	base      *url.URL
	visited   *lru.Cache[string, struct{}]
	Metrics   *Metrics

	book      *models.Book
	cur       cursor
	firstPage bool
	next      string
	handled   bool
	err       error
	report    *models.CrawlReport

	handlersOnce sync.Once
}

// NewCrawler builds a crawler configured from cfg.
func NewCrawler(cfg *config.Config) (*Crawler, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector, err := newCollector(cfg, base.Host)
	if err != nil {
		return nil, err
	}

	visited, err := lru.New[string, struct{}](cfg.VisitedCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create visited cache: %w", err)
	}

	return &Crawler{
		cfg:       cfg,
		collector: collector,
		base:      base,
		visited:   visited,
		Metrics:   NewMetrics(),
	}, nil
}

// newCollector is shared with the outline variant: same domain bounds,
// timeouts and politeness either way.
func newCollector(cfg *config.Config, host string) (*colly.Collector, error) {
	collector := colly.NewCollector(
		colly.AllowedDomains(host),
		colly.UserAgent(cfg.UserAgent),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	// The crawler's own visited cache decides revisits, not colly's set.
	collector.AllowURLRevisit = true
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        8,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	if cfg.Delay > 0 || cfg.RandomDelay > 0 {
		if err := collector.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Parallelism: 1,
			Delay:       cfg.Delay,
			RandomDelay: cfg.RandomDelay,
		}); err != nil {
			return nil, fmt.Errorf("configure rate limits: %w", err)
		}
	}

	return collector, nil
}

// Run crawls the book starting at startURL until a terminal page, a
// bound, or a fatal error. The partially built book is returned alongside
// any error so callers can report what was accumulated.
func (c *Crawler) Run(ctx context.Context, startURL string) (*models.Book, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.configureHandlers()

	c.book = models.NewBook(startURL)
	c.cur = cursor{}
	c.firstPage = true
	c.next = ""
	c.err = nil
	c.report = models.NewCrawlReport()
	defer func() { c.report.EndTime = time.Now() }()

	current := startURL
	for current != "" {
		if err := ctx.Err(); err != nil {
			return c.book, err
		}
		if c.report.PageCount >= c.cfg.MaxPages {
			slog.Warn("page budget reached, stopping",
				slog.Int("pages", c.report.PageCount),
				slog.String("url", current),
			)
			c.report.Truncated = true
			break
		}
		if found, _ := c.visited.ContainsOrAdd(current, struct{}{}); found {
			slog.Warn("pagination loops back, stopping",
				slog.String("url", current),
			)
			c.report.Truncated = true
			break
		}

		c.next, c.handled = "", false
		visitErr := c.collector.Visit(current)
		if c.err != nil {
			return c.book, c.err
		}
		if visitErr != nil {
			// The handlers never saw this URL, so record it here.
			err := &FetchError{URL: current, Err: visitErr}
			c.recordError(errorTypeLabel(err))
			return c.book, err
		}
		if !c.handled {
			err := &parser.StructuralError{Marker: "content region", URL: current}
			c.recordError(errorTypeLabel(err))
			return c.book, err
		}

		c.report.PageCount++
		c.Metrics.IncPage()
		current = c.next
	}

	return c.book, nil
}

// Report returns the summary of the most recent Run.
func (c *Crawler) Report() *models.CrawlReport {
	return c.report
}

func (c *Crawler) configureHandlers() {
	c.handlersOnce.Do(func() {
		c.collector.OnRequest(func(r *colly.Request) {
			r.Ctx.Put("start", time.Now())
			c.report.RequestCount++
			c.Metrics.IncRequest("crawl")
			slog.Info("fetching page",
				slog.Int("page", c.report.PageCount+1),
				slog.String("url", r.URL.String()),
			)
		})

		c.collector.OnResponse(func(r *colly.Response) {
			if r.StatusCode >= http.StatusBadRequest {
				slog.Error("non-200 response",
					slog.Int("status", r.StatusCode),
					slog.String("url", r.Request.URL.String()),
				)
			}
			if start, ok := r.Request.Ctx.GetAny("start").(time.Time); ok {
				c.Metrics.ObserveDuration(time.Since(start))
			}
		})

		c.collector.OnError(func(r *colly.Response, err error) {
			fetchErr := fetchErrorFor(r, err)
			category := errorTypeLabel(fetchErr)
			c.recordError(category)
			slog.Error("request error",
				slog.String("url", fetchErr.URL),
				slog.String("category", category),
				slog.Any("error", err),
			)
			if c.err == nil {
				c.err = fetchErr
			}
		})

		c.collector.OnHTML(parser.ContentSelector, c.handlePage)
	})
}

// handlePage interprets one fetched page: front matter on the first page,
// classification on every later one, then the navigation links.
func (c *Crawler) handlePage(e *colly.HTMLElement) {
	if c.err != nil || c.handled {
		return
	}
	c.handled = true

	pageURL := e.Request.URL.String()
	content := e.DOM

	if c.firstPage {
		c.firstPage = false
		fm, err := parser.ExtractFrontMatter(content, pageURL)
		if err != nil {
			c.fail(err)
			return
		}
		c.book.Author = fm.Author
		c.book.Title = fm.Title
		c.book.Year = fm.Year
		slog.Debug("front matter extracted",
			slog.String("author", fm.Author),
			slog.String("title", fm.Title),
			slog.String("year", fm.Year),
		)

		backtext := models.NewChapter(models.BacktextName, pageURL)
		c.book.AppendChapter(backtext)
		c.cur = cursor{chapter: backtext}
		c.countChapter(1)
		c.attach(backtext, content, pageURL)
	} else {
		cu, target, opened := classify(c.book, c.cur, content, pageURL)
		c.cur = cu
		if target == nil {
			c.fail(&parser.StructuralError{Marker: "open chapter", URL: pageURL})
			return
		}
		if opened > 0 {
			c.countChapter(opened)
			slog.Debug("section opened",
				slog.Int("level", opened),
				slog.String("name", target.Name),
			)
		}
		c.attach(target, content, pageURL)
	}

	if href, ok := parser.NextPageLink(content); ok {
		c.next = c.resolve(href)
	}
}

func (c *Crawler) attach(target *models.Chapter, content *goquery.Selection, pageURL string) {
	target.AppendParagraph(parser.ExtractParagraph(content, pageURL))
	c.report.ParagraphCount++
	c.Metrics.IncParagraph()
}

func (c *Crawler) countChapter(level int) {
	switch level {
	case 1:
		c.report.ChapterCount++
		c.Metrics.IncChapter("chapter")
	case 2:
		c.report.SubchapterCount++
		c.Metrics.IncChapter("subchapter")
	default:
		c.report.SubchapterCount++
		c.Metrics.IncChapter("subsubchapter")
	}
}

func (c *Crawler) fail(err error) {
	if c.err == nil {
		c.err = err
	}
	c.recordError(errorTypeLabel(err))
}

func (c *Crawler) recordError(category string) {
	c.report.ErrorCount++
	c.report.ErrorsByType[category]++
	c.Metrics.IncError(category)
}

// resolve turns a next-page href into an absolute URL on the configured
// site. An unparseable href ends the crawl like a terminal page.
func (c *Crawler) resolve(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		slog.Warn("unparseable next link, treating page as last",
			slog.String("href", href),
		)
		return ""
	}
	return c.base.ResolveReference(ref).String()
}
