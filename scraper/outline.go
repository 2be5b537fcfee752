package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/gocolly/colly/v2"

	"github.com/gutenworks/gutencrawl/config"
	"github.com/gutenworks/gutencrawl/models"
	"github.com/gutenworks/gutencrawl/parser"
)

// Outliner is the listing-only variant of the crawler: it fetches a
// book's front page once and extracts the chapter listing plus author,
// without following any pagination.
type Outliner struct {
	cfg       *config.Config
	collector *colly.Collector
	Metrics   *Metrics

	outline *models.Outline
	handled bool
	err     error

	handlersOnce sync.Once
}

// NewOutliner builds an outliner configured from cfg.
func NewOutliner(cfg *config.Config) (*Outliner, error) {
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

	return &Outliner{
		cfg:       cfg,
		collector: collector,
		Metrics:   NewMetrics(),
	}, nil
}

// Extract fetches pageURL once and returns its chapter listing.
func (o *Outliner) Extract(ctx context.Context, pageURL string) (*models.Outline, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.configureHandlers()
	o.outline, o.handled, o.err = nil, false, nil

	visitErr := o.collector.Visit(pageURL)
	if o.err != nil {
		return nil, o.err
	}
	if visitErr != nil {
		return nil, &FetchError{URL: pageURL, Err: visitErr}
	}
	if !o.handled {
		return nil, &parser.StructuralError{Marker: "content region", URL: pageURL}
	}
	return o.outline, nil
}

func (o *Outliner) configureHandlers() {
	o.handlersOnce.Do(func() {
		o.collector.OnRequest(func(r *colly.Request) {
			o.Metrics.IncRequest("outline")
			slog.Info("fetching listing page", slog.String("url", r.URL.String()))
		})

		o.collector.OnError(func(r *colly.Response, err error) {
			fetchErr := fetchErrorFor(r, err)
			o.Metrics.IncError(errorTypeLabel(fetchErr))
			slog.Error("request error",
				slog.String("url", fetchErr.URL),
				slog.Any("error", err),
			)
			if o.err == nil {
				o.err = fetchErr
			}
		})

		o.collector.OnHTML(parser.ContentSelector, func(e *colly.HTMLElement) {
			if o.err != nil || o.handled {
				return
			}
			o.handled = true
			pageURL := e.Request.URL.String()

			fm, err := parser.ExtractFrontMatter(e.DOM, pageURL)
			if err != nil {
				o.fail(err)
				return
			}
			entries, err := parser.LocateOutline(e.DOM, pageURL)
			if err != nil {
				o.fail(err)
				return
			}
			o.outline = &models.Outline{Author: fm.Author, Entries: entries}
			slog.Debug("outline extracted",
				slog.String("author", fm.Author),
				slog.Int("entries", len(entries)),
			)
		})
	})
}

func (o *Outliner) fail(err error) {
	if o.err == nil {
		o.err = err
	}
	o.Metrics.IncError(errorTypeLabel(err))
}
