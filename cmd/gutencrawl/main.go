package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gutenworks/gutencrawl/config"
	"github.com/gutenworks/gutencrawl/models"
	"github.com/gutenworks/gutencrawl/pipeline"
	"github.com/gutenworks/gutencrawl/scraper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	envPages, havePagesEnv, err := config.EnvInt("GUTEN_PAGES")
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid GUTEN_PAGES: %v\n", err)
		os.Exit(1)
	}
	envOutput, haveOutputEnv := config.EnvString("GUTEN_OUTPUT")
	envMetrics, haveMetricsEnv := config.EnvString("GUTEN_METRICS_ADDR")

	defaults := config.DefaultConfig()
	configPath := flag.String("config", "", "Optional YAML config file")
	baseURL := flag.String("base-url", defaults.BaseURL, "Site base URL used to resolve page links")
	maxPages := flag.Int("pages", defaults.MaxPages, "Maximum pages to fetch before stopping")
	delayMs := flag.Int("delay", int(defaults.Delay/time.Millisecond), "Delay between requests (milliseconds)")
	randomDelayMs := flag.Int("random-delay", int(defaults.RandomDelay/time.Millisecond), "Random jitter added to delay (milliseconds)")
	respectRobots := flag.Bool("respect-robots", defaults.RespectRobotsTxt, "Respect robots.txt directives")
	outputFile := flag.String("output", defaults.OutputFile, "Output file path")
	outputFormat := flag.String("format", defaults.OutputFormat, "Output format: json, text, or dual")
	metricsAddr := flag.String("metrics-addr", defaults.MetricsAddr, "Prometheus metrics listen address (e.g. :9090)")
	tocOnly := flag.Bool("toc", false, "Print the table of contents instead of crawling the full text")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <first-page-url>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	startURL := flag.Arg(0)

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	// Precedence: defaults, then config file, then environment, then
	// explicitly set flags.
	cfg := config.DefaultConfig()
	if *configPath != "" {
		fc, err := config.LoadFile(*configPath)
		if err != nil {
			slog.Error("loading config file", slog.Any("error", err))
			os.Exit(1)
		}
		if err := fc.Apply(cfg); err != nil {
			slog.Error("applying config file", slog.Any("error", err))
			os.Exit(1)
		}
	}
	if havePagesEnv {
		cfg.MaxPages = envPages
	}
	if haveOutputEnv {
		cfg.OutputFile = envOutput
	}
	if haveMetricsEnv {
		cfg.MetricsAddr = envMetrics
	}
	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	if setFlags["base-url"] {
		cfg.BaseURL = *baseURL
	}
	if setFlags["pages"] {
		cfg.MaxPages = *maxPages
	}
	if setFlags["delay"] {
		cfg.Delay = time.Duration(*delayMs) * time.Millisecond
	}
	if setFlags["random-delay"] {
		cfg.RandomDelay = time.Duration(*randomDelayMs) * time.Millisecond
	}
	if setFlags["respect-robots"] {
		cfg.RespectRobotsTxt = *respectRobots
	}
	if setFlags["output"] {
		cfg.OutputFile = *outputFile
	}
	if setFlags["format"] {
		cfg.OutputFormat = strings.ToLower(*outputFormat)
	}
	if setFlags["metrics-addr"] {
		cfg.MetricsAddr = *metricsAddr
	}
	cfg.Verbose = *verbose

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, stopping after the current page")
	}()

	if *tocOnly {
		runOutline(ctx, cfg, startURL)
		return
	}

	slog.Info("starting crawl",
		slog.String("start_url", startURL),
		slog.Int("max_pages", cfg.MaxPages),
		slog.String("format", cfg.OutputFormat),
	)

	c, err := scraper.NewCrawler(cfg)
	if err != nil {
		slog.Error("initialising crawler", slog.Any("error", err))
		os.Exit(1)
	}

	writer, err := createWriter(cfg.OutputFormat, cfg.OutputFile)
	if err != nil {
		slog.Error("creating writer", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			slog.Error("close writer", slog.Any("error", err))
		}
	}()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" && c.Metrics != nil {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(c.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	book, err := c.Run(ctx, startURL)
	report := c.Report()
	if err != nil {
		slog.Error("crawl failed",
			slog.Any("error", err),
			slog.Int("pages_fetched", report.PageCount),
			slog.Int("paragraphs_kept", report.ParagraphCount),
		)
		os.Exit(1)
	}

	if err := pipeline.Deliver(book, writer); err != nil {
		slog.Error("delivering book", slog.Any("error", err))
		os.Exit(1)
	}
	if err := writer.Validate(); err != nil {
		slog.Error("output validation failed", slog.Any("error", err))
		os.Exit(1)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(report, cfg.OutputFile)
}

func runOutline(ctx context.Context, cfg *config.Config, startURL string) {
	slog.Info("extracting table of contents", slog.String("url", startURL))

	o, err := scraper.NewOutliner(cfg)
	if err != nil {
		slog.Error("initialising outliner", slog.Any("error", err))
		os.Exit(1)
	}

	outline, err := o.Extract(ctx, startURL)
	if err != nil {
		slog.Error("outline extraction failed", slog.Any("error", err))
		os.Exit(1)
	}

	printOutline(outline)
}

func createWriter(format, filename string) (pipeline.OutputWriter, error) {
	switch format {
	case "json":
		return pipeline.NewJSONWriter(filename)
	case "text":
		return pipeline.NewTextWriter(filename)
	case "dual":
		textFilename := strings.TrimSuffix(filename, ".json") + ".txt"
		return pipeline.NewDualWriter(filename, textFilename)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func printOutline(outline *models.Outline) {
	fmt.Printf("%s\n\n", outline.Author)
	printEntries(outline.Entries, 0)
}

func printEntries(entries []*models.TOCEntry, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, entry := range entries {
		fmt.Printf("%s%s\n", indent, entry.Name)
		printEntries(entry.Children, depth+1)
	}
}

func printSummary(report *models.CrawlReport, outputFile string) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Crawl complete")

	duration := report.Duration()
	pagesPerSec := 0.0
	if duration.Seconds() > 0 {
		pagesPerSec = float64(report.PageCount) / duration.Seconds()
	}

	fmt.Printf("  Pages:         %d\n", report.PageCount)
	fmt.Printf("  Chapters:      %d\n", report.ChapterCount)
	fmt.Printf("  Subchapters:   %d\n", report.SubchapterCount)
	fmt.Printf("  Paragraphs:    %d\n", report.ParagraphCount)
	fmt.Printf("  Errors:        %d\n", report.ErrorCount)
	if len(report.ErrorsByType) > 0 {
		fmt.Printf("  Error types:   %v\n", report.ErrorsByType)
	}
	if report.Truncated {
		fmt.Printf("  Truncated:     yes\n")
	}
	fmt.Printf("  Duration:      %v\n", duration)
	fmt.Printf("  Pages/sec:     %.2f\n", pagesPerSec)
	fmt.Printf("  Output file:   %s\n", outputFile)
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
