package models

import "time"

// CrawlReport summarizes one crawl for logging and the end-of-run summary.
type CrawlReport struct {
	StartTime       time.Time
	EndTime         time.Time
	RequestCount    int
	PageCount       int
	ChapterCount    int
	SubchapterCount int
	ParagraphCount  int
	ErrorCount      int
	ErrorsByType    map[string]int
	// Truncated is set when the page budget or the revisit guard stopped
	// the crawl before a terminal page was reached.
	Truncated bool
}

// NewCrawlReport returns a report stamped with the current time.
func NewCrawlReport() *CrawlReport {
	return &CrawlReport{
		StartTime:    time.Now(),
		ErrorsByType: make(map[string]int),
	}
}

// Duration is the wall-clock span of the crawl.
func (r *CrawlReport) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
