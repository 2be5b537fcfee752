// Package parser extracts document structure from fetched Projekt
// Gutenberg-DE pages. All lookups run against goquery selections; the
// fetching side hands over the content region and this package never
// touches the network.
package parser

import (
	"fmt"
	"strings"

	"github.com/gutenworks/gutencrawl/models"
)

// ContentSelector matches the region of a page that carries the book text.
// Everything outside it is site chrome.
const ContentSelector = "#gutenb"

const (
	// PrevPageMarker and NextPageMarker are the arrow texts of the
	// pagination links following the content region.
	PrevPageMarker = "<<"
	NextPageMarker = ">>"

	listingSelector = ".toc"
	authorSelector  = ".author"
	titleSelector   = ".title"
	yearSelector    = "h4"
)

// ValidateBook ensures the crawl captured the required fields.
func ValidateBook(b *models.Book) error {
	if b == nil {
		return fmt.Errorf("book is nil")
	}
	if strings.TrimSpace(b.Author) == "" {
		return fmt.Errorf("book missing author")
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("book missing title for %s", b.URL)
	}
	if strings.TrimSpace(b.Year) == "" {
		return fmt.Errorf("book %q missing year", b.Title)
	}
	if len(b.Chapters) == 0 {
		return fmt.Errorf("book %q has no chapters", b.Title)
	}
	return nil
}

// normalizeSpace collapses all runs of whitespace to single spaces and
// trims the ends, so text split across source lines compares stable.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// trimYear strips the parentheses around the year marker. Only the outer
// characters go; a bare year passes through unchanged.
func trimYear(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "(")
	return strings.TrimRight(s, ")")
}
