package parser

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/gutenworks/gutencrawl/models"
)

// FrontMatter holds the metadata carried by a book's first page.
type FrontMatter struct {
	Author string
	Title  string
	Year   string
}

// ExtractFrontMatter reads author, title and year from the content region
// of the first page. Each marker is required; the first one missing is
// reported as a StructuralError.
func ExtractFrontMatter(content *goquery.Selection, pageURL string) (FrontMatter, error) {
	author := content.Find(authorSelector).First()
	if author.Length() == 0 {
		return FrontMatter{}, &StructuralError{Marker: "author", URL: pageURL}
	}
	title := content.Find(titleSelector).First()
	if title.Length() == 0 {
		return FrontMatter{}, &StructuralError{Marker: "title", URL: pageURL}
	}
	year := content.Find(yearSelector).First()
	if year.Length() == 0 {
		return FrontMatter{}, &StructuralError{Marker: "year", URL: pageURL}
	}
	return FrontMatter{
		Author: normalizeSpace(author.Text()),
		Title:  normalizeSpace(title.Text()),
		Year:   trimYear(year.Text()),
	}, nil
}

// Heading describes the most prominent heading found on a page.
type Heading struct {
	// Level is 1 for a chapter heading, 2 for a subchapter, 3 below that.
	Level    int
	Text     string
	Subtitle string
}

// FindHeading scans the content region for h1 through h3 in that order and
// returns the first level present. The subtitle is the first heading one
// level deeper, when there is one; pages without any heading report false.
func FindHeading(content *goquery.Selection) (Heading, bool) {
	for level := 1; level <= 3; level++ {
		h := content.Find("h" + strconv.Itoa(level)).First()
		if h.Length() == 0 {
			continue
		}
		head := Heading{Level: level, Text: normalizeSpace(h.Text())}
		if sub := content.Find("h" + strconv.Itoa(level+1)).First(); sub.Length() > 0 {
			head.Subtitle = normalizeSpace(sub.Text())
		}
		return head, true
	}
	return Heading{}, false
}

// ExtractParagraph collects the body text of one page: every p element of
// the content region in document order, whitespace-normalized, with empty
// blocks dropped.
func ExtractParagraph(content *goquery.Selection, pageURL string) *models.Paragraph {
	var blocks []string
	content.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := normalizeSpace(p.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	return models.NewParagraph(pageURL, blocks)
}
