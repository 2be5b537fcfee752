package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NextPageLink inspects the sibling elements following the content region
// and reports whether another page follows. The first sibling must be a
// link; when its text carries the previous-page marker, the element after
// it must be a link carrying the next-page marker, otherwise the page is
// the last one. Any shape this does not recognize ends the book, never
// with an error.
func NextPageLink(content *goquery.Selection) (string, bool) {
	first := content.Next()
	if !isAnchor(first) {
		return "", false
	}
	if strings.Contains(first.Text(), PrevPageMarker) {
		second := first.Next()
		if !isAnchor(second) || !strings.Contains(second.Text(), NextPageMarker) {
			return "", false
		}
		return hrefOf(second)
	}
	return hrefOf(first)
}

func isAnchor(s *goquery.Selection) bool {
	return s.Length() > 0 && goquery.NodeName(s) == "a"
}

// hrefOf treats a missing or empty href as the end of the book: an anchor
// without a destination is not a followable link.
func hrefOf(s *goquery.Selection) (string, bool) {
	href, ok := s.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return "", false
	}
	return href, true
}
