package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gutenworks/gutencrawl/models"
)

// LocateOutline finds the chapter listing on a page and turns it into a
// tree of entries. Paragraph elements before the first ordered list become
// flat entries; the first ordered list is extracted recursively. A listing
// container without any ordered list yields just the flat entries. Absence
// of the container itself is a StructuralError.
func LocateOutline(page *goquery.Selection, pageURL string) ([]*models.TOCEntry, error) {
	listing := page.Find(listingSelector).First()
	if listing.Length() == 0 {
		return nil, &StructuralError{Marker: "chapter listing", URL: pageURL}
	}

	entries := []*models.TOCEntry{}
	var list *goquery.Selection
	listing.Children().EachWithBreak(func(_ int, child *goquery.Selection) bool {
		switch goquery.NodeName(child) {
		case "p":
			if name := normalizeSpace(child.Text()); name != "" {
				entries = append(entries, &models.TOCEntry{Name: name})
			}
			return true
		case "ol":
			list = child
			return false
		default:
			return true
		}
	})
	if list != nil {
		entries = append(entries, ExtractOutline(list)...)
	}
	return entries, nil
}

// ExtractOutline converts an ordered list into outline entries, one per
// list item in document order. An item containing a nested ordered list
// becomes a named entry whose children come from recursing into that list;
// a plain item becomes a leaf named by its full text.
func ExtractOutline(list *goquery.Selection) []*models.TOCEntry {
	entries := []*models.TOCEntry{}
	list.Children().Each(func(_ int, item *goquery.Selection) {
		if !item.Is("li") {
			return
		}
		nested := item.Find("ol").First()
		if nested.Length() > 0 {
			entries = append(entries, &models.TOCEntry{
				Name:     leadingText(item),
				Children: ExtractOutline(nested),
			})
			return
		}
		entries = append(entries, &models.TOCEntry{Name: normalizeSpace(item.Text())})
	})
	return entries
}

// leadingText is the item's own text before its nested list starts.
func leadingText(item *goquery.Selection) string {
	var b strings.Builder
	item.Contents().EachWithBreak(func(_ int, node *goquery.Selection) bool {
		if goquery.NodeName(node) == "ol" {
			return false
		}
		b.WriteString(node.Text())
		return true
	})
	return normalizeSpace(b.String())
}
