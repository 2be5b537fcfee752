package scraper

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/gutenworks/gutencrawl/models"
	"github.com/gutenworks/gutencrawl/parser"
)

// cursor points at the deepest open node of each level of the tree under
// construction. Continuation content always lands on the deepest one.
// Exactly one node per level is open at any time; re-deriving this from
// the tree would be ambiguous, so the crawler carries it explicitly.
type cursor struct {
	chapter       *models.Chapter
	subchapter    *models.Chapter
	subsubchapter *models.Chapter
}

// deepest returns the node continuation content attaches to.
func (cu cursor) deepest() *models.Chapter {
	switch {
	case cu.subsubchapter != nil:
		return cu.subsubchapter
	case cu.subchapter != nil:
		return cu.subchapter
	default:
		return cu.chapter
	}
}

// classify decides which node of the tree a fetched page belongs to,
// opening a new chapter at the heading's level when the page starts one.
// It returns the updated cursor, the node the page's paragraph attaches
// to, and the level of the opened node (0 when the page continues an
// existing one).
func classify(book *models.Book, cu cursor, content *goquery.Selection, pageURL string) (cursor, *models.Chapter, int) {
	head, ok := parser.FindHeading(content)
	if !ok {
		return cu, cu.deepest(), 0
	}

	switch head.Level {
	case 1:
		ch := openChapter(head, pageURL)
		book.AppendChapter(ch)
		return cursor{chapter: ch}, ch, 1
	case 2:
		ch := openChapter(head, pageURL)
		if cu.chapter == nil {
			// A subchapter heading before any chapter has nothing to
			// nest under; it becomes a top-level chapter.
			book.AppendChapter(ch)
			return cursor{chapter: ch}, ch, 1
		}
		cu.chapter.AppendSubchapter(ch)
		return cursor{chapter: cu.chapter, subchapter: ch}, ch, 2
	default:
		if cu.subchapter == nil {
			// A third-level heading with no open subchapter continues
			// the open chapter instead of opening a stray node.
			return cu, cu.deepest(), 0
		}
		ch := openChapter(head, pageURL)
		cu.subchapter.AppendSubchapter(ch)
		cu.subsubchapter = ch
		return cu, ch, 3
	}
}

func openChapter(head parser.Heading, pageURL string) *models.Chapter {
	ch := models.NewChapter(head.Text, pageURL)
	ch.Subtitle = head.Subtitle
	return ch
}
