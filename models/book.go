// Package models defines the document tree built by the crawler.
package models

// BacktextName is the name of the synthetic chapter that receives the
// front page's own text.
const BacktextName = "Backtext"

// Book is the root of a reconstructed document.
type Book struct {
	URL      string     `json:"url"`
	Author   string     `json:"author"`
	Title    string     `json:"title"`
	Year     string     `json:"year"`
	Chapters []*Chapter `json:"chapters"`
}

// NewBook returns an empty book rooted at the given start URL.
func NewBook(url string) *Book {
	return &Book{URL: url, Chapters: []*Chapter{}}
}

// AppendChapter adds a top-level chapter and links it to its previous
// sibling.
func (b *Book) AppendChapter(ch *Chapter) {
	if n := len(b.Chapters); n > 0 {
		prev := b.Chapters[n-1]
		prev.Next = ch
		ch.Prev = prev
	}
	b.Chapters = append(b.Chapters, ch)
}

// LastChapter returns the most recently appended top-level chapter, or nil.
func (b *Book) LastChapter() *Chapter {
	if len(b.Chapters) == 0 {
		return nil
	}
	return b.Chapters[len(b.Chapters)-1]
}

// Chapter is one node of the document tree. The same type serves every
// depth; nesting lives in Subchapters. Prev/Next link same-level siblings
// and Parent points back up; none of the three are owning edges, so they
// stay out of the JSON form.
type Chapter struct {
	Name        string       `json:"name"`
	Subtitle    string       `json:"subtitle,omitempty"`
	URL         string       `json:"url"`
	Subchapters []*Chapter   `json:"subchapters"`
	Paragraphs  []*Paragraph `json:"paragraphs"`

	Prev   *Chapter `json:"-"`
	Next   *Chapter `json:"-"`
	Parent *Chapter `json:"-"`
}

// NewChapter returns a chapter with independently allocated child slices.
func NewChapter(name, url string) *Chapter {
	return &Chapter{
		Name:        name,
		URL:         url,
		Subchapters: []*Chapter{},
		Paragraphs:  []*Paragraph{},
	}
}

// AppendSubchapter adds a child chapter, linking it to its previous
// sibling and to its parent.
func (c *Chapter) AppendSubchapter(sub *Chapter) {
	sub.Parent = c
	if n := len(c.Subchapters); n > 0 {
		prev := c.Subchapters[n-1]
		prev.Next = sub
		sub.Prev = prev
	}
	c.Subchapters = append(c.Subchapters, sub)
}

// AppendParagraph adds a paragraph to this chapter's own text.
func (c *Chapter) AppendParagraph(p *Paragraph) {
	c.Paragraphs = append(c.Paragraphs, p)
}

// LastSubchapter returns the most recently appended child chapter, or nil.
func (c *Chapter) LastSubchapter() *Chapter {
	if len(c.Subchapters) == 0 {
		return nil
	}
	return c.Subchapters[len(c.Subchapters)-1]
}

// Paragraph is the text contribution of a single fetched page. Blocks is
// copied on construction and never mutated afterwards.
type Paragraph struct {
	URL    string   `json:"url"`
	Blocks []string `json:"blocks"`
}

// NewParagraph copies blocks so later changes to the argument cannot leak
// into the tree.
func NewParagraph(url string, blocks []string) *Paragraph {
	copied := make([]string, len(blocks))
	copy(copied, blocks)
	return &Paragraph{URL: url, Blocks: copied}
}
