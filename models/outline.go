package models

// TOCEntry is one node of a book's chapter listing. It mirrors the nesting
// of the listing structure and carries no page content.
type TOCEntry struct {
	Name     string      `json:"name"`
	Children []*TOCEntry `json:"children,omitempty"`
}

// Outline is the result of the listing-only extraction mode.
type Outline struct {
	Author  string      `json:"author"`
	Entries []*TOCEntry `json:"entries"`
}
