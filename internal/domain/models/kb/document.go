package kb

import "time"

// Document is a titled content record belonging to zero or more categories.
type Document struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"` // may contain inline markup
	Body         string    `json:"body"`  // raw markup as delivered by the content source
	CategoryIDs  []int64   `json:"category_ids"`
	LastModified time.Time `json:"last_modified"`
	Link         string    `json:"link,omitempty"`
	Slug         string    `json:"slug,omitempty"`

	// SearchableText is the lowercased title and body, computed once by BuildIndex.
	SearchableText string `json:"-"`
}

// InCategory reports whether the document belongs to the given category.
func (d *Document) InCategory(categoryID int64) bool {
	for _, id := range d.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

// PrimaryCategoryID returns the first category the document belongs to.
// Orphans return false.
func (d *Document) PrimaryCategoryID() (int64, bool) {
	if len(d.CategoryIDs) == 0 {
		return 0, false
	}
	return d.CategoryIDs[0], true
}

// Section is an addressable second-level heading inside a document body.
type Section struct {
	AnchorID  string `json:"anchor_id"` // section-<documentID>-<ordinal>
	Ordinal   int    `json:"ordinal"`
	Title     string `json:"title"`
	InnerHTML string `json:"inner_html"`
}
