package kb

// Category is a named grouping of documents, ordered by an explicit numeric field.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"` // may contain inline markup
	Slug  string `json:"slug,omitempty"`
	Order int    `json:"order"`
	Count int    `json:"count"`
}

// CategoryCard is one entry of the filtered category grid on the landing screen.
type CategoryCard struct {
	Category  Category    `json:"category"`
	Documents []Document  `json:"documents"`
	State     RenderState `json:"state"`
}
