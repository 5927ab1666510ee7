package kb

// Catalog is everything one screen load derives from the content source.
// It is rebuilt on every load and never shared between sessions.
type Catalog struct {
	Categories []Category           // sorted by Order, stable
	Documents  []Document           // indexed, in content source order
	Groups     map[int64][]Document // category ID -> documents, insertion order
}

// Document returns the document with the given ID.
func (c *Catalog) Document(id int64) (Document, bool) {
	if c == nil {
		return Document{}, false
	}
	for _, doc := range c.Documents {
		if doc.ID == id {
			return doc, true
		}
	}
	return Document{}, false
}

// FirstDocument returns the first document of a category in stored order.
func (c *Catalog) FirstDocument(categoryID int64) (Document, bool) {
	if c == nil {
		return Document{}, false
	}
	docs := c.Groups[categoryID]
	if len(docs) == 0 {
		return Document{}, false
	}
	return docs[0], true
}
