package kb

import (
	"strings"

	models "portal/internal/domain/models/kb"
)

// PreviewLimit is the number of matches shown in the live search dropdown.
const PreviewLimit = 5

// BuildIndex returns copies of docs with SearchableText computed from the raw
// title and body. The input slice is not modified. Calling it again on the same
// raw documents yields the same result.
func BuildIndex(docs []models.Document) []models.Document {
	indexed := make([]models.Document, len(docs))
	for i, doc := range docs {
		doc.CategoryIDs = append([]int64(nil), doc.CategoryIDs...)
		doc.SearchableText = strings.ToLower(doc.Title + " " + doc.Body)
		indexed[i] = doc
	}
	return indexed
}

// Search returns the documents whose SearchableText contains query, ignoring
// case, in their original order. A limit <= 0 returns every match.
// An empty query matches nothing.
func Search(docs []models.Document, query string, limit int) []models.Document {
	matches := make([]models.Document, 0)
	if query == "" {
		return matches
	}

	needle := strings.ToLower(query)
	for _, doc := range docs {
		if !strings.Contains(doc.SearchableText, needle) {
			continue
		}
		matches = append(matches, doc)
		if limit > 0 && len(matches) == limit {
			break
		}
	}
	return matches
}

// Preview returns at most PreviewLimit matches for the live dropdown.
func Preview(docs []models.Document, query string) []models.Document {
	return Search(docs, query, PreviewLimit)
}

// SearchAll returns every match, used when filtering the category grid.
func SearchAll(docs []models.Document, query string) []models.Document {
	return Search(docs, query, 0)
}

// matchesQuery applies the search rule to a single document.
// An empty query matches everything here; callers decide what empty means.
func matchesQuery(doc models.Document, needle string) bool {
	return needle == "" || strings.Contains(doc.SearchableText, needle)
}
