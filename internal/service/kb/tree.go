package kb

import (
	"sort"
	"strings"

	models "portal/internal/domain/models/kb"
)

// UncategorizedLabel is shown for documents that belong to no known category.
const UncategorizedLabel = "Uncategorized"

// SortCategories returns a copy of cats ordered by Order ascending.
// Categories with equal Order keep their original relative order.
func SortCategories(cats []models.Category) []models.Category {
	sorted := make([]models.Category, len(cats))
	copy(sorted, cats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// GroupByCategory maps each category ID to its documents in insertion order.
// Every category gets an entry, possibly empty. Documents without categories
// appear in no group.
func GroupByCategory(cats []models.Category, docs []models.Document) map[int64][]models.Document {
	groups := make(map[int64][]models.Document, len(cats))
	for _, cat := range cats {
		groups[cat.ID] = []models.Document{}
	}
	for _, doc := range docs {
		for _, id := range uniqueIDs(doc.CategoryIDs) {
			if _, known := groups[id]; known {
				groups[id] = append(groups[id], doc)
			}
		}
	}
	return groups
}

// NewCatalog builds the sorted, indexed and grouped view of one load.
// Indexing happens here, before any display rewrite of the bodies.
func NewCatalog(cats []models.Category, docs []models.Document) *models.Catalog {
	sorted := SortCategories(cats)
	indexed := BuildIndex(docs)
	return &models.Catalog{
		Categories: sorted,
		Documents:  indexed,
		Groups:     GroupByCategory(sorted, indexed),
	}
}

// CategoryName returns the display name of a category, or UncategorizedLabel.
func CategoryName(cats []models.Category, id int64) string {
	for _, cat := range cats {
		if cat.ID == id {
			return cat.Name
		}
	}
	return UncategorizedLabel
}

// FilterCategories builds the category grid for a query. A category is shown
// when its name contains the query or when it holds at least one matching
// document. An empty query shows every category with all of its documents.
func FilterCategories(catalog *models.Catalog, query string) []models.CategoryCard {
	cards := make([]models.CategoryCard, 0, len(catalog.Categories))
	needle := strings.ToLower(query)

	for _, cat := range catalog.Categories {
		all := catalog.Groups[cat.ID]
		relevant := make([]models.Document, 0, len(all))
		for _, doc := range all {
			if matchesQuery(doc, needle) {
				relevant = append(relevant, doc)
			}
		}

		nameMatch := strings.Contains(strings.ToLower(cat.Name), needle)
		if !nameMatch && len(relevant) == 0 {
			continue
		}

		state := models.RenderPopulated
		switch {
		case len(all) == 0:
			state = models.RenderEmpty
		case len(relevant) == 0:
			state = models.RenderNoMatches
		}

		cards = append(cards, models.CategoryCard{
			Category:  cat,
			Documents: relevant,
			State:     state,
		})
	}
	return cards
}

// uniqueIDs drops repeated IDs so a document is listed once per category.
func uniqueIDs(ids []int64) []int64 {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
