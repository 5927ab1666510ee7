package kb

import (
	models "portal/internal/domain/models/kb"
)

// Reduce returns the state that follows s after action. s is not modified.
// Scroll effects only survive for the transition that produced them.
//
// Fetch completion (Loaded / LoadFailed) and intent application (Arrived) are
// separate actions and must be applied in that order.
func Reduce(s models.NavState, action models.Action) models.NavState {
	next := s.Clone()
	next.Scroll = models.ScrollTarget{}

	switch a := action.(type) {
	case models.Loaded:
		next.Phase = models.PhaseReady
		next.Catalog = a.Catalog
		next.Err = nil

	case models.LoadFailed:
		next.Phase = models.PhaseReady
		next.Catalog = nil
		next.Err = a.Err

	case models.Arrived:
		if next.Phase != models.PhaseReady || next.Catalog == nil {
			return next
		}
		if a.Intent != nil {
			applyIntent(&next, *a.Intent)
		} else if next.ActiveDocumentID == nil {
			selectDefault(&next)
		}

	case models.CategoryClicked:
		next.ActiveCategoryID = ptr(a.ID)
		if next.Expanded[a.ID] {
			// Collapsing never changes the active document
			next.Expanded[a.ID] = false
			return next
		}
		next.Expanded[a.ID] = true
		firstTime := !next.Seen[a.ID]
		next.Seen[a.ID] = true
		if firstTime && !hasActiveDocumentIn(next, a.ID) {
			if doc, ok := next.Catalog.FirstDocument(a.ID); ok {
				next.ActiveDocumentID = ptr(doc.ID)
			}
		}

	case models.DocumentClicked:
		next.ActiveDocumentID = ptr(a.ID)
		next.Scroll = models.ScrollTarget{Kind: models.ScrollTop}

	case models.SearchChanged:
		next.Query = a.Query
	}

	return next
}

// ReduceAll folds actions over s in order.
func ReduceAll(s models.NavState, actions ...models.Action) models.NavState {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func applyIntent(s *models.NavState, intent models.NavigationIntent) {
	s.ActiveCategoryID = ptr(intent.CategoryID)
	s.ActiveDocumentID = ptr(intent.DocumentID)
	s.Expanded = map[int64]bool{intent.CategoryID: true}
	s.Seen[intent.CategoryID] = true

	if intent.Anchor != "" {
		s.Scroll = models.ScrollTarget{Kind: models.ScrollSection, Anchor: intent.Anchor}
	} else {
		s.Scroll = models.ScrollTarget{Kind: models.ScrollTop}
	}
}

func selectDefault(s *models.NavState) {
	if len(s.Catalog.Categories) == 0 {
		return
	}
	first := s.Catalog.Categories[0]
	s.ActiveCategoryID = ptr(first.ID)
	s.Expanded = map[int64]bool{first.ID: true}
	s.Seen[first.ID] = true
	if doc, ok := s.Catalog.FirstDocument(first.ID); ok {
		s.ActiveDocumentID = ptr(doc.ID)
	}
}

func hasActiveDocumentIn(s models.NavState, categoryID int64) bool {
	if s.ActiveDocumentID == nil {
		return false
	}
	doc, ok := s.Catalog.Document(*s.ActiveDocumentID)
	return ok && doc.InCategory(categoryID)
}

func ptr[T any](v T) *T { return &v }
