package kb

import (
	"fmt"
	"maps"
)

// NavigationIntent asks the documentation screen to pre-select a document on arrival.
// Anchor optionally names a section to scroll to.
type NavigationIntent struct {
	CategoryID int64  `json:"category_id"`
	DocumentID int64  `json:"document_id"`
	Anchor     string `json:"anchor,omitempty"`
}

// RenderState is the tagged state of one screen region.
type RenderState string

const (
	RenderLoading   RenderState = "loading"
	RenderEmpty     RenderState = "empty"
	RenderPopulated RenderState = "populated"
	RenderNoMatches RenderState = "no_matches"
)

// Phase is the lifecycle phase of a mounted screen.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
)

// ScrollKind says where the browser should scroll after a transition.
type ScrollKind string

const (
	ScrollNone    ScrollKind = ""
	ScrollTop     ScrollKind = "top"
	ScrollSection ScrollKind = "section"
)

// ScrollTarget is the scroll effect requested by the last transition.
type ScrollTarget struct {
	Kind   ScrollKind `json:"kind,omitempty"`
	Anchor string     `json:"anchor,omitempty"`
}

// AnchorID builds the anchor identifier of the ordinal-th second-level heading.
func AnchorID(documentID int64, ordinal int) string {
	return fmt.Sprintf("section-%d-%d", documentID, ordinal)
}

// NavState is the selection state of a mounted documentation screen.
// Only the selection fields are persisted between requests; the catalog is
// attached again by a Loaded action on every screen load.
type NavState struct {
	Phase            Phase          `json:"phase"`
	ActiveCategoryID *int64         `json:"active_category_id,omitempty"`
	ActiveDocumentID *int64         `json:"active_document_id,omitempty"`
	Expanded         map[int64]bool `json:"expanded"`
	Seen             map[int64]bool `json:"seen"` // categories expanded at least once this session
	Query            string         `json:"query,omitempty"`
	Scroll           ScrollTarget   `json:"-"`

	Catalog *Catalog `json:"-"`
	Err     error    `json:"-"`
}

// NewNavState returns the state of a freshly mounted screen.
func NewNavState() NavState {
	return NavState{
		Phase:    PhaseLoading,
		Expanded: map[int64]bool{},
		Seen:     map[int64]bool{},
	}
}

// Clone returns a copy of s that shares no mutable state with it.
// The catalog is shared; it is never mutated after construction.
func (s NavState) Clone() NavState {
	next := s
	next.Expanded = maps.Clone(s.Expanded)
	if next.Expanded == nil {
		next.Expanded = map[int64]bool{}
	}
	next.Seen = maps.Clone(s.Seen)
	if next.Seen == nil {
		next.Seen = map[int64]bool{}
	}
	if s.ActiveCategoryID != nil {
		id := *s.ActiveCategoryID
		next.ActiveCategoryID = &id
	}
	if s.ActiveDocumentID != nil {
		id := *s.ActiveDocumentID
		next.ActiveDocumentID = &id
	}
	return next
}

// IsExpanded reports whether a category is expanded in the sidebar.
func (s NavState) IsExpanded(categoryID int64) bool {
	return s.Expanded[categoryID]
}

// IsActiveCategory reports whether id is the active category.
func (s NavState) IsActiveCategory(id int64) bool {
	return s.ActiveCategoryID != nil && *s.ActiveCategoryID == id
}

// IsActiveDocument reports whether id is the active document.
func (s NavState) IsActiveDocument(id int64) bool {
	return s.ActiveDocumentID != nil && *s.ActiveDocumentID == id
}

// ActiveDocument resolves the active document against the loaded catalog.
func (s NavState) ActiveDocument() (Document, bool) {
	if s.ActiveDocumentID == nil {
		return Document{}, false
	}
	return s.Catalog.Document(*s.ActiveDocumentID)
}

// ContentState is the render state of the article region.
func (s NavState) ContentState() RenderState {
	if s.Phase != PhaseReady {
		return RenderLoading
	}
	if _, ok := s.ActiveDocument(); ok {
		return RenderPopulated
	}
	return RenderEmpty
}

// Action is an input to the navigation reducer: a load step, an inbound
// intent, or a user action.
type Action interface {
	navAction()
}

// Loaded reports that both content fetches completed.
type Loaded struct{ Catalog *Catalog }

// LoadFailed reports that the content fetch failed.
type LoadFailed struct{ Err error }

// Arrived applies the inbound navigation intent, or the default selection when Intent is nil.
type Arrived struct{ Intent *NavigationIntent }

// CategoryClicked toggles a category in the sidebar.
type CategoryClicked struct{ ID int64 }

// DocumentClicked opens a document.
type DocumentClicked struct{ ID int64 }

// SearchChanged updates the search input.
type SearchChanged struct{ Query string }

func (Loaded) navAction()          {}
func (LoadFailed) navAction()      {}
func (Arrived) navAction()         {}
func (CategoryClicked) navAction() {}
func (DocumentClicked) navAction() {}
func (SearchChanged) navAction()   {}
