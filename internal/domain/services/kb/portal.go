package kb

import (
	"context"
	"time"

	models "portal/internal/domain/models/kb"
)

// PortalService builds every knowledge-base view from one fresh content load.
type PortalService interface {
	// LoadCatalog fetches categories and documents and builds the catalog.
	LoadCatalog(ctx context.Context) (*models.Catalog, error)

	// Landing builds the category grid and the live search dropdown.
	Landing(ctx context.Context, query string) (*LandingView, error)

	// Search answers a preview (at most 5) or full query.
	Search(ctx context.Context, req *SearchRequest) (*SearchResults, error)

	// Documentation loads the catalog, feeds it and actions through the
	// navigation reducer starting at prev, and renders the result.
	// A load failure is reported in the view, not as an error.
	Documentation(ctx context.Context, prev models.NavState, actions ...models.Action) (*DocumentationView, error)

	// GetDocument returns one document converted to the requested format.
	GetDocument(ctx context.Context, req *GetDocumentRequest) (*DocumentView, error)
}

// ContentAnalyzer derives reading metadata from a document body.
type ContentAnalyzer interface {
	// CountWords counts the words of the visible text of an HTML body.
	CountWords(body string) int

	// PlainText strips all markup from an HTML body.
	PlainText(body string) string
}

// SearchMode selects the bounded or unbounded search variant.
type SearchMode string

const (
	SearchModePreview SearchMode = "preview"
	SearchModeFull    SearchMode = "full"
)

// SearchRequest is a query against the loaded documents.
type SearchRequest struct {
	Query string     `json:"q"`
	Mode  SearchMode `json:"mode"`
	Limit int        `json:"limit"` // full mode only; 0 = no limit
}

// SearchHit is one result with enough context to deep-link into the document.
type SearchHit struct {
	DocumentID    int64                   `json:"document_id"`
	Title         string                  `json:"title"` // inline-sanitized
	CategoryLabel string                  `json:"category"`
	Section       *models.Section         `json:"section,omitempty"`
	Intent        models.NavigationIntent `json:"intent"`
}

// SearchResults is the ordered answer to a SearchRequest.
type SearchResults struct {
	Query string      `json:"query"`
	Mode  SearchMode  `json:"mode"`
	Total int         `json:"total"`
	Hits  []SearchHit `json:"hits"`
}

// LandingView is the terms landing screen for one query.
type LandingView struct {
	Query    string             `json:"query"`
	Cards    []CategoryCardView `json:"cards"`
	Dropdown []SearchHit        `json:"dropdown"`
	State    models.RenderState `json:"state"` // global grid state
}

// CategoryCardView is a grid card with display-ready names.
type CategoryCardView struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"` // inline-sanitized
	Documents []DocumentLink     `json:"documents"`
	State     models.RenderState `json:"state"`
}

// DocumentLink is a document entry in a card or the sidebar.
type DocumentLink struct {
	ID     int64                   `json:"id"`
	Title  string                  `json:"title"` // inline-sanitized
	Active bool                    `json:"active,omitempty"`
	Intent models.NavigationIntent `json:"intent"`
}

// SidebarNode is one category of the documentation tree.
type SidebarNode struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"` // inline-sanitized
	Active    bool               `json:"active"`
	Expanded  bool               `json:"expanded"`
	HasDocs   bool               `json:"has_docs"`
	Documents []DocumentLink     `json:"documents"`
	State     models.RenderState `json:"state"`
}

// ArticleView is the active document prepared for display.
type ArticleView struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"` // inline-sanitized
	Body         string           `json:"body"`  // sanitized and anchored
	Sections     []models.Section `json:"sections"`
	CategoryName string           `json:"category"`
	LastModified time.Time        `json:"last_modified"`
	WordCount    int              `json:"word_count"`
}

// DocumentationView is the documentation screen after one reducer run.
type DocumentationView struct {
	State        models.NavState    `json:"state"`
	Sidebar      []SidebarNode      `json:"sidebar"`
	Article      *ArticleView       `json:"article,omitempty"`
	ContentState models.RenderState `json:"content_state"`
	LoadError    error              `json:"-"`
}

// GetDocumentRequest names a document and an output format.
type GetDocumentRequest struct {
	ID     int64  `json:"id"`
	Format string `json:"format"` // html (default), markdown, text
}

// DocumentView is a single document for API clients.
type DocumentView struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"`
	Format       string           `json:"format"`
	Body         string           `json:"body"`
	Sections     []models.Section `json:"sections"`
	CategoryIDs  []int64          `json:"category_ids"`
	CategoryName string           `json:"category"`
	LastModified time.Time        `json:"last_modified"`
	Link         string           `json:"link,omitempty"`
	WordCount    int              `json:"word_count"`
}
