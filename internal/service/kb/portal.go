package kb

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"portal/internal/config"
	"portal/internal/domain"
	models "portal/internal/domain/models/kb"
	"portal/internal/domain/repositories"
	kbSvc "portal/internal/domain/services/kb"
	"portal/internal/metrics"
	"portal/internal/service/kb/converter"
	"portal/internal/service/kb/converter/sanitizer"
)

// portalService implements the PortalService interface
type portalService struct {
	source     repositories.ContentSource
	converters *converter.ConverterRegistry
	analyzer   kbSvc.ContentAnalyzer
	inline     *sanitizer.HTMLSanitizer
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewPortalService creates a new portal service
func NewPortalService(
	source repositories.ContentSource,
	converters *converter.ConverterRegistry,
	analyzer kbSvc.ContentAnalyzer,
	m *metrics.Metrics,
	logger *slog.Logger,
) kbSvc.PortalService {
	return &portalService{
		source:     source,
		converters: converters,
		analyzer:   analyzer,
		inline:     sanitizer.NewInlineSanitizer(),
		metrics:    m,
		logger:     logger,
	}
}

// LoadCatalog fetches both listings and builds the catalog once both have arrived
func (s *portalService) LoadCatalog(ctx context.Context) (*models.Catalog, error) {
	cats, docs, err := s.source.FetchAll(ctx, config.MaxDocumentsPerFetch)
	if err != nil {
		return nil, err
	}
	return NewCatalog(cats, docs), nil
}

// Landing builds the category grid and the live dropdown for query
func (s *portalService) Landing(ctx context.Context, query string) (*kbSvc.LandingView, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}

	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	dropdown, err := s.hits(ctx, catalog, Preview(catalog.Documents, query), query)
	if err != nil {
		return nil, err
	}

	cards := FilterCategories(catalog, query)
	view := &kbSvc.LandingView{
		Query:    query,
		Cards:    make([]kbSvc.CategoryCardView, 0, len(cards)),
		Dropdown: dropdown,
		State:    models.RenderPopulated,
	}

	for _, card := range cards {
		view.Cards = append(view.Cards, kbSvc.CategoryCardView{
			ID:        card.Category.ID,
			Name:      s.inline.Sanitize(card.Category.Name),
			Documents: s.links(card.Documents, card.Category.ID, nil),
			State:     card.State,
		})
	}

	switch {
	case len(catalog.Categories) == 0:
		view.State = models.RenderEmpty
	case len(view.Cards) == 0:
		view.State = models.RenderNoMatches
	}

	s.metrics.ObserveSearch(string(kbSvc.SearchModePreview), len(view.Dropdown))
	return view, nil
}

// Search answers a preview or full query against a fresh load
func (s *portalService) Search(ctx context.Context, req *kbSvc.SearchRequest) (*kbSvc.SearchResults, error) {
	if req.Mode == "" {
		req.Mode = kbSvc.SearchModePreview
	}
	if err := s.validateSearchRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	var matches []models.Document
	if req.Mode == kbSvc.SearchModePreview {
		matches = Preview(catalog.Documents, req.Query)
	} else {
		matches = Search(catalog.Documents, req.Query, req.Limit)
	}

	hits, err := s.hits(ctx, catalog, matches, req.Query)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveSearch(string(req.Mode), len(matches))
	s.logger.Debug("search answered",
		"mode", req.Mode,
		"query_length", len(req.Query),
		"results", len(matches),
	)

	return &kbSvc.SearchResults{
		Query: req.Query,
		Mode:  req.Mode,
		Total: len(matches),
		Hits:  hits,
	}, nil
}

// Documentation runs the navigation reducer over a fresh load and renders the screen
func (s *portalService) Documentation(ctx context.Context, prev models.NavState, actions ...models.Action) (*kbSvc.DocumentationView, error) {
	var loaded models.Action
	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		// Cancellation means the screen is gone; nothing to render
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		loaded = models.LoadFailed{Err: err}
	} else {
		loaded = models.Loaded{Catalog: catalog}
	}

	state := ReduceAll(prev, append([]models.Action{loaded}, actions...)...)

	view := &kbSvc.DocumentationView{
		State:        state,
		ContentState: state.ContentState(),
		LoadError:    state.Err,
	}
	if state.Catalog == nil {
		return view, nil
	}

	view.Sidebar = s.sidebar(state)

	if doc, ok := state.ActiveDocument(); ok {
		article, err := s.article(ctx, state.Catalog, doc)
		if err != nil {
			return nil, err
		}
		view.Article = article
	}
	return view, nil
}

// GetDocument converts one document to the requested format
func (s *portalService) GetDocument(ctx context.Context, req *kbSvc.GetDocumentRequest) (*kbSvc.DocumentView, error) {
	if req.Format == "" {
		req.Format = converter.DefaultFormat
	}
	if err := s.validateGetDocumentRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	doc, ok := catalog.Document(req.ID)
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", req.ID)}
	}

	body, err := s.converters.Convert(ctx, req.Format, doc.Body)
	if err != nil {
		return nil, err
	}

	// Sections always come from the display body so anchors match the HTML view
	display, sections, err := s.displayBody(ctx, doc)
	if err != nil {
		return nil, err
	}
	if s.converters.GetConverter(req.Format).Name() == converter.DefaultFormat {
		body = display
	}

	return &kbSvc.DocumentView{
		ID:           doc.ID,
		Title:        s.inline.Sanitize(doc.Title),
		Format:       req.Format,
		Body:         body,
		Sections:     sections,
		CategoryIDs:  doc.CategoryIDs,
		CategoryName: primaryCategoryName(catalog, doc),
		LastModified: doc.LastModified,
		Link:         doc.Link,
		WordCount:    s.analyzer.CountWords(doc.Body),
	}, nil
}

// displayBody sanitizes the raw body and tags its sections.
// The indexed copy in the catalog is never touched.
func (s *portalService) displayBody(ctx context.Context, doc models.Document) (string, []models.Section, error) {
	safe, err := s.converters.Convert(ctx, converter.DefaultFormat, doc.Body)
	if err != nil {
		return "", nil, fmt.Errorf("sanitize document %d: %w", doc.ID, err)
	}
	body, sections, err := ExtractSections(doc.ID, safe)
	if err != nil {
		return "", nil, fmt.Errorf("extract sections of document %d: %w", doc.ID, err)
	}
	return body, sections, nil
}

func (s *portalService) article(ctx context.Context, catalog *models.Catalog, doc models.Document) (*kbSvc.ArticleView, error) {
	body, sections, err := s.displayBody(ctx, doc)
	if err != nil {
		return nil, err
	}
	return &kbSvc.ArticleView{
		ID:           doc.ID,
		Title:        s.inline.Sanitize(doc.Title),
		Body:         body,
		Sections:     sections,
		CategoryName: s.inline.Sanitize(primaryCategoryName(catalog, doc)),
		LastModified: doc.LastModified,
		WordCount:    s.analyzer.CountWords(doc.Body),
	}, nil
}

// sidebar renders the category tree. A non-empty query narrows the tree the
// same way the landing grid is narrowed; selection is left alone.
func (s *portalService) sidebar(state models.NavState) []kbSvc.SidebarNode {
	var cards []models.CategoryCard
	if state.Query == "" {
		cards = make([]models.CategoryCard, 0, len(state.Catalog.Categories))
		for _, cat := range state.Catalog.Categories {
			docs := state.Catalog.Groups[cat.ID]
			renderState := models.RenderPopulated
			if len(docs) == 0 {
				renderState = models.RenderEmpty
			}
			cards = append(cards, models.CategoryCard{Category: cat, Documents: docs, State: renderState})
		}
	} else {
		cards = FilterCategories(state.Catalog, state.Query)
	}

	nodes := make([]kbSvc.SidebarNode, 0, len(cards))
	for _, card := range cards {
		id := card.Category.ID
		nodes = append(nodes, kbSvc.SidebarNode{
			ID:        id,
			Name:      s.inline.Sanitize(card.Category.Name),
			Active:    state.IsActiveCategory(id),
			Expanded:  state.IsExpanded(id),
			HasDocs:   len(state.Catalog.Groups[id]) > 0,
			Documents: s.links(card.Documents, id, &state),
			State:     card.State,
		})
	}
	return nodes
}

func (s *portalService) links(docs []models.Document, categoryID int64, state *models.NavState) []kbSvc.DocumentLink {
	links := make([]kbSvc.DocumentLink, 0, len(docs))
	for _, doc := range docs {
		link := kbSvc.DocumentLink{
			ID:     doc.ID,
			Title:  s.inline.Sanitize(doc.Title),
			Intent: models.NavigationIntent{CategoryID: categoryID, DocumentID: doc.ID},
		}
		if state != nil {
			link.Active = state.IsActiveDocument(doc.ID)
		}
		links = append(links, link)
	}
	return links
}

// hits turns matches into deep links. The intent targets the document's first
// category and, when the query occurs under a heading, that section. Sections
// are located in the sanitized body so ordinals match the rendered anchors.
func (s *portalService) hits(ctx context.Context, catalog *models.Catalog, matches []models.Document, query string) ([]kbSvc.SearchHit, error) {
	hits := make([]kbSvc.SearchHit, 0, len(matches))
	for _, doc := range matches {
		categoryID, _ := doc.PrimaryCategoryID()
		hit := kbSvc.SearchHit{
			DocumentID:    doc.ID,
			Title:         s.inline.Sanitize(doc.Title),
			CategoryLabel: s.inline.Sanitize(primaryCategoryName(catalog, doc)),
			Intent:        models.NavigationIntent{CategoryID: categoryID, DocumentID: doc.ID},
		}

		safe, err := s.converters.Convert(ctx, converter.DefaultFormat, doc.Body)
		if err != nil {
			return nil, fmt.Errorf("sanitize document %d: %w", doc.ID, err)
		}
		if section, ok := LocateSection(doc.ID, safe, query); ok {
			hit.Section = &section
			hit.Intent.Anchor = section.AnchorID
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func primaryCategoryName(catalog *models.Catalog, doc models.Document) string {
	id, ok := doc.PrimaryCategoryID()
	if !ok {
		return UncategorizedLabel
	}
	return CategoryName(catalog.Categories, id)
}

// Validation methods

func validateQuery(query string) error {
	if err := validation.Validate(query, validation.Length(0, config.MaxQueryLength)); err != nil {
		return fmt.Errorf("%w: query: %v", domain.ErrValidation, err)
	}
	return nil
}

func (s *portalService) validateSearchRequest(req *kbSvc.SearchRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Query, validation.Length(0, config.MaxQueryLength)),
		validation.Field(&req.Mode, validation.In(kbSvc.SearchModePreview, kbSvc.SearchModeFull)),
		validation.Field(&req.Limit, validation.Min(0), validation.Max(config.MaxSearchLimit)),
	)
}

func (s *portalService) validateGetDocumentRequest(req *kbSvc.GetDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ID, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.Format, validation.In(toAny(s.converters.SupportedFormats())...)),
	)
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
