package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	models "portal/internal/domain/models"
	"portal/internal/domain/models/kb"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Screens rendered inside the shared layout
const (
	viewLogin     = "login.html"
	viewDashboard = "dashboard.html"
	viewTerms     = "terms.html"
	viewDocs      = "docs.html"
)

// Page is the data every screen template receives.
type Page struct {
	Title        string
	Nav          string // path of the highlighted header link
	Identity     *models.Identity
	SupportEmail string
	Error        string
	Data         any
}

// Views renders the server-side screens.
type Views struct {
	pages        map[string]*template.Template
	supportEmail string
	logger       *slog.Logger
}

// NewViews parses every screen template together with the layout.
func NewViews(supportEmail string, logger *slog.Logger) (*Views, error) {
	funcs := template.FuncMap{
		// Only for strings that already went through the HTML sanitizer
		"safe":    func(s string) template.HTML { return template.HTML(s) },
		"docsURL": DocsURL,
		"date":    func(t time.Time) string { return t.Format("Jan 2, 2006") },
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{viewLogin, viewDashboard, viewTerms, viewDocs} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFiles, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Views{pages: pages, supportEmail: supportEmail, logger: logger}, nil
}

// Render executes a screen into a buffer first so a template failure never
// leaves a half-written page.
func (v *Views) Render(w http.ResponseWriter, status int, name string, page *Page) {
	tmpl, ok := v.pages[name]
	if !ok {
		v.logger.Error("unknown view", "view", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if page.SupportEmail == "" {
		page.SupportEmail = v.supportEmail
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		v.logger.Error("failed to render view", "view", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// DocsURL builds the documentation link that carries a navigation intent.
func DocsURL(intent kb.NavigationIntent) string {
	q := url.Values{}
	if intent.CategoryID > 0 {
		q.Set("category", strconv.FormatInt(intent.CategoryID, 10))
	}
	if intent.DocumentID > 0 {
		q.Set("document", strconv.FormatInt(intent.DocumentID, 10))
	}
	if intent.Anchor != "" {
		q.Set("section", intent.Anchor)
	}
	if len(q) == 0 {
		return "/docs"
	}
	return "/docs?" + q.Encode()
}

// parseIntent reads a navigation intent from the documentation query string.
// An intent needs a document; the category is optional.
func parseIntent(r *http.Request) (*kb.NavigationIntent, error) {
	q := r.URL.Query()
	if q.Get("document") == "" {
		return nil, nil
	}

	documentID, err := strconv.ParseInt(q.Get("document"), 10, 64)
	if err != nil || documentID <= 0 {
		return nil, fmt.Errorf("invalid document: %q", q.Get("document"))
	}

	intent := &kb.NavigationIntent{DocumentID: documentID, Anchor: q.Get("section")}
	if raw := q.Get("category"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || categoryID < 0 {
			return nil, fmt.Errorf("invalid category: %q", raw)
		}
		intent.CategoryID = categoryID
	}
	return intent, nil
}
