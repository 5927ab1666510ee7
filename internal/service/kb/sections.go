package kb

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	models "portal/internal/domain/models/kb"
)

// SectionHeadingClass is the presentation styling attached to every anchored heading.
const SectionHeadingClass = "scroll-mt-32 text-2xl font-bold mb-4 text-gray-800 mt-8 border-b border-gray-100 pb-2"

// ExtractSections parses body, tags every second-level heading with its anchor
// ID and styling, and returns the rewritten body together with the sections in
// document order. Heading content is kept as is. A heading that already carries
// its anchor ID is treated as processed, so running the extractor on its own
// output returns the same body and sections.
func ExtractSections(documentID int64, body string) (string, []models.Section, error) {
	doc, err := parseFragment(body)
	if err != nil {
		return "", nil, err
	}

	headings := doc.Find("h2")
	sections := make([]models.Section, 0, headings.Length())
	var innerErr error

	headings.EachWithBreak(func(i int, h *goquery.Selection) bool {
		anchor := models.AnchorID(documentID, i)
		if h.AttrOr("id", "") != anchor {
			h.SetAttr("id", anchor)
			h.SetAttr("class", SectionHeadingClass)
		}

		inner, err := h.Html()
		if err != nil {
			innerErr = fmt.Errorf("render heading %d: %w", i, err)
			return false
		}
		sections = append(sections, models.Section{
			AnchorID:  anchor,
			Ordinal:   i,
			Title:     strings.TrimSpace(h.Text()),
			InnerHTML: inner,
		})
		return true
	})
	if innerErr != nil {
		return "", nil, innerErr
	}

	rewritten, err := doc.Find("body").Html()
	if err != nil {
		return "", nil, fmt.Errorf("render body: %w", err)
	}
	return rewritten, sections, nil
}

// LocateSection finds the first section whose heading or following content
// contains query, ignoring case. Content runs until the next second-level
// heading at the same level.
func LocateSection(documentID int64, body, query string) (models.Section, bool) {
	if query == "" {
		return models.Section{}, false
	}
	doc, err := parseFragment(body)
	if err != nil {
		return models.Section{}, false
	}

	needle := strings.ToLower(query)
	var found models.Section
	ok := false

	doc.Find("h2").EachWithBreak(func(i int, h *goquery.Selection) bool {
		text := h.Text() + " " + h.NextUntil("h2").Text()
		if !strings.Contains(strings.ToLower(text), needle) {
			return true
		}
		found = models.Section{
			AnchorID: models.AnchorID(documentID, i),
			Ordinal:  i,
			Title:    strings.TrimSpace(h.Text()),
		}
		ok = true
		return false
	})
	return found, ok
}

func parseFragment(body string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse body: %w", err)
	}
	return doc, nil
}
