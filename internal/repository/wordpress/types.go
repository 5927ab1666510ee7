package wordpress

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"portal/internal/domain/models/kb"
)

// modifiedLayout is the format of WordPress "modified" fields (site-local, no zone).
const modifiedLayout = "2006-01-02T15:04:05"

// rendered is the {"rendered": "..."} envelope WordPress uses for titles and content.
type rendered struct {
	Rendered string `json:"rendered"`
}

// categoryResponse is one record of GET /wp-json/wp/v2/doc_category.
type categoryResponse struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Slug             string  `json:"slug"`
	Count            int     `json:"count"`
	DocCategoryOrder flexInt `json:"doc_category_order"`
	Order            flexInt `json:"order"`
	MenuOrder        flexInt `json:"menu_order"`
}

// documentResponse is one record of GET /wp-json/wp/v2/docs.
type documentResponse struct {
	ID          int64    `json:"id"`
	Slug        string   `json:"slug"`
	Link        string   `json:"link"`
	Modified    string   `json:"modified"`
	ModifiedGMT string   `json:"modified_gmt"`
	Title       rendered `json:"title"`
	Content     rendered `json:"content"`
	DocCategory []int64  `json:"doc_category"`
}

func (r categoryResponse) toModel() kb.Category {
	order := r.DocCategoryOrder
	if !order.present {
		order = r.Order
	}
	if !order.present {
		order = r.MenuOrder
	}
	return kb.Category{
		ID:    r.ID,
		Name:  r.Name,
		Slug:  r.Slug,
		Order: order.value,
		Count: r.Count,
	}
}

func (r documentResponse) toModel() kb.Document {
	categoryIDs := r.DocCategory
	if categoryIDs == nil {
		categoryIDs = []int64{}
	}
	return kb.Document{
		ID:           r.ID,
		Title:        r.Title.Rendered,
		Body:         r.Content.Rendered,
		CategoryIDs:  categoryIDs,
		LastModified: r.lastModified(),
		Link:         r.Link,
		Slug:         r.Slug,
	}
}

// lastModified prefers the GMT timestamp; unparseable values give the zero time.
func (r documentResponse) lastModified() time.Time {
	if t, err := time.Parse(modifiedLayout, r.ModifiedGMT); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(modifiedLayout, r.Modified); err == nil {
		return t
	}
	return time.Time{}
}

// flexInt decodes a sort key that may arrive as a number, a numeric string,
// null, or anything else. Non-numeric values decode to 0.
type flexInt struct {
	value   int
	present bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	f.present = true

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		f.value = truncate(v)
	case string:
		f.value = parseOrder(v)
	}
	return nil
}

func parseOrder(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return truncate(v)
	}
	return 0
}

func truncate(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v > math.MaxInt32 || v < math.MinInt32 {
		return 0
	}
	return int(v)
}
