package kb

import (
	"context"
	"sync/atomic"

	models "portal/internal/domain/models/kb"
)

// sampleCategories are deliberately out of order: IT sorts before HR.
func sampleCategories() []models.Category {
	return []models.Category{
		{ID: 1, Name: "HR", Order: 2},
		{ID: 2, Name: "IT", Order: 1},
	}
}

func sampleDocuments() []models.Document {
	return []models.Document{
		{ID: 10, Title: "Leave Policy", Body: "<p>Annual leave rules.</p>", CategoryIDs: []int64{1}},
		{ID: 11, Title: "VPN Setup", Body: "<p>Install the client.</p>", CategoryIDs: []int64{2}},
	}
}

func sampleCatalog() *models.Catalog {
	return NewCatalog(sampleCategories(), sampleDocuments())
}

// fakeContentSource serves fixed listings or a fixed error.
type fakeContentSource struct {
	categories []models.Category
	documents  []models.Document
	err        error
	calls      atomic.Int32
	lastLimit  int
}

func (f *fakeContentSource) FetchAll(ctx context.Context, limit int) ([]models.Category, []models.Document, error) {
	f.calls.Add(1)
	f.lastLimit = limit
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.categories, f.documents, nil
}
