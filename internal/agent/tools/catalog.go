package tools

import (
	"context"

	logx "github.com/tamimsangrar/pubx-real-estate/pkg/logger"

	"github.com/tamimsangrar/pubx-real-estate/internal/agent/model"
)

// maxCatalogResults caps how many listings a single search surfaces in a
// conversational reply.
const maxCatalogResults = 3

// StaticCatalog is the stand-in property search collaborator. It accepts
// the extracted criteria for interface fit and returns the showcase set
// capped at maxCatalogResults, which is the reference behavior until a real
// MLS backend is plugged in.
type StaticCatalog struct{}

func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{}
}

func (c *StaticCatalog) Search(ctx context.Context, criteria map[string]any) ([]model.Property, error) {
	logx.Debug().Int("criteria_fields", len(criteria)).Msg("Property catalog search")

	listings := MockListings
	if len(listings) > maxCatalogResults {
		listings = listings[:maxCatalogResults]
	}
	out := make([]model.Property, len(listings))
	copy(out, listings)
	return out, nil
}

var MockListings = []model.Property{
	{
		ID:           "prop_001",
		Address:      "123 Oak Street, Downtown",
		Price:        450000,
		Bedrooms:     3,
		Bathrooms:    2.5,
		PropertyType: "house",
		Description:  "Beautiful single-family home",
	},
	{
		ID:           "prop_002",
		Address:      "456 Pine Avenue, Midtown",
		Price:        320000,
		Bedrooms:     2,
		Bathrooms:    2,
		PropertyType: "condo",
		Description:  "Modern condo with city views",
	},
}

var _ model.PropertySearcher = (*StaticCatalog)(nil)
