package model

import "context"

// Property is one listing returned by the catalog collaborator.
type Property struct {
	ID           string  `json:"id"`
	Address      string  `json:"address"`
	Price        int     `json:"price"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	PropertyType string  `json:"property_type"`
	Description  string  `json:"description"`
}

// ViewingSlot is one bookable appointment slot.
type ViewingSlot struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// PropertySearcher is the catalog lookup collaborator used by the
// property_search step.
type PropertySearcher interface {
	Search(ctx context.Context, criteria map[string]any) ([]Property, error)
}

// SlotProvider is the scheduling collaborator used by the schedule_viewing
// step.
type SlotProvider interface {
	AvailableSlots(ctx context.Context) ([]ViewingSlot, error)
}
