// Package store persists the region → locality → facility hierarchy.
package store

import (
	"context"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/model"
)

// FacilityFilter specifies criteria for listing facilities.
type FacilityFilter struct {
	RegionSlug string `json:"region_slug,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// Store is the persistence interface for the import pipeline. Lookups
// return (nil, nil) when the entity does not exist. The Create methods
// for regions and localities are conflict-tolerant: on a slug
// collision they return the already-present row instead of failing,
// so concurrent get-or-create cannot produce duplicates.
type Store interface {
	// Regions
	GetRegionBySlug(ctx context.Context, slug string) (*model.Region, error)
	CreateRegion(ctx context.Context, name, slug string) (*model.Region, error)

	// Localities
	GetLocality(ctx context.Context, regionID, slug string) (*model.Locality, error)
	CreateLocality(ctx context.Context, regionID, name, slug string) (*model.Locality, error)

	// Facilities; uniqueness key is always (slug, regionID).
	GetFacility(ctx context.Context, regionID, slug string) (*model.Facility, error)
	CreateFacility(ctx context.Context, f *model.Facility) (*model.Facility, error)
	UpdateFacility(ctx context.Context, f *model.Facility) error
	ListFacilities(ctx context.Context, filter FacilityFilter) ([]model.Facility, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
