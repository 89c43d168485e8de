package ingest

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/model"
	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/store"
)

var titleCaser = cases.Title(language.English)

// Resolver performs idempotent get-or-create of regions and
// localities. Matching is case-insensitive via the normalized slug
// ("ontario", "Ontario", "ONTARIO" all resolve to one region). The
// store's Create methods are conflict-tolerant, so a lost read-create
// race still converges on a single row.
type Resolver struct {
	store store.Store
}

// NewResolver returns a Resolver backed by the given store.
func NewResolver(s store.Store) *Resolver {
	return &Resolver{store: s}
}

// ResolveRegion returns the region with the given name, creating it on
// first reference.
func (r *Resolver) ResolveRegion(ctx context.Context, name string) (*model.Region, error) {
	slug := Slugify(name)
	if slug == "" {
		return nil, eris.Errorf("ingest: region name %q yields empty slug", name)
	}

	region, err := r.store.GetRegionBySlug(ctx, slug)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: lookup region %q", name)
	}
	if region != nil {
		return region, nil
	}

	region, err = r.store.CreateRegion(ctx, strings.TrimSpace(name), slug)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: create region %q", name)
	}
	return region, nil
}

// ResolveLocality returns the locality with the given name scoped to a
// region, creating it with a title-cased display name if absent.
func (r *Resolver) ResolveLocality(ctx context.Context, name, regionID string) (*model.Locality, error) {
	slug := Slugify(name)
	if slug == "" {
		return nil, eris.Errorf("ingest: locality name %q yields empty slug", name)
	}

	loc, err := r.store.GetLocality(ctx, regionID, slug)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: lookup locality %q", name)
	}
	if loc != nil {
		return loc, nil
	}

	loc, err = r.store.CreateLocality(ctx, regionID, titleCaser.String(name), slug)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: create locality %q", name)
	}
	return loc, nil
}
