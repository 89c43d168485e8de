package ingest

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/model"
	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/store"
)

// Previewer classifies what an import would do without writing
// anything: the same slug matching rules as the importer, read-only.
type Previewer struct {
	store store.Store
}

// NewPreviewer returns a Previewer backed by the given store.
func NewPreviewer(s store.Store) *Previewer {
	return &Previewer{store: s}
}

// Preview walks the records and buckets each name by outcome. Regions
// and localities that would be newly created are listed once each,
// even when several records reference them. A record with no region
// appears in no bucket: the importer would reject it, so the facility
// totals here count one fewer than the parse stats for each such row.
func (p *Previewer) Preview(ctx context.Context, records []model.ParsedRecord) (*model.PreviewResult, error) {
	result := &model.PreviewResult{
		NewFacilities:      []string{},
		ExistingFacilities: []string{},
		NewLocalities:      []string{},
		NewRegions:         []string{},
	}

	// Track would-be creations within this preview so later records
	// against the same pending region/locality classify consistently.
	pendingRegions := map[string]bool{}
	pendingLocalities := map[string]bool{}

	for i := range records {
		rec := &records[i]
		if rec.RegionName == "" {
			continue
		}

		regionSlug := Slugify(rec.RegionName)
		region, err := p.store.GetRegionBySlug(ctx, regionSlug)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: preview region %q", rec.RegionName)
		}
		if region == nil && !pendingRegions[regionSlug] {
			pendingRegions[regionSlug] = true
			result.NewRegions = append(result.NewRegions, rec.RegionName)
		}

		if rec.LocalityName != "" {
			locSlug := Slugify(rec.LocalityName)
			key := regionSlug + "/" + locSlug
			var loc *model.Locality
			if region != nil {
				loc, err = p.store.GetLocality(ctx, region.ID, locSlug)
				if err != nil {
					return nil, eris.Wrapf(err, "ingest: preview locality %q", rec.LocalityName)
				}
			}
			if loc == nil && !pendingLocalities[key] {
				pendingLocalities[key] = true
				result.NewLocalities = append(result.NewLocalities, rec.LocalityName)
			}
		}

		var existing *model.Facility
		if region != nil {
			existing, err = p.store.GetFacility(ctx, region.ID, rec.Slug)
			if err != nil {
				return nil, eris.Wrapf(err, "ingest: preview facility %q", rec.Name)
			}
		}
		if existing != nil {
			result.ExistingFacilities = append(result.ExistingFacilities, rec.Name)
		} else {
			result.NewFacilities = append(result.NewFacilities, rec.Name)
		}
	}

	return result, nil
}
