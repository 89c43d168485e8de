package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/model"
	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/store"
)

// memStore is an in-memory Store for engine tests. Failure injection
// fields simulate storage faults per facility slug.
type memStore struct {
	regions    map[string]*model.Region   // slug → region
	localities map[string]*model.Locality // regionID/slug → locality
	facilities map[string]*model.Facility // regionID/slug → facility

	regionCreates int

	failCreateSlug  string // CreateFacility returns an error for this slug
	panicCreateSlug string // CreateFacility panics for this slug
}

func newMemStore() *memStore {
	return &memStore{
		regions:    map[string]*model.Region{},
		localities: map[string]*model.Locality{},
		facilities: map[string]*model.Facility{},
	}
}

var _ store.Store = (*memStore)(nil)

func (m *memStore) GetRegionBySlug(_ context.Context, slug string) (*model.Region, error) {
	return m.regions[slug], nil
}

func (m *memStore) CreateRegion(_ context.Context, name, slug string) (*model.Region, error) {
	if r, ok := m.regions[slug]; ok {
		return r, nil
	}
	m.regionCreates++
	r := &model.Region{ID: uuid.New().String(), Name: name, Slug: slug, CreatedAt: time.Now()}
	m.regions[slug] = r
	return r, nil
}

func (m *memStore) GetLocality(_ context.Context, regionID, slug string) (*model.Locality, error) {
	return m.localities[regionID+"/"+slug], nil
}

func (m *memStore) CreateLocality(_ context.Context, regionID, name, slug string) (*model.Locality, error) {
	key := regionID + "/" + slug
	if l, ok := m.localities[key]; ok {
		return l, nil
	}
	l := &model.Locality{ID: uuid.New().String(), RegionID: regionID, Name: name, Slug: slug, CreatedAt: time.Now()}
	m.localities[key] = l
	return l, nil
}

func (m *memStore) GetFacility(_ context.Context, regionID, slug string) (*model.Facility, error) {
	return m.facilities[regionID+"/"+slug], nil
}

func (m *memStore) CreateFacility(_ context.Context, f *model.Facility) (*model.Facility, error) {
	if f.Slug == m.panicCreateSlug {
		panic("simulated storage fault")
	}
	if f.Slug == m.failCreateSlug {
		return nil, eris.New("simulated insert failure")
	}
	out := *f
	out.ID = uuid.New().String()
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	m.facilities[f.RegionID+"/"+f.Slug] = &out
	return &out, nil
}

func (m *memStore) UpdateFacility(_ context.Context, f *model.Facility) error {
	key := f.RegionID + "/" + f.Slug
	if _, ok := m.facilities[key]; !ok {
		return eris.Errorf("facility not found: %s", f.ID)
	}
	out := *f
	out.UpdatedAt = time.Now()
	m.facilities[key] = &out
	return nil
}

func (m *memStore) ListFacilities(_ context.Context, _ store.FacilityFilter) ([]model.Facility, error) {
	var out []model.Facility
	for _, f := range m.facilities {
		out = append(out, *f)
	}
	return out, nil
}

func (m *memStore) Migrate(context.Context) error { return nil }
func (m *memStore) Close() error                  { return nil }
