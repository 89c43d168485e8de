package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/model"
)

func TestPreview_FreshStore(t *testing.T) {
	ms := newMemStore()
	p := NewPreviewer(ms)

	result, err := p.Preview(context.Background(), sampleRecords())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"North Park Archery", "Riverside Range"}, result.NewFacilities)
	assert.Empty(t, result.ExistingFacilities)
	assert.Equal(t, []string{"Ontario"}, result.NewRegions, "region listed once despite two records")
	assert.Equal(t, []string{"Toronto"}, result.NewLocalities)
}

func TestPreview_HasNoSideEffects(t *testing.T) {
	ms := newMemStore()
	p := NewPreviewer(ms)
	ctx := context.Background()

	_, err := p.Preview(ctx, sampleRecords())
	require.NoError(t, err)

	assert.Empty(t, ms.regions, "preview wrote nothing")
	assert.Empty(t, ms.localities)
	assert.Empty(t, ms.facilities)
}

func TestPreview_AfterImportShowsExisting(t *testing.T) {
	ms := newMemStore()
	ctx := context.Background()

	result := NewImporter(ms).Import(ctx, sampleRecords(), DefaultImportOptions())
	require.Equal(t, 2, result.Inserted)

	preview, err := NewPreviewer(ms).Preview(ctx, sampleRecords())
	require.NoError(t, err)

	assert.Empty(t, preview.NewFacilities)
	assert.ElementsMatch(t, []string{"North Park Archery", "Riverside Range"}, preview.ExistingFacilities)
	assert.Empty(t, preview.NewRegions)
	assert.Empty(t, preview.NewLocalities)
}

func TestPreview_SkipsRecordsWithoutRegion(t *testing.T) {
	ms := newMemStore()
	recs := []model.ParsedRecord{{Name: "Nowhere Range", Slug: "nowhere-range"}}

	result, err := NewPreviewer(ms).Preview(context.Background(), recs)
	require.NoError(t, err)
	assert.Empty(t, result.NewFacilities)
	assert.Empty(t, result.ExistingFacilities)
	assert.Empty(t, result.NewLocalities)
	assert.Empty(t, result.NewRegions)
}
