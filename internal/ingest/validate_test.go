package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/model"
)

func TestValidate_Valid(t *testing.T) {
	rec := &model.ParsedRecord{
		Name:         "Valid Range",
		RegionName:   "Ontario",
		FacilityType: "indoor/outdoor",
		Latitude:     floatPtr(45.0),
		Longitude:    floatPtr(-75.0),
	}
	v := Validate(rec)
	assert.True(t, v.Valid)
	assert.Empty(t, v.Errors)
}

func TestValidate_FacilityTypeEnum(t *testing.T) {
	for _, ft := range []string{"Indoor", "outdoor", "INDOOR/OUTDOOR", "Both", "both"} {
		rec := &model.ParsedRecord{Name: "R", RegionName: "Ontario", FacilityType: ft}
		assert.True(t, Validate(rec).Valid, "facility type %q should validate", ft)
	}

	rec := &model.ParsedRecord{Name: "Cave Range", RegionName: "Ontario", FacilityType: "Underground"}
	v := Validate(rec)
	require.False(t, v.Valid)
	require.Len(t, v.Errors, 1)
	assert.Contains(t, v.Errors[0], "Underground")
	assert.Contains(t, v.Errors[0], "Cave Range")
}

func TestValidate_MissingFields(t *testing.T) {
	v := Validate(&model.ParsedRecord{})
	require.False(t, v.Valid)
	assert.Len(t, v.Errors, 2) // name and region
}

func TestValidate_CoordinateRanges(t *testing.T) {
	tests := []struct {
		name  string
		lat   *float64
		lng   *float64
		valid bool
	}{
		{"in range", floatPtr(49.2), floatPtr(-123.1), true},
		{"lat too high", floatPtr(91), nil, false},
		{"lat too low", floatPtr(-90.5), nil, false},
		{"lng too high", nil, floatPtr(180.5), false},
		{"lng too low", nil, floatPtr(-181), false},
		{"boundary", floatPtr(90), floatPtr(-180), true},
		{"absent is fine", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &model.ParsedRecord{Name: "R", RegionName: "Ontario", Latitude: tt.lat, Longitude: tt.lng}
			assert.Equal(t, tt.valid, Validate(rec).Valid)
		})
	}
}

func TestValidateAll_MixedBatch(t *testing.T) {
	recs := []model.ParsedRecord{
		{Name: "A", RegionName: "Ontario", FacilityType: "Indoor"},
		{Name: "B", RegionName: "Ontario", FacilityType: "Outdoor"},
		{Name: "C", RegionName: "Ontario", FacilityType: "Underground"},
		{Name: "D", RegionName: "Ontario"},
		{Name: "E", RegionName: "Ontario", FacilityType: "Both"},
	}
	v := ValidateAll(recs)
	require.False(t, v.Valid)
	require.Len(t, v.Errors, 1)
	assert.Contains(t, v.Errors[0], "C")
	assert.Contains(t, v.Errors[0], "Underground")
}
