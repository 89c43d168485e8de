package ingest

import (
	"fmt"
	"strings"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/model"
)

// Validate checks a parsed record against domain rules before it may
// reach storage. It never mutates or defaults a field — coercion is
// the normalizer's job.
func Validate(rec *model.ParsedRecord) model.Validation {
	var errs []string

	if strings.TrimSpace(rec.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(rec.RegionName) == "" {
		errs = append(errs, fmt.Sprintf("%s: region is required", rec.Name))
	}

	if rec.FacilityType != "" && !validFacilityType(rec.FacilityType) {
		errs = append(errs, fmt.Sprintf("%s: invalid facility type %q (valid: Indoor, Outdoor, Indoor/Outdoor, Both)", rec.Name, rec.FacilityType))
	}

	if rec.Latitude != nil && (*rec.Latitude < -90 || *rec.Latitude > 90) {
		errs = append(errs, fmt.Sprintf("%s: latitude %v out of range [-90, 90]", rec.Name, *rec.Latitude))
	}
	if rec.Longitude != nil && (*rec.Longitude < -180 || *rec.Longitude > 180) {
		errs = append(errs, fmt.Sprintf("%s: longitude %v out of range [-180, 180]", rec.Name, *rec.Longitude))
	}

	return model.Validation{Valid: len(errs) == 0, Errors: errs}
}

// ValidateAll runs Validate over a batch, collecting every message.
func ValidateAll(recs []model.ParsedRecord) model.Validation {
	var errs []string
	for i := range recs {
		v := Validate(&recs[i])
		errs = append(errs, v.Errors...)
	}
	return model.Validation{Valid: len(errs) == 0, Errors: errs}
}

func validFacilityType(s string) bool {
	for _, t := range model.FacilityTypes {
		if strings.EqualFold(s, string(t)) {
			return true
		}
	}
	return false
}
