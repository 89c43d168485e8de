package ingest

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/model"
	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/store"
)

// ImportOptions controls batch behavior.
type ImportOptions struct {
	// UpdateExisting overwrites a facility that already exists under
	// the same (slug, region). Off by default: the no-clobber policy
	// turns a slug conflict into a per-record failure.
	UpdateExisting bool
	// SkipInvalid keeps processing past per-record failures. When
	// false, the first failure marks the batch unsuccessful and stops.
	SkipInvalid bool
}

// DefaultImportOptions matches the documented defaults.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{UpdateExisting: false, SkipInvalid: true}
}

// Importer writes parsed records into the store, resolving the
// region/locality hierarchy as it goes. Records are processed
// sequentially in file order; region and locality creation is
// get-or-create and is not rolled back when a later record fails.
type Importer struct {
	store    store.Store
	resolver *Resolver
	log      *zap.Logger
}

// NewImporter returns an Importer backed by the given store.
func NewImporter(s store.Store) *Importer {
	return &Importer{
		store:    s,
		resolver: NewResolver(s),
		log:      zap.L().With(zap.String("component", "ingest.importer")),
	}
}

// Import processes a batch of records and accumulates a summary.
// Row-level failures are recovered locally unless SkipInvalid is
// false; records committed before an abort stay committed.
func (im *Importer) Import(ctx context.Context, records []model.ParsedRecord, opts ImportOptions) *model.ImportResult {
	result := &model.ImportResult{Success: true}

	for i := range records {
		rec := &records[i]

		inserted, updated, err := im.importOne(ctx, rec, opts)
		switch {
		case err != nil:
			result.Failed++
			result.Errors = append(result.Errors, model.ImportError{
				Name:    rec.Name,
				Message: err.Error(),
			})
			im.log.Warn("record failed",
				zap.String("name", rec.Name),
				zap.Error(err),
			)
			if !opts.SkipInvalid {
				result.Success = false
				return result
			}
		case inserted:
			result.Inserted++
		case updated:
			result.Updated++
		}
	}

	im.log.Info("import complete",
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed),
	)
	return result
}

// importOne handles a single record: resolve region → resolve
// locality → insert or update the facility. Panics from the store are
// converted into ordinary per-record errors so one bad record cannot
// take down the batch.
func (im *Importer) importOne(ctx context.Context, rec *model.ParsedRecord, opts ImportOptions) (inserted, updated bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			inserted, updated = false, false
			err = eris.Errorf("unexpected storage fault: %v", r)
		}
	}()

	if rec.RegionName == "" {
		return false, false, eris.New("region is required")
	}

	region, err := im.resolver.ResolveRegion(ctx, rec.RegionName)
	if err != nil {
		return false, false, err
	}

	var localityID string
	if rec.LocalityName != "" {
		loc, err := im.resolver.ResolveLocality(ctx, rec.LocalityName, region.ID)
		if err != nil {
			// A locality failure downgrades the record rather than
			// killing it: the facility keeps a null locality reference.
			im.log.Warn("locality resolution failed",
				zap.String("name", rec.Name),
				zap.String("locality", rec.LocalityName),
				zap.Error(err),
			)
		} else {
			localityID = loc.ID
		}
	}

	existing, err := im.store.GetFacility(ctx, region.ID, rec.Slug)
	if err != nil {
		return false, false, eris.Wrap(err, "lookup facility")
	}

	if existing == nil {
		f := facilityFromRecord(rec, region.ID, localityID)
		if _, err := im.store.CreateFacility(ctx, f); err != nil {
			return false, false, eris.Wrap(err, "insert facility")
		}
		return true, false, nil
	}

	if !opts.UpdateExisting {
		return false, false, eris.New("already exists (slug conflict)")
	}

	merged := mergeFacility(existing, rec, localityID)
	if err := im.store.UpdateFacility(ctx, merged); err != nil {
		return false, false, eris.Wrap(err, "update facility")
	}
	return false, true, nil
}

// facilityFromRecord builds the storage-ready representation. Absent
// fields stay nil/empty so the store's defaults apply.
func facilityFromRecord(rec *model.ParsedRecord, regionID, localityID string) *model.Facility {
	return &model.Facility{
		RegionID:   regionID,
		LocalityID: localityID,
		Name:       rec.Name,
		Slug:       rec.Slug,

		Author:      rec.Author,
		Category:    rec.Category,
		Address:     rec.Address,
		Country:     rec.Country,
		PostalCode:  rec.PostalCode,
		Phone:       rec.Phone,
		Email:       rec.Email,
		Website:     rec.Website,
		Description: rec.Description,

		Latitude:  rec.Latitude,
		Longitude: rec.Longitude,

		FacilityType: canonicalFacilityType(rec.FacilityType),
		RangeLength:  rec.RangeLength,
		LaneCount:    rec.LaneCount,

		Has3DCourse:    rec.Has3DCourse,
		HasFieldCourse: rec.HasFieldCourse,
		HasProShop:     rec.HasProShop,
		HasClubhouse:   rec.HasClubhouse,
		HasCamping:     rec.HasCamping,
		HasWashrooms:   rec.HasWashrooms,
		HasWifi:        rec.HasWifi,

		MembershipPrice:  rec.MembershipPrice,
		DropInPrice:      rec.DropInPrice,
		EquipmentRental:  rec.EquipmentRental,
		RentalPriceRange: rec.RentalPriceRange,
		OffersLessons:    rec.OffersLessons,
		AllowedEquipment: rec.AllowedEquipment,

		Accessibility: rec.Accessibility,
		HasParking:    rec.HasParking,
		Status:        rec.Status,
		Tags:          rec.Tags,
		Images:        rec.Images,
		Hours:         rec.Hours,
	}
}

// mergeFacility overlays the record's present fields onto the stored
// facility, leaving absent fields untouched so an update never
// clobbers known values with blanks.
func mergeFacility(existing *model.Facility, rec *model.ParsedRecord, localityID string) *model.Facility {
	out := *existing
	out.Name = rec.Name
	if localityID != "" {
		out.LocalityID = localityID
	}

	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setStr(&out.Author, rec.Author)
	setStr(&out.Category, rec.Category)
	setStr(&out.Address, rec.Address)
	setStr(&out.Country, rec.Country)
	setStr(&out.PostalCode, rec.PostalCode)
	setStr(&out.Phone, rec.Phone)
	setStr(&out.Email, rec.Email)
	setStr(&out.Website, rec.Website)
	setStr(&out.Description, rec.Description)
	setStr(&out.RentalPriceRange, rec.RentalPriceRange)
	setStr(&out.Accessibility, rec.Accessibility)
	setStr(&out.Status, rec.Status)
	setStr(&out.FacilityType, canonicalFacilityType(rec.FacilityType))

	if rec.Latitude != nil {
		out.Latitude = rec.Latitude
	}
	if rec.Longitude != nil {
		out.Longitude = rec.Longitude
	}
	if rec.RangeLength != nil {
		out.RangeLength = rec.RangeLength
	}
	if rec.LaneCount != nil {
		out.LaneCount = rec.LaneCount
	}
	if rec.MembershipPrice != nil {
		out.MembershipPrice = rec.MembershipPrice
	}
	if rec.DropInPrice != nil {
		out.DropInPrice = rec.DropInPrice
	}

	setBool := func(dst **bool, v *bool) {
		if v != nil {
			*dst = v
		}
	}
	setBool(&out.Has3DCourse, rec.Has3DCourse)
	setBool(&out.HasFieldCourse, rec.HasFieldCourse)
	setBool(&out.HasProShop, rec.HasProShop)
	setBool(&out.HasClubhouse, rec.HasClubhouse)
	setBool(&out.HasCamping, rec.HasCamping)
	setBool(&out.HasWashrooms, rec.HasWashrooms)
	setBool(&out.HasWifi, rec.HasWifi)
	setBool(&out.EquipmentRental, rec.EquipmentRental)
	setBool(&out.OffersLessons, rec.OffersLessons)
	setBool(&out.HasParking, rec.HasParking)

	if rec.AllowedEquipment != nil {
		out.AllowedEquipment = rec.AllowedEquipment
	}
	if rec.Tags != nil {
		out.Tags = rec.Tags
	}
	if rec.Images != nil {
		out.Images = rec.Images
	}
	if rec.Hours != nil {
		out.Hours = rec.Hours
	}

	return &out
}

// canonicalFacilityType maps any accepted case variant to its
// canonical spelling; unrecognized values pass through unchanged
// (the validator flags them, the importer does not).
func canonicalFacilityType(s string) string {
	for _, t := range model.FacilityTypes {
		if s != "" && strings.EqualFold(s, string(t)) {
			return string(t)
		}
	}
	return s
}
