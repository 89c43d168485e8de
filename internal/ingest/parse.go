package ingest

import (
	"fmt"
	"strings"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/model"
)

// RowError is a row-scoped parse failure. The row number it reports
// counts from the top of the file, header included, so data row 1
// surfaces as "Row 2".
type RowError struct {
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Reason)
}

// ParseOptions configures row parsing.
type ParseOptions struct {
	// Strict reports values that silently normalized to false/absent
	// (unrecognized boolean tokens, non-numeric numbers) as warnings
	// instead of dropping them without a trace. The lenient result is
	// unchanged either way.
	Strict bool
}

// ParseRows converts raw rows into typed records. A row missing its
// title is excluded from Data with a row-scoped error; every other
// field normalizes leniently, so one malformed row never aborts the
// batch.
func ParseRows(rows []RawRow, opts ParseOptions) *model.ParseResult {
	result := &model.ParseResult{}
	result.Stats.Total = len(rows)

	for _, row := range rows {
		rec, rowErr, warnings := ParseRow(row, opts)
		if rowErr != nil {
			result.Errors = append(result.Errors, rowErr.Error())
			result.Stats.Failed++
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Data = append(result.Data, *rec)
		result.Stats.Parsed++
	}

	result.Success = result.Stats.Failed == 0
	return result
}

// ParseRow normalizes a single raw row. Exactly one of the record and
// the error is non-nil; strict-mode warnings accompany a successful
// record.
func ParseRow(row RawRow, opts ParseOptions) (*model.ParsedRecord, *RowError, []string) {
	fileRow := row.Position + 1

	name := strings.TrimSpace(row.cell("title", "name"))
	if name == "" {
		return nil, &RowError{Row: fileRow, Reason: "Missing required field"}, nil
	}

	var warnings []string
	warn := func(column, value string) {
		if opts.Strict {
			warnings = append(warnings, fmt.Sprintf("Row %d: unparseable value %q in column %q", fileRow, value, column))
		}
	}

	boolCol := func(names ...string) *bool {
		raw, header := row.lookup(names...)
		v, ok := parseBool(raw)
		if !ok {
			warn(header, raw)
		}
		return v
	}
	numCol := func(names ...string) *float64 {
		raw, header := row.lookup(names...)
		v, ok := parseNumber(raw)
		if !ok {
			warn(header, raw)
		}
		return v
	}
	intCol := func(names ...string) *int {
		raw, header := row.lookup(names...)
		v, ok := parseInt(raw)
		if !ok {
			warn(header, raw)
		}
		return v
	}
	strCol := func(names ...string) string {
		v := row.cell(names...)
		if isAbsent(v) {
			return ""
		}
		return strings.TrimSpace(v)
	}

	rec := &model.ParsedRecord{
		Name:         name,
		Slug:         Slugify(name),
		RegionName:   strCol("region", "province", "state"),
		LocalityName: strCol("city", "locality", "town"),

		Author:      strCol("author"),
		Category:    strCol("category"),
		Address:     strCol("address", "street address"),
		Country:     strCol("country"),
		PostalCode:  strCol("postal code", "zip", "zip code"),
		Phone:       strCol("phone", "phone number"),
		Email:       strCol("email"),
		Website:     strCol("website", "url"),
		Description: strCol("description"),

		Latitude:  numCol("latitude", "lat"),
		Longitude: numCol("longitude", "lng", "lon"),

		FacilityType: strCol("facility type", "type"),
		RangeLength:  numCol("length", "range length", "max distance"),
		LaneCount:    intCol("lanes", "lane count", "shooting lanes"),

		Has3DCourse:    boolCol("3d course", "has 3d course"),
		HasFieldCourse: boolCol("field course", "has field course"),
		HasProShop:     boolCol("pro shop", "has pro shop"),
		HasClubhouse:   boolCol("clubhouse", "has clubhouse"),
		HasCamping:     boolCol("camping", "has camping"),
		HasWashrooms:   boolCol("washrooms", "has washrooms", "restrooms"),
		HasWifi:        boolCol("wifi", "has wifi"),

		MembershipPrice:  numCol("membership price", "membership"),
		DropInPrice:      numCol("drop-in price", "drop in price", "day pass"),
		EquipmentRental:  boolCol("equipment rental", "rentals"),
		RentalPriceRange: strCol("rental price range", "rental prices"),
		OffersLessons:    boolCol("lessons", "offers lessons"),
		AllowedEquipment: parseList(row.cell("allowed equipment", "equipment types", "bow types")),

		Accessibility: strCol("accessibility", "accessibility notes"),
		HasParking:    boolCol("parking", "has parking"),
		Status:        strCol("status"),
		Tags:          parseList(row.cell("tags", "tag list")),
		Images:        parseList(row.cell("images", "image list")),
		Hours:         parseHours(row.cell("hours", "opening hours")),
	}

	return rec, nil, warnings
}
