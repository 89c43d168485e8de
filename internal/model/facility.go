package model

import "time"

// FacilityType is the closed enumeration of range settings.
type FacilityType string

const (
	FacilityIndoor        FacilityType = "Indoor"
	FacilityOutdoor       FacilityType = "Outdoor"
	FacilityIndoorOutdoor FacilityType = "Indoor/Outdoor"
	FacilityBoth          FacilityType = "Both"
)

// FacilityTypes lists the accepted facility type values in canonical form.
var FacilityTypes = []FacilityType{
	FacilityIndoor,
	FacilityOutdoor,
	FacilityIndoorOutdoor,
	FacilityBoth,
}

// Facility is the primary listed entity: one archery range. Uniqueness
// is always (Slug, RegionID) — two regions may each have a "north-park".
type Facility struct {
	ID         string `json:"id"`
	RegionID   string `json:"region_id"`
	LocalityID string `json:"locality_id,omitempty"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`

	Author      string `json:"author,omitempty"`
	Category    string `json:"category,omitempty"`
	Address     string `json:"address,omitempty"`
	Country     string `json:"country,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	FacilityType string   `json:"facility_type,omitempty"`
	RangeLength  *float64 `json:"range_length_m,omitempty"`
	LaneCount    *int     `json:"lane_count,omitempty"`

	Has3DCourse    *bool `json:"has_3d_course,omitempty"`
	HasFieldCourse *bool `json:"has_field_course,omitempty"`
	HasProShop     *bool `json:"has_pro_shop,omitempty"`
	HasClubhouse   *bool `json:"has_clubhouse,omitempty"`
	HasCamping     *bool `json:"has_camping,omitempty"`
	HasWashrooms   *bool `json:"has_washrooms,omitempty"`
	HasWifi        *bool `json:"has_wifi,omitempty"`

	MembershipPrice  *float64 `json:"membership_price,omitempty"`
	DropInPrice      *float64 `json:"drop_in_price,omitempty"`
	EquipmentRental  *bool    `json:"equipment_rental,omitempty"`
	RentalPriceRange string   `json:"rental_price_range,omitempty"`
	OffersLessons    *bool    `json:"offers_lessons,omitempty"`
	AllowedEquipment []string `json:"allowed_equipment,omitempty"`

	Accessibility string   `json:"accessibility,omitempty"`
	HasParking    *bool    `json:"has_parking,omitempty"`
	Status        string   `json:"status,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Images        []string `json:"images,omitempty"`
	Hours         Hours    `json:"hours,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
