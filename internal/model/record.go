package model

// ParsedRecord is the typed result of normalizing one raw spreadsheet
// row. Pointer and slice fields use nil as the "absent" sentinel: no
// usable value was present, which is distinct from an explicit
// false/zero/empty value. Absent fields are dropped at write time so
// the store's own defaults apply.
type ParsedRecord struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	RegionName   string `json:"region_name"`
	LocalityName string `json:"locality_name,omitempty"`

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
}
