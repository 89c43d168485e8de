package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS regions (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	slug       TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS localities (
	id         TEXT PRIMARY KEY,
	region_id  TEXT NOT NULL REFERENCES regions(id),
	name       TEXT NOT NULL,
	slug       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (region_id, slug)
);

CREATE TABLE IF NOT EXISTS facilities (
	id                 TEXT PRIMARY KEY,
	region_id          TEXT NOT NULL REFERENCES regions(id),
	locality_id        TEXT REFERENCES localities(id),
	name               TEXT NOT NULL,
	slug               TEXT NOT NULL,
	author             TEXT NOT NULL DEFAULT '',
	category           TEXT NOT NULL DEFAULT '',
	address            TEXT NOT NULL DEFAULT '',
	country            TEXT NOT NULL DEFAULT '',
	postal_code        TEXT NOT NULL DEFAULT '',
	phone              TEXT NOT NULL DEFAULT '',
	email              TEXT NOT NULL DEFAULT '',
	website            TEXT NOT NULL DEFAULT '',
	description        TEXT NOT NULL DEFAULT '',
	latitude           REAL,
	longitude          REAL,
	facility_type      TEXT NOT NULL DEFAULT '',
	range_length_m     REAL,
	lane_count         INTEGER,
	has_3d_course      INTEGER,
	has_field_course   INTEGER,
	has_pro_shop       INTEGER,
	has_clubhouse      INTEGER,
	has_camping        INTEGER,
	has_washrooms      INTEGER,
	has_wifi           INTEGER,
	membership_price   REAL,
	drop_in_price      REAL,
	equipment_rental   INTEGER,
	rental_price_range TEXT NOT NULL DEFAULT '',
	offers_lessons     INTEGER,
	allowed_equipment  TEXT,
	accessibility      TEXT NOT NULL DEFAULT '',
	has_parking        INTEGER,
	status             TEXT NOT NULL DEFAULT '',
	tags               TEXT,
	images             TEXT,
	hours              TEXT,
	created_at         DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at         DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (region_id, slug)
);

CREATE INDEX IF NOT EXISTS idx_localities_region ON localities(region_id);
CREATE INDEX IF NOT EXISTS idx_facilities_region ON facilities(region_id);
CREATE INDEX IF NOT EXISTS idx_facilities_locality ON facilities(locality_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetRegionBySlug(ctx context.Context, slug string) (*model.Region, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, slug, created_at FROM regions WHERE slug = ?`, slug)

	var r model.Region
	err := row.Scan(&r.ID, &r.Name, &r.Slug, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get region")
	}
	return &r, nil
}

func (s *SQLiteStore) CreateRegion(ctx context.Context, name, slug string) (*model.Region, error) {
	// INSERT OR IGNORE plus re-read: the unique index on slug makes a
	// lost race converge on whichever row won.
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO regions (id, name, slug, created_at) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), name, slug, time.Now().UTC(),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert region %s", slug)
	}

	r, err := s.GetRegionBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, eris.Errorf("sqlite: region %s missing after insert", slug)
	}
	return r, nil
}

func (s *SQLiteStore) GetLocality(ctx context.Context, regionID, slug string) (*model.Locality, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, region_id, name, slug, created_at FROM localities WHERE region_id = ? AND slug = ?`,
		regionID, slug)

	var l model.Locality
	err := row.Scan(&l.ID, &l.RegionID, &l.Name, &l.Slug, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get locality")
	}
	return &l, nil
}

func (s *SQLiteStore) CreateLocality(ctx context.Context, regionID, name, slug string) (*model.Locality, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO localities (id, region_id, name, slug, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), regionID, name, slug, time.Now().UTC(),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert locality %s", slug)
	}

	l, err := s.GetLocality(ctx, regionID, slug)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, eris.Errorf("sqlite: locality %s missing after insert", slug)
	}
	return l, nil
}

const facilityColumns = `id, region_id, locality_id, name, slug,
	author, category, address, country, postal_code, phone, email, website, description,
	latitude, longitude, facility_type, range_length_m, lane_count,
	has_3d_course, has_field_course, has_pro_shop, has_clubhouse, has_camping, has_washrooms, has_wifi,
	membership_price, drop_in_price, equipment_rental, rental_price_range, offers_lessons,
	allowed_equipment, accessibility, has_parking, status, tags, images, hours,
	created_at, updated_at`

func (s *SQLiteStore) GetFacility(ctx context.Context, regionID, slug string) (*model.Facility, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+facilityColumns+` FROM facilities WHERE region_id = ? AND slug = ?`,
		regionID, slug)
	f, err := scanFacility(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return f, err
}

func (s *SQLiteStore) CreateFacility(ctx context.Context, f *model.Facility) (*model.Facility, error) {
	out := *f
	out.ID = uuid.New().String()
	now := time.Now().UTC()
	out.CreatedAt = now
	out.UpdatedAt = now

	args, err := facilityArgs(&out)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO facilities (`+facilityColumns+`) VALUES (`+placeholders(40)+`)`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert facility %s", f.Slug)
	}
	return &out, nil
}

func (s *SQLiteStore) UpdateFacility(ctx context.Context, f *model.Facility) error {
	f.UpdatedAt = time.Now().UTC()

	listsJSON := func(v []string) (any, error) {
		if v == nil {
			return nil, nil
		}
		b, err := json.Marshal(v)
		return string(b), eris.Wrap(err, "sqlite: marshal list")
	}
	allowed, err := listsJSON(f.AllowedEquipment)
	if err != nil {
		return err
	}
	tags, err := listsJSON(f.Tags)
	if err != nil {
		return err
	}
	images, err := listsJSON(f.Images)
	if err != nil {
		return err
	}
	hours, err := hoursArg(f.Hours)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE facilities SET
			locality_id = ?, name = ?,
			author = ?, category = ?, address = ?, country = ?, postal_code = ?,
			phone = ?, email = ?, website = ?, description = ?,
			latitude = ?, longitude = ?, facility_type = ?, range_length_m = ?, lane_count = ?,
			has_3d_course = ?, has_field_course = ?, has_pro_shop = ?, has_clubhouse = ?,
			has_camping = ?, has_washrooms = ?, has_wifi = ?,
			membership_price = ?, drop_in_price = ?, equipment_rental = ?, rental_price_range = ?, offers_lessons = ?,
			allowed_equipment = ?, accessibility = ?, has_parking = ?, status = ?,
			tags = ?, images = ?, hours = ?, updated_at = ?
		WHERE id = ?`,
		nullStr(f.LocalityID), f.Name,
		f.Author, f.Category, f.Address, f.Country, f.PostalCode,
		f.Phone, f.Email, f.Website, f.Description,
		f.Latitude, f.Longitude, f.FacilityType, f.RangeLength, f.LaneCount,
		f.Has3DCourse, f.HasFieldCourse, f.HasProShop, f.HasClubhouse,
		f.HasCamping, f.HasWashrooms, f.HasWifi,
		f.MembershipPrice, f.DropInPrice, f.EquipmentRental, f.RentalPriceRange, f.OffersLessons,
		allowed, f.Accessibility, f.HasParking, f.Status,
		tags, images, hours, f.UpdatedAt,
		f.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update facility %s", f.Slug)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("facility not found: %s", f.ID)
	}
	return nil
}

func (s *SQLiteStore) ListFacilities(ctx context.Context, filter FacilityFilter) ([]model.Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities`
	var args []any

	if filter.RegionSlug != "" {
		query += ` WHERE region_id = (SELECT id FROM regions WHERE slug = ?)`
		args = append(args, filter.RegionSlug)
	}
	query += ` ORDER BY name`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list facilities")
	}
	defer rows.Close()

	var out []model.Facility
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list facilities iterate")
}

// helpers

func placeholders(n int) string {
	out := make([]byte, 0, n*3)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ", "...)
		}
		out = append(out, '?')
	}
	return string(out)
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func hoursArg(h model.Hours) (any, error) {
	b, err := model.MarshalHours(h)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	return string(b), nil
}

func facilityArgs(f *model.Facility) ([]any, error) {
	listJSON := func(v []string) (any, error) {
		if v == nil {
			return nil, nil
		}
		b, err := json.Marshal(v)
		return string(b), eris.Wrap(err, "sqlite: marshal list")
	}
	allowed, err := listJSON(f.AllowedEquipment)
	if err != nil {
		return nil, err
	}
	tags, err := listJSON(f.Tags)
	if err != nil {
		return nil, err
	}
	images, err := listJSON(f.Images)
	if err != nil {
		return nil, err
	}
	hours, err := hoursArg(f.Hours)
	if err != nil {
		return nil, err
	}

	return []any{
		f.ID, f.RegionID, nullStr(f.LocalityID), f.Name, f.Slug,
		f.Author, f.Category, f.Address, f.Country, f.PostalCode,
		f.Phone, f.Email, f.Website, f.Description,
		f.Latitude, f.Longitude, f.FacilityType, f.RangeLength, f.LaneCount,
		f.Has3DCourse, f.HasFieldCourse, f.HasProShop, f.HasClubhouse,
		f.HasCamping, f.HasWashrooms, f.HasWifi,
		f.MembershipPrice, f.DropInPrice, f.EquipmentRental, f.RentalPriceRange, f.OffersLessons,
		allowed, f.Accessibility, f.HasParking, f.Status,
		tags, images, hours,
		f.CreatedAt, f.UpdatedAt,
	}, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanFacility(row scannable) (*model.Facility, error) {
	var f model.Facility
	var localityID sql.NullString
	var lat, lng, length, membership, dropIn sql.NullFloat64
	var lanes sql.NullInt64
	var b3d, bField, bShop, bClub, bCamp, bWash, bWifi, bRental, bLessons, bParking sql.NullBool
	var allowed, tags, images, hours sql.NullString

	err := row.Scan(
		&f.ID, &f.RegionID, &localityID, &f.Name, &f.Slug,
		&f.Author, &f.Category, &f.Address, &f.Country, &f.PostalCode,
		&f.Phone, &f.Email, &f.Website, &f.Description,
		&lat, &lng, &f.FacilityType, &length, &lanes,
		&b3d, &bField, &bShop, &bClub, &bCamp, &bWash, &bWifi,
		&membership, &dropIn, &bRental, &f.RentalPriceRange, &bLessons,
		&allowed, &f.Accessibility, &bParking, &f.Status,
		&tags, &images, &hours,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan facility")
	}

	f.LocalityID = localityID.String
	f.Latitude = nullFloat(lat)
	f.Longitude = nullFloat(lng)
	f.RangeLength = nullFloat(length)
	if lanes.Valid {
		n := int(lanes.Int64)
		f.LaneCount = &n
	}
	f.Has3DCourse = nullBool(b3d)
	f.HasFieldCourse = nullBool(bField)
	f.HasProShop = nullBool(bShop)
	f.HasClubhouse = nullBool(bClub)
	f.HasCamping = nullBool(bCamp)
	f.HasWashrooms = nullBool(bWash)
	f.HasWifi = nullBool(bWifi)
	f.EquipmentRental = nullBool(bRental)
	f.OffersLessons = nullBool(bLessons)
	f.HasParking = nullBool(bParking)

	if err := unmarshalList(allowed, &f.AllowedEquipment); err != nil {
		return nil, err
	}
	if err := unmarshalList(tags, &f.Tags); err != nil {
		return nil, err
	}
	if err := unmarshalList(images, &f.Images); err != nil {
		return nil, err
	}
	if hours.Valid && hours.String != "" {
		h, err := model.UnmarshalHours([]byte(hours.String))
		if err != nil {
			return nil, err
		}
		f.Hours = h
	}

	return &f, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}

func unmarshalList(v sql.NullString, dst *[]string) error {
	if !v.Valid || v.String == "" {
		return nil
	}
	return eris.Wrap(json.Unmarshal([]byte(v.String), dst), "sqlite: unmarshal list")
}
