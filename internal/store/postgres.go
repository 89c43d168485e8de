package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/db"
	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS regions (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	slug       TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS localities (
	id         TEXT PRIMARY KEY,
	region_id  TEXT NOT NULL REFERENCES regions(id),
	name       TEXT NOT NULL,
	slug       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
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
	latitude           DOUBLE PRECISION,
	longitude          DOUBLE PRECISION,
	facility_type      TEXT NOT NULL DEFAULT '',
	range_length_m     DOUBLE PRECISION,
	lane_count         INTEGER,
	has_3d_course      BOOLEAN,
	has_field_course   BOOLEAN,
	has_pro_shop       BOOLEAN,
	has_clubhouse      BOOLEAN,
	has_camping        BOOLEAN,
	has_washrooms      BOOLEAN,
	has_wifi           BOOLEAN,
	membership_price   DOUBLE PRECISION,
	drop_in_price      DOUBLE PRECISION,
	equipment_rental   BOOLEAN,
	rental_price_range TEXT NOT NULL DEFAULT '',
	offers_lessons     BOOLEAN,
	allowed_equipment  JSONB,
	accessibility      TEXT NOT NULL DEFAULT '',
	has_parking        BOOLEAN,
	status             TEXT NOT NULL DEFAULT '',
	tags               JSONB,
	images             JSONB,
	hours              JSONB,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (region_id, slug)
);

CREATE INDEX IF NOT EXISTS idx_localities_region ON localities(region_id);
CREATE INDEX IF NOT EXISTS idx_facilities_region ON facilities(region_id);
CREATE INDEX IF NOT EXISTS idx_facilities_locality ON facilities(locality_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetRegionBySlug(ctx context.Context, slug string) (*model.Region, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, slug, created_at FROM regions WHERE slug = $1`, slug)

	var r model.Region
	err := row.Scan(&r.ID, &r.Name, &r.Slug, &r.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get region")
	}
	return &r, nil
}

func (s *PostgresStore) CreateRegion(ctx context.Context, name, slug string) (*model.Region, error) {
	// Conflict-tolerant insert then re-read; the unique constraint on
	// slug makes concurrent creates converge on one row.
	_, err := db.InsertIgnore(ctx, s.pool, "regions",
		[]string{"id", "name", "slug", "created_at"},
		[]string{"slug"},
		[]any{uuid.New().String(), name, slug, time.Now().UTC()},
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert region %s", slug)
	}

	r, err := s.GetRegionBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, eris.Errorf("postgres: region %s missing after insert", slug)
	}
	return r, nil
}

func (s *PostgresStore) GetLocality(ctx context.Context, regionID, slug string) (*model.Locality, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, region_id, name, slug, created_at FROM localities WHERE region_id = $1 AND slug = $2`,
		regionID, slug)

	var l model.Locality
	err := row.Scan(&l.ID, &l.RegionID, &l.Name, &l.Slug, &l.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get locality")
	}
	return &l, nil
}

func (s *PostgresStore) CreateLocality(ctx context.Context, regionID, name, slug string) (*model.Locality, error) {
	_, err := db.InsertIgnore(ctx, s.pool, "localities",
		[]string{"id", "region_id", "name", "slug", "created_at"},
		[]string{"region_id", "slug"},
		[]any{uuid.New().String(), regionID, name, slug, time.Now().UTC()},
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert locality %s", slug)
	}

	l, err := s.GetLocality(ctx, regionID, slug)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, eris.Errorf("postgres: locality %s missing after insert", slug)
	}
	return l, nil
}

const pgFacilityColumns = `id, region_id, locality_id, name, slug,
	author, category, address, country, postal_code, phone, email, website, description,
	latitude, longitude, facility_type, range_length_m, lane_count,
	has_3d_course, has_field_course, has_pro_shop, has_clubhouse, has_camping, has_washrooms, has_wifi,
	membership_price, drop_in_price, equipment_rental, rental_price_range, offers_lessons,
	allowed_equipment, accessibility, has_parking, status, tags, images, hours,
	created_at, updated_at`

const pgFacilityPlaceholders = `$1, $2, $3, $4, $5,
	$6, $7, $8, $9, $10, $11, $12, $13, $14,
	$15, $16, $17, $18, $19,
	$20, $21, $22, $23, $24, $25, $26,
	$27, $28, $29, $30, $31,
	$32, $33, $34, $35, $36, $37, $38,
	$39, $40`

func (s *PostgresStore) GetFacility(ctx context.Context, regionID, slug string) (*model.Facility, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+pgFacilityColumns+` FROM facilities WHERE region_id = $1 AND slug = $2`,
		regionID, slug)

	f, err := scanPgFacility(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return f, err
}

func (s *PostgresStore) CreateFacility(ctx context.Context, f *model.Facility) (*model.Facility, error) {
	out := *f
	out.ID = uuid.New().String()
	now := time.Now().UTC()
	out.CreatedAt = now
	out.UpdatedAt = now

	args, err := pgFacilityArgs(&out)
	if err != nil {
		return nil, err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO facilities (`+pgFacilityColumns+`) VALUES (`+pgFacilityPlaceholders+`)`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert facility %s", f.Slug)
	}
	return &out, nil
}

func (s *PostgresStore) UpdateFacility(ctx context.Context, f *model.Facility) error {
	f.UpdatedAt = time.Now().UTC()

	allowed, err := listArg(f.AllowedEquipment)
	if err != nil {
		return err
	}
	tags, err := listArg(f.Tags)
	if err != nil {
		return err
	}
	images, err := listArg(f.Images)
	if err != nil {
		return err
	}
	hours, err := model.MarshalHours(f.Hours)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE facilities SET
			locality_id = $1, name = $2,
			author = $3, category = $4, address = $5, country = $6, postal_code = $7,
			phone = $8, email = $9, website = $10, description = $11,
			latitude = $12, longitude = $13, facility_type = $14, range_length_m = $15, lane_count = $16,
			has_3d_course = $17, has_field_course = $18, has_pro_shop = $19, has_clubhouse = $20,
			has_camping = $21, has_washrooms = $22, has_wifi = $23,
			membership_price = $24, drop_in_price = $25, equipment_rental = $26, rental_price_range = $27, offers_lessons = $28,
			allowed_equipment = $29, accessibility = $30, has_parking = $31, status = $32,
			tags = $33, images = $34, hours = $35, updated_at = $36
		WHERE id = $37`,
		pgNullStr(f.LocalityID), f.Name,
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
		return eris.Wrapf(err, "postgres: update facility %s", f.Slug)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("facility not found: %s", f.ID)
	}
	return nil
}

func (s *PostgresStore) ListFacilities(ctx context.Context, filter FacilityFilter) ([]model.Facility, error) {
	query := `SELECT ` + pgFacilityColumns + ` FROM facilities`
	var args []any
	idx := 1

	if filter.RegionSlug != "" {
		query += ` WHERE region_id = (SELECT id FROM regions WHERE slug = $1)`
		args = append(args, filter.RegionSlug)
		idx++
	}
	query += ` ORDER BY name`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT $` + strconv.Itoa(idx)
	args = append(args, limit)
	idx++

	if filter.Offset > 0 {
		query += ` OFFSET $` + strconv.Itoa(idx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list facilities")
	}
	defer rows.Close()

	var out []model.Facility
	for rows.Next() {
		f, err := scanPgFacility(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list facilities iterate")
}

// helpers

func pgNullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func listArg(v []string) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	return b, eris.Wrap(err, "postgres: marshal list")
}

func pgFacilityArgs(f *model.Facility) ([]any, error) {
	allowed, err := listArg(f.AllowedEquipment)
	if err != nil {
		return nil, err
	}
	tags, err := listArg(f.Tags)
	if err != nil {
		return nil, err
	}
	images, err := listArg(f.Images)
	if err != nil {
		return nil, err
	}
	hours, err := model.MarshalHours(f.Hours)
	if err != nil {
		return nil, err
	}

	return []any{
		f.ID, f.RegionID, pgNullStr(f.LocalityID), f.Name, f.Slug,
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

func scanPgFacility(row pgx.Row) (*model.Facility, error) {
	var f model.Facility
	var localityID *string
	var allowed, tags, images, hours []byte

	err := row.Scan(
		&f.ID, &f.RegionID, &localityID, &f.Name, &f.Slug,
		&f.Author, &f.Category, &f.Address, &f.Country, &f.PostalCode,
		&f.Phone, &f.Email, &f.Website, &f.Description,
		&f.Latitude, &f.Longitude, &f.FacilityType, &f.RangeLength, &f.LaneCount,
		&f.Has3DCourse, &f.HasFieldCourse, &f.HasProShop, &f.HasClubhouse,
		&f.HasCamping, &f.HasWashrooms, &f.HasWifi,
		&f.MembershipPrice, &f.DropInPrice, &f.EquipmentRental, &f.RentalPriceRange, &f.OffersLessons,
		&allowed, &f.Accessibility, &f.HasParking, &f.Status,
		&tags, &images, &hours,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan facility")
	}

	if localityID != nil {
		f.LocalityID = *localityID
	}
	if err := unmarshalJSONList(allowed, &f.AllowedEquipment); err != nil {
		return nil, err
	}
	if err := unmarshalJSONList(tags, &f.Tags); err != nil {
		return nil, err
	}
	if err := unmarshalJSONList(images, &f.Images); err != nil {
		return nil, err
	}
	if len(hours) > 0 {
		h, err := model.UnmarshalHours(hours)
		if err != nil {
			return nil, err
		}
		f.Hours = h
	}

	return &f, nil
}

func unmarshalJSONList(data []byte, dst *[]string) error {
	if len(data) == 0 {
		return nil
	}
	return eris.Wrap(json.Unmarshal(data, dst), "postgres: unmarshal list")
}
