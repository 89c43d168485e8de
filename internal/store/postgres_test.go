package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresFromPool(mock), mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS regions`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRegionBySlug_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, name, slug, created_at FROM regions WHERE slug = \$1`).
		WithArgs("nowhere").
		WillReturnError(pgx.ErrNoRows)

	r, err := s.GetRegionBySlug(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRegionBySlug_Found(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, name, slug, created_at FROM regions WHERE slug = \$1`).
		WithArgs("ontario").
		WillReturnRows(
			pgxmock.NewRows([]string{"id", "name", "slug", "created_at"}).
				AddRow("r1", "Ontario", "ontario", time.Now()),
		)

	r, err := s.GetRegionBySlug(context.Background(), "ontario")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "r1", r.ID)
	assert.Equal(t, "Ontario", r.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateRegion(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO "regions" .+ ON CONFLICT \("slug"\) DO NOTHING`).
		WithArgs(pgxmock.AnyArg(), "Ontario", "ontario", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT id, name, slug, created_at FROM regions WHERE slug = \$1`).
		WithArgs("ontario").
		WillReturnRows(
			pgxmock.NewRows([]string{"id", "name", "slug", "created_at"}).
				AddRow("r1", "Ontario", "ontario", time.Now()),
		)

	r, err := s.CreateRegion(context.Background(), "Ontario", "ontario")
	require.NoError(t, err)
	assert.Equal(t, "r1", r.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateRegion_LostRaceStillReads(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	// Insert hits the unique constraint and writes nothing; the
	// follow-up read returns the winner's row.
	mock.ExpectExec(`INSERT INTO "regions"`).
		WithArgs(pgxmock.AnyArg(), "Ontario", "ontario", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery(`SELECT id, name, slug, created_at FROM regions`).
		WithArgs("ontario").
		WillReturnRows(
			pgxmock.NewRows([]string{"id", "name", "slug", "created_at"}).
				AddRow("winner", "Ontario", "ontario", time.Now()),
		)

	r, err := s.CreateRegion(context.Background(), "Ontario", "ontario")
	require.NoError(t, err)
	assert.Equal(t, "winner", r.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateRegion_MissingAfterInsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO "regions"`).
		WithArgs(pgxmock.AnyArg(), "Ontario", "ontario", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery(`SELECT id, name, slug, created_at FROM regions`).
		WithArgs("ontario").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.CreateRegion(context.Background(), "Ontario", "ontario")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing after insert")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetLocality_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, region_id, name, slug, created_at FROM localities WHERE region_id = \$1 AND slug = \$2`).
		WithArgs("r1", "toronto").
		WillReturnError(pgx.ErrNoRows)

	l, err := s.GetLocality(context.Background(), "r1", "toronto")
	require.NoError(t, err)
	assert.Nil(t, l)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateLocality(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO "localities" .+ ON CONFLICT \("region_id", "slug"\) DO NOTHING`).
		WithArgs(pgxmock.AnyArg(), "r1", "Toronto", "toronto", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT id, region_id, name, slug, created_at FROM localities`).
		WithArgs("r1", "toronto").
		WillReturnRows(
			pgxmock.NewRows([]string{"id", "region_id", "name", "slug", "created_at"}).
				AddRow("l1", "r1", "Toronto", "toronto", time.Now()),
		)

	l, err := s.CreateLocality(context.Background(), "r1", "Toronto", "toronto")
	require.NoError(t, err)
	assert.Equal(t, "l1", l.ID)
	assert.Equal(t, "r1", l.RegionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetFacility_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM facilities WHERE region_id = \$1 AND slug = \$2`).
		WithArgs("r1", "no-such-range").
		WillReturnError(pgx.ErrNoRows)

	f, err := s.GetFacility(context.Background(), "r1", "no-such-range")
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateFacility(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO facilities`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	in := &model.Facility{
		RegionID:     "r1",
		Name:         "North Park Archery",
		Slug:         "north-park-archery",
		FacilityType: "Indoor",
		Hours:        model.ScheduleHours{"monday": "9am-9pm"},
	}
	out, err := s.CreateFacility(context.Background(), in)
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.False(t, out.CreatedAt.IsZero())
	assert.Empty(t, in.ID, "input record stays untouched")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateFacility(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE facilities SET`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	f := &model.Facility{ID: "f1", RegionID: "r1", Name: "North Park Archery", Slug: "north-park-archery"}
	require.NoError(t, s.UpdateFacility(context.Background(), f))
	assert.False(t, f.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateFacility_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE facilities SET`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	f := &model.Facility{ID: "gone", Name: "Gone", Slug: "gone"}
	err := s.UpdateFacility(context.Background(), f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "facility not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListFacilities_RegionFilter(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM facilities WHERE region_id = \(SELECT id FROM regions WHERE slug = \$1\) ORDER BY name LIMIT \$2`).
		WithArgs("ontario", 50).
		WillReturnRows(pgxmock.NewRows(pgFacilityColumnNames()))

	out, err := s.ListFacilities(context.Background(), FacilityFilter{RegionSlug: "ontario", Limit: 50})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListFacilities_DefaultLimitAndOffset(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM facilities ORDER BY name LIMIT \$1 OFFSET \$2`).
		WithArgs(100, 20).
		WillReturnRows(pgxmock.NewRows(pgFacilityColumnNames()))

	out, err := s.ListFacilities(context.Background(), FacilityFilter{Offset: 20})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func pgFacilityColumnNames() []string {
	return []string{
		"id", "region_id", "locality_id", "name", "slug",
		"author", "category", "address", "country", "postal_code", "phone", "email", "website", "description",
		"latitude", "longitude", "facility_type", "range_length_m", "lane_count",
		"has_3d_course", "has_field_course", "has_pro_shop", "has_clubhouse", "has_camping", "has_washrooms", "has_wifi",
		"membership_price", "drop_in_price", "equipment_rental", "rental_price_range", "offers_lessons",
		"allowed_equipment", "accessibility", "has_parking", "status", "tags", "images", "hours",
		"created_at", "updated_at",
	}
}
