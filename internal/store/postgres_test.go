package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/listings-api/listing"
)

var columns = []string{"id", "title", "address", "city", "price", "beds", "baths", "sqft", "description",
	"badges", "amenities", "accessibility_features", "image_url", "neighborhood", "school_district",
	"availability_date", "is_active", "veteran_preferred", "status", "lat", "lng", "created_at"}

const liveID = "6f1c7a5e-3f7d-4a0e-9d8b-2b1f5c0e9a11"

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(sqlx.NewDb(db, "sqlmock")), mock
}

func TestList_MapsNullsToAbsent(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()
	rows := sqlmock.NewRows(columns).
		AddRow(liveID, "Oak", "1 Oak St", "Tyler", 1200.0, 3.0, 2.0, 1400.0, "Nice",
			"{Quiet,\"Pet Friendly\"}", nil, "{Ramp}", "https://img/1.jpg", nil, "Tyler ISD",
			nil, true, nil, nil, nil, nil, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM properties ORDER BY created_at DESC")).WillReturnRows(rows)

	raws, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 1)

	p := listing.MapRecord(raws[0])
	assert.Equal(t, liveID, p.ID)
	assert.Equal(t, "$1,200", p.Price)
	assert.Equal(t, []string{"Quiet", "Pet Friendly"}, p.Badges)
	assert.Equal(t, []string{}, p.Amenities)
	assert.Equal(t, []string{"Ramp"}, p.AccessibilityFeatures)
	assert.Equal(t, listing.DefaultNeighborhood, p.Neighborhood)
	assert.Equal(t, "Tyler ISD", p.SchoolDistrict)
	assert.Equal(t, listing.StatusAvailable, p.Status)
	assert.Nil(t, p.Location)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_Error(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))

	_, err := s.List(context.Background())
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	s, mock := newMockStore(t)
	rows := sqlmock.NewRows(columns).
		AddRow(liveID, "Oak", "1 Oak St", "Tyler", 950.0, 2.0, 1.0, 900.0, nil,
			nil, nil, nil, "", nil, nil, nil, false, true, "maintenance", 32.3, -95.3, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM properties WHERE id = $1")).WithArgs(liveID).WillReturnRows(rows)

	raw, err := s.Get(context.Background(), liveID)
	require.NoError(t, err)
	p := listing.MapRecord(raw)
	assert.Equal(t, listing.StatusMaintenance, p.Status)
	assert.True(t, p.VeteranPreferred)
	require.NotNil(t, p.Location)
	assert.Equal(t, -95.3, p.Location.Lng)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT").WithArgs(liveID).WillReturnRows(sqlmock.NewRows(columns))

	_, err := s.Get(context.Background(), liveID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert(t *testing.T) {
	s, mock := newMockStore(t)
	hood := "Azalea"
	in := listing.NewRow{
		Title: "Oak", Address: "1 Oak St", City: "Tyler", Price: 1200, Beds: 3, Baths: 2, Sqft: 1400,
		Badges: []string{"New"}, Amenities: []string{}, AccessibilityFeatures: nil,
		Neighborhood: &hood, IsActive: true,
	}
	rows := sqlmock.NewRows(columns).
		AddRow(liveID, "Oak", "1 Oak St", "Tyler", 1200.0, 3.0, 2.0, 1400.0, "",
			"{New}", "{}", nil, "", "Azalea", nil, nil, true, false, nil, nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO properties")).
		WithArgs("Oak", "1 Oak St", "Tyler", 1200.0, int64(3), 2.0, int64(1400), "", "",
			"{\"New\"}", "{}", nil, nil, "Azalea", nil, false, true).
		WillReturnRows(rows)

	raw, err := s.Insert(context.Background(), in)
	require.NoError(t, err)
	p := listing.MapRecord(raw)
	assert.Equal(t, liveID, p.ID)
	assert.Equal(t, "Azalea", p.Neighborhood)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM properties WHERE id = $1")).
		WithArgs(liveID).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Delete(context.Background(), liveID))
	require.NoError(t, s.Delete(context.Background(), "not-a-uuid"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("CREATE EXTENSION").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS properties").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX").WillReturnError(errors.New("permission denied"))

	err := s.Migrate(context.Background())
	assert.ErrorContains(t, err, "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}
