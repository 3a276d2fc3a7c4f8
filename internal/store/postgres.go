package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/yourorg/listings-api/listing"
)

var ErrNotFound = errors.New("store: property not found")

const propertyColumns = `id, title, address, city, price, beds, baths, sqft, description,
	badges, amenities, accessibility_features, image_url, neighborhood, school_district,
	availability_date, is_active, veteran_preferred, status, lat, lng, created_at`

type Store struct{ DB *sqlx.DB }

func Open(dsn string) (*Store, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{DB: db}, nil
}

// New wraps an existing handle.
func New(db *sqlx.DB) *Store { return &Store{DB: db} }

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Close() error { return s.DB.Close() }

func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE TABLE IF NOT EXISTS properties (
            id                     UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            title                  TEXT NOT NULL,
            address                TEXT NOT NULL,
            city                   TEXT NOT NULL,
            price                  NUMERIC NOT NULL DEFAULT 0,
            beds                   SMALLINT NOT NULL DEFAULT 0,
            baths                  NUMERIC NOT NULL DEFAULT 0,
            sqft                   INTEGER NOT NULL DEFAULT 0,
            description            TEXT,
            badges                 TEXT[],
            amenities              TEXT[],
            accessibility_features TEXT[],
            image_url              TEXT NOT NULL DEFAULT '',
            neighborhood           TEXT,
            school_district        TEXT,
            availability_date      TEXT,
            is_active              BOOLEAN DEFAULT true,
            veteran_preferred      BOOLEAN DEFAULT false,
            status                 TEXT,
            lat                    DOUBLE PRECISION,
            lng                    DOUBLE PRECISION,
            created_at             TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_properties_created_at ON properties(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_properties_city ON properties(lower(city));`,
		`CREATE TABLE IF NOT EXISTS impact_metrics (
            id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            metric_key    TEXT NOT NULL UNIQUE,
            label         TEXT NOT NULL,
            current_value NUMERIC NOT NULL DEFAULT 0,
            icon_name     TEXT,
            last_updated  TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE TABLE IF NOT EXISTS maintenance_requests (
            id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            resident_id    UUID NOT NULL,
            property_id    UUID NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
            issue_category TEXT NOT NULL,
            description    TEXT NOT NULL,
            priority       TEXT,
            status         TEXT DEFAULT 'open',
            photo_url      TEXT,
            created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_maintenance_resident ON maintenance_requests(resident_id, created_at DESC);`,
	}
	for _, q := range stmts {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// propertyRow mirrors the properties table. Nullable columns stay nullable so
// that absent values reach the mapper as absent.
type propertyRow struct {
	ID                    string          `db:"id"`
	Title                 string          `db:"title"`
	Address               string          `db:"address"`
	City                  string          `db:"city"`
	Price                 sql.NullFloat64 `db:"price"`
	Beds                  sql.NullFloat64 `db:"beds"`
	Baths                 sql.NullFloat64 `db:"baths"`
	Sqft                  sql.NullFloat64 `db:"sqft"`
	Description           sql.NullString  `db:"description"`
	Badges                pq.StringArray  `db:"badges"`
	Amenities             pq.StringArray  `db:"amenities"`
	AccessibilityFeatures pq.StringArray  `db:"accessibility_features"`
	ImageURL              sql.NullString  `db:"image_url"`
	Neighborhood          sql.NullString  `db:"neighborhood"`
	SchoolDistrict        sql.NullString  `db:"school_district"`
	AvailabilityDate      sql.NullString  `db:"availability_date"`
	IsActive              sql.NullBool    `db:"is_active"`
	VeteranPreferred      sql.NullBool    `db:"veteran_preferred"`
	Status                sql.NullString  `db:"status"`
	Lat                   sql.NullFloat64 `db:"lat"`
	Lng                   sql.NullFloat64 `db:"lng"`
	CreatedAt             time.Time       `db:"created_at"`
}

func (r propertyRow) raw() listing.RawRecord {
	out := listing.RawRecord{
		"id":         r.ID,
		"title":      r.Title,
		"address":    r.Address,
		"city":       r.City,
		"created_at": r.CreatedAt,
	}
	putFloat(out, "price", r.Price)
	putFloat(out, "beds", r.Beds)
	putFloat(out, "baths", r.Baths)
	putFloat(out, "sqft", r.Sqft)
	putFloat(out, "lat", r.Lat)
	putFloat(out, "lng", r.Lng)
	putString(out, "description", r.Description)
	putString(out, "image_url", r.ImageURL)
	putString(out, "neighborhood", r.Neighborhood)
	putString(out, "school_district", r.SchoolDistrict)
	putString(out, "availability_date", r.AvailabilityDate)
	putString(out, "status", r.Status)
	if r.Badges != nil {
		out["badges"] = []string(r.Badges)
	}
	if r.Amenities != nil {
		out["amenities"] = []string(r.Amenities)
	}
	if r.AccessibilityFeatures != nil {
		out["accessibility_features"] = []string(r.AccessibilityFeatures)
	}
	if r.IsActive.Valid {
		out["is_active"] = r.IsActive.Bool
	}
	if r.VeteranPreferred.Valid {
		out["veteran_preferred"] = r.VeteranPreferred.Bool
	}
	return out
}

// List returns every property row, newest first.
func (s *Store) List(ctx context.Context) ([]listing.RawRecord, error) {
	var rows []propertyRow
	q := `SELECT ` + propertyColumns + ` FROM properties ORDER BY created_at DESC`
	if err := s.DB.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	out := make([]listing.RawRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.raw())
	}
	return out, nil
}

// Get returns one row or ErrNotFound. Ids that are not UUIDs cannot exist in
// the table and are answered without a query.
func (s *Store) Get(ctx context.Context, id string) (listing.RawRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var row propertyRow
	q := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	if err := s.DB.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.raw(), nil
}

// Insert writes one row and returns it as stored.
func (s *Store) Insert(ctx context.Context, in listing.NewRow) (listing.RawRecord, error) {
	var row propertyRow
	err := s.DB.QueryRowxContext(ctx, `
        INSERT INTO properties (title, address, city, price, beds, baths, sqft, image_url, description,
            badges, amenities, accessibility_features, school_district, neighborhood, availability_date,
            veteran_preferred, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        RETURNING `+propertyColumns,
		in.Title, in.Address, in.City, in.Price, in.Beds, in.Baths, in.Sqft, in.ImageURL, in.Description,
		pq.Array(in.Badges), pq.Array(in.Amenities), pq.Array(in.AccessibilityFeatures),
		in.SchoolDistrict, in.Neighborhood, in.AvailabilityDate, in.VeteranPreferred, in.IsActive,
	).StructScan(&row)
	if err != nil {
		return nil, err
	}
	return row.raw(), nil
}

// Delete removes a row. A missing id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	_, err := s.DB.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	return err
}

func putFloat(m listing.RawRecord, key string, v sql.NullFloat64) {
	if v.Valid {
		m[key] = v.Float64
	}
}

func putString(m listing.RawRecord, key string, v sql.NullString) {
	if v.Valid {
		m[key] = v.String
	}
}
