package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/yourorg/listings-api/community"
	"github.com/yourorg/listings-api/listing"
)

type metricRow struct {
	ID           string         `db:"id"`
	Label        string         `db:"label"`
	CurrentValue float64        `db:"current_value"`
	IconName     sql.NullString `db:"icon_name"`
}

// ListMetrics returns every impact metric ordered by key.
func (s *Store) ListMetrics(ctx context.Context) ([]listing.RawRecord, error) {
	var rows []metricRow
	q := `SELECT id, label, current_value, icon_name FROM impact_metrics ORDER BY metric_key`
	if err := s.DB.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	out := make([]listing.RawRecord, 0, len(rows))
	for _, r := range rows {
		raw := listing.RawRecord{"id": r.ID, "label": r.Label, "current_value": r.CurrentValue}
		putString(raw, "icon_name", r.IconName)
		out = append(out, raw)
	}
	return out, nil
}

const requestColumns = `r.id, r.resident_id, r.property_id, r.issue_category, r.description,
	r.priority, r.status, r.photo_url, r.created_at`

type requestRow struct {
	ID            string         `db:"id"`
	ResidentID    string         `db:"resident_id"`
	PropertyID    string         `db:"property_id"`
	IssueCategory string         `db:"issue_category"`
	Description   string         `db:"description"`
	Priority      sql.NullString `db:"priority"`
	Status        sql.NullString `db:"status"`
	PhotoURL      sql.NullString `db:"photo_url"`
	CreatedAt     time.Time      `db:"created_at"`

	// Set only by the joined read.
	PropertyTitle   sql.NullString `db:"property_title"`
	PropertyAddress sql.NullString `db:"property_address"`
}

func (r requestRow) raw() listing.RawRecord {
	out := listing.RawRecord{
		"id":             r.ID,
		"resident_id":    r.ResidentID,
		"property_id":    r.PropertyID,
		"issue_category": r.IssueCategory,
		"description":    r.Description,
		"created_at":     r.CreatedAt.UTC().Format(time.RFC3339),
	}
	putString(out, "priority", r.Priority)
	putString(out, "status", r.Status)
	putString(out, "photo_url", r.PhotoURL)
	if r.PropertyTitle.Valid || r.PropertyAddress.Valid {
		out["properties"] = map[string]any{
			"title":   r.PropertyTitle.String,
			"address": r.PropertyAddress.String,
		}
	}
	return out
}

// InsertMaintenanceRequest files one request and returns it as stored.
func (s *Store) InsertMaintenanceRequest(ctx context.Context, in community.NewRequest) (listing.RawRecord, error) {
	var row requestRow
	err := s.DB.QueryRowxContext(ctx, `
        INSERT INTO maintenance_requests AS r (resident_id, property_id, issue_category, description, priority, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING `+requestColumns,
		in.ResidentID, in.PropertyID, in.IssueCategory, in.Description, nullString(in.Priority), in.Status,
	).StructScan(&row)
	if err != nil {
		return nil, err
	}
	return row.raw(), nil
}

// ListMaintenanceRequests returns a resident's requests, newest first, each
// with its property's title and address. Ids that are not UUIDs have no
// requests.
func (s *Store) ListMaintenanceRequests(ctx context.Context, residentID string) ([]listing.RawRecord, error) {
	if _, err := uuid.Parse(residentID); err != nil {
		return []listing.RawRecord{}, nil
	}
	var rows []requestRow
	q := `SELECT ` + requestColumns + `, p.title AS property_title, p.address AS property_address
        FROM maintenance_requests r
        LEFT JOIN properties p ON p.id = r.property_id
        WHERE r.resident_id = $1
        ORDER BY r.created_at DESC`
	if err := s.DB.SelectContext(ctx, &rows, q, residentID); err != nil {
		return nil, err
	}
	out := make([]listing.RawRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.raw())
	}
	return out, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
