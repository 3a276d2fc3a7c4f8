package community

import (
	"strconv"

	"github.com/yourorg/listings-api/listing"
)

const (
	DefaultMetricIcon = "chart"
	liveDescription   = "Updated via live database"
)

// MapMetric turns an impact_metrics row into a Metric. Live rows carry no
// trend.
func MapMetric(raw listing.RawRecord) Metric {
	m := Metric{
		ID:          raw.Text("id"),
		Label:       raw.Text("label"),
		Icon:        raw.Text("icon_name"),
		Description: liveDescription,
		Trend:       TrendNeutral,
	}
	if m.Icon == "" {
		m.Icon = DefaultMetricIcon
	}
	if v, ok := raw.Number("current_value"); ok {
		m.Value = strconv.FormatFloat(v, 'f', -1, 64)
	} else {
		m.Value = raw.Text("current_value")
	}
	return m
}

// MapRequest turns a maintenance_requests row into a MaintenanceRequest. The
// joined property arrives as a nested object under "properties".
func MapRequest(raw listing.RawRecord) MaintenanceRequest {
	r := MaintenanceRequest{
		ID:            raw.Text("id"),
		ResidentID:    raw.Text("resident_id"),
		PropertyID:    raw.Text("property_id"),
		IssueCategory: raw.Text("issue_category"),
		Description:   raw.Text("description"),
		Priority:      raw.Text("priority"),
		Status:        raw.Text("status"),
		PhotoURL:      raw.Text("photo_url"),
		CreatedAt:     raw.Text("created_at"),
	}
	if r.Status == "" {
		r.Status = RequestStatusOpen
	}
	if prop, ok := raw["properties"].(map[string]any); ok {
		ref := listing.RawRecord(prop)
		r.Property = &PropertyRef{Title: ref.Text("title"), Address: ref.Text("address")}
	}
	return r
}
