package community

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/listings-api/listing"
)

func TestMapMetric(t *testing.T) {
	m := MapMetric(listing.RawRecord{
		"id":            "m1",
		"label":         "Families Housed",
		"current_value": json.Number("150"),
		"icon_name":     "home",
	})

	assert.Equal(t, Metric{
		ID:          "m1",
		Label:       "Families Housed",
		Value:       "150",
		Icon:        "home",
		Description: "Updated via live database",
		Trend:       TrendNeutral,
	}, m)
}

func TestMapMetric_Defaults(t *testing.T) {
	m := MapMetric(listing.RawRecord{"id": "m2", "label": "Wealth", "current_value": 2.5})

	assert.Equal(t, "chart", m.Icon)
	assert.Equal(t, "2.5", m.Value)
	assert.Equal(t, "", m.TrendValue)
}

func TestMapRequest_WithJoinedProperty(t *testing.T) {
	var raw listing.RawRecord
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "r1",
		"resident_id": "u1",
		"property_id": "p1",
		"issue_category": "Plumbing",
		"description": "Leaking sink",
		"priority": "high",
		"status": "in_progress",
		"created_at": "2024-05-01T10:00:00+00:00",
		"properties": {"title": "Oak Cottage", "address": "12 Oak St"}
	}`), &raw))

	r := MapRequest(raw)

	assert.Equal(t, "r1", r.ID)
	assert.Equal(t, "Plumbing", r.IssueCategory)
	assert.Equal(t, "in_progress", r.Status)
	assert.Equal(t, "2024-05-01T10:00:00+00:00", r.CreatedAt)
	require.NotNil(t, r.Property)
	assert.Equal(t, PropertyRef{Title: "Oak Cottage", Address: "12 Oak St"}, *r.Property)
}

func TestMapRequest_MissingStatusIsOpen(t *testing.T) {
	r := MapRequest(listing.RawRecord{"id": "r2", "properties": nil})

	assert.Equal(t, RequestStatusOpen, r.Status)
	assert.Nil(t, r.Property)
}

func TestStaticData(t *testing.T) {
	metrics := FallbackMetrics()
	require.Len(t, metrics, 4)
	assert.Equal(t, "Families Housed", metrics[0].Label)
	assert.Equal(t, "$2.4M", metrics[3].Value)

	metrics[0].Label = "changed"
	assert.Equal(t, "Families Housed", FallbackMetrics()[0].Label)

	total := 0
	for _, s := range FinancialBreakdown() {
		total += s.Percentage
	}
	assert.Equal(t, 100, total)

	ids := []string{}
	for _, s := range Standards() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"kitchen", "flooring", "hvac", "security"}, ids)
}
